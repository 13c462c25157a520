package keystore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joncooperworks/keywallet/crypto"
	"github.com/mattn/go-sqlite3"
)

const namesSchema = `
CREATE TABLE IF NOT EXISTS names (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT    NOT NULL UNIQUE,
	scheme TEXT    NOT NULL
)`

// MetadataStore holds the name and scheme of each key kept in a DualStore.
type MetadataStore interface {
	// Insert adds an entry, failing with ErrNameAlreadyExists if the name is taken.
	Insert(e Entry) error
	// Upsert adds or overwrites the entry for e.Name.
	Upsert(e Entry) error
	// Lookup returns the entry for name, or ErrNameNotFound.
	Lookup(name string) (Entry, error)
	// Remove deletes the entry for name, or returns ErrNameNotFound.
	Remove(name string) error
	List() ([]Entry, error)
	Close() error
}

// NameStore is the SQLite metadata table of a DualStore. The database also
// holds the vault parameters used to seal the secrets kept elsewhere.
type NameStore struct {
	db    *sql.DB
	vault *Vault
}

// OpenNameStore opens or creates the metadata database at path.
func OpenNameStore(path, password string, opts ...Option) (*NameStore, error) {
	o := newOptions(opts)
	db, err := openDatabase(path, namesSchema)
	if err != nil {
		return nil, err
	}
	vault, err := openVault(db, password, o.kdf)
	if err != nil {
		db.Close()
		return nil, err
	}
	o.logger.Debug("opened name store", slog.String("path", path))
	return &NameStore{db: db, vault: vault}, nil
}

// Vault returns the vault unlocked by the store password.
func (n *NameStore) Vault() *Vault {
	return n.vault
}

func (n *NameStore) Insert(e Entry) error {
	_, err := n.db.Exec(`INSERT INTO names (name, scheme) VALUES (?, ?)`, e.Name, e.Scheme.String())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrNameAlreadyExists, e.Name)
	}
	if err != nil {
		return backendErr("insert name", err)
	}
	return nil
}

func (n *NameStore) Upsert(e Entry) error {
	_, err := n.db.Exec(`INSERT INTO names (name, scheme) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET scheme = excluded.scheme`, e.Name, e.Scheme.String())
	if err != nil {
		return backendErr("upsert name", err)
	}
	return nil
}

func (n *NameStore) Lookup(name string) (Entry, error) {
	var tag string
	err := n.db.QueryRow(`SELECT scheme FROM names WHERE name = ?`, name).Scan(&tag)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}
	if err != nil {
		return Entry{}, backendErr("lookup name", err)
	}
	scheme, err := crypto.ParseScheme(tag)
	if err != nil {
		return Entry{}, fmt.Errorf("key %q: %w", name, err)
	}
	return Entry{Name: name, Scheme: scheme}, nil
}

func (n *NameStore) Remove(name string) error {
	return deleteName(n.db, name)
}

func (n *NameStore) List() ([]Entry, error) {
	return listNames(n.db)
}

func (n *NameStore) Close() error {
	return n.db.Close()
}

// openDatabase opens a SQLite database limited to one connection and applies schema.
func openDatabase(path, schema string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, backendErr("open database", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, backendErr("open database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, backendErr("create schema", err)
	}
	return db, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func deleteName(db *sql.DB, name string) error {
	result, err := db.Exec(`DELETE FROM names WHERE name = ?`, name)
	if err != nil {
		return backendErr("delete name", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return backendErr("delete name", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}
	return nil
}

func listNames(db *sql.DB) ([]Entry, error) {
	rows, err := db.Query(`SELECT name, scheme FROM names ORDER BY name`)
	if err != nil {
		return nil, backendErr("list names", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var name, tag string
		if err := rows.Scan(&name, &tag); err != nil {
			return nil, backendErr("list names", err)
		}
		scheme, err := crypto.ParseScheme(tag)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Scheme: scheme})
	}
	if err := rows.Err(); err != nil {
		return nil, backendErr("list names", err)
	}
	return entries, nil
}
