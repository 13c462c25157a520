package keystore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joncooperworks/keywallet/crypto"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS names (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT    NOT NULL UNIQUE,
	scheme TEXT    NOT NULL,
	secret BLOB    NOT NULL
)`

// SQLStore keeps names and sealed secrets in one SQLite table, so every
// operation is a single statement and needs no compensation.
type SQLStore struct {
	db     *sql.DB
	vault  *Vault
	logger *slog.Logger
}

// OpenSQLStore opens or creates the database at path and unlocks it with password.
func OpenSQLStore(path, password string, opts ...Option) (*SQLStore, error) {
	o := newOptions(opts)
	db, err := openDatabase(path, recordsSchema)
	if err != nil {
		return nil, err
	}
	vault, err := openVault(db, password, o.kdf)
	if err != nil {
		db.Close()
		return nil, err
	}
	o.logger.Debug("opened key store", slog.String("path", path))
	return &SQLStore{db: db, vault: vault, logger: o.logger}, nil
}

func (s *SQLStore) Create(r Record) error {
	if err := validateRecord(r); err != nil {
		return err
	}
	sealed, err := s.vault.Seal(r.Secret, secretAAD(r.Name, r.Scheme))
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO names (name, scheme, secret) VALUES (?, ?, ?)`, r.Name, r.Scheme.String(), sealed)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrNameAlreadyExists, r.Name)
	}
	if err != nil {
		return backendErr("insert key", err)
	}
	return nil
}

func (s *SQLStore) Replace(r Record) error {
	if err := validateRecord(r); err != nil {
		return err
	}
	sealed, err := s.vault.Seal(r.Secret, secretAAD(r.Name, r.Scheme))
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO names (name, scheme, secret) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET scheme = excluded.scheme, secret = excluded.secret`,
		r.Name, r.Scheme.String(), sealed)
	if err != nil {
		return backendErr("replace key", err)
	}
	return nil
}

func (s *SQLStore) Get(name string) (Record, error) {
	var (
		tag    string
		sealed []byte
	)
	err := s.db.QueryRow(`SELECT scheme, secret FROM names WHERE name = ?`, name).Scan(&tag, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}
	if err != nil {
		return Record{}, backendErr("read key", err)
	}
	scheme, err := crypto.ParseScheme(tag)
	if err != nil {
		return Record{}, fmt.Errorf("key %q: %w", name, err)
	}
	secret, err := s.vault.Open(sealed, secretAAD(name, scheme))
	if err != nil {
		return Record{}, fmt.Errorf("key %q: %w", name, err)
	}
	return Record{Name: name, Scheme: scheme, Secret: secret}, nil
}

func (s *SQLStore) Delete(name string) error {
	return deleteName(s.db, name)
}

func (s *SQLStore) List() ([]Entry, error) {
	return listNames(s.db)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
