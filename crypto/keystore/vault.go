package keystore

import (
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joncooperworks/keywallet/crypto"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	vaultSaltSize = 16
	vaultKDF      = "argon2id"
)

// vaultCheck is sealed at initialisation so a wrong password is detected on open.
var vaultCheck = []byte("keywallet vault v1")

// KDFParams are the argon2id cost parameters of a vault.
type KDFParams struct {
	Time     uint32 `yaml:"time"`
	MemoryKB uint32 `yaml:"memoryKB"`
	Threads  uint8  `yaml:"threads"`
}

// DefaultKDFParams is the interactive argon2id cost.
var DefaultKDFParams = KDFParams{Time: 2, MemoryKB: 64 * 1024, Threads: 1}

// Validate rejects parameters argon2 cannot use.
func (p KDFParams) Validate() error {
	if p.Time == 0 || p.Threads == 0 || p.MemoryKB == 0 {
		return fmt.Errorf("invalid kdf parameters: time=%d memoryKB=%d threads=%d", p.Time, p.MemoryKB, p.Threads)
	}
	return nil
}

const vaultSchema = `
CREATE TABLE IF NOT EXISTS meta (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	kdf           TEXT    NOT NULL,
	kdf_time      INTEGER NOT NULL,
	kdf_memory_kb INTEGER NOT NULL,
	kdf_threads   INTEGER NOT NULL,
	salt          BLOB    NOT NULL,
	verifier      BLOB    NOT NULL
)`

// Vault seals secrets with a key derived from the store password.
// Sealed blobs are nonce || XChaCha20-Poly1305 ciphertext.
type Vault struct {
	aead cipher.AEAD
}

// openVault unlocks the vault recorded in db, initialising it with params on first use.
func openVault(db *sql.DB, password string, params KDFParams) (*Vault, error) {
	if _, err := db.Exec(vaultSchema); err != nil {
		return nil, backendErr("create meta table", err)
	}

	var (
		kdf      string
		stored   KDFParams
		salt     []byte
		verifier []byte
	)
	err := db.QueryRow(`SELECT kdf, kdf_time, kdf_memory_kb, kdf_threads, salt, verifier FROM meta WHERE id = 1`).
		Scan(&kdf, &stored.Time, &stored.MemoryKB, &stored.Threads, &salt, &verifier)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return initVault(db, password, params)
	case err != nil:
		return nil, backendErr("read vault parameters", err)
	}
	if kdf != vaultKDF {
		return nil, fmt.Errorf("unsupported vault kdf %q", kdf)
	}

	v, err := newVault(password, salt, stored)
	if err != nil {
		return nil, err
	}
	if _, err := v.Open(verifier, nil); err != nil {
		return nil, ErrIncorrectPassword
	}
	return v, nil
}

func initVault(db *sql.DB, password string, params KDFParams) (*Vault, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	salt := make([]byte, vaultSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	v, err := newVault(password, salt, params)
	if err != nil {
		return nil, err
	}
	verifier, err := v.Seal(vaultCheck, nil)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`INSERT INTO meta (id, kdf, kdf_time, kdf_memory_kb, kdf_threads, salt, verifier) VALUES (1, ?, ?, ?, ?, ?, ?)`,
		vaultKDF, params.Time, params.MemoryKB, params.Threads, salt, verifier)
	if err != nil {
		return nil, backendErr("store vault parameters", err)
	}
	return v, nil
}

func newVault(password string, salt []byte, params KDFParams) (*Vault, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKB, params.Threads, chacha20poly1305.KeySize)
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &Vault{aead: aead}, nil
}

// Seal encrypts plaintext bound to aad.
func (v *Vault) Seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, v.aead.NonceSize(), v.aead.NonceSize()+len(plaintext)+v.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return v.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open decrypts a blob produced by Seal with the same aad.
func (v *Vault) Open(sealed, aad []byte) ([]byte, error) {
	if len(sealed) < v.aead.NonceSize()+v.aead.Overhead() {
		return nil, errors.New("sealed secret too short")
	}
	nonce, ciphertext := sealed[:v.aead.NonceSize()], sealed[v.aead.NonceSize():]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, errors.New("sealed secret failed authentication")
	}
	return plaintext, nil
}
