package keystore

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joncooperworks/keywallet/crypto"
)

var (
	// ErrNameNotFound is returned when no key is stored under the requested name.
	ErrNameNotFound = errors.New("name not found")
	// ErrNameAlreadyExists is returned when creating a key under a name that is taken.
	ErrNameAlreadyExists = errors.New("name already exists")
	// ErrIncorrectPassword is returned when the store password does not unlock the vault.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrBackendIO wraps failures of the database or secret backend.
	ErrBackendIO = errors.New("backend i/o error")
	// ErrInconsistent is returned when metadata and secret storage disagree and could not be repaired.
	ErrInconsistent = errors.New("key store inconsistent")
	// ErrSecretNotFound is returned by a SecretStore when no secret exists under a reference.
	ErrSecretNotFound = errors.New("secret not found")
)

// Record is a named private key as persisted by a Store.
type Record struct {
	Name   string
	Scheme crypto.Scheme
	// Secret is the 32 byte private key.
	Secret []byte
}

// Zero wipes the secret.
func (r *Record) Zero() {
	crypto.Wipe(r.Secret)
}

// Entry is the public part of a Record. Listings never carry secrets.
type Entry struct {
	Name   string
	Scheme crypto.Scheme
}

// Store persists named private keys.
//
// Implementations keep the name to secret relation 1:1. Create never overwrites,
// Replace is the only way to change the key stored under an existing name.
type Store interface {
	// Create stores a new record. It fails with ErrNameAlreadyExists if the name is taken.
	Create(r Record) error
	// Replace stores r, overwriting any record with the same name.
	Replace(r Record) error
	// Get returns the record stored under name, or ErrNameNotFound.
	Get(name string) (Record, error)
	// Delete removes the record stored under name, or returns ErrNameNotFound.
	Delete(name string) error
	// List returns all stored names and schemes, sorted by name.
	List() ([]Entry, error)
	Close() error
}

func validateRecord(r Record) error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if _, err := crypto.ParseScheme(r.Scheme.String()); err != nil {
		return err
	}
	if len(r.Secret) != crypto.SecretSize {
		return fmt.Errorf("%w: secret must be %d bytes, got %d", crypto.ErrInvalidKey, crypto.SecretSize, len(r.Secret))
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("key name must not be empty")
	}
	return nil
}

// secretAAD binds a sealed secret to the record it belongs to.
func secretAAD(name string, scheme crypto.Scheme) []byte {
	return []byte(SecretRef(scheme, name))
}

func backendErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendIO, op, err)
}

// Option configures a store.
type Option func(*options)

type options struct {
	logger *slog.Logger
	kdf    KDFParams
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		kdf:    DefaultKDFParams,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for compensation and lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithKDFParams sets the password hashing cost used when a new vault is initialised.
// Existing vaults keep the parameters they were created with.
func WithKDFParams(params KDFParams) Option {
	return func(o *options) {
		o.kdf = params
	}
}
