// Package wallet signs payloads with private keys addressed by name.
package wallet

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joncooperworks/keywallet/config"
	"github.com/joncooperworks/keywallet/crypto"
	"github.com/joncooperworks/keywallet/crypto/keystore"
	"github.com/prometheus/client_golang/prometheus"
)

// Wallet maps names to private keys held in a keystore.Store.
// Keys are loaded for each call and wiped before it returns.
type Wallet struct {
	store   keystore.Store
	logger  *slog.Logger
	metrics *metrics
}

// Option configures a Wallet.
type Option func(*walletOptions)

type walletOptions struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
}

// WithLogger sets the logger for key lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *walletOptions) {
		o.logger = logger
	}
}

// WithRegisterer registers the operation counters with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *walletOptions) {
		o.registerer = reg
	}
}

// New wraps store.
func New(store keystore.Store, opts ...Option) (*Wallet, error) {
	o := walletOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	m, err := newMetrics(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return &Wallet{store: store, logger: o.logger, metrics: m}, nil
}

// Open creates the store described by cfg below cfg.Dir and unlocks it with password.
func Open(cfg config.Config, password string, opts ...Option) (*Wallet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create wallet directory: %w", err)
	}

	o := walletOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	storeOpts := []keystore.Option{keystore.WithKDFParams(cfg.KDF), keystore.WithLogger(o.logger)}

	var (
		store keystore.Store
		err   error
	)
	switch cfg.Store {
	case config.StoreSingle:
		store, err = keystore.OpenSQLStore(filepath.Join(cfg.Dir, "wallet.db"), password, storeOpts...)
	case config.StoreDual:
		var secrets keystore.SecretStore
		secrets, err = keystore.NewSecretStore(cfg.SecretBackend, cfg.BackendConfig(password))
		if err != nil {
			return nil, err
		}
		store, err = keystore.OpenDualStore(cfg.Dir, password, secrets, storeOpts...)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if err != nil {
		return nil, err
	}

	w, err := New(store, opts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	return w, nil
}

// Store returns the underlying key store.
func (w *Wallet) Store() keystore.Store {
	return w.store
}

func (w *Wallet) Close() error {
	return w.store.Close()
}

// Generate creates a random key under name and returns its public key.
func (w *Wallet) Generate(name string, scheme crypto.Scheme) (pub crypto.PublicKey, err error) {
	defer func() { w.metrics.observe("generate", err) }()
	key, err := crypto.GenerateKey(scheme)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	defer key.Zero()
	if err := w.create(name, key); err != nil {
		return crypto.PublicKey{}, err
	}
	w.logger.Info("generated key", slog.String("name", name), slog.String("scheme", scheme.String()))
	return key.PublicKey()
}

// GenerateWithMnemonic creates a key from a fresh recovery phrase and returns the phrase.
// Restore with the same phrase recreates the key.
func (w *Wallet) GenerateWithMnemonic(name string, scheme crypto.Scheme) (mnemonic string, pub crypto.PublicKey, err error) {
	defer func() { w.metrics.observe("generate", err) }()
	if !scheme.Supports(crypto.CapGenerate) {
		return "", crypto.PublicKey{}, fmt.Errorf("%w: %s key generation", crypto.ErrNotSupported, scheme)
	}
	mnemonic, err = crypto.NewMnemonic()
	if err != nil {
		return "", crypto.PublicKey{}, err
	}
	key, err := crypto.KeyFromMnemonic(mnemonic, scheme)
	if err != nil {
		return "", crypto.PublicKey{}, err
	}
	defer key.Zero()
	if err := w.create(name, key); err != nil {
		return "", crypto.PublicKey{}, err
	}
	w.logger.Info("generated key with recovery phrase", slog.String("name", name), slog.String("scheme", scheme.String()))
	pub, err = key.PublicKey()
	return mnemonic, pub, err
}

// Restore stores the key derived from mnemonic under name.
func (w *Wallet) Restore(name, mnemonic string, scheme crypto.Scheme) (pub crypto.PublicKey, err error) {
	defer func() { w.metrics.observe("restore", err) }()
	key, err := crypto.KeyFromMnemonic(mnemonic, scheme)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	defer key.Zero()
	if err := w.create(name, key); err != nil {
		return crypto.PublicKey{}, err
	}
	w.logger.Info("restored key", slog.String("name", name), slog.String("scheme", scheme.String()))
	return key.PublicKey()
}

// Insert stores an existing private key under name.
func (w *Wallet) Insert(name string, key crypto.PrivateKey) (err error) {
	defer func() { w.metrics.observe("insert", err) }()
	if err := w.create(name, key); err != nil {
		return err
	}
	w.logger.Info("imported key", slog.String("name", name), slog.String("scheme", key.Scheme().String()))
	return nil
}

// Regenerate replaces the key stored under name with a new random key of scheme.
// It is the only operation that overwrites an existing name.
func (w *Wallet) Regenerate(name string, scheme crypto.Scheme) (pub crypto.PublicKey, err error) {
	defer func() { w.metrics.observe("regenerate", err) }()
	key, err := crypto.GenerateKey(scheme)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	defer key.Zero()
	rec := keystore.Record{Name: name, Scheme: scheme, Secret: key.Bytes()}
	defer rec.Zero()
	if err := w.store.Replace(rec); err != nil {
		return crypto.PublicKey{}, err
	}
	w.logger.Info("regenerated key", slog.String("name", name), slog.String("scheme", scheme.String()))
	return key.PublicKey()
}

// Delete removes the key stored under name.
func (w *Wallet) Delete(name string) (err error) {
	defer func() { w.metrics.observe("delete", err) }()
	if err := w.store.Delete(name); err != nil {
		return err
	}
	w.logger.Info("deleted key", slog.String("name", name))
	return nil
}

// List returns the stored names with their schemes, sorted by name.
func (w *Wallet) List() ([]keystore.Entry, error) {
	entries, err := w.store.List()
	w.metrics.observe("list", err)
	return entries, err
}

// ListNames returns the stored names, sorted.
func (w *Wallet) ListNames() ([]string, error) {
	entries, err := w.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// PublicKey derives the public key of the key stored under name.
func (w *Wallet) PublicKey(name string) (pub crypto.PublicKey, err error) {
	defer func() { w.metrics.observe("public_key", err) }()
	key, err := w.load(name)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	defer key.Zero()
	return key.PublicKey()
}

// PrivateKey returns the private key stored under name. The caller owns the
// returned key and should call Zero when done.
func (w *Wallet) PrivateKey(name string) (crypto.PrivateKey, error) {
	key, err := w.load(name)
	w.metrics.observe("private_key", err)
	return key, err
}

// create rejects schemes that cannot sign before anything is written.
func (w *Wallet) create(name string, key crypto.PrivateKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: empty private key", crypto.ErrInvalidKey)
	}
	if !key.Scheme().Supports(crypto.CapSignHash) {
		return fmt.Errorf("%w: storing %s keys", crypto.ErrNotSupported, key.Scheme())
	}
	rec := keystore.Record{Name: name, Scheme: key.Scheme(), Secret: key.Bytes()}
	defer rec.Zero()
	return w.store.Create(rec)
}

func (w *Wallet) load(name string) (crypto.PrivateKey, error) {
	rec, err := w.store.Get(name)
	if err != nil {
		return crypto.PrivateKey{}, err
	}
	defer rec.Zero()
	key, err := crypto.PrivateKeyFromBytes(rec.Scheme, rec.Secret)
	if err != nil {
		return crypto.PrivateKey{}, fmt.Errorf("key %q: %w", name, err)
	}
	return key, nil
}

// IsNotFound reports whether err means no key is stored under the requested name.
func IsNotFound(err error) bool {
	return errors.Is(err, keystore.ErrNameNotFound)
}
