package keystore

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/99designs/keyring"
)

// KeyringSecretStore implements SecretStore on top of a keyring backend
// (macOS Keychain, Secret Service, Windows Credential Manager, encrypted files or memory).
type KeyringSecretStore struct {
	ring keyring.Keyring
}

// NewKeyringSecretStore wraps an already opened keyring.
func NewKeyringSecretStore(ring keyring.Keyring) *KeyringSecretStore {
	return &KeyringSecretStore{ring: ring}
}

// OpenKeyringSecretStore opens a keyring with cfg.
func OpenKeyringSecretStore(cfg keyring.Config) (*KeyringSecretStore, error) {
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringSecretStore{ring: ring}, nil
}

// NewMemorySecretStore returns a process-local secret store.
func NewMemorySecretStore() *KeyringSecretStore {
	return &KeyringSecretStore{ring: keyring.NewArrayKeyring(nil)}
}

func (k *KeyringSecretStore) Set(ref string, secret []byte) error {
	err := k.ring.Set(keyring.Item{
		Key:   ref,
		Data:  secret,
		Label: "keywallet " + ref,
	})
	if err != nil {
		return backendErr("store secret", err)
	}
	return nil
}

func (k *KeyringSecretStore) Get(ref string) ([]byte, error) {
	item, err := k.ring.Get(ref)
	if err != nil {
		return nil, keyringErr("read secret", ref, err)
	}
	return item.Data, nil
}

func (k *KeyringSecretStore) Remove(ref string) error {
	if err := k.ring.Remove(ref); err != nil {
		return keyringErr("remove secret", ref, err)
	}
	return nil
}

func (k *KeyringSecretStore) Keys() ([]string, error) {
	keys, err := k.ring.Keys()
	if err != nil {
		return nil, backendErr("list secrets", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func keyringErr(op, ref string, err error) error {
	if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrSecretNotFound, ref)
	}
	return backendErr(op, err)
}
