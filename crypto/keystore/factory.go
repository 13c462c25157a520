package keystore

import (
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

const (
	// BackendOS is the platform keyring.
	BackendOS = "os"
	// BackendFile is an encrypted file per secret below the wallet directory.
	BackendFile = "file"
	// BackendMemory lives for the life of the process.
	BackendMemory = "memory"
)

func init() {
	RegisterSecretBackend(BackendFile, newFileSecretStore)
	RegisterSecretBackend(BackendMemory, func(BackendConfig) (SecretStore, error) {
		return NewMemorySecretStore(), nil
	})
}

// NewSecretStore creates the secret backend registered under name.
func NewSecretStore(name string, cfg BackendConfig) (SecretStore, error) {
	factory, err := GetSecretBackendFactory(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported secret backend %q: %w", name, err)
	}
	return factory(cfg)
}

func newFileSecretStore(cfg BackendConfig) (SecretStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("file secret backend needs a directory")
	}
	return OpenKeyringSecretStore(keyring.Config{
		ServiceName:      cfg.ServiceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          filepath.Join(cfg.Dir, "secrets"),
		FilePasswordFunc: keyring.FixedStringPrompt(cfg.Password),
	})
}
