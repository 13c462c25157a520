//go:build windows

package keystore

import "github.com/99designs/keyring"

func init() {
	RegisterSecretBackend(BackendOS, newOSSecretStore)
}

// newOSSecretStore opens the Windows Credential Manager.
func newOSSecretStore(cfg BackendConfig) (SecretStore, error) {
	return OpenKeyringSecretStore(keyring.Config{
		ServiceName:     cfg.ServiceName,
		AllowedBackends: []keyring.BackendType{keyring.WinCredBackend},
		WinCredPrefix:   cfg.ServiceName,
	})
}
