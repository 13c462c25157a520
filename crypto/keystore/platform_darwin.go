//go:build darwin

package keystore

import "github.com/99designs/keyring"

func init() {
	RegisterSecretBackend(BackendOS, newOSSecretStore)
}

// newOSSecretStore opens the macOS Keychain. An empty cfg.Keychain selects the
// login keychain, which is unlocked while the user is logged in.
func newOSSecretStore(cfg BackendConfig) (SecretStore, error) {
	return OpenKeyringSecretStore(keyring.Config{
		ServiceName:              cfg.ServiceName,
		AllowedBackends:          []keyring.BackendType{keyring.KeychainBackend},
		KeychainName:             cfg.Keychain,
		KeychainTrustApplication: true,
	})
}
