//go:build linux

package keystore

import "github.com/99designs/keyring"

func init() {
	RegisterSecretBackend(BackendOS, newOSSecretStore)
}

// newOSSecretStore opens the Secret Service (GNOME Keyring, KeePassXC) or KWallet.
func newOSSecretStore(cfg BackendConfig) (SecretStore, error) {
	return OpenKeyringSecretStore(keyring.Config{
		ServiceName: cfg.ServiceName,
		AllowedBackends: []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
		},
		LibSecretCollectionName: "login",
		KWalletAppID:            cfg.ServiceName,
		KWalletFolder:           cfg.ServiceName,
	})
}
