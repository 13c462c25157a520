package keystore

import (
	"fmt"
	"sort"
	"sync"
)

// BackendConfig carries the settings a secret backend factory may need.
type BackendConfig struct {
	// ServiceName namespaces the items in the OS keyring.
	ServiceName string
	// Keychain is the macOS keychain name. Empty means the login keychain.
	Keychain string
	// Dir is the wallet directory; the file backend keeps its items below it.
	Dir string
	// Password unlocks the file backend.
	Password string
}

// SecretBackendFactory creates a SecretStore from configuration.
//
// Factories are registered with RegisterSecretBackend and looked up by name
// when a wallet is opened with a dual store.
type SecretBackendFactory func(cfg BackendConfig) (SecretStore, error)

var (
	// registry stores secret backend factories by name
	registry = make(map[string]SecretBackendFactory)
	// registryMu protects concurrent access to the registry
	registryMu sync.RWMutex
)

// RegisterSecretBackend registers a factory under name.
//
// Platform files register "os" from init(); "file" and "memory" are always available.
//
//	func init() {
//	    RegisterSecretBackend("os", newOSSecretStore)
//	}
func RegisterSecretBackend(name string, factory SecretBackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// GetSecretBackendFactory retrieves the factory registered under name.
func GetSecretBackendFactory(name string) (SecretBackendFactory, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("no secret backend registered with name: %s", name)
	}
	return factory, nil
}

// ListSecretBackends returns the registered backend names, sorted.
func ListSecretBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
