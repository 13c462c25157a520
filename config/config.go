// Package config resolves wallet settings from a YAML file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joncooperworks/keywallet/crypto/keystore"
	"gopkg.in/yaml.v3"
)

// Store shapes.
const (
	StoreSingle = "single"
	StoreDual   = "dual"
)

// Environment variables that override the config file.
const (
	EnvConfig        = "KEYWALLET_CONFIG"
	EnvDir           = "KEYWALLET_DIR"
	EnvStore         = "KEYWALLET_STORE"
	EnvSecretBackend = "KEYWALLET_SECRET_BACKEND"
	EnvKeychain      = "KEYWALLET_KEYCHAIN"
)

// Config selects where keys are kept and how they are protected.
type Config struct {
	// Dir holds the databases and, for the file backend, the sealed secrets.
	Dir string `yaml:"dir"`
	// Store is StoreSingle (one database) or StoreDual (database plus secret backend).
	Store string `yaml:"store"`
	// SecretBackend names the registered secret backend used by the dual store.
	SecretBackend string `yaml:"secretBackend"`
	// ServiceName namespaces items in the OS keyring.
	ServiceName string `yaml:"serviceName"`
	// Keychain is the macOS keychain name; empty selects the login keychain.
	Keychain string             `yaml:"keychain"`
	KDF      keystore.KDFParams `yaml:"kdf"`

	// AllowEphemeral permits the memory secret backend with the dual store.
	// Names outlive the process there while secrets do not, so only tests set it.
	AllowEphemeral bool `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Dir:           defaultDir(),
		Store:         StoreSingle,
		SecretBackend: keystore.BackendOS,
		ServiceName:   "keywallet",
		KDF:           keystore.DefaultKDFParams,
	}
}

// Load starts from Default, merges the YAML file at path (if path is not empty)
// and applies environment overrides. An empty path falls back to $KEYWALLET_CONFIG.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.Dir = expandHome(cfg.Dir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookupEnv is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, _ := lookupEnv(EnvDir); strings.TrimSpace(v) != "" {
		c.Dir = expandHome(strings.TrimSpace(v))
	}
	if v, _ := lookupEnv(EnvStore); strings.TrimSpace(v) != "" {
		c.Store = strings.TrimSpace(v)
	}
	if v, _ := lookupEnv(EnvSecretBackend); strings.TrimSpace(v) != "" {
		c.SecretBackend = strings.TrimSpace(v)
	}
	// An empty keychain selects the login keychain, so a set but empty variable still overrides.
	if v, ok := lookupEnv(EnvKeychain); ok {
		c.Keychain = v
	}
}

// Validate rejects unknown store shapes and backends.
func (c Config) Validate() error {
	var errs []error
	if c.Dir == "" {
		errs = append(errs, errors.New("dir must not be empty"))
	}
	switch c.Store {
	case StoreSingle:
	case StoreDual:
		switch {
		case !knownBackend(c.SecretBackend):
			errs = append(errs, fmt.Errorf("unknown secret backend %q (available: %s)",
				c.SecretBackend, strings.Join(keystore.ListSecretBackends(), ", ")))
		case c.SecretBackend == keystore.BackendMemory && !c.AllowEphemeral:
			errs = append(errs, fmt.Errorf("secret backend %q loses secrets on exit while names persist in %s",
				keystore.BackendMemory, c.Dir))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q: want %s or %s", c.Store, StoreSingle, StoreDual))
	}
	if c.ServiceName == "" {
		errs = append(errs, errors.New("serviceName must not be empty"))
	}
	if err := c.KDF.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// BackendConfig returns the secret backend settings for password.
func (c Config) BackendConfig(password string) keystore.BackendConfig {
	return keystore.BackendConfig{
		ServiceName: c.ServiceName,
		Keychain:    c.Keychain,
		Dir:         c.Dir,
		Password:    password,
	}
}

func knownBackend(name string) bool {
	for _, b := range keystore.ListSecretBackends() {
		if b == name {
			return true
		}
	}
	return false
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".keywallet"
	}
	return filepath.Join(home, ".keywallet")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
