package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joncooperworks/keywallet/crypto/keystore"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Store != StoreSingle || cfg.ServiceName != "keywallet" {
		t.Errorf("Default() = %+v", cfg)
	}
	if filepath.Base(cfg.Dir) != ".keywallet" {
		t.Errorf("Default().Dir = %q, want ~/.keywallet", cfg.Dir)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
dir: ` + dir + `
store: dual
secretBackend: memory
kdf:
  time: 1
  memoryKB: 1024
  threads: 2
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv(EnvDir, "")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvSecretBackend, "file")
	t.Setenv(EnvKeychain, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dir != dir || cfg.Store != StoreDual {
		t.Errorf("Load() = %+v, want file values", cfg)
	}
	if cfg.SecretBackend != keystore.BackendFile {
		t.Errorf("SecretBackend = %q, want environment override %q", cfg.SecretBackend, keystore.BackendFile)
	}
	want := keystore.KDFParams{Time: 1, MemoryKB: 1024, Threads: 2}
	if cfg.KDF != want {
		t.Errorf("KDF = %+v, want %+v", cfg.KDF, want)
	}
	// Unset fields keep their defaults.
	if cfg.ServiceName != "keywallet" {
		t.Errorf("ServiceName = %q, want default", cfg.ServiceName)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("store: [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(bad yaml) error = nil, want error")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.Keychain = "custom"
	cfg.ApplyEnv(envMap(map[string]string{
		EnvDir:      "/var/lib/keywallet",
		EnvStore:    "  dual ",
		EnvKeychain: "",
	}))
	if cfg.Dir != "/var/lib/keywallet" || cfg.Store != StoreDual {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}
	if cfg.Keychain != "" {
		t.Errorf("Keychain = %q, want empty override", cfg.Keychain)
	}
	if cfg.SecretBackend != keystore.BackendOS {
		t.Errorf("SecretBackend = %q, want default kept", cfg.SecretBackend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errStr string
	}{
		{"unknown store", func(c *Config) { c.Store = "triple" }, "unknown store"},
		{"unknown backend", func(c *Config) { c.Store = StoreDual; c.SecretBackend = "floppy" }, "unknown secret backend"},
		{"empty dir", func(c *Config) { c.Dir = "" }, "dir must not be empty"},
		{"zero kdf", func(c *Config) { c.KDF = keystore.KDFParams{} }, "invalid kdf"},
		{"dual with memory backend", func(c *Config) { c.Store = StoreDual; c.SecretBackend = keystore.BackendMemory }, "loses secrets on exit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errStr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.errStr)
			}
		})
	}

	cfg := Default()
	cfg.Store = StoreDual
	cfg.SecretBackend = keystore.BackendMemory
	cfg.AllowEphemeral = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate(dual with memory backend allowed) error = %v", err)
	}

	// The single store ignores the secret backend.
	cfg = Default()
	cfg.SecretBackend = "floppy"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate(single with unknown backend) error = %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/wallet"); got != filepath.Join(home, "wallet") {
		t.Errorf("expandHome(~/wallet) = %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome(/abs) = %q", got)
	}
}
