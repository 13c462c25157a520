package cliutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joncooperworks/keywallet/config"
	"github.com/joncooperworks/keywallet/crypto"
)

func TestReadLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"yes\n", "yes"},
		{"yes\r\nmore", "yes"},
		{"no newline", "no newline"},
	}
	for _, tt := range tests {
		got, err := ReadLine(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("ReadLine(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ReadLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if _, err := ReadLine(strings.NewReader("")); err == nil {
		t.Error("ReadLine(empty) error = nil, want error")
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadInput(path, "", crypto.EncodingHex)
	if err != nil || !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("ReadInput(file) = %v, %v", got, err)
	}
	got, err = ReadInput("", "[1, 2, 3]", crypto.EncodingBytes)
	if err != nil || !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("ReadInput(data) = %v, %v", got, err)
	}
	if _, err := ReadInput(path, "01", crypto.EncodingHex); err == nil {
		t.Error("ReadInput(both) error = nil, want error")
	}
	if _, err := ReadInput("", "", crypto.EncodingHex); err == nil {
		t.Error("ReadInput(neither) error = nil, want error")
	}
}

func TestParsePadding(t *testing.T) {
	if _, ok, err := ParsePadding(""); ok || err != nil {
		t.Errorf("ParsePadding(\"\") = %v, %v, want no padding", ok, err)
	}
	side, ok, err := ParsePadding("start")
	if !ok || err != nil || side != crypto.PadStart {
		t.Errorf("ParsePadding(start) = %v, %v, %v", side, ok, err)
	}
	if _, _, err := ParsePadding("middle"); err == nil {
		t.Error("ParsePadding(middle) error = nil, want error")
	}
}

func TestWalletFlagsOverrideConfig(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvDir, "")
	t.Setenv(config.EnvStore, "")
	t.Setenv(config.EnvSecretBackend, "")

	dir := t.TempDir()
	f := &WalletFlags{Dir: dir, Store: config.StoreDual, SecretBackend: "file"}
	cfg, err := f.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if cfg.Dir != dir || cfg.Store != config.StoreDual || cfg.SecretBackend != "file" {
		t.Errorf("Config() = %+v, want flag values", cfg)
	}

	f.SecretBackend = "memory"
	if _, err := f.Config(); err == nil {
		t.Error("Config(dual with memory backend) error = nil, want error")
	}

	f.SecretBackend = "file"
	f.Store = "triple"
	if _, err := f.Config(); err == nil {
		t.Error("Config(invalid store) error = nil, want error")
	}
}
