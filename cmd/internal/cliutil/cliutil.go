// Package cliutil holds the flag, password and wallet plumbing shared by the keywallet commands.
package cliutil

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joncooperworks/keywallet/config"
	"github.com/joncooperworks/keywallet/crypto"
	"github.com/joncooperworks/keywallet/logging"
	"github.com/joncooperworks/keywallet/wallet"
	"golang.org/x/term"
)

// EnvPassword supplies the wallet password non-interactively, for scripts and CI.
const EnvPassword = "KEYWALLET_PASSWORD"

// Warning is printed to stderr by every command before the password prompt.
const Warning = `keywallet

Warning!
This code has not been audited for security.
Never use it to hold keys that protect real funds.
`

// WalletFlags are the flags every command accepts to locate the wallet.
type WalletFlags struct {
	ConfigPath    string
	Dir           string
	Store         string
	SecretBackend string
	Verbose       bool
}

// RegisterWalletFlags adds the wallet flags to fs.
func RegisterWalletFlags(fs *flag.FlagSet) *WalletFlags {
	f := &WalletFlags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to a YAML config file (default $"+config.EnvConfig+")")
	fs.StringVar(&f.Dir, "dir", "", "Wallet directory (default ~/.keywallet or $"+config.EnvDir+")")
	fs.StringVar(&f.Store, "store", "", "Store shape: single or dual")
	fs.StringVar(&f.SecretBackend, "secret-backend", "", "Secret backend for the dual store: os or file")
	fs.BoolVar(&f.Verbose, "v", false, "Verbose logging")
	return f
}

// Config loads the config file and environment, then applies non-empty flags.
func (f *WalletFlags) Config() (config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.Dir != "" {
		cfg.Dir = f.Dir
	}
	if f.Store != "" {
		cfg.Store = f.Store
	}
	if f.SecretBackend != "" {
		cfg.SecretBackend = f.SecretBackend
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Logger returns the JSON logger on stderr, at debug level when verbose.
func (f *WalletFlags) Logger() *slog.Logger {
	level := slog.LevelInfo
	if f.Verbose {
		level = slog.LevelDebug
	}
	return logging.New(os.Stderr, level)
}

// OpenWallet prints the warning, asks for the password and opens the wallet.
func (f *WalletFlags) OpenWallet(logger *slog.Logger) (*wallet.Wallet, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	fmt.Fprint(os.Stderr, Warning+"\n")
	password, err := ReadPassword("Enter password to unlock wallet: ")
	if err != nil {
		return nil, err
	}
	return wallet.Open(cfg, password, wallet.WithLogger(logger))
}

// ReadPassword reads the password from $KEYWALLET_PASSWORD, the terminal, or one line of stdin.
func ReadPassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(EnvPassword); ok {
		return password, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ReadLine(os.Stdin)
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// ReadLine returns the first line of r without its line ending.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadInput returns the contents of path, or data decoded with enc when path is empty.
func ReadInput(path, data string, enc crypto.Encoding) ([]byte, error) {
	switch {
	case path != "" && data != "":
		return nil, errors.New("use only one of -file and -data")
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return b, nil
	case data != "":
		return crypto.DecodeString(data, enc)
	}
	return nil, errors.New("one of -file or -data is required")
}

// ParsePadding parses an optional padding flag. An empty value means no padding.
func ParsePadding(value string) (side crypto.Padding, ok bool, err error) {
	if value == "" {
		return 0, false, nil
	}
	side, err = crypto.ParsePadding(value)
	if err != nil {
		return 0, false, err
	}
	return side, true, nil
}

// Fatal logs err and exits.
func Fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
