package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joncooperworks/keywallet/cmd/internal/cliutil"
	"github.com/joncooperworks/keywallet/crypto"
)

func main() {
	walletFlags := cliutil.RegisterWalletFlags(flag.CommandLine)
	var (
		name         = flag.String("name", "", "Name to store the key under (required)")
		schemeFlag   = flag.String("scheme", crypto.Secp256k1.String(), "Signature scheme")
		secretPath   = flag.String("secret-file", "", "File holding the 32 byte private key in -encoding")
		encodingFlag = flag.String("encoding", crypto.EncodingHex.String(), "Encoding of the secret file: bytes, hex, base64, base64-url-no-pad or base58")
		mnemonicPath = flag.String("mnemonic-file", "", "File holding a recovery phrase printed by genkey -mnemonic")
	)
	flag.Parse()
	logger := walletFlags.Logger()

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: -name is required\n")
		os.Exit(1)
	}
	if (*secretPath == "") == (*mnemonicPath == "") {
		fmt.Fprintf(os.Stderr, "Error: exactly one of -secret-file or -mnemonic-file is required\n")
		os.Exit(1)
	}
	scheme, err := crypto.ParseScheme(*schemeFlag)
	if err != nil {
		cliutil.Fatal(logger, "invalid scheme", err)
	}

	w, err := walletFlags.OpenWallet(logger)
	if err != nil {
		cliutil.Fatal(logger, "failed to open wallet", err)
	}
	defer w.Close()

	var pub crypto.PublicKey
	if *mnemonicPath != "" {
		phrase, err := os.ReadFile(*mnemonicPath)
		if err != nil {
			w.Close()
			cliutil.Fatal(logger, "failed to read recovery phrase", err)
		}
		pub, err = w.Restore(*name, string(phrase), scheme)
		crypto.Wipe(phrase)
		if err != nil {
			w.Close()
			cliutil.Fatal(logger, "failed to restore key", err)
		}
	} else {
		pub, err = importSecret(*secretPath, *encodingFlag, *name, scheme, w.Insert)
		if err != nil {
			w.Close()
			cliutil.Fatal(logger, "failed to import key", err)
		}
	}

	fmt.Printf("Private key imported successfully:\n")
	fmt.Printf("  Name: %s\n", *name)
	fmt.Printf("  Public key: %x\n", pub.Bytes())
	if *secretPath != "" {
		fmt.Printf("  Note: You can now delete %s\n", *secretPath)
	}
}

func importSecret(path, encodingName, name string, scheme crypto.Scheme, insert func(string, crypto.PrivateKey) error) (crypto.PublicKey, error) {
	enc, err := crypto.ParseEncoding(encodingName)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return crypto.PublicKey{}, fmt.Errorf("failed to read secret file: %w", err)
	}
	defer crypto.Wipe(raw)
	secret, err := crypto.DecodeString(strings.TrimSpace(string(raw)), enc)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	defer crypto.Wipe(secret)

	key, err := crypto.PrivateKeyFromBytes(scheme, secret)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	defer key.Zero()
	if err := insert(name, key); err != nil {
		return crypto.PublicKey{}, err
	}
	return key.PublicKey()
}
