package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joncooperworks/keywallet/cmd/internal/cliutil"
	"github.com/joncooperworks/keywallet/crypto"
)

func main() {
	walletFlags := cliutil.RegisterWalletFlags(flag.CommandLine)
	var (
		name       = flag.String("name", "", "Name to store the new key under (required)")
		schemeFlag = flag.String("scheme", crypto.Secp256k1.String(), "Signature scheme")
		mnemonic   = flag.Bool("mnemonic", false, "Derive the key from a new recovery phrase and print the phrase")
		replace    = flag.Bool("replace", false, "Replace an existing key with the same name")
	)
	flag.Parse()
	logger := walletFlags.Logger()

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: -name is required\n")
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

	var (
		pub    crypto.PublicKey
		phrase string
	)
	switch {
	case *replace && *mnemonic:
		err = fmt.Errorf("-replace and -mnemonic cannot be combined")
	case *replace:
		pub, err = w.Regenerate(*name, scheme)
	case *mnemonic:
		phrase, pub, err = w.GenerateWithMnemonic(*name, scheme)
	default:
		pub, err = w.Generate(*name, scheme)
	}
	if err != nil {
		w.Close()
		cliutil.Fatal(logger, "failed to generate key", err)
	}

	fmt.Printf("Key generated successfully:\n")
	fmt.Printf("  Name: %s\n", *name)
	fmt.Printf("  Scheme: %s\n", scheme)
	fmt.Printf("  Public key: %x\n", pub.Bytes())
	if phrase != "" {
		fmt.Printf("\nRecovery phrase (write it down, it is not stored):\n  %s\n", phrase)
	}
}
