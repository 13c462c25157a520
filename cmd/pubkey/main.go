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
		name   = flag.String("name", "", "Name of the key (required)")
		output = flag.String("output", crypto.EncodingHex.String(), "Output encoding: bytes, hex, base64, base64-url-no-pad or base58")
		words  = flag.Bool("words", false, "Print the public key as 8 byte words instead")
	)
	flag.Parse()
	logger := walletFlags.Logger()

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: -name is required\n")
		os.Exit(1)
	}
	enc, err := crypto.ParseEncoding(*output)
	if err != nil {
		cliutil.Fatal(logger, "invalid output encoding", err)
	}

	w, err := walletFlags.OpenWallet(logger)
	if err != nil {
		cliutil.Fatal(logger, "failed to open wallet", err)
	}
	defer w.Close()

	pub, err := w.PublicKey(*name)
	if err != nil {
		w.Close()
		cliutil.Fatal(logger, "failed to derive public key", err)
	}

	if *words {
		fmt.Println(crypto.PublicKeyToWords(pub))
		return
	}
	text, err := crypto.EncodeString(pub.Bytes(), enc)
	if err != nil {
		w.Close()
		cliutil.Fatal(logger, "failed to encode public key", err)
	}
	fmt.Println(text)
}
