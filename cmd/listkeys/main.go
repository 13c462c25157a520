package main

import (
	"flag"
	"fmt"

	"github.com/joncooperworks/keywallet/cmd/internal/cliutil"
)

func main() {
	walletFlags := cliutil.RegisterWalletFlags(flag.CommandLine)
	flag.Parse()
	logger := walletFlags.Logger()

	w, err := walletFlags.OpenWallet(logger)
	if err != nil {
		cliutil.Fatal(logger, "failed to open wallet", err)
	}
	defer w.Close()

	entries, err := w.List()
	if err != nil {
		w.Close()
		cliutil.Fatal(logger, "failed to list keys", err)
	}

	if len(entries) == 0 {
		fmt.Println("No keys found in wallet")
		return
	}

	fmt.Printf("Keys in wallet (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  - %s (%s)\n", e.Name, e.Scheme)
	}
}
