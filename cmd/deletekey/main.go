package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joncooperworks/keywallet/cmd/internal/cliutil"
)

func main() {
	walletFlags := cliutil.RegisterWalletFlags(flag.CommandLine)
	var (
		name = flag.String("name", "", "Name of the key to delete (required)")
		yes  = flag.Bool("yes", false, "Skip the confirmation prompt")
	)
	flag.Parse()
	logger := walletFlags.Logger()

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: -name is required\n")
		os.Exit(1)
	}

	w, err := walletFlags.OpenWallet(logger)
	if err != nil {
		cliutil.Fatal(logger, "failed to open wallet", err)
	}
	defer w.Close()

	if !*yes {
		fmt.Fprintf(os.Stderr, "Are you sure you want to delete the key %s? (only 'yes' is accepted) ", *name)
		answer, err := cliutil.ReadLine(os.Stdin)
		if err != nil || answer != "yes" {
			fmt.Fprintln(os.Stderr, "Aborted")
			w.Close()
			os.Exit(1)
		}
	}

	if err := w.Delete(*name); err != nil {
		w.Close()
		cliutil.Fatal(logger, "failed to delete key", err)
	}
	fmt.Printf("Deleted key %s\n", *name)
}
