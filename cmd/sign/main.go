package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joncooperworks/keywallet/cmd/internal/cliutil"
	"github.com/joncooperworks/keywallet/crypto"
	"github.com/joncooperworks/keywallet/wallet"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	walletFlags := cliutil.RegisterWalletFlags(flag.CommandLine)
	var (
		name           = flag.String("name", "", "Name of the signing key (required)")
		inputFile      = flag.String("file", "", "Path to a file to sign")
		inputData      = flag.String("data", "", "Data to sign, in -encoding")
		recordFile     = flag.String("record", "", "Path to a JSON document to sign as a structured record")
		encodingFlag   = flag.String("encoding", crypto.EncodingHex.String(), "Encoding of -data: bytes, hex, base64, base64-url-no-pad or base58")
		requireAligned = flag.Bool("require-aligned", true, "Reject input that is not a whole number of 8 byte words")
		pad            = flag.String("pad", "", "Pad the input to a word boundary at the start or end")
		output         = flag.String("output", crypto.EncodingHex.String(), "Encoding of the signature")
		padSignature   = flag.Bool("pad-signature", true, "Print the word aligned signature instead of the compact one")
	)
	flag.Parse()
	logger := walletFlags.Logger()

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: -name is required\n")
		os.Exit(1)
	}
	side, padded, err := cliutil.ParsePadding(*pad)
	if err != nil {
		cliutil.Fatal(logger, "invalid padding", err)
	}
	outEnc, err := crypto.ParseEncoding(*output)
	if err != nil {
		cliutil.Fatal(logger, "invalid output encoding", err)
	}
	inEnc, err := crypto.ParseEncoding(*encodingFlag)
	if err != nil {
		cliutil.Fatal(logger, "invalid input encoding", err)
	}

	var (
		record *structpb.Struct
		data   []byte
	)
	if *recordFile != "" {
		record, err = readRecord(*recordFile)
	} else {
		data, err = cliutil.ReadInput(*inputFile, *inputData, inEnc)
	}
	if err != nil {
		cliutil.Fatal(logger, "failed to read input", err)
	}

	w, err := walletFlags.OpenWallet(logger)
	if err != nil {
		cliutil.Fatal(logger, "failed to open wallet", err)
	}
	defer w.Close()

	var sig crypto.Signature
	switch {
	case record != nil && padded:
		sig, err = w.SignRecordWithPadding(record, side, *name)
	case record != nil:
		sig, err = w.SignRecord(record, *name)
	default:
		sig, err = signBytes(w, data, *name, *requireAligned, padded, side)
	}
	if err != nil {
		w.Close()
		cliutil.Fatal(logger, "failed to sign", err)
	}

	form := crypto.FormCompact
	if *padSignature {
		form = crypto.FormAligned
	}
	text, err := encodeSignature(sig, form, outEnc)
	if err != nil {
		w.Close()
		cliutil.Fatal(logger, "failed to encode signature", err)
	}
	fmt.Println(text)
	logger.Debug("signed input", slog.String("name", *name), slog.String("form", form.String()))
}

// signBytes picks the signing path: padding wins, otherwise the alignment check decides.
func signBytes(w *wallet.Wallet, data []byte, name string, requireAligned, padded bool, side crypto.Padding) (crypto.Signature, error) {
	switch {
	case padded:
		return w.SignBytesWithPadding(data, side, name)
	case requireAligned:
		return w.SignAlignedBytes(data, name)
	default:
		return w.SignBytesUnchecked(data, name)
	}
}

func encodeSignature(sig crypto.Signature, form crypto.Form, enc crypto.Encoding) (string, error) {
	encoded, err := crypto.EncodeSignature(sig, form)
	if err != nil {
		return "", err
	}
	return crypto.EncodeString(encoded, enc)
}

func readRecord(path string) (*structpb.Struct, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	record := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	return record, nil
}
