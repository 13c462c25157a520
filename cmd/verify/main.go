package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joncooperworks/keywallet/cmd/internal/cliutil"
	"github.com/joncooperworks/keywallet/crypto"
)

func main() {
	var (
		pubKeyText   = flag.String("pubkey", "", "Public key in -key-encoding (required unless -recover)")
		keyEncoding  = flag.String("key-encoding", crypto.EncodingHex.String(), "Encoding of -pubkey")
		schemeFlag   = flag.String("scheme", crypto.Secp256k1.String(), "Signature scheme")
		sigText      = flag.String("signature", "", "Signature to verify (required)")
		sigEncoding  = flag.String("signature-encoding", crypto.EncodingHex.String(), "Encoding of -signature")
		inputFile    = flag.String("file", "", "Path to the signed file")
		inputData    = flag.String("data", "", "Signed data, in -encoding")
		encodingFlag = flag.String("encoding", crypto.EncodingHex.String(), "Encoding of -data")
		pad          = flag.String("pad", "", "Padding side used when signing (start or end), if any")
		recoverKey   = flag.Bool("recover", false, "Print the signer's public key instead of checking -pubkey")
		verbose      = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()
	logger := (&cliutil.WalletFlags{Verbose: *verbose}).Logger()

	if *sigText == "" {
		fmt.Fprintf(os.Stderr, "Error: -signature is required\n")
		os.Exit(1)
	}
	if *pubKeyText == "" && !*recoverKey {
		fmt.Fprintf(os.Stderr, "Error: -pubkey is required unless -recover is set\n")
		os.Exit(1)
	}

	scheme, err := crypto.ParseScheme(*schemeFlag)
	if err != nil {
		cliutil.Fatal(logger, "invalid scheme", err)
	}
	sig, err := decodeSignature(*sigText, *sigEncoding, scheme)
	if err != nil {
		cliutil.Fatal(logger, "invalid signature", err)
	}
	inEnc, err := crypto.ParseEncoding(*encodingFlag)
	if err != nil {
		cliutil.Fatal(logger, "invalid input encoding", err)
	}
	data, err := cliutil.ReadInput(*inputFile, *inputData, inEnc)
	if err != nil {
		cliutil.Fatal(logger, "failed to read input", err)
	}
	side, padded, err := cliutil.ParsePadding(*pad)
	if err != nil {
		cliutil.Fatal(logger, "invalid padding", err)
	}

	digest := crypto.HashBytes(data)
	if padded {
		digest = crypto.DigestBytesWithPadding(data, side)
	}

	if *recoverKey {
		pub, err := crypto.RecoverPublicKey(sig, digest)
		if err != nil {
			cliutil.Fatal(logger, "failed to recover public key", err)
		}
		fmt.Printf("%x\n", pub.Bytes())
		return
	}

	pub, err := decodePublicKey(*pubKeyText, *keyEncoding, scheme)
	if err != nil {
		cliutil.Fatal(logger, "invalid public key", err)
	}
	if err := crypto.Verify(sig, digest, pub); err != nil {
		if errors.Is(err, crypto.ErrInvalidSignature) {
			fmt.Println("Signature is NOT valid")
			os.Exit(1)
		}
		cliutil.Fatal(logger, "failed to verify signature", err)
	}
	fmt.Println("Signature is valid")
}

// decodeSignature accepts either serialization, telling them apart by length.
func decodeSignature(text, encodingName string, scheme crypto.Scheme) (crypto.Signature, error) {
	enc, err := crypto.ParseEncoding(encodingName)
	if err != nil {
		return crypto.Signature{}, err
	}
	raw, err := crypto.DecodeString(text, enc)
	if err != nil {
		return crypto.Signature{}, err
	}
	if scheme == crypto.Secp256k1 && len(raw) == crypto.Secp256k1AlignedSize {
		return crypto.DecodeSignature(raw, scheme, crypto.FormAligned)
	}
	return crypto.DecodeSignature(raw, scheme, crypto.FormCompact)
}

func decodePublicKey(text, encodingName string, scheme crypto.Scheme) (crypto.PublicKey, error) {
	enc, err := crypto.ParseEncoding(encodingName)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	raw, err := crypto.DecodeString(text, enc)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	return crypto.PublicKeyFromBytes(scheme, raw)
}
