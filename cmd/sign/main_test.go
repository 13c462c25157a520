package main

import (
	"errors"
	"testing"

	"github.com/joncooperworks/keywallet/crypto"
)

func TestEncodeSignature(t *testing.T) {
	key, err := crypto.GenerateKey(crypto.Secp256k1)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	sig, err := crypto.SignBytesUnchecked([]byte("payload"), key)
	if err != nil {
		t.Fatalf("SignBytesUnchecked() error = %v", err)
	}

	text, err := encodeSignature(sig, crypto.FormAligned, crypto.EncodingHex)
	if err != nil {
		t.Fatalf("encodeSignature() error = %v", err)
	}
	if len(text) != 2*crypto.Secp256k1AlignedSize {
		t.Errorf("encodeSignature() length = %d, want %d", len(text), 2*crypto.Secp256k1AlignedSize)
	}

	text, err = encodeSignature(sig, crypto.FormCompact, crypto.Encoding(99))
	if !errors.Is(err, crypto.ErrUnknownEncoding) {
		t.Errorf("encodeSignature(unknown encoding) error = %v, want ErrUnknownEncoding", err)
	}
	if text != "" {
		t.Errorf("encodeSignature(unknown encoding) = %q, want empty", text)
	}
}
