package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

// scalarOne is the secp256k1 private key 1, whose public key is the generator point.
func scalarOne(t *testing.T) PrivateKey {
	t.Helper()
	secret := make([]byte, SecretSize)
	secret[SecretSize-1] = 1
	key, err := PrivateKeyFromBytes(Secp256k1, secret)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes(1) error = %v", err)
	}
	return key
}

func newSecpKey(t *testing.T) PrivateKey {
	t.Helper()
	key, err := GenerateKey(Secp256k1)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	return key
}

func TestPublicKeyDerivation(t *testing.T) {
	pub, err := scalarOne(t).PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() error = %v", err)
	}
	want := "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	if got := hex.EncodeToString(pub.Bytes()); got != want {
		t.Errorf("PublicKey(1) = %s, want generator %s", got, want)
	}

	words := PublicKeyToWords(pub)
	if len(words) != 5 {
		t.Errorf("PublicKeyToWords() length = %d, want 5", len(words))
	}
}

func TestEd25519PublicKeyDerivation(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, SecretSize)
	key, err := PrivateKeyFromBytes(Ed25519, seed)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes(ed25519) error = %v", err)
	}
	pub, err := key.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() error = %v", err)
	}
	if pub.Scheme() != Ed25519 || len(pub.Bytes()) != 32 {
		t.Errorf("PublicKey() = %s, want 32-byte ed25519 key", pub)
	}
	again, _ := key.PublicKey()
	if !pub.Equal(again) {
		t.Error("ed25519 public key derivation is not deterministic")
	}
	if len(PublicKeyToWords(pub)) != 4 {
		t.Errorf("PublicKeyToWords(ed25519) length = %d, want 4", len(PublicKeyToWords(pub)))
	}
}

func TestSignHashVerifies(t *testing.T) {
	key := newSecpKey(t)
	pub, err := key.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() error = %v", err)
	}

	messages := [][]byte{
		nil,
		[]byte("hello"),
		bytes.Repeat([]byte{0xFF}, 1024),
	}
	for _, msg := range messages {
		digest := HashBytes(msg)
		sig, err := SignHash(digest, key)
		if err != nil {
			t.Fatalf("SignHash() error = %v", err)
		}
		if err := Verify(sig, digest, pub); err != nil {
			t.Errorf("Verify() error = %v", err)
		}

		recovered, err := RecoverPublicKey(sig, digest)
		if err != nil {
			t.Fatalf("RecoverPublicKey() error = %v", err)
		}
		if !recovered.Equal(pub) {
			t.Errorf("RecoverPublicKey() = %s, want %s", recovered, pub)
		}

		other := HashBytes(append([]byte("x"), msg...))
		if err := Verify(sig, other, pub); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("Verify(wrong digest) error = %v, want ErrInvalidSignature", err)
		}
	}
}

func TestSignHashIsDeterministic(t *testing.T) {
	key := scalarOne(t)
	digest := HashBytes([]byte("deterministic"))
	first, err := SignHash(digest, key)
	if err != nil {
		t.Fatalf("SignHash() error = %v", err)
	}
	second, err := SignHash(digest, key)
	if err != nil {
		t.Fatalf("SignHash() error = %v", err)
	}
	if !first.Equal(second) {
		t.Error("SignHash() produced different signatures for the same digest and key")
	}
}

func TestSignHashSignsDigestDirectly(t *testing.T) {
	key := newSecpKey(t)
	pub, _ := key.PublicKey()
	data := []byte("payload")
	sig, err := SignBytesUnchecked(data, key)
	if err != nil {
		t.Fatalf("SignBytesUnchecked() error = %v", err)
	}
	// The digest of the data is the signed message; hashing it again must not verify.
	if err := Verify(sig, HashBytes(data), pub); err != nil {
		t.Errorf("Verify(HashBytes(data)) error = %v", err)
	}
	single := HashBytes(data)
	double := HashBytes(single[:])
	if err := Verify(sig, double, pub); err == nil {
		t.Error("signature verified against a double hash")
	}
}

func TestEd25519SigningNotSupported(t *testing.T) {
	key, err := PrivateKeyFromBytes(Ed25519, make([]byte, SecretSize))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes(ed25519) error = %v", err)
	}
	if _, err := SignHash(HashBytes(nil), key); !errors.Is(err, ErrNotSupported) {
		t.Errorf("SignHash(ed25519) error = %v, want ErrNotSupported", err)
	}
	if _, err := SignBytesWithPadding([]byte{1}, PadEnd, key); !errors.Is(err, ErrNotSupported) {
		t.Errorf("SignBytesWithPadding(ed25519) error = %v, want ErrNotSupported", err)
	}
	if _, err := GenerateKey(Ed25519); !errors.Is(err, ErrNotSupported) {
		t.Errorf("GenerateKey(ed25519) error = %v, want ErrNotSupported", err)
	}
}

func TestSignHashRejectsEmptyKey(t *testing.T) {
	if _, err := SignHash(Digest{}, PrivateKey{}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("SignHash(zero key) error = %v, want ErrInvalidKey", err)
	}
}

func TestSignVariants(t *testing.T) {
	key := newSecpKey(t)
	pub, _ := key.PublicKey()
	record := wrapperspb.String("record")
	data := []byte{1, 2, 3}

	recordDigest, _ := DigestRecord(record)
	paddedRecordDigest, _ := DigestRecordWithPadding(record, PadStart)
	words := ToWords(data, PadEnd)

	tests := []struct {
		name   string
		sign   func() (Signature, error)
		digest Digest
	}{
		{
			name:   "record",
			sign:   func() (Signature, error) { return SignRecord(record, key) },
			digest: recordDigest,
		},
		{
			name:   "record with padding",
			sign:   func() (Signature, error) { return SignRecordWithPadding(record, PadStart, key) },
			digest: paddedRecordDigest,
		},
		{
			name:   "words",
			sign:   func() (Signature, error) { return SignWords(words, key) },
			digest: HashWords(words),
		},
		{
			name:   "bytes with padding",
			sign:   func() (Signature, error) { return SignBytesWithPadding(data, PadEnd, key) },
			digest: DigestBytesWithPadding(data, PadEnd),
		},
		{
			name:   "aligned bytes",
			sign:   func() (Signature, error) { return SignAlignedBytes(make([]byte, 16), key) },
			digest: HashBytes(make([]byte, 16)),
		},
		{
			name:   "unchecked bytes",
			sign:   func() (Signature, error) { return SignBytesUnchecked(data, key) },
			digest: HashBytes(data),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := tt.sign()
			if err != nil {
				t.Fatalf("sign error = %v", err)
			}
			if err := Verify(sig, tt.digest, pub); err != nil {
				t.Errorf("Verify() error = %v", err)
			}
		})
	}
}

func TestSignAlignedBytesRejectsUnaligned(t *testing.T) {
	key := newSecpKey(t)
	if _, err := SignAlignedBytes(make([]byte, 15), key); !errors.Is(err, ErrNotWordAligned) {
		t.Errorf("SignAlignedBytes(15) error = %v, want ErrNotWordAligned", err)
	}
	if _, err := SignBytesUnchecked(make([]byte, 15), key); err != nil {
		t.Errorf("SignBytesUnchecked(15) error = %v", err)
	}
}

func TestPrivateKeyFromBytesValidation(t *testing.T) {
	order, _ := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	tests := []struct {
		name   string
		scheme Scheme
		secret []byte
	}{
		{"short", Secp256k1, make([]byte, 31)},
		{"zero scalar", Secp256k1, make([]byte, 32)},
		{"curve order", Secp256k1, order},
		{"short ed25519 seed", Ed25519, make([]byte, 16)},
		{"unknown scheme", Scheme(9), make([]byte, 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PrivateKeyFromBytes(tt.scheme, tt.secret); err == nil {
				t.Error("PrivateKeyFromBytes() error = nil, want error")
			}
		})
	}

	key := newSecpKey(t)
	restored, err := PrivateKeyFromBytes(Secp256k1, key.Bytes())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes(round trip) error = %v", err)
	}
	a, _ := key.PublicKey()
	b, _ := restored.PublicKey()
	if !a.Equal(b) {
		t.Error("restored key derives a different public key")
	}
}

func TestPublicKeyFromBytes(t *testing.T) {
	pub, _ := newSecpKey(t).PublicKey()
	parsed, err := PublicKeyFromBytes(Secp256k1, pub.Bytes())
	if err != nil {
		t.Fatalf("PublicKeyFromBytes() error = %v", err)
	}
	if !parsed.Equal(pub) {
		t.Error("PublicKeyFromBytes() did not round trip")
	}
	if _, err := PublicKeyFromBytes(Secp256k1, []byte{2, 1}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("PublicKeyFromBytes(garbage) error = %v, want ErrInvalidKey", err)
	}
}

func TestPrivateKeyStringHidesSecret(t *testing.T) {
	key := scalarOne(t)
	if got := key.String(); got != "secp256k1 private key" {
		t.Errorf("String() = %q", got)
	}
}
