package crypto

import (
	"testing"
)

func TestWipe(t *testing.T) {
	t.Run("zeroizes secret", func(t *testing.T) {
		secret := make([]byte, SecretSize)
		for i := range secret {
			secret[i] = byte(i + 1)
		}

		Wipe(secret)

		for i, b := range secret {
			if b != 0 {
				t.Errorf("byte at index %d should be 0, got %d", i, b)
			}
		}
	})

	t.Run("handles nil slice", func(t *testing.T) {
		Wipe(nil)
	})
}

func TestPrivateKeyZero(t *testing.T) {
	key, err := GenerateKey(Secp256k1)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	key.Zero()
	if key.Valid() {
		t.Error("key still valid after Zero()")
	}
	if b := key.Bytes(); b != nil {
		t.Errorf("Bytes() after Zero() = %x, want nil", b)
	}

	seed := make([]byte, SecretSize)
	seed[0] = 7
	ed, err := PrivateKeyFromBytes(Ed25519, seed)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes(ed25519) error = %v", err)
	}
	inner := ed.ed
	ed.Zero()
	for i, b := range inner {
		if b != 0 {
			t.Fatalf("ed25519 key byte %d not wiped", i)
		}
	}
}
