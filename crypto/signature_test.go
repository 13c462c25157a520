package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestSignatureRoundTrip(t *testing.T) {
	key := newSecpKey(t)
	secpSig, err := SignHash(HashBytes([]byte("round trip")), key)
	if err != nil {
		t.Fatalf("SignHash() error = %v", err)
	}
	var raw [SignatureSize]byte
	for i := range raw {
		raw[i] = byte(i)
	}
	edSig := NewEd25519Signature(raw)

	for _, sig := range []Signature{secpSig, edSig} {
		for _, form := range []Form{FormAligned, FormCompact} {
			t.Run(sig.Scheme().String()+"/"+form.String(), func(t *testing.T) {
				encoded, err := EncodeSignature(sig, form)
				if err != nil {
					t.Fatalf("EncodeSignature() error = %v", err)
				}
				decoded, err := DecodeSignature(encoded, sig.Scheme(), form)
				if err != nil {
					t.Fatalf("DecodeSignature() error = %v", err)
				}
				if !decoded.Equal(sig) {
					t.Errorf("DecodeSignature(EncodeSignature()) = %s, want %s", decoded, sig)
				}
			})
		}
	}
}

func TestSignatureLayouts(t *testing.T) {
	key := newSecpKey(t)
	sig, err := SignHash(HashBytes([]byte("layout")), key)
	if err != nil {
		t.Fatalf("SignHash() error = %v", err)
	}

	aligned, _ := EncodeSignature(sig, FormAligned)
	if len(aligned) != 72 || !IsWordAligned(aligned) {
		t.Errorf("aligned length = %d, want 72", len(aligned))
	}
	if !bytes.Equal(aligned[64:71], make([]byte, 7)) || aligned[71] != sig.RecoveryID() {
		t.Errorf("aligned recovery word = %x, want big-endian %d", aligned[64:], sig.RecoveryID())
	}

	compact, _ := EncodeSignature(sig, FormCompact)
	if len(compact) != 65 || compact[64] != sig.RecoveryID() {
		t.Errorf("compact = %d bytes with trailing %d, want 65 with recovery id", len(compact), compact[len(compact)-1])
	}

	rs := sig.Compact()
	if !bytes.Equal(aligned[:64], rs[:]) || !bytes.Equal(compact[:64], rs[:]) {
		t.Error("encodings do not start with r || s")
	}

	words, err := SignatureToWords(sig)
	if err != nil {
		t.Fatalf("SignatureToWords() error = %v", err)
	}
	if len(words) != 9 || words[8] != Word(sig.RecoveryID()) {
		t.Errorf("SignatureToWords() = %v, want 9 words ending in the recovery id", words)
	}
}

func TestDecodeSignatureRejects(t *testing.T) {
	key := newSecpKey(t)
	sig, _ := SignHash(HashBytes([]byte("reject")), key)
	aligned, _ := EncodeSignature(sig, FormAligned)
	compact, _ := EncodeSignature(sig, FormCompact)

	badRecovery := bytes.Clone(compact)
	badRecovery[64] = 4
	dirtyWord := bytes.Clone(aligned)
	dirtyWord[64] = 1
	zeroR := bytes.Clone(compact)
	copy(zeroR[:32], make([]byte, 32))

	tests := []struct {
		name   string
		data   []byte
		scheme Scheme
		form   Form
		want   error
	}{
		{"compact as aligned", compact, Secp256k1, FormAligned, ErrInvalidSignature},
		{"aligned as compact", aligned, Secp256k1, FormCompact, ErrInvalidSignature},
		{"recovery id out of range", badRecovery, Secp256k1, FormCompact, ErrInvalidSignature},
		{"non-zero recovery word padding", dirtyWord, Secp256k1, FormAligned, ErrInvalidSignature},
		{"zero r", zeroR, Secp256k1, FormCompact, ErrInvalidSignature},
		{"short ed25519", make([]byte, 63), Ed25519, FormCompact, ErrInvalidSignature},
		{"unknown scheme", compact, Scheme(0), FormCompact, ErrUnknownScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSignature(tt.data, tt.scheme, tt.form); !errors.Is(err, tt.want) {
				t.Errorf("DecodeSignature() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEd25519SignatureWordsNotSupported(t *testing.T) {
	if _, err := SignatureToWords(NewEd25519Signature([SignatureSize]byte{})); !errors.Is(err, ErrNotSupported) {
		t.Errorf("SignatureToWords(ed25519) error = %v, want ErrNotSupported", err)
	}
}

func TestVerifySchemeMismatch(t *testing.T) {
	key := newSecpKey(t)
	sig, _ := SignHash(HashBytes(nil), key)
	edKey, _ := PrivateKeyFromBytes(Ed25519, make([]byte, SecretSize))
	edPub, _ := edKey.PublicKey()
	if err := Verify(sig, HashBytes(nil), edPub); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify(mismatched scheme) error = %v, want ErrInvalidSignature", err)
	}
}
