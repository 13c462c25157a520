package crypto

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SecretSize is the length of the persisted secret for every scheme:
// the secp256k1 scalar or the ed25519 seed.
const SecretSize = 32

// ErrInvalidKey is returned when key material cannot be decoded for its scheme.
var ErrInvalidKey = errors.New("invalid key")

// PrivateKey is a private key tagged with its scheme.
// The zero value is not a usable key.
type PrivateKey struct {
	scheme Scheme
	secp   *secp256k1.PrivateKey
	ed     ed25519.PrivateKey
}

// PublicKey is a public key tagged with its scheme. It is always derived from a PrivateKey
// or decoded from bytes, never stored.
type PublicKey struct {
	scheme Scheme
	secp   *secp256k1.PublicKey
	ed     ed25519.PublicKey
}

// GenerateKey creates a new random private key for the scheme.
func GenerateKey(scheme Scheme) (PrivateKey, error) {
	if err := scheme.require(CapGenerate); err != nil {
		return PrivateKey{}, err
	}
	switch scheme {
	case Secp256k1:
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return PrivateKey{}, fmt.Errorf("failed to generate secp256k1 key: %w", err)
		}
		return PrivateKey{scheme: Secp256k1, secp: key}, nil
	case Ed25519:
		return PrivateKey{}, fmt.Errorf("%w: ed25519 key generation", ErrNotSupported)
	}
	return PrivateKey{}, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
}

// PrivateKeyFromBytes decodes a 32-byte secret for the scheme.
// Secp256k1 scalars must be non-zero and below the curve order; they are not reduced.
// The input slice is copied.
func PrivateKeyFromBytes(scheme Scheme, secret []byte) (PrivateKey, error) {
	if len(secret) != SecretSize {
		return PrivateKey{}, fmt.Errorf("%w: %s secret must be %d bytes, got %d", ErrInvalidKey, scheme, SecretSize, len(secret))
	}
	switch scheme {
	case Secp256k1:
		var scalar secp256k1.ModNScalar
		if overflow := scalar.SetByteSlice(secret); overflow || scalar.IsZero() {
			scalar.Zero()
			return PrivateKey{}, fmt.Errorf("%w: secp256k1 scalar out of range", ErrInvalidKey)
		}
		return PrivateKey{scheme: Secp256k1, secp: secp256k1.NewPrivateKey(&scalar)}, nil
	case Ed25519:
		return PrivateKey{scheme: Ed25519, ed: ed25519.NewKeyFromSeed(secret)}, nil
	}
	return PrivateKey{}, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
}

// Scheme returns the key's scheme.
func (k PrivateKey) Scheme() Scheme {
	return k.scheme
}

// Valid reports whether k holds key material.
func (k PrivateKey) Valid() bool {
	switch k.scheme {
	case Secp256k1:
		return k.secp != nil
	case Ed25519:
		return len(k.ed) == ed25519.PrivateKeySize
	}
	return false
}

// Bytes returns a copy of the 32-byte secret. Callers own the copy and should wipe it.
func (k PrivateKey) Bytes() []byte {
	switch k.scheme {
	case Secp256k1:
		if k.secp != nil {
			return k.secp.Serialize()
		}
	case Ed25519:
		if len(k.ed) == ed25519.PrivateKeySize {
			return k.ed.Seed()
		}
	}
	return nil
}

// PublicKey derives the public key.
func (k PrivateKey) PublicKey() (PublicKey, error) {
	if !k.Valid() {
		return PublicKey{}, fmt.Errorf("%w: empty private key", ErrInvalidKey)
	}
	if err := k.scheme.require(CapDerivePublicKey); err != nil {
		return PublicKey{}, err
	}
	switch k.scheme {
	case Secp256k1:
		return PublicKey{scheme: Secp256k1, secp: k.secp.PubKey()}, nil
	case Ed25519:
		return PublicKey{scheme: Ed25519, ed: k.ed.Public().(ed25519.PublicKey)}, nil
	}
	return PublicKey{}, fmt.Errorf("%w: %s", ErrUnknownScheme, k.scheme)
}

// Zero wipes the key material. The key is unusable afterwards.
func (k *PrivateKey) Zero() {
	if k.secp != nil {
		k.secp.Zero()
		k.secp = nil
	}
	zeroize(k.ed)
	k.ed = nil
}

// String never prints key material.
func (k PrivateKey) String() string {
	return fmt.Sprintf("%s private key", k.scheme)
}

// PublicKeyFromBytes decodes a public key: 33-byte compressed (or 65-byte uncompressed)
// secp256k1 points, 32-byte ed25519 keys.
func PublicKeyFromBytes(scheme Scheme, b []byte) (PublicKey, error) {
	switch scheme {
	case Secp256k1:
		pub, err := secp256k1.ParsePubKey(b)
		if err != nil {
			return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return PublicKey{scheme: Secp256k1, secp: pub}, nil
	case Ed25519:
		if len(b) != ed25519.PublicKeySize {
			return PublicKey{}, fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d", ErrInvalidKey, ed25519.PublicKeySize, len(b))
		}
		return PublicKey{scheme: Ed25519, ed: bytes.Clone(b)}, nil
	}
	return PublicKey{}, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
}

// Scheme returns the key's scheme.
func (p PublicKey) Scheme() Scheme {
	return p.scheme
}

// Bytes returns the compressed secp256k1 point (33 bytes) or the ed25519 key (32 bytes).
func (p PublicKey) Bytes() []byte {
	switch p.scheme {
	case Secp256k1:
		if p.secp != nil {
			return p.secp.SerializeCompressed()
		}
	case Ed25519:
		return bytes.Clone(p.ed)
	}
	return nil
}

// Equal reports whether both keys have the same scheme and point.
func (p PublicKey) Equal(other PublicKey) bool {
	if p.scheme != other.scheme {
		return false
	}
	switch p.scheme {
	case Secp256k1:
		if p.secp == nil || other.secp == nil {
			return p.secp == other.secp
		}
		return p.secp.IsEqual(other.secp)
	case Ed25519:
		return bytes.Equal(p.ed, other.ed)
	}
	return false
}

// String returns the scheme and hex encoded key.
func (p PublicKey) String() string {
	return p.scheme.String() + ":" + hex.EncodeToString(p.Bytes())
}

// PublicKeyToWords returns the VM word layout of a public key.
// Secp256k1 compressed points are end-padded to 5 words, ed25519 keys fill 4 words.
func PublicKeyToWords(p PublicKey) []Word {
	return ToWords(p.Bytes(), PadEnd)
}
