package crypto

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownScheme is returned when a persisted or user supplied scheme tag is not recognised.
	ErrUnknownScheme = errors.New("unknown scheme")
	// ErrNotSupported is returned when an operation reaches a scheme that is declared but not implemented.
	ErrNotSupported = errors.New("not supported")
)

// Scheme identifies the signature algorithm family of a key.
type Scheme uint8

const (
	// Secp256k1 is recoverable ECDSA over the secp256k1 curve.
	Secp256k1 Scheme = iota + 1
	// Ed25519 keys can be stored and their public keys derived, but signing is not implemented.
	Ed25519
)

// Capability is an operation a scheme may expose.
type Capability uint8

const (
	// CapSignHash produces a signature over a 256-bit digest.
	CapSignHash Capability = iota + 1
	// CapDerivePublicKey derives the public key from the private key.
	CapDerivePublicKey
	// CapSerializeSignature encodes and decodes signatures.
	CapSerializeSignature
	// CapGenerate creates new random private keys.
	CapGenerate
)

// Schemes returns every scheme known to this package, in tag order.
func Schemes() []Scheme {
	return []Scheme{Secp256k1, Ed25519}
}

// String returns the stable tag persisted alongside stored keys.
func (s Scheme) String() string {
	switch s {
	case Secp256k1:
		return "secp256k1"
	case Ed25519:
		return "ed25519"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// ParseScheme parses a persisted scheme tag.
func ParseScheme(tag string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "secp256k1":
		return Secp256k1, nil
	case "ed25519":
		return Ed25519, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, tag)
	}
}

// Supports reports whether the scheme implements the capability.
func (s Scheme) Supports(c Capability) bool {
	switch s {
	case Secp256k1:
		return true
	case Ed25519:
		return c == CapDerivePublicKey || c == CapSerializeSignature
	default:
		return false
	}
}

// require returns ErrNotSupported (or ErrUnknownScheme) when s lacks capability c.
func (s Scheme) require(c Capability) error {
	switch s {
	case Secp256k1, Ed25519:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownScheme, s)
	}
	if !s.Supports(c) {
		return fmt.Errorf("%w: %s %s", ErrNotSupported, s, c)
	}
	return nil
}

// String names the capability for error messages.
func (c Capability) String() string {
	switch c {
	case CapSignHash:
		return "signing"
	case CapDerivePublicKey:
		return "public key derivation"
	case CapSerializeSignature:
		return "signature serialization"
	case CapGenerate:
		return "key generation"
	default:
		return fmt.Sprintf("capability(%d)", uint8(c))
	}
}

// MarshalText implements encoding.TextMarshaler so schemes render as their tag in YAML and JSON.
func (s Scheme) MarshalText() ([]byte, error) {
	if s != Secp256k1 && s != Ed25519 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
