package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// SignatureSize is the size of the compact (r,s) pair and of an ed25519 signature.
	SignatureSize = 64
	// Secp256k1CompactSize is r || s || recovery id.
	Secp256k1CompactSize = SignatureSize + 1
	// Secp256k1AlignedSize is r || s followed by the recovery id as one big-endian word.
	Secp256k1AlignedSize = SignatureSize + WordSize

	// compactMagic is added to the recovery code of a compact signature for a compressed key.
	compactMagic = 27 + 4
)

// ErrInvalidSignature is returned when signature bytes cannot be decoded or do not verify.
var ErrInvalidSignature = errors.New("invalid signature")

// Form selects a signature serialization.
type Form uint8

const (
	// FormAligned is the fixed size, word aligned layout the VM reads.
	FormAligned Form = iota + 1
	// FormCompact is the minimal encoding used for transport and display.
	FormCompact
)

// String returns the form name.
func (f Form) String() string {
	switch f {
	case FormAligned:
		return "aligned"
	case FormCompact:
		return "compact"
	default:
		return fmt.Sprintf("form(%d)", uint8(f))
	}
}

// Signature is a signature tagged with its scheme. Two signatures are equal
// when their scheme, bytes and recovery id match, so == compares them structurally.
type Signature struct {
	scheme     Scheme
	sig        [SignatureSize]byte
	recoveryID byte
}

// NewSecp256k1Signature builds a recoverable signature from r || s and a recovery id in [0,3].
func NewSecp256k1Signature(compact [SignatureSize]byte, recoveryID byte) (Signature, error) {
	if recoveryID > 3 {
		return Signature{}, fmt.Errorf("%w: recovery id %d out of range", ErrInvalidSignature, recoveryID)
	}
	if _, err := parseRS(compact); err != nil {
		return Signature{}, err
	}
	return Signature{scheme: Secp256k1, sig: compact, recoveryID: recoveryID}, nil
}

// NewEd25519Signature wraps a raw ed25519 signature.
func NewEd25519Signature(sig [SignatureSize]byte) Signature {
	return Signature{scheme: Ed25519, sig: sig}
}

// Scheme returns the signature scheme.
func (s Signature) Scheme() Scheme {
	return s.scheme
}

// Compact returns r || s for secp256k1 or the raw ed25519 signature.
func (s Signature) Compact() [SignatureSize]byte {
	return s.sig
}

// RecoveryID returns the secp256k1 recovery id. It is always 0 for ed25519.
func (s Signature) RecoveryID() byte {
	return s.recoveryID
}

// Equal reports structural equality.
func (s Signature) Equal(other Signature) bool {
	return s == other
}

// String returns the hex encoded compact form.
func (s Signature) String() string {
	b, err := EncodeSignature(s, FormCompact)
	if err != nil {
		return "invalid signature"
	}
	return s.scheme.String() + ":" + hex.EncodeToString(b)
}

// EncodeSignature serializes a signature.
//
// Secp256k1 aligned is 72 bytes (r || s || recovery id as a big-endian word) and compact is
// 65 bytes (r || s || recovery id). Ed25519 is 64 bytes in both forms, already word aligned.
func EncodeSignature(sig Signature, form Form) ([]byte, error) {
	if err := sig.scheme.require(CapSerializeSignature); err != nil {
		return nil, err
	}
	switch sig.scheme {
	case Secp256k1:
		switch form {
		case FormAligned:
			out := make([]byte, Secp256k1AlignedSize)
			copy(out, sig.sig[:])
			out[Secp256k1AlignedSize-1] = sig.recoveryID
			return out, nil
		case FormCompact:
			out := make([]byte, Secp256k1CompactSize)
			copy(out, sig.sig[:])
			out[SignatureSize] = sig.recoveryID
			return out, nil
		}
	case Ed25519:
		if form == FormAligned || form == FormCompact {
			out := make([]byte, SignatureSize)
			copy(out, sig.sig[:])
			return out, nil
		}
	}
	return nil, fmt.Errorf("unknown signature form %s", form)
}

// DecodeSignature parses bytes produced by EncodeSignature with the same scheme and form.
func DecodeSignature(b []byte, scheme Scheme, form Form) (Signature, error) {
	if err := scheme.require(CapSerializeSignature); err != nil {
		return Signature{}, err
	}
	var raw [SignatureSize]byte
	switch scheme {
	case Secp256k1:
		var recoveryWord []byte
		switch form {
		case FormAligned:
			if len(b) != Secp256k1AlignedSize {
				return Signature{}, fmt.Errorf("%w: aligned secp256k1 signature must be %d bytes, got %d", ErrInvalidSignature, Secp256k1AlignedSize, len(b))
			}
			recoveryWord = b[SignatureSize:]
		case FormCompact:
			if len(b) != Secp256k1CompactSize {
				return Signature{}, fmt.Errorf("%w: compact secp256k1 signature must be %d bytes, got %d", ErrInvalidSignature, Secp256k1CompactSize, len(b))
			}
			recoveryWord = b[SignatureSize:]
		default:
			return Signature{}, fmt.Errorf("unknown signature form %s", form)
		}
		for _, pad := range recoveryWord[:len(recoveryWord)-1] {
			if pad != 0 {
				return Signature{}, fmt.Errorf("%w: recovery id word out of range", ErrInvalidSignature)
			}
		}
		copy(raw[:], b[:SignatureSize])
		return NewSecp256k1Signature(raw, recoveryWord[len(recoveryWord)-1])
	case Ed25519:
		if form != FormAligned && form != FormCompact {
			return Signature{}, fmt.Errorf("unknown signature form %s", form)
		}
		if len(b) != SignatureSize {
			return Signature{}, fmt.Errorf("%w: ed25519 signature must be %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(b))
		}
		copy(raw[:], b)
		return NewEd25519Signature(raw), nil
	}
	return Signature{}, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
}

// SignatureToWords returns the VM word layout of a signature (9 words for secp256k1).
func SignatureToWords(sig Signature) ([]Word, error) {
	switch sig.scheme {
	case Secp256k1:
		b, err := EncodeSignature(sig, FormAligned)
		if err != nil {
			return nil, err
		}
		return ToWords(b, PadEnd), nil
	case Ed25519:
		return nil, fmt.Errorf("%w: ed25519 signature words", ErrNotSupported)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, sig.scheme)
}

// Verify checks sig over digest against pub. It returns nil when the signature is valid.
func Verify(sig Signature, digest Digest, pub PublicKey) error {
	if sig.scheme != pub.scheme {
		return fmt.Errorf("%w: %s signature with %s public key", ErrInvalidSignature, sig.scheme, pub.scheme)
	}
	switch sig.scheme {
	case Secp256k1:
		if pub.secp == nil {
			return fmt.Errorf("%w: empty public key", ErrInvalidKey)
		}
		parsed, err := parseRS(sig.sig)
		if err != nil {
			return err
		}
		if !parsed.Verify(digest[:], pub.secp) {
			return fmt.Errorf("%w: verification failed", ErrInvalidSignature)
		}
		return nil
	case Ed25519:
		return fmt.Errorf("%w: ed25519 verification", ErrNotSupported)
	}
	return fmt.Errorf("%w: %s", ErrUnknownScheme, sig.scheme)
}

// RecoverPublicKey recovers the signer's public key from a secp256k1 signature and the signed digest.
func RecoverPublicKey(sig Signature, digest Digest) (PublicKey, error) {
	if sig.scheme != Secp256k1 {
		return PublicKey{}, fmt.Errorf("%w: public key recovery for %s", ErrNotSupported, sig.scheme)
	}
	compact := make([]byte, Secp256k1CompactSize)
	compact[0] = compactMagic + sig.recoveryID
	copy(compact[1:], sig.sig[:])
	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return PublicKey{scheme: Secp256k1, secp: pub}, nil
}

// parseRS validates r and s as non-zero scalars below the curve order.
func parseRS(compact [SignatureSize]byte) (*ecdsa.Signature, error) {
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(compact[:32]); overflow || r.IsZero() {
		return nil, fmt.Errorf("%w: r out of range", ErrInvalidSignature)
	}
	if overflow := s.SetByteSlice(compact[32:]); overflow || s.IsZero() {
		return nil, fmt.Errorf("%w: s out of range", ErrInvalidSignature)
	}
	return ecdsa.NewSignature(&r, &s), nil
}
