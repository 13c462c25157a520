package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"google.golang.org/protobuf/proto"
)

// SignHash signs a digest that has already been computed.
//
// For secp256k1 the digest is the signed message: it is not hashed again. The result is a
// recoverable signature produced with RFC 6979 deterministic nonces. Ed25519 keys return
// ErrNotSupported.
func SignHash(digest Digest, key PrivateKey) (Signature, error) {
	if !key.Valid() {
		return Signature{}, fmt.Errorf("%w: empty private key", ErrInvalidKey)
	}
	if err := key.scheme.require(CapSignHash); err != nil {
		return Signature{}, err
	}
	switch key.scheme {
	case Secp256k1:
		compact := ecdsa.SignCompact(key.secp, digest[:], true)
		var rs [SignatureSize]byte
		copy(rs[:], compact[1:])
		return NewSecp256k1Signature(rs, compact[0]-compactMagic)
	case Ed25519:
		return Signature{}, fmt.Errorf("%w: ed25519 signing", ErrNotSupported)
	}
	return Signature{}, fmt.Errorf("%w: %s", ErrUnknownScheme, key.scheme)
}

// SignRecord serializes a record with the deterministic codec, hashes it and signs the hash.
// The serialized record is not padded.
func SignRecord(record proto.Message, key PrivateKey) (Signature, error) {
	digest, err := DigestRecord(record)
	if err != nil {
		return Signature{}, err
	}
	return SignHash(digest, key)
}

// SignRecordWithPadding serializes a record, word aligns it, then hashes and signs.
func SignRecordWithPadding(record proto.Message, side Padding, key PrivateKey) (Signature, error) {
	digest, err := DigestRecordWithPadding(record, side)
	if err != nil {
		return Signature{}, err
	}
	return SignHash(digest, key)
}

// SignWords hashes a word sequence with HashWords and signs the hash.
func SignWords(words []Word, key PrivateKey) (Signature, error) {
	return SignHash(HashWords(words), key)
}

// SignBytesWithPadding word aligns data, then hashes and signs it.
// Data that is already aligned is not padded.
func SignBytesWithPadding(data []byte, side Padding, key PrivateKey) (Signature, error) {
	return SignHash(DigestBytesWithPadding(data, side), key)
}

// SignAlignedBytes hashes and signs data that must already be word aligned.
// It returns ErrNotWordAligned otherwise.
func SignAlignedBytes(data []byte, key PrivateKey) (Signature, error) {
	digest, err := DigestAlignedBytes(data)
	if err != nil {
		return Signature{}, err
	}
	return SignHash(digest, key)
}

// SignBytesUnchecked hashes and signs data without checking word alignment.
// The caller asserts that the consumer of the signature accepts the data as is.
func SignBytesUnchecked(data []byte, key PrivateKey) (Signature, error) {
	return SignHash(HashBytes(data), key)
}
