package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// DigestSize is the size of every digest handed to a signer.
const DigestSize = sha256.Size

// Digest is the SHA-256 hash that is actually signed.
type Digest [DigestSize]byte

// String returns the hex encoded digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFromBytes copies a 32-byte hash computed elsewhere.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// recordCodec serializes structured records. Deterministic output keeps map ordering
// stable so the same record always hashes to the same digest.
var recordCodec = proto.MarshalOptions{Deterministic: true}

// HashBytes hashes data with SHA-256.
// It does not pad or check whether the data is word aligned.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// HashWords hashes the big-endian byte image of words with SHA-256.
func HashWords(words []Word) Digest {
	h := sha256.New()
	var buf [WordSize]byte
	for _, w := range words {
		binary.BigEndian.PutUint64(buf[:], uint64(w))
		h.Write(buf[:])
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

// RecordBytes serializes a record with the compact deterministic codec. No padding is applied.
func RecordBytes(record proto.Message) ([]byte, error) {
	if record == nil {
		return nil, errors.New("record cannot be nil")
	}
	data, err := recordCodec.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	return data, nil
}

// RecordBytesWithPadding serializes a record and word aligns the result.
func RecordBytesWithPadding(record proto.Message, side Padding) ([]byte, error) {
	data, err := RecordBytes(record)
	if err != nil {
		return nil, err
	}
	return AlignToWord(data, side), nil
}

// DigestRecord serializes then hashes a record without padding.
func DigestRecord(record proto.Message) (Digest, error) {
	data, err := RecordBytes(record)
	if err != nil {
		return Digest{}, err
	}
	return HashBytes(data), nil
}

// DigestRecordWithPadding serializes, word aligns, then hashes a record.
func DigestRecordWithPadding(record proto.Message, side Padding) (Digest, error) {
	data, err := RecordBytesWithPadding(record, side)
	if err != nil {
		return Digest{}, err
	}
	return HashBytes(data), nil
}

// DigestBytesWithPadding word aligns then hashes data. Aligned data is hashed as is.
func DigestBytesWithPadding(data []byte, side Padding) Digest {
	return HashBytes(AlignToWord(data, side))
}

// DigestAlignedBytes hashes data that must already be word aligned.
func DigestAlignedBytes(data []byte) (Digest, error) {
	if !IsWordAligned(data) {
		return Digest{}, fmt.Errorf("%w: length %d is not a multiple of %d", ErrNotWordAligned, len(data), WordSize)
	}
	return HashBytes(data), nil
}
