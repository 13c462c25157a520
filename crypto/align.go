package crypto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// WordSize is the width in bytes of a VM word. Every buffer handed to the VM must be a multiple of it.
const WordSize = 8

// ErrNotWordAligned is returned when data that must already be word aligned is not.
var ErrNotWordAligned = errors.New("data is not word aligned")

// Word is a single VM word.
type Word = int64

// Padding selects which side of a buffer receives the zero bytes that word align it.
type Padding uint8

const (
	// PadStart prepends zero bytes.
	PadStart Padding = iota + 1
	// PadEnd appends zero bytes.
	PadEnd
)

// String returns the flag spelling of the padding side.
func (p Padding) String() string {
	switch p {
	case PadStart:
		return "start"
	case PadEnd:
		return "end"
	default:
		return fmt.Sprintf("padding(%d)", uint8(p))
	}
}

// ParsePadding parses "start" or "end".
func ParsePadding(s string) (Padding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start":
		return PadStart, nil
	case "end":
		return PadEnd, nil
	default:
		return 0, fmt.Errorf("unknown padding %q: expected start or end", s)
	}
}

// IsWordAligned reports whether len(data) is a multiple of WordSize.
func IsWordAligned(data []byte) bool {
	return len(data)%WordSize == 0
}

// AlignToWord pads data with zeros so that it is word aligned.
// Already aligned data is returned unchanged. The original length is not recorded,
// so the padding cannot be stripped again.
func AlignToWord(data []byte, side Padding) []byte {
	if IsWordAligned(data) {
		return data
	}
	return PadBytes(data, side)
}

// PadBytes unconditionally pads data with WordSize - len(data)%WordSize zero bytes.
// Aligned input therefore gains a full word; use AlignToWord when data may already be aligned.
// The input slice is never modified.
func PadBytes(data []byte, side Padding) []byte {
	pad := WordSize - len(data)%WordSize
	out := make([]byte, len(data)+pad)
	if side == PadStart {
		copy(out[pad:], data)
	} else {
		copy(out, data)
	}
	return out
}

// ToWords aligns data and reads each 8-byte chunk as a big-endian word.
func ToWords(data []byte, side Padding) []Word {
	data = AlignToWord(data, side)
	words := make([]Word, 0, len(data)/WordSize)
	for i := 0; i < len(data); i += WordSize {
		words = append(words, Word(binary.BigEndian.Uint64(data[i:i+WordSize])))
	}
	return words
}

// WordsToBytes returns the big-endian byte image of words.
func WordsToBytes(words []Word) []byte {
	out := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.BigEndian.PutUint64(out[i*WordSize:], uint64(w))
	}
	return out
}
