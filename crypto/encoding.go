package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// ErrUnknownEncoding is returned for an unrecognised text encoding name.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding is a text representation of binary data used at the program boundary.
type Encoding uint8

const (
	// EncodingBytes is a JSON array of byte values, e.g. "[104, 22, 33]". Easy to write by hand.
	EncodingBytes Encoding = iota + 1
	// EncodingHex is lowercase hexadecimal.
	EncodingHex
	// EncodingBase64 is standard padded base64.
	EncodingBase64
	// EncodingBase64URLNoPad is URL-safe base64 without '=' padding characters.
	// It says nothing about word alignment of the decoded data.
	EncodingBase64URLNoPad
	// EncodingBase58 is the Bitcoin alphabet base58.
	EncodingBase58
)

var encodingNames = map[Encoding]string{
	EncodingBytes:          "bytes",
	EncodingHex:            "hex",
	EncodingBase64:         "base64",
	EncodingBase64URLNoPad: "base64-url-no-pad",
	EncodingBase58:         "base58",
}

// String returns the flag spelling of the encoding.
func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("encoding(%d)", uint8(e))
}

// ParseEncoding parses an encoding name as printed by String.
func ParseEncoding(name string) (Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for enc, n := range encodingNames {
		if n == name {
			return enc, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// EncodeString renders data in the given encoding.
func EncodeString(data []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingBytes:
		values := make([]uint16, len(data))
		for i, b := range data {
			values[i] = uint16(b)
		}
		out, err := json.Marshal(values)
		if err != nil {
			return "", fmt.Errorf("failed to encode bytes: %w", err)
		}
		return string(out), nil
	case EncodingHex:
		return hex.EncodeToString(data), nil
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(data), nil
	case EncodingBase64URLNoPad:
		return base64.RawURLEncoding.EncodeToString(data), nil
	case EncodingBase58:
		return base58.Encode(data), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
}

// DecodeString parses text produced by EncodeString with the same encoding.
func DecodeString(s string, enc Encoding) ([]byte, error) {
	s = strings.TrimSpace(s)
	switch enc {
	case EncodingBytes:
		var values []uint16
		if err := json.Unmarshal([]byte(s), &values); err != nil {
			return nil, fmt.Errorf("failed to decode bytes: %w", err)
		}
		out := make([]byte, len(values))
		for i, v := range values {
			if v > 0xff {
				return nil, fmt.Errorf("failed to decode bytes: value %d at index %d exceeds 255", v, i)
			}
			out[i] = byte(v)
		}
		return out, nil
	case EncodingHex:
		out, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to decode hex: %w", err)
		}
		return out, nil
	case EncodingBase64:
		out, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return out, nil
	case EncodingBase64URLNoPad:
		out, err := base64.RawURLEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64url: %w", err)
		}
		return out, nil
	case EncodingBase58:
		out, err := base58.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base58: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
}
