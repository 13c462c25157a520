package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodingRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{104, 22, 33},
		{0x00, 0xFF, 0x80, 0x7F},
		[]byte("the quick brown fox"),
	}
	encodings := []Encoding{EncodingBytes, EncodingHex, EncodingBase64, EncodingBase64URLNoPad, EncodingBase58}

	for _, enc := range encodings {
		for _, in := range inputs {
			t.Run(enc.String(), func(t *testing.T) {
				text, err := EncodeString(in, enc)
				if err != nil {
					t.Fatalf("EncodeString() error = %v", err)
				}
				out, err := DecodeString(text, enc)
				if err != nil {
					t.Fatalf("DecodeString(%q) error = %v", text, err)
				}
				if !bytes.Equal(out, in) {
					t.Errorf("round trip = %v, want %v", out, in)
				}
			})
		}
	}
}

func TestEncodingFormats(t *testing.T) {
	data := []byte{104, 22, 33, 251}
	tests := []struct {
		enc  Encoding
		want string
	}{
		{EncodingBytes, "[104,22,33,251]"},
		{EncodingHex, "681621fb"},
		{EncodingBase64, "aBYh+w=="},
		{EncodingBase64URLNoPad, "aBYh-w"},
	}
	for _, tt := range tests {
		got, err := EncodeString(data, tt.enc)
		if err != nil {
			t.Fatalf("EncodeString(%s) error = %v", tt.enc, err)
		}
		if got != tt.want {
			t.Errorf("EncodeString(%s) = %q, want %q", tt.enc, got, tt.want)
		}
	}
}

func TestDecodeStringHandWritten(t *testing.T) {
	out, err := DecodeString("[104, 22, 33]", EncodingBytes)
	if err != nil || !bytes.Equal(out, []byte{104, 22, 33}) {
		t.Errorf("DecodeString(bytes) = %v, %v", out, err)
	}
	if _, err := DecodeString("[256]", EncodingBytes); err == nil {
		t.Error("DecodeString([256]) error = nil, want error")
	}
	out, err = DecodeString("0x0102", EncodingHex)
	if err != nil || !bytes.Equal(out, []byte{1, 2}) {
		t.Errorf("DecodeString(0x0102) = %v, %v", out, err)
	}
}

func TestParseEncoding(t *testing.T) {
	for _, enc := range []Encoding{EncodingBytes, EncodingHex, EncodingBase64, EncodingBase64URLNoPad, EncodingBase58} {
		got, err := ParseEncoding(enc.String())
		if err != nil || got != enc {
			t.Errorf("ParseEncoding(%q) = %v, %v", enc.String(), got, err)
		}
	}
	if _, err := ParseEncoding("rot13"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("ParseEncoding(rot13) error = %v, want ErrUnknownEncoding", err)
	}
}
