package wallet

import (
	"github.com/joncooperworks/keywallet/crypto"
	"google.golang.org/protobuf/proto"
)

// sign loads the key stored under name, runs fn and wipes the key.
func (w *Wallet) sign(operation, name string, fn func(crypto.PrivateKey) (crypto.Signature, error)) (sig crypto.Signature, err error) {
	defer func() { w.metrics.observe(operation, err) }()
	key, err := w.load(name)
	if err != nil {
		return crypto.Signature{}, err
	}
	defer key.Zero()
	return fn(key)
}

// SignRecord signs the deterministic encoding of msg without padding.
func (w *Wallet) SignRecord(msg proto.Message, name string) (crypto.Signature, error) {
	return w.sign("sign_record", name, func(key crypto.PrivateKey) (crypto.Signature, error) {
		return crypto.SignRecord(msg, key)
	})
}

// SignRecordWithPadding signs the encoding of msg padded to a word boundary on side.
func (w *Wallet) SignRecordWithPadding(msg proto.Message, side crypto.Padding, name string) (crypto.Signature, error) {
	return w.sign("sign_record", name, func(key crypto.PrivateKey) (crypto.Signature, error) {
		return crypto.SignRecordWithPadding(msg, side, key)
	})
}

// SignWords signs the big-endian byte image of words.
func (w *Wallet) SignWords(words []crypto.Word, name string) (crypto.Signature, error) {
	return w.sign("sign_words", name, func(key crypto.PrivateKey) (crypto.Signature, error) {
		return crypto.SignWords(words, key)
	})
}

// SignBytesWithPadding pads data on side and signs it.
func (w *Wallet) SignBytesWithPadding(data []byte, side crypto.Padding, name string) (crypto.Signature, error) {
	return w.sign("sign_bytes", name, func(key crypto.PrivateKey) (crypto.Signature, error) {
		return crypto.SignBytesWithPadding(data, side, key)
	})
}

// SignAlignedBytes signs data, which must be a whole number of words.
func (w *Wallet) SignAlignedBytes(data []byte, name string) (crypto.Signature, error) {
	return w.sign("sign_bytes", name, func(key crypto.PrivateKey) (crypto.Signature, error) {
		return crypto.SignAlignedBytes(data, key)
	})
}

// SignBytesUnchecked signs data of any length.
func (w *Wallet) SignBytesUnchecked(data []byte, name string) (crypto.Signature, error) {
	return w.sign("sign_bytes", name, func(key crypto.PrivateKey) (crypto.Signature, error) {
		return crypto.SignBytesUnchecked(data, key)
	})
}

// SignHash signs a digest computed by the caller.
func (w *Wallet) SignHash(digest crypto.Digest, name string) (crypto.Signature, error) {
	return w.sign("sign_hash", name, func(key crypto.PrivateKey) (crypto.Signature, error) {
		return crypto.SignHash(digest, key)
	})
}
