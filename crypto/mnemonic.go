package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"
)

// ErrInvalidMnemonic is returned when a recovery phrase fails the BIP-39 checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

const mnemonicEntropyBits = 256

// NewMnemonic returns a fresh 24 word BIP-39 recovery phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer zeroize(entropy)
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to build mnemonic: %w", err)
	}
	return mnemonic, nil
}

// KeyFromMnemonic deterministically derives a private key from a BIP-39 recovery phrase.
// The BIP-39 seed is expanded with HKDF-SHA256 using a per-scheme info string; for
// secp256k1 the expansion continues until a valid scalar is produced.
func KeyFromMnemonic(mnemonic string, scheme Scheme) (PrivateKey, error) {
	if err := scheme.require(CapGenerate); err != nil {
		return PrivateKey{}, err
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return PrivateKey{}, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, "")
	defer zeroize(seed)

	reader := hkdf.New(sha256.New, seed, nil, []byte("keywallet/"+scheme.String()+"/v1"))
	secret := make([]byte, SecretSize)
	defer zeroize(secret)
	for {
		if _, err := io.ReadFull(reader, secret); err != nil {
			return PrivateKey{}, fmt.Errorf("failed to expand seed: %w", err)
		}
		key, err := PrivateKeyFromBytes(scheme, secret)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, ErrInvalidKey) {
			return PrivateKey{}, err
		}
	}
}
