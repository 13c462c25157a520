package keystore

import (
	"fmt"
	"strings"

	"github.com/joncooperworks/keywallet/crypto"
)

// SecretStore is a key/value backend for sealed secrets, addressed by reference.
type SecretStore interface {
	// Set stores secret under ref, overwriting any existing value.
	Set(ref string, secret []byte) error
	// Get returns the secret stored under ref, or ErrSecretNotFound.
	Get(ref string) ([]byte, error)
	// Remove deletes the secret stored under ref, or returns ErrSecretNotFound.
	Remove(ref string) error
	// Keys returns every reference held by the backend.
	Keys() ([]string, error)
}

// SecretRef is the backend reference of the secret for a named key: "scheme:name".
func SecretRef(scheme crypto.Scheme, name string) string {
	return scheme.String() + ":" + name
}

// ParseSecretRef splits a reference produced by SecretRef.
func ParseSecretRef(ref string) (crypto.Scheme, string, error) {
	tag, name, ok := strings.Cut(ref, ":")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("malformed secret reference %q", ref)
	}
	scheme, err := crypto.ParseScheme(tag)
	if err != nil {
		return 0, "", err
	}
	return scheme, name, nil
}
