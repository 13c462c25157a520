package crypto

import "runtime"

// Wipe overwrites secret bytes with zeros once the caller is done with them.
// Stores call it on decrypted secrets and the wallet on every temporary key copy.
func Wipe(b []byte) {
	zeroize(b)
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
