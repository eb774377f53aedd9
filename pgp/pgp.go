// Package pgp provides verification of detached signatures of downloaded databases
package pgp

import (
	"fmt"
	"io"
)

// Key is key in PGP representation
type Key string

// Matches checks two keys for equality
func (key1 Key) Matches(key2 Key) bool {
	if key1 == key2 {
		return true
	}

	if len(key1) == 8 && len(key2) == 16 {
		return key1 == key2[8:]
	}

	if len(key1) == 16 && len(key2) == 8 {
		return key1[8:] == key2
	}

	return false
}

// KeyFromUint64 converts openpgp uint64 into hex human-readable
func KeyFromUint64(key uint64) Key {
	return Key(fmt.Sprintf("%016X", key))
}

// KeyInfo is response from signature verification
type KeyInfo struct {
	GoodKeys    []Key
	MissingKeys []Key
}

// Verifier interface describes signature verification facility
type Verifier interface {
	InitKeyring() error
	AddKeyring(keyring string)
	VerifyDetachedSignature(signature, cleartext io.Reader) (*KeyInfo, error)
}
