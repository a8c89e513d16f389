package chaintest

import (
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a new random key.
func NewAddress() dealchain.Address {
	return NewKey().PublicKey().Address()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) dealchain.Address {
	t.Helper()

	addr, err := dealchain.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
