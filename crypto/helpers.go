package crypto

import (
	"github.com/iov-one/dealchain"
)

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}

// Verifier checks signatures created by a Signer.
type Verifier interface {
	Verify(message, sig []byte) bool
	Address() dealchain.Address
}
