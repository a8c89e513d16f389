package crypto

import (
	"crypto/rand"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key. It is the address of the account it
// controls.
type PublicKey struct {
	key ed25519.PublicKey
}

var _ Verifier = PublicKey{}

// PublicKeyFromAddress returns the key behind an account address. Derived
// program addresses are not valid keys and never verify a signature.
func PublicKeyFromAddress(a dealchain.Address) PublicKey {
	return PublicKey{key: ed25519.PublicKey(a.Bytes())}
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p.key) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(p.key, message, sig)
}

// Address returns the account address controlled by this key.
func (p PublicKey) Address() dealchain.Address {
	var a dealchain.Address
	copy(a[:], p.key)
	return a
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p.key) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrState, "private key not initialized")
	}
	return ed25519.Sign(p.key, message), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() PublicKey {
	return PublicKey{key: p.key.Public().(ed25519.PublicKey)}
}

// Seed returns the seed the key can be recreated from.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}
