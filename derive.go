package dealchain

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/dealchain/errors"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included, that can be
	// used to derive a program address.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var programAddressMarker = []byte("ProgramDerivedAddress")

// ProgramID returns the well-known identity of a program with given name.
func ProgramID(name string) Address {
	return Address(sha256.Sum256([]byte("program:" + name)))
}

// CreateProgramAddress derives an address from the program id and the seeds.
// Derived addresses are never valid ed25519 public keys, so nobody holds a
// private key for them and only the program can authorize on their behalf.
// Seeds that hash onto the curve are rejected with ErrInvalidSeeds.
func CreateProgramAddress(program Address, seeds ...[]byte) (Address, error) {
	if len(seeds) > MaxSeeds {
		return ZeroAddress, errors.Wrapf(errors.ErrInvalidSeeds, "%d seeds, max %d", len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return ZeroAddress, errors.Wrapf(errors.ErrInvalidSeeds, "seed %d is %d bytes long", i, len(s))
		}
		_, _ = h.Write(s)
	}
	_, _ = h.Write(program[:])
	_, _ = h.Write(programAddressMarker)

	var addr Address
	copy(addr[:], h.Sum(nil))
	if isOnCurve(addr) {
		return ZeroAddress, errors.Wrap(errors.ErrInvalidSeeds, "derived address is on curve")
	}
	return addr, nil
}

// FindProgramAddress searches for the highest bump seed, starting at 255, for
// which CreateProgramAddress(program, seeds..., bump) succeeds. The returned
// bump must be stored by the caller to cheaply recreate the address later.
func FindProgramAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return ZeroAddress, 0, errors.Wrapf(errors.ErrInvalidSeeds, "%d seeds leave no room for bump", len(seeds))
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(program, withBump...)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.ErrInvalidSeeds.Is(err) {
			return ZeroAddress, 0, err
		}
	}
	return ZeroAddress, 0, errors.Wrap(errors.ErrInvalidSeeds, "no viable bump")
}

func isOnCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}
