package dealchain

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/dealchain/errors"
)

// AddressLength is the length of all addresses. Account keys, program ids
// and derived program addresses share the same space.
const AddressLength = 32

// Address identifies an account on the ledger. For accounts controlled by a
// private key it is the ed25519 public key, for program controlled accounts
// it is derived (see FindProgramAddress).
type Address [AddressLength]byte

// ZeroAddress is the default, unset address.
var ZeroAddress Address

// NewAddress copies raw bytes into an address. The input must be exactly
// AddressLength bytes long.
func NewAddress(raw []byte) (Address, error) {
	var a Address
	if len(raw) != AddressLength {
		return a, errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", AddressLength, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustNewAddress is like NewAddress but panics on invalid input. Only use
// with data you control, ie. in tests and constants.
func MustNewAddress(raw []byte) Address {
	a, err := NewAddress(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAddress decodes the base58 text representation.
func ParseAddress(s string) (Address, error) {
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return ZeroAddress, errors.Wrapf(errors.ErrInput, "invalid base58 address %q", s)
	}
	return NewAddress(raw)
}

// Bytes returns a copy of the address as a slice.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return a == b
}

// IsZero returns true for the unset address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// String returns the base58 representation.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalJSON encodes the address as a base58 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a base58 string. An empty string results in the zero
// address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if enc == "" {
		*a = ZeroAddress
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
