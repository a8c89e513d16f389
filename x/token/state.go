package token

import (
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

var (
	// ProgramID is the id of the token program, it owns all mints and
	// token accounts.
	ProgramID = dealchain.ProgramID("token")
	// AssociatedProgramID is the id of the associated token account
	// program.
	AssociatedProgramID = dealchain.ProgramID("associated-token")
)

// MintLength is the size of a serialized mint:
// initialized(1) decimals(1) supply(8) authority(32).
const MintLength = 1 + 1 + 8 + dealchain.AddressLength

// Mint describes a fungible asset.
type Mint struct {
	IsInitialized bool
	Decimals      uint8
	Supply        uint64
	// Authority may mint new tokens.
	Authority dealchain.Address
}

// MarshalBinary serializes the mint into exactly MintLength bytes.
func (m *Mint) MarshalBinary() []byte {
	out := make([]byte, MintLength)
	if m.IsInitialized {
		out[0] = 1
	}
	out[1] = m.Decimals
	binary.LittleEndian.PutUint64(out[2:], m.Supply)
	copy(out[10:], m.Authority[:])
	return out
}

// UnmarshalMint decodes a mint. Uninitialized mints are rejected.
func UnmarshalMint(raw []byte) (*Mint, error) {
	if len(raw) != MintLength {
		return nil, errors.Wrapf(ErrInvalidMint, "data is %d bytes", len(raw))
	}
	var m Mint
	switch raw[0] {
	case 0:
		return nil, errors.Wrap(ErrInvalidMint, "not initialized")
	case 1:
		m.IsInitialized = true
	default:
		return nil, errors.Wrapf(ErrInvalidMint, "initialized flag %d", raw[0])
	}
	m.Decimals = raw[1]
	m.Supply = binary.LittleEndian.Uint64(raw[2:])
	copy(m.Authority[:], raw[10:MintLength])
	return &m, nil
}

// AccountState is the lifecycle state of a token account.
type AccountState uint8

const (
	StateUninitialized AccountState = iota
	StateInitialized
	StateFrozen
)

// AccountLength is the size of a serialized token account:
// mint(32) owner(32) amount(8) state(1).
const AccountLength = 2*dealchain.AddressLength + 8 + 1

// Account holds a balance of a single mint.
type Account struct {
	Mint   dealchain.Address
	Owner  dealchain.Address
	Amount uint64
	State  AccountState
}

// MarshalBinary serializes the account into exactly AccountLength bytes.
func (a *Account) MarshalBinary() []byte {
	out := make([]byte, AccountLength)
	copy(out, a.Mint[:])
	copy(out[32:], a.Owner[:])
	binary.LittleEndian.PutUint64(out[64:], a.Amount)
	out[72] = byte(a.State)
	return out
}

// UnmarshalAccount decodes a token account. Uninitialized accounts are
// rejected.
func UnmarshalAccount(raw []byte) (*Account, error) {
	if len(raw) != AccountLength {
		return nil, errors.Wrapf(ErrInvalidAccount, "data is %d bytes", len(raw))
	}
	var a Account
	copy(a.Mint[:], raw[:32])
	copy(a.Owner[:], raw[32:64])
	a.Amount = binary.LittleEndian.Uint64(raw[64:])
	a.State = AccountState(raw[72])
	switch a.State {
	case StateInitialized, StateFrozen:
	case StateUninitialized:
		return nil, errors.Wrap(ErrInvalidAccount, "not initialized")
	default:
		return nil, errors.Wrapf(ErrInvalidAccount, "state %d", a.State)
	}
	return &a, nil
}
