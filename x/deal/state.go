package deal

import (
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// RecordLength is the size of a serialized deal record:
// open(1) initializer(32) asset a(32) asset b(32) expected amount(8)
// bump(1) seed(8).
const RecordLength = 1 + 3*dealchain.AddressLength + 8 + 1 + 8

const (
	offInitializer = 1
	offAssetA      = offInitializer + dealchain.AddressLength
	offAssetB      = offAssetA + dealchain.AddressLength
	offExpected    = offAssetB + dealchain.AddressLength
	offBump        = offExpected + 8
	offSeed        = offBump + 1
)

// Record is the state of a single deal, kept in the data of the deal
// storage account. The zero value is a closed deal.
type Record struct {
	IsOpen      bool
	Initializer dealchain.Address
	// AssetA is the mint of the tokens locked in the vault.
	AssetA dealchain.Address
	// AssetB is the mint of the tokens the initializer wants.
	AssetB         dealchain.Address
	ExpectedAmount uint64
	// AuthorityBump recreates the deal storage address from the seed and
	// the initializer.
	AuthorityBump uint8
	Seed          uint64
}

// MarshalBinary serializes the record into exactly RecordLength bytes.
func (r *Record) MarshalBinary() []byte {
	out := make([]byte, RecordLength)
	if r.IsOpen {
		out[0] = 1
	}
	copy(out[offInitializer:], r.Initializer[:])
	copy(out[offAssetA:], r.AssetA[:])
	copy(out[offAssetB:], r.AssetB[:])
	binary.LittleEndian.PutUint64(out[offExpected:], r.ExpectedAmount)
	out[offBump] = r.AuthorityBump
	binary.LittleEndian.PutUint64(out[offSeed:], r.Seed)
	return out
}

// UnmarshalRecord decodes a record. Only the open flag is validated.
func UnmarshalRecord(raw []byte) (*Record, error) {
	if len(raw) != RecordLength {
		return nil, errors.Wrapf(ErrInvalidEscrowState, "record is %d bytes", len(raw))
	}
	var r Record
	switch raw[0] {
	case 0:
	case 1:
		r.IsOpen = true
	default:
		return nil, errors.Wrapf(ErrInvalidEscrowState, "open flag %d", raw[0])
	}
	copy(r.Initializer[:], raw[offInitializer:offAssetA])
	copy(r.AssetA[:], raw[offAssetA:offAssetB])
	copy(r.AssetB[:], raw[offAssetB:offExpected])
	r.ExpectedAmount = binary.LittleEndian.Uint64(raw[offExpected:])
	r.AuthorityBump = raw[offBump]
	r.Seed = binary.LittleEndian.Uint64(raw[offSeed:])
	return &r, nil
}

// DealAddress returns the deal storage address of initializer for seed. The
// same address is the authority of the vault.
func DealAddress(program dealchain.Address, seed uint64, initializer dealchain.Address) (dealchain.Address, uint8, error) {
	return dealchain.FindProgramAddress(program, seedBytes(seed), initializer[:])
}

// custodyAddress recreates the deal storage address from a stored record.
func custodyAddress(program dealchain.Address, r *Record) (dealchain.Address, error) {
	return dealchain.CreateProgramAddress(program, seedBytes(r.Seed), r.Initializer[:], []byte{r.AuthorityBump})
}

func seedBytes(seed uint64) []byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, seed)
	return raw
}
