package deal

import (
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x/token"
)

// Instruction tags of the deal program.
const (
	InstructionInit     uint8 = 0
	InstructionExchange uint8 = 1
)

const (
	initDataLength     = 1 + 3*8
	exchangeDataLength = 1 + 8
)

// initData is the payload of Init.
type initData struct {
	AmountToTrade  uint64
	AmountExpected uint64
	Seed           uint64
}

// exchangeData is the payload of Exchange.
type exchangeData struct {
	Amount uint64
}

// decodeData reads the instruction payload. Bytes past the expected length
// are ignored.
func decodeData(raw []byte) (interface{}, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrInvalidInstructionType, "empty instruction data")
	}
	switch raw[0] {
	case InstructionInit:
		if len(raw) < initDataLength {
			return nil, errors.Wrapf(ErrInvalidInstructionData, "init needs %d bytes, got %d", initDataLength, len(raw))
		}
		return initData{
			AmountToTrade:  binary.LittleEndian.Uint64(raw[1:]),
			AmountExpected: binary.LittleEndian.Uint64(raw[9:]),
			Seed:           binary.LittleEndian.Uint64(raw[17:]),
		}, nil
	case InstructionExchange:
		if len(raw) < exchangeDataLength {
			return nil, errors.Wrapf(ErrInvalidInstructionData, "exchange needs %d bytes, got %d", exchangeDataLength, len(raw))
		}
		return exchangeData{Amount: binary.LittleEndian.Uint64(raw[1:])}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstructionType, "unknown instruction %d", raw[0])
	}
}

func meta(addr dealchain.Address, signer, writable bool) *dealchain.AccountMeta {
	return dealchain.NewAccountMeta(addr, signer, writable)
}

// InitParams lists the accounts and amounts of a new deal.
type InitParams struct {
	Initializer dealchain.Address
	// Source is the token account of the initializer holding asset A.
	Source         dealchain.Address
	MintA          dealchain.Address
	MintB          dealchain.Address
	AmountToTrade  uint64
	AmountExpected uint64
	Seed           uint64
}

// NewInitInstruction builds an instruction opening a deal. The deal storage
// and vault addresses are derived from the parameters.
func NewInitInstruction(conf Configuration, p InitParams) (*dealchain.Instruction, error) {
	dealAddr, _, err := DealAddress(conf.ProgramID, p.Seed, p.Initializer)
	if err != nil {
		return nil, errors.Wrap(err, "deal address")
	}
	vault, err := token.AssociatedAddress(dealAddr, p.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "vault address")
	}
	data := make([]byte, initDataLength)
	data[0] = InstructionInit
	binary.LittleEndian.PutUint64(data[1:], p.AmountToTrade)
	binary.LittleEndian.PutUint64(data[9:], p.AmountExpected)
	binary.LittleEndian.PutUint64(data[17:], p.Seed)
	return &dealchain.Instruction{
		ProgramID: conf.ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			meta(p.Initializer, true, true),
			meta(dealAddr, false, true),
			meta(vault, false, true),
			meta(p.Source, false, true),
			meta(p.MintA, false, false),
			meta(p.MintB, false, false),
			meta(conf.TokenProgram, false, false),
			meta(conf.AssociatedProgram, false, false),
			meta(conf.SystemProgram, false, false),
		},
		Data: data,
	}, nil
}

// ExchangeParams lists the accounts and the amount a taker agrees to.
type ExchangeParams struct {
	Taker       dealchain.Address
	Initializer dealchain.Address
	Seed        uint64
	// Source is the token account of the taker holding asset B.
	Source dealchain.Address
	MintA  dealchain.Address
	MintB  dealchain.Address
	// Amount must equal the expected amount of the deal.
	Amount uint64
}

// NewExchangeInstruction builds an instruction completing a deal. Receiving
// accounts are the associated token accounts of both parties.
func NewExchangeInstruction(conf Configuration, p ExchangeParams) (*dealchain.Instruction, error) {
	dealAddr, _, err := DealAddress(conf.ProgramID, p.Seed, p.Initializer)
	if err != nil {
		return nil, errors.Wrap(err, "deal address")
	}
	vault, err := token.AssociatedAddress(dealAddr, p.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "vault address")
	}
	takerReceiver, err := token.AssociatedAddress(p.Taker, p.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "taker receiver")
	}
	initializerReceiver, err := token.AssociatedAddress(p.Initializer, p.MintB)
	if err != nil {
		return nil, errors.Wrap(err, "initializer receiver")
	}
	data := make([]byte, exchangeDataLength)
	data[0] = InstructionExchange
	binary.LittleEndian.PutUint64(data[1:], p.Amount)
	return &dealchain.Instruction{
		ProgramID: conf.ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			meta(p.Taker, true, false),
			meta(p.Initializer, false, true),
			meta(dealAddr, false, true),
			meta(vault, false, true),
			meta(takerReceiver, false, true),
			meta(initializerReceiver, false, true),
			meta(p.Source, false, true),
			meta(p.MintA, false, false),
			meta(p.MintB, false, false),
			meta(conf.TokenProgram, false, false),
			meta(conf.AssociatedProgram, false, false),
			meta(conf.SystemProgram, false, false),
		},
		Data: data,
	}, nil
}
