package system

import (
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// Instruction tags of the system program, encoded as u32 LE.
const (
	InstructionCreateAccount uint32 = 0
	InstructionTransfer      uint32 = 2
)

const (
	createAccountDataLength = 4 + 8 + 8 + dealchain.AddressLength
	transferDataLength      = 4 + 8
)

// NewCreateAccountInstruction builds an instruction creating an account at
// addr funded by payer. Both accounts must sign the transaction.
func NewCreateAccountInstruction(payer, addr dealchain.Address, lamports, space uint64, owner dealchain.Address) *dealchain.Instruction {
	data := make([]byte, createAccountDataLength)
	binary.LittleEndian.PutUint32(data, InstructionCreateAccount)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[12:], space)
	copy(data[20:], owner[:])
	return &dealchain.Instruction{
		ProgramID: ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			dealchain.NewAccountMeta(payer, true, true),
			dealchain.NewAccountMeta(addr, true, true),
		},
		Data: data,
	}
}

// NewTransferInstruction builds an instruction moving native balance.
func NewTransferInstruction(from, to dealchain.Address, lamports uint64) *dealchain.Instruction {
	data := make([]byte, transferDataLength)
	binary.LittleEndian.PutUint32(data, InstructionTransfer)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	return &dealchain.Instruction{
		ProgramID: ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			dealchain.NewAccountMeta(from, true, true),
			dealchain.NewAccountMeta(to, false, true),
		},
		Data: data,
	}
}

type createAccount struct {
	Payer    dealchain.Address
	Addr     dealchain.Address
	Lamports uint64
	Space    uint64
	Owner    dealchain.Address
}

type transfer struct {
	From     dealchain.Address
	To       dealchain.Address
	Lamports uint64
}

// decode parses the instruction into one of the instruction types. Signer
// flags are verified here, the signatures by the controller.
func decode(ix *dealchain.Instruction) (interface{}, error) {
	if len(ix.Data) < 4 {
		return nil, errors.Wrap(errors.ErrInput, "missing instruction tag")
	}
	switch tag := binary.LittleEndian.Uint32(ix.Data); tag {
	case InstructionCreateAccount:
		if len(ix.Data) < createAccountDataLength {
			return nil, errors.Wrap(errors.ErrInput, "create account data too short")
		}
		accts, err := signedAccounts(ix, true, true)
		if err != nil {
			return nil, err
		}
		msg := createAccount{
			Payer:    accts[0],
			Addr:     accts[1],
			Lamports: binary.LittleEndian.Uint64(ix.Data[4:]),
			Space:    binary.LittleEndian.Uint64(ix.Data[12:]),
		}
		copy(msg.Owner[:], ix.Data[20:createAccountDataLength])
		return msg, nil
	case InstructionTransfer:
		if len(ix.Data) < transferDataLength {
			return nil, errors.Wrap(errors.ErrInput, "transfer data too short")
		}
		accts, err := signedAccounts(ix, true, false)
		if err != nil {
			return nil, err
		}
		return transfer{
			From:     accts[0],
			To:       accts[1],
			Lamports: binary.LittleEndian.Uint64(ix.Data[4:]),
		}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown instruction %d", tag)
	}
}

// signedAccounts resolves exactly len(signers) account handles. A handle that
// must sign has to be flagged as signer.
func signedAccounts(ix *dealchain.Instruction, signers ...bool) ([]dealchain.Address, error) {
	if len(ix.Accounts) != len(signers) {
		return nil, errors.Wrapf(errors.ErrInput, "want %d accounts, got %d", len(signers), len(ix.Accounts))
	}
	res := make([]dealchain.Address, len(signers))
	for i, meta := range ix.Accounts {
		addr, err := meta.Address()
		if err != nil {
			return nil, errors.Wrapf(err, "account %d", i)
		}
		if signers[i] && !meta.IsSigner {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "account %d must sign", i)
		}
		res[i] = addr
	}
	return res, nil
}
