package token

import (
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// Instruction tags of the token program.
const (
	InstructionInitializeMint    byte = 0
	InstructionInitializeAccount byte = 1
	InstructionMintTo            byte = 7
	InstructionCloseAccount      byte = 9
	InstructionTransferChecked   byte = 12
)

// Instruction tags of the associated token program.
const (
	AssociatedCreate           byte = 0
	AssociatedCreateIdempotent byte = 1
)

func meta(addr dealchain.Address, signer, writable bool) *dealchain.AccountMeta {
	return dealchain.NewAccountMeta(addr, signer, writable)
}

// NewInitializeMintInstruction builds an instruction initializing a mint.
func NewInitializeMintInstruction(mint dealchain.Address, decimals uint8, authority dealchain.Address) *dealchain.Instruction {
	data := make([]byte, 2+dealchain.AddressLength)
	data[0] = InstructionInitializeMint
	data[1] = decimals
	copy(data[2:], authority[:])
	return &dealchain.Instruction{
		ProgramID: ProgramID.Bytes(),
		Accounts:  []*dealchain.AccountMeta{meta(mint, false, true)},
		Data:      data,
	}
}

// NewInitializeAccountInstruction builds an instruction initializing a token
// account.
func NewInitializeAccountInstruction(account, mint, owner dealchain.Address) *dealchain.Instruction {
	return &dealchain.Instruction{
		ProgramID: ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			meta(account, false, true),
			meta(mint, false, false),
			meta(owner, false, false),
		},
		Data: []byte{InstructionInitializeAccount},
	}
}

// NewMintToInstruction builds an instruction issuing tokens.
func NewMintToInstruction(mint, dest, authority dealchain.Address, amount uint64) *dealchain.Instruction {
	data := make([]byte, 9)
	data[0] = InstructionMintTo
	binary.LittleEndian.PutUint64(data[1:], amount)
	return &dealchain.Instruction{
		ProgramID: ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			meta(mint, false, true),
			meta(dest, false, true),
			meta(authority, true, false),
		},
		Data: data,
	}
}

// NewCloseAccountInstruction builds an instruction closing an empty token
// account.
func NewCloseAccountInstruction(account, dest, authority dealchain.Address) *dealchain.Instruction {
	return &dealchain.Instruction{
		ProgramID: ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			meta(account, false, true),
			meta(dest, false, true),
			meta(authority, true, false),
		},
		Data: []byte{InstructionCloseAccount},
	}
}

// NewTransferCheckedInstruction builds a checked transfer.
func NewTransferCheckedInstruction(source, mint, dest, authority dealchain.Address, amount uint64, decimals uint8) *dealchain.Instruction {
	data := make([]byte, 10)
	data[0] = InstructionTransferChecked
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = decimals
	return &dealchain.Instruction{
		ProgramID: ProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			meta(source, false, true),
			meta(mint, false, false),
			meta(dest, false, true),
			meta(authority, true, false),
		},
		Data: data,
	}
}

// NewCreateAssociatedInstruction builds an instruction creating the
// associated token account of owner for mint. With idempotent set an
// existing account is accepted.
func NewCreateAssociatedInstruction(payer, owner, mint dealchain.Address, idempotent bool) (*dealchain.Instruction, error) {
	addr, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	tag := AssociatedCreate
	if idempotent {
		tag = AssociatedCreateIdempotent
	}
	return &dealchain.Instruction{
		ProgramID: AssociatedProgramID.Bytes(),
		Accounts: []*dealchain.AccountMeta{
			meta(payer, true, true),
			meta(addr, false, true),
			meta(owner, false, false),
			meta(mint, false, false),
		},
		Data: []byte{tag},
	}, nil
}

// accounts resolves exactly n account handles; signers lists the positions
// that must be flagged as signer.
func accounts(ix *dealchain.Instruction, n int, signers ...int) ([]dealchain.Address, error) {
	if len(ix.Accounts) != n {
		return nil, errors.Wrapf(errors.ErrInput, "want %d accounts, got %d", n, len(ix.Accounts))
	}
	res := make([]dealchain.Address, n)
	for i, m := range ix.Accounts {
		addr, err := m.Address()
		if err != nil {
			return nil, errors.Wrapf(err, "account %d", i)
		}
		res[i] = addr
	}
	for _, i := range signers {
		if !ix.Accounts[i].IsSigner {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "account %d must sign", i)
		}
	}
	return res, nil
}

func dataLen(ix *dealchain.Instruction, n int) error {
	if len(ix.Data) < n {
		return errors.Wrapf(errors.ErrInput, "instruction data is %d bytes, want %d", len(ix.Data), n)
	}
	return nil
}
