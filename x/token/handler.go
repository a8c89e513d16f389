package token

import (
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
	"github.com/iov-one/dealchain/x/system"
)

const instructionCost int64 = 100

// RegisterRoutes registers the token and the associated token programs.
func RegisterRoutes(r dealchain.Registry, auth x.Authenticator, sys system.Controller) {
	ctrl := NewController(auth, sys)
	r.Handle(ProgramID, NewProgram(ctrl))
	r.Handle(AssociatedProgramID, NewAssociatedProgram(ctrl))
}

// Program processes token program instructions.
type Program struct {
	ctrl Controller
}

var _ dealchain.Program = Program{}

// NewProgram returns the token program.
func NewProgram(ctrl Controller) Program {
	return Program{ctrl: ctrl}
}

// Check validates the instruction layout.
func (p Program) Check(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.CheckResult, error) {
	if err := p.validate(ix); err != nil {
		return nil, err
	}
	return dealchain.NewCheck(instructionCost, ""), nil
}

func (p Program) validate(ix *dealchain.Instruction) error {
	if err := dataLen(ix, 1); err != nil {
		return err
	}
	var err error
	switch ix.Data[0] {
	case InstructionInitializeMint:
		if err = dataLen(ix, 2+dealchain.AddressLength); err == nil {
			_, err = accounts(ix, 1)
		}
	case InstructionInitializeAccount:
		_, err = accounts(ix, 3)
	case InstructionMintTo:
		if err = dataLen(ix, 9); err == nil {
			_, err = accounts(ix, 3, 2)
		}
	case InstructionCloseAccount:
		_, err = accounts(ix, 3, 2)
	case InstructionTransferChecked:
		if err = dataLen(ix, 10); err == nil {
			_, err = accounts(ix, 4, 3)
		}
	default:
		err = errors.Wrapf(errors.ErrInput, "unknown instruction %d", ix.Data[0])
	}
	return err
}

// Deliver executes the instruction.
func (p Program) Deliver(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.DeliverResult, error) {
	if err := p.validate(ix); err != nil {
		return nil, err
	}
	// validate guarantees the account count and data length
	accts, _ := accounts(ix, len(ix.Accounts))
	var err error
	switch ix.Data[0] {
	case InstructionInitializeMint:
		var authority dealchain.Address
		copy(authority[:], ix.Data[2:])
		err = p.ctrl.InitializeMint(db, accts[0], ix.Data[1], authority)
	case InstructionInitializeAccount:
		err = p.ctrl.InitializeAccount(db, accts[0], accts[1], accts[2])
	case InstructionMintTo:
		amount := binary.LittleEndian.Uint64(ix.Data[1:])
		err = p.ctrl.MintTo(ctx, db, accts[0], accts[1], accts[2], amount)
	case InstructionCloseAccount:
		err = p.ctrl.CloseAccount(ctx, db, accts[0], accts[1], accts[2])
	case InstructionTransferChecked:
		amount := binary.LittleEndian.Uint64(ix.Data[1:])
		err = p.ctrl.TransferChecked(ctx, db, accts[0], accts[1], accts[2], accts[3], amount, ix.Data[9])
	}
	if err != nil {
		return nil, err
	}
	return &dealchain.DeliverResult{}, nil
}

// AssociatedProgram processes associated token program instructions.
type AssociatedProgram struct {
	ctrl Controller
}

var _ dealchain.Program = AssociatedProgram{}

// NewAssociatedProgram returns the associated token program.
func NewAssociatedProgram(ctrl Controller) AssociatedProgram {
	return AssociatedProgram{ctrl: ctrl}
}

type createAssociated struct {
	Payer      dealchain.Address
	Addr       dealchain.Address
	Owner      dealchain.Address
	Mint       dealchain.Address
	Idempotent bool
}

func (p AssociatedProgram) decode(ix *dealchain.Instruction) (*createAssociated, error) {
	// an empty payload is the original create instruction
	tag := AssociatedCreate
	if len(ix.Data) > 0 {
		tag = ix.Data[0]
	}
	if tag != AssociatedCreate && tag != AssociatedCreateIdempotent {
		return nil, errors.Wrapf(errors.ErrInput, "unknown instruction %d", tag)
	}
	accts, err := accounts(ix, 4, 0)
	if err != nil {
		return nil, err
	}
	msg := &createAssociated{
		Payer:      accts[0],
		Addr:       accts[1],
		Owner:      accts[2],
		Mint:       accts[3],
		Idempotent: tag == AssociatedCreateIdempotent,
	}
	want, err := AssociatedAddress(msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	if want != msg.Addr {
		return nil, errors.Wrapf(errors.ErrInput, "associated address must be %s", want)
	}
	return msg, nil
}

// Check validates the instruction.
func (p AssociatedProgram) Check(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.CheckResult, error) {
	if _, err := p.decode(ix); err != nil {
		return nil, err
	}
	return dealchain.NewCheck(instructionCost, ""), nil
}

// Deliver creates the associated token account.
func (p AssociatedProgram) Deliver(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.DeliverResult, error) {
	msg, err := p.decode(ix)
	if err != nil {
		return nil, err
	}
	if !msg.Idempotent {
		if _, err := p.ctrl.Account(db, msg.Addr); err == nil {
			return nil, errors.Wrapf(errors.ErrAccountInUse, "%s", msg.Addr)
		}
	}
	addr, err := p.ctrl.CreateAssociatedAccount(ctx, db, msg.Payer, msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	return &dealchain.DeliverResult{Data: addr.Bytes()}, nil
}
