package system

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
)

const (
	createAccountCost int64 = 200
	transferCost      int64 = 100
)

// RegisterQuery registers the account bucket under "/accounts" and the owner
// index under "/accounts/owner".
func RegisterQuery(qr dealchain.QueryRouter) {
	NewBucket().Register("accounts", qr)
}

// RegisterRoutes registers the system program.
func RegisterRoutes(r dealchain.Registry, auth x.Authenticator) {
	r.Handle(ProgramID, NewProgram(NewController(auth)))
}

// Program processes instructions of the system program.
type Program struct {
	ctrl Controller
}

var _ dealchain.Program = Program{}

// NewProgram returns the system program operating through ctrl.
func NewProgram(ctrl Controller) Program {
	return Program{ctrl: ctrl}
}

// Check decodes the instruction without touching the state.
func (p Program) Check(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.CheckResult, error) {
	msg, err := decode(ix)
	if err != nil {
		return nil, err
	}
	switch msg.(type) {
	case createAccount:
		return dealchain.NewCheck(createAccountCost, ""), nil
	case transfer:
		return dealchain.NewCheck(transferCost, ""), nil
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unhandled %T", msg)
}

// Deliver executes the instruction.
func (p Program) Deliver(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.DeliverResult, error) {
	msg, err := decode(ix)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case createAccount:
		if err := p.ctrl.CreateAccount(ctx, db, m.Payer, m.Addr, m.Lamports, m.Space, m.Owner); err != nil {
			return nil, errors.Wrap(err, "create account")
		}
		return &dealchain.DeliverResult{Data: m.Addr.Bytes()}, nil
	case transfer:
		if err := p.ctrl.Transfer(ctx, db, m.From, m.To, m.Lamports); err != nil {
			return nil, errors.Wrap(err, "transfer")
		}
		return &dealchain.DeliverResult{}, nil
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unhandled %T", msg)
}
