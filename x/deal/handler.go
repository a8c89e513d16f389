package deal

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
)

const (
	initCost     int64 = 300
	exchangeCost int64 = 500
)

// RegisterQuery registers deal records under "/deals".
func RegisterQuery(qr dealchain.QueryRouter) {
	qr.Register("/deals", NewQueryHandler(system.NewBucket()))
}

// RegisterRoutes registers the deal program. The authenticator must accept
// the grants of Authenticate and token.Authenticate, and must be the one
// the system and token controllers were built with.
func RegisterRoutes(r dealchain.Registry, auth x.Authenticator, sys system.Controller, tokens token.Controller) {
	r.Handle(ProgramID, NewProgram(auth, sys, tokens))
}

// Program processes Init and Exchange instructions.
type Program struct {
	resolver Resolver
	sys      system.Controller
	tokens   token.Controller
}

var _ dealchain.Program = Program{}

// NewProgram returns the deal program.
func NewProgram(auth x.Authenticator, sys system.Controller, tokens token.Controller) Program {
	return Program{
		resolver: NewResolver(auth, sys, tokens),
		sys:      sys,
		tokens:   tokens,
	}
}

// Check resolves the accounts without changing the state.
func (p Program) Check(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.CheckResult, error) {
	conf, msg, err := p.decode(db, ix)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case initData:
		if _, err := p.resolver.ResolveInit(ctx, db, conf, ix.Accounts, m.Seed); err != nil {
			return nil, err
		}
		return dealchain.NewCheck(initCost, ""), nil
	case exchangeData:
		if _, err := p.resolver.ResolveExchange(ctx, db, conf, ix.Accounts, m.Amount); err != nil {
			return nil, err
		}
		return dealchain.NewCheck(exchangeCost, ""), nil
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unhandled %T", msg)
}

// Deliver executes Init or Exchange.
func (p Program) Deliver(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.DeliverResult, error) {
	conf, msg, err := p.decode(db, ix)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case initData:
		ic, err := p.resolver.ResolveInit(ctx, db, conf, ix.Accounts, m.Seed)
		if err != nil {
			return nil, err
		}
		return p.init(ctx, db, conf, ic, m)
	case exchangeData:
		ec, err := p.resolver.ResolveExchange(ctx, db, conf, ix.Accounts, m.Amount)
		if err != nil {
			return nil, err
		}
		return p.exchange(ctx, db, conf, ec)
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unhandled %T", msg)
}

// decode loads the configuration, checks the program id and decodes the
// instruction data.
func (p Program) decode(db dealchain.ReadOnlyKVStore, ix *dealchain.Instruction) (Configuration, interface{}, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return conf, nil, err
	}
	program, err := ix.Program()
	if err != nil {
		return conf, nil, err
	}
	if program != conf.ProgramID {
		return conf, nil, errors.Wrapf(errors.ErrIncorrectProgramID, "%s", program)
	}
	msg, err := decodeData(ix.Data)
	return conf, msg, err
}

func (p Program) init(ctx dealchain.Context, db dealchain.KVStore, conf Configuration, ic *InitContext, msg initData) (*dealchain.DeliverResult, error) {
	dealAddr := ic.Storage
	custody := withCustody(ctx, dealAddr)
	if err := p.sys.Provision(custody, db, ic.Initializer, dealAddr, RecordLength, conf.ProgramID); err != nil {
		return nil, errors.Wrap(err, "create deal storage")
	}
	if _, err := p.tokens.CreateAssociatedAccount(ctx, db, ic.Initializer, dealAddr, ic.MintA); err != nil {
		return nil, errors.Wrap(err, "create vault")
	}
	if err := p.tokens.TransferChecked(ctx, db, ic.Source, ic.MintA, ic.Vault, ic.Initializer, msg.AmountToTrade, ic.MintAState.Decimals); err != nil {
		return nil, errors.Wrap(err, "transfer asset a")
	}
	rec := Record{
		IsOpen:         true,
		Initializer:    ic.Initializer,
		AssetA:         ic.MintA,
		AssetB:         ic.MintB,
		ExpectedAmount: msg.AmountExpected,
		AuthorityBump:  ic.Bump,
		Seed:           msg.Seed,
	}
	if err := p.writeRecord(db, conf, dealAddr, &rec); err != nil {
		return nil, err
	}

	dealchain.GetLogger(ctx).Info("deal opened",
		"deal", dealAddr,
		"seed", msg.Seed,
		"amount", msg.AmountToTrade,
		"expected", msg.AmountExpected)
	return &dealchain.DeliverResult{Data: dealAddr.Bytes()}, nil
}

func (p Program) exchange(ctx dealchain.Context, db dealchain.KVStore, conf Configuration, ec *ExchangeContext) (*dealchain.DeliverResult, error) {
	rec := ec.Record
	custodyAddr, err := custodyAddress(conf.ProgramID, rec)
	if err != nil || custodyAddr != ec.Storage {
		return nil, errors.Wrapf(ErrInvalidSigner, "deal %s cannot be signed for", ec.Storage)
	}
	custody := withCustody(ctx, ec.Storage)

	takerReceiver, err := p.tokens.CreateAssociatedAccount(ctx, db, ec.Taker, ec.Taker, ec.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "create taker receiver")
	}
	// The whole vault balance is released, including anything deposited
	// into it after Init.
	locked := ec.VaultAcct.Amount
	if err := p.tokens.TransferChecked(custody, db, ec.Vault, ec.MintA, takerReceiver, ec.Storage, locked, ec.MintAState.Decimals); err != nil {
		return nil, errors.Wrap(err, "transfer asset a")
	}
	initializerReceiver, err := p.tokens.CreateAssociatedAccount(ctx, db, ec.Taker, rec.Initializer, ec.MintB)
	if err != nil {
		return nil, errors.Wrap(err, "create initializer receiver")
	}
	if err := p.tokens.TransferChecked(ctx, db, ec.Source, ec.MintB, initializerReceiver, ec.Taker, rec.ExpectedAmount, ec.MintBState.Decimals); err != nil {
		return nil, errors.Wrap(err, "transfer asset b")
	}

	if err := p.tokens.CloseAccount(custody, db, ec.Vault, ec.Storage, ec.Storage); err != nil {
		return nil, errors.Wrap(err, "close vault")
	}
	if err := p.writeRecord(db, conf, ec.Storage, &Record{}); err != nil {
		return nil, err
	}
	storage, err := p.sys.Account(db, ec.Storage)
	if err != nil {
		return nil, err
	}
	if err := p.sys.Withdraw(db, conf.ProgramID, ec.Storage, rec.Initializer, storage.Balance); err != nil {
		return nil, errors.Wrap(err, "refund deal storage")
	}

	dealchain.GetLogger(ctx).Info("deal exchanged",
		"deal", ec.Storage,
		"seed", rec.Seed,
		"amount", locked,
		"expected", rec.ExpectedAmount)
	return &dealchain.DeliverResult{}, nil
}

// writeRecord stores the record in the data of a deal storage account.
func (p Program) writeRecord(db dealchain.KVStore, conf Configuration, addr dealchain.Address, rec *Record) error {
	acct, err := p.sys.Account(db, addr)
	if err != nil {
		return err
	}
	if acct.Owner != conf.ProgramID || len(acct.Data) != RecordLength {
		return errors.Wrapf(ErrInvalidEscrowState, "%s is not a deal storage", addr)
	}
	acct.Data = rec.MarshalBinary()
	return p.sys.Save(db, addr, acct)
}
