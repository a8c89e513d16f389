package token

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
	"github.com/iov-one/dealchain/x/system"
)

// Controller is the token functionality other programs can call.
type Controller interface {
	// Mint loads an initialized mint.
	Mint(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*Mint, error)
	// Account loads an initialized token account.
	Account(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*Account, error)
	// InitializeMint sets up a mint in an account previously created
	// with MintLength bytes of data and owned by the token program.
	InitializeMint(db dealchain.KVStore, addr dealchain.Address, decimals uint8, authority dealchain.Address) error
	// InitializeAccount sets up a token account in an account previously
	// created with AccountLength bytes of data and owned by the token
	// program.
	InitializeAccount(db dealchain.KVStore, addr, mint, owner dealchain.Address) error
	// MintTo issues new tokens. Authority must be the mint authority and
	// must have authorized the call.
	MintTo(ctx dealchain.Context, db dealchain.KVStore, mint, dest, authority dealchain.Address, amount uint64) error
	// TransferChecked moves tokens between two accounts of the same mint.
	// Decimals must match the mint.
	TransferChecked(ctx dealchain.Context, db dealchain.KVStore, source, mint, dest, authority dealchain.Address, amount uint64, decimals uint8) error
	// CloseAccount removes an empty token account and moves its native
	// balance to destination.
	CloseAccount(ctx dealchain.Context, db dealchain.KVStore, account, destination, authority dealchain.Address) error
	// CreateAssociatedAccount creates the associated token account of
	// owner for mint, paid by payer. It is a no-op if a matching account
	// already exists.
	CreateAssociatedAccount(ctx dealchain.Context, db dealchain.KVStore, payer, owner, mint dealchain.Address) (dealchain.Address, error)
}

// NewController returns a token controller. The authenticator must accept
// the grants of this package (Authenticate) for associated accounts to be
// created through the system controller.
func NewController(auth x.Authenticator, sys system.Controller) Controller {
	return controller{auth: auth, sys: sys}
}

type controller struct {
	auth x.Authenticator
	sys  system.Controller
}

var _ Controller = controller{}

// AssociatedAddress returns the canonical token account address of owner
// for mint.
func AssociatedAddress(owner, mint dealchain.Address) (dealchain.Address, error) {
	addr, _, err := dealchain.FindProgramAddress(AssociatedProgramID, owner[:], ProgramID[:], mint[:])
	return addr, err
}

// programData returns the data of an account owned by the token program.
func (c controller) programData(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*system.Account, error) {
	acct, err := c.sys.Account(db, addr)
	if err != nil {
		return nil, err
	}
	if acct.Owner != ProgramID {
		return nil, errors.Wrapf(system.ErrAccountOwner, "%s is owned by %s", addr, acct.Owner)
	}
	return acct, nil
}

func (c controller) Mint(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*Mint, error) {
	acct, err := c.programData(db, addr)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMint, err.Error())
	}
	m, err := UnmarshalMint(acct.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "mint %s", addr)
	}
	return m, nil
}

func (c controller) Account(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*Account, error) {
	acct, err := c.programData(db, addr)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAccount, err.Error())
	}
	a, err := UnmarshalAccount(acct.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "token account %s", addr)
	}
	return a, nil
}

// writeData replaces the data of a token program account, keeping its
// length.
func (c controller) writeData(db dealchain.KVStore, addr dealchain.Address, data []byte) error {
	acct, err := c.programData(db, addr)
	if err != nil {
		return err
	}
	if len(acct.Data) != len(data) {
		return errors.Wrapf(errors.ErrState, "account %s holds %d bytes, want %d", addr, len(acct.Data), len(data))
	}
	acct.Data = data
	return c.sys.Save(db, addr, acct)
}

func (c controller) InitializeMint(db dealchain.KVStore, addr dealchain.Address, decimals uint8, authority dealchain.Address) error {
	acct, err := c.programData(db, addr)
	if err != nil {
		return errors.Wrap(ErrInvalidMint, err.Error())
	}
	if len(acct.Data) != MintLength {
		return errors.Wrapf(ErrInvalidMint, "data is %d bytes", len(acct.Data))
	}
	if acct.Data[0] != 0 {
		return errors.Wrapf(ErrAlreadyInitialized, "mint %s", addr)
	}
	if authority.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "mint authority")
	}
	m := Mint{IsInitialized: true, Decimals: decimals, Authority: authority}
	return c.writeData(db, addr, m.MarshalBinary())
}

func (c controller) InitializeAccount(db dealchain.KVStore, addr, mint, owner dealchain.Address) error {
	acct, err := c.programData(db, addr)
	if err != nil {
		return errors.Wrap(ErrInvalidAccount, err.Error())
	}
	if len(acct.Data) != AccountLength {
		return errors.Wrapf(ErrInvalidAccount, "data is %d bytes", len(acct.Data))
	}
	if AccountState(acct.Data[72]) != StateUninitialized {
		return errors.Wrapf(ErrAlreadyInitialized, "token account %s", addr)
	}
	if _, err := c.Mint(db, mint); err != nil {
		return err
	}
	a := Account{Mint: mint, Owner: owner, State: StateInitialized}
	return c.writeData(db, addr, a.MarshalBinary())
}

func (c controller) MintTo(ctx dealchain.Context, db dealchain.KVStore, mint, dest, authority dealchain.Address, amount uint64) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return errors.Wrap(ErrOwnerMismatch, "not the mint authority")
	}
	if !c.auth.HasAddress(ctx, authority) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority")
	}
	to, err := c.Account(db, dest)
	if err != nil {
		return err
	}
	if to.Mint != mint {
		return errors.Wrap(ErrMintMismatch, "destination")
	}
	if m.Supply+amount < m.Supply || to.Amount+amount < to.Amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	to.Amount += amount
	if err := c.writeData(db, mint, m.MarshalBinary()); err != nil {
		return err
	}
	return c.writeData(db, dest, to.MarshalBinary())
}

func (c controller) TransferChecked(ctx dealchain.Context, db dealchain.KVStore, source, mint, dest, authority dealchain.Address, amount uint64, decimals uint8) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return errors.Wrapf(ErrDecimalsMismatch, "mint has %d, got %d", m.Decimals, decimals)
	}
	from, err := c.Account(db, source)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	to, err := c.Account(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if from.Mint != mint {
		return errors.Wrap(ErrMintMismatch, "source")
	}
	if to.Mint != mint {
		return errors.Wrap(ErrMintMismatch, "destination")
	}
	if from.State == StateFrozen || to.State == StateFrozen {
		return errors.Wrap(ErrAccountFrozen, "transfer")
	}
	if from.Owner != authority {
		return errors.Wrapf(ErrOwnerMismatch, "source is owned by %s", from.Owner)
	}
	if !c.auth.HasAddress(ctx, authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "authority %s", authority)
	}
	if from.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "holds %d, need %d", from.Amount, amount)
	}
	if source == dest {
		return nil
	}
	if to.Amount+amount < to.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination")
	}
	from.Amount -= amount
	to.Amount += amount
	if err := c.writeData(db, source, from.MarshalBinary()); err != nil {
		return err
	}
	return c.writeData(db, dest, to.MarshalBinary())
}

func (c controller) CloseAccount(ctx dealchain.Context, db dealchain.KVStore, account, destination, authority dealchain.Address) error {
	a, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if a.Owner != authority {
		return errors.Wrapf(ErrOwnerMismatch, "account is owned by %s", a.Owner)
	}
	if !c.auth.HasAddress(ctx, authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "authority %s", authority)
	}
	if a.Amount != 0 {
		return errors.Wrapf(ErrNonZeroBalance, "%d left", a.Amount)
	}
	if account == destination {
		return errors.Wrap(errors.ErrInput, "cannot close into itself")
	}
	native, err := c.sys.Account(db, account)
	if err != nil {
		return err
	}
	return c.sys.Withdraw(db, ProgramID, account, destination, native.Balance)
}

func (c controller) CreateAssociatedAccount(ctx dealchain.Context, db dealchain.KVStore, payer, owner, mint dealchain.Address) (dealchain.Address, error) {
	addr, err := AssociatedAddress(owner, mint)
	if err != nil {
		return dealchain.ZeroAddress, err
	}

	native, err := c.sys.Account(db, addr)
	if err != nil {
		return dealchain.ZeroAddress, err
	}
	if native.Owner == ProgramID {
		existing, err := UnmarshalAccount(native.Data)
		if err != nil {
			return dealchain.ZeroAddress, err
		}
		if existing.Mint != mint || existing.Owner != owner {
			return dealchain.ZeroAddress, errors.Wrapf(ErrInvalidAccount, "%s holds a foreign token account", addr)
		}
		return addr, nil
	}

	ctx = withAssociated(ctx, addr)
	if err := c.sys.Provision(ctx, db, payer, addr, AccountLength, ProgramID); err != nil {
		return dealchain.ZeroAddress, errors.Wrap(err, "associated account")
	}
	if err := c.InitializeAccount(db, addr, mint, owner); err != nil {
		return dealchain.ZeroAddress, err
	}
	return addr, nil
}
