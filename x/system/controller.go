package system

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
)

// Controller is the functionality other programs need to manage native
// accounts. All state changes go through it.
type Controller interface {
	// Account returns the state of given address. An address without
	// state holds an empty, system owned account.
	Account(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*Account, error)
	// Save persists the account. Accounts without balance are removed.
	Save(db dealchain.KVStore, addr dealchain.Address, acct *Account) error
	// CreateAccount funds a new account at addr from payer, allocates
	// space bytes of zeroed data and assigns it to owner. Both payer and
	// addr must have authorized the call.
	CreateAccount(ctx dealchain.Context, db dealchain.KVStore, payer, addr dealchain.Address, lamports, space uint64, owner dealchain.Address) error
	// Provision makes addr a rent exempt account of space bytes owned by
	// owner. Unlike CreateAccount it accepts an address that already holds
	// a plain system balance: payer tops it up to the rent exempt minimum
	// and the account is assigned to owner. Both payer and addr must have
	// authorized the call.
	Provision(ctx dealchain.Context, db dealchain.KVStore, payer, addr dealchain.Address, space uint64, owner dealchain.Address) error
	// Transfer moves native balance from a system owned account. The
	// source must have authorized the call.
	Transfer(ctx dealchain.Context, db dealchain.KVStore, from, to dealchain.Address, lamports uint64) error
	// Withdraw moves native balance out of an account owned by program.
	Withdraw(db dealchain.KVStore, program, from, to dealchain.Address, lamports uint64) error
	// Deposit credits native balance to an address.
	Deposit(db dealchain.KVStore, to dealchain.Address, lamports uint64) error
	// Rent returns the rent calculator of the ledger.
	Rent(db dealchain.ReadOnlyKVStore) (Rent, error)
}

// NewController returns a controller that accepts authorization of
// accounts by given authenticator.
func NewController(auth x.Authenticator) Controller {
	return controller{
		auth:   auth,
		bucket: NewBucket(),
	}
}

type controller struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ Controller = controller{}

func (c controller) Account(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*Account, error) {
	obj, err := c.bucket.Get(db, addr.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	if acct := AsAccount(obj); acct != nil {
		return acct, nil
	}
	return NewAccount(), nil
}

func (c controller) Save(db dealchain.KVStore, addr dealchain.Address, acct *Account) error {
	if acct.Balance == 0 {
		return c.bucket.Delete(db, addr.Bytes())
	}
	return c.bucket.Save(db, newAccountObj(addr, acct))
}

func (c controller) CreateAccount(ctx dealchain.Context, db dealchain.KVStore, payer, addr dealchain.Address, lamports, space uint64, owner dealchain.Address) error {
	if !c.auth.HasAddress(ctx, payer) {
		return errors.Wrapf(errors.ErrUnauthorized, "payer %s", payer)
	}
	if !c.auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "new account %s", addr)
	}
	if owner.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	if space > MaxDataSize {
		return errors.Wrapf(errors.ErrInput, "space %d exceeds %d", space, MaxDataSize)
	}

	acct, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if acct.Balance > 0 || len(acct.Data) > 0 {
		return errors.Wrapf(errors.ErrAccountInUse, "%s", addr)
	}

	rent, err := c.Rent(db)
	if err != nil {
		return err
	}
	if !rent.IsExempt(lamports, space) {
		return errors.Wrapf(ErrNotRentExempt, "%d < %d", lamports, rent.MinimumBalance(space))
	}

	if err := c.debitSystem(db, payer, lamports); err != nil {
		return errors.Wrap(err, "payer")
	}
	return c.Save(db, addr, &Account{
		Balance: lamports,
		Owner:   owner,
		Data:    make([]byte, space),
	})
}

func (c controller) Provision(ctx dealchain.Context, db dealchain.KVStore, payer, addr dealchain.Address, space uint64, owner dealchain.Address) error {
	acct, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	rent, err := c.Rent(db)
	if err != nil {
		return err
	}
	min := rent.MinimumBalance(space)
	if acct.Balance == 0 || acct.Owner != ProgramID || len(acct.Data) > 0 {
		return c.CreateAccount(ctx, db, payer, addr, min, space, owner)
	}

	if !c.auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "new account %s", addr)
	}
	if owner.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	if space > MaxDataSize {
		return errors.Wrapf(errors.ErrInput, "space %d exceeds %d", space, MaxDataSize)
	}
	if acct.Balance < min {
		if err := c.Transfer(ctx, db, payer, addr, min-acct.Balance); err != nil {
			return errors.Wrap(err, "payer")
		}
		if acct, err = c.Account(db, addr); err != nil {
			return err
		}
	}
	acct.Owner = owner
	acct.Data = make([]byte, space)
	return c.Save(db, addr, acct)
}

func (c controller) Transfer(ctx dealchain.Context, db dealchain.KVStore, from, to dealchain.Address, lamports uint64) error {
	if !c.auth.HasAddress(ctx, from) {
		return errors.Wrapf(errors.ErrUnauthorized, "source %s", from)
	}
	if err := c.debitSystem(db, from, lamports); err != nil {
		return err
	}
	return c.Deposit(db, to, lamports)
}

// debitSystem takes lamports from a system owned account without data.
func (c controller) debitSystem(db dealchain.KVStore, from dealchain.Address, lamports uint64) error {
	acct, err := c.Account(db, from)
	if err != nil {
		return err
	}
	if acct.Owner != ProgramID {
		return errors.Wrapf(ErrAccountOwner, "%s is owned by %s", from, acct.Owner)
	}
	if len(acct.Data) > 0 {
		return errors.Wrapf(ErrAccountData, "%s", from)
	}
	return c.debit(db, from, acct, lamports)
}

func (c controller) Withdraw(db dealchain.KVStore, program, from, to dealchain.Address, lamports uint64) error {
	acct, err := c.Account(db, from)
	if err != nil {
		return err
	}
	if acct.Owner != program {
		return errors.Wrapf(ErrAccountOwner, "%s is not owned by %s", from, program)
	}
	if err := c.debit(db, from, acct, lamports); err != nil {
		return err
	}
	return c.Deposit(db, to, lamports)
}

func (c controller) debit(db dealchain.KVStore, addr dealchain.Address, acct *Account, lamports uint64) error {
	if acct.Balance < lamports {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, need %d", addr, acct.Balance, lamports)
	}
	acct.Balance -= lamports
	return c.Save(db, addr, acct)
}

func (c controller) Deposit(db dealchain.KVStore, to dealchain.Address, lamports uint64) error {
	if lamports == 0 {
		return nil
	}
	acct, err := c.Account(db, to)
	if err != nil {
		return err
	}
	if acct.Balance+lamports < acct.Balance {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", to)
	}
	acct.Balance += lamports
	return c.Save(db, to, acct)
}

func (c controller) Rent(db dealchain.ReadOnlyKVStore) (Rent, error) {
	return LoadRent(db)
}
