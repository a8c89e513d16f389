package token

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
	"github.com/iov-one/dealchain/x/system"
)

// GenesisMint is a mint created at genesis together with the initial
// balances, held in associated token accounts.
type GenesisMint struct {
	Address   dealchain.Address `json:"address"`
	Decimals  uint8             `json:"decimals"`
	Authority dealchain.Address `json:"authority"`
	Holders   []GenesisHolder   `json:"holders"`
}

// GenesisHolder is an initial token balance.
type GenesisHolder struct {
	Owner  dealchain.Address `json:"owner"`
	Amount uint64            `json:"amount"`
}

// Initializer fulfils the Initializer interface to load mints from the
// "token" genesis key. Rent configuration must be loaded before.
type Initializer struct{}

var _ dealchain.Initializer = Initializer{}

// FromGenesis creates all mints and holder accounts.
func (Initializer) FromGenesis(opts dealchain.Options, db dealchain.KVStore) error {
	next, err := opts.Stream("token")
	if err != nil {
		if errors.ErrEmpty.Is(err) {
			return nil
		}
		return err
	}
	sys := system.NewController(x.ChainAuth())
	rent, err := sys.Rent(db)
	if err != nil {
		return err
	}
	for {
		var gm GenesisMint
		switch err := next(&gm); {
		case errors.ErrEmpty.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "cannot load mint")
		}
		if err := createGenesisMint(db, sys, rent, gm); err != nil {
			return errors.Wrapf(err, "mint %s", gm.Address)
		}
	}
}

func createGenesisMint(db dealchain.KVStore, sys system.Controller, rent system.Rent, gm GenesisMint) error {
	if gm.Address.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if gm.Authority.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "authority")
	}
	if existing, err := sys.Account(db, gm.Address); err != nil {
		return err
	} else if !existing.IsEmpty() {
		return errors.Wrap(errors.ErrAccountInUse, "mint address")
	}

	mint := Mint{IsInitialized: true, Decimals: gm.Decimals, Authority: gm.Authority}
	for _, h := range gm.Holders {
		if h.Owner.IsZero() {
			return errors.Wrap(errors.ErrEmpty, "holder")
		}
		addr, err := AssociatedAddress(h.Owner, gm.Address)
		if err != nil {
			return err
		}
		if existing, err := sys.Account(db, addr); err != nil {
			return err
		} else if !existing.IsEmpty() {
			return errors.Wrapf(errors.ErrDuplicate, "holder %s", h.Owner)
		}
		if mint.Supply+h.Amount < mint.Supply {
			return errors.Wrap(errors.ErrOverflow, "supply")
		}
		mint.Supply += h.Amount
		acct := Account{Mint: gm.Address, Owner: h.Owner, Amount: h.Amount, State: StateInitialized}
		if err := sys.Save(db, addr, &system.Account{
			Balance: rent.MinimumBalance(AccountLength),
			Owner:   ProgramID,
			Data:    acct.MarshalBinary(),
		}); err != nil {
			return err
		}
	}
	return sys.Save(db, gm.Address, &system.Account{
		Balance: rent.MinimumBalance(MintLength),
		Owner:   ProgramID,
		Data:    mint.MarshalBinary(),
	})
}
