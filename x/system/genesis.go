package system

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// GenesisAccount is an initial native balance.
type GenesisAccount struct {
	Address dealchain.Address `json:"address"`
	Balance uint64            `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file. The "system" key lists the initial balances, rent
// parameters are read by gconf.
type Initializer struct{}

var _ dealchain.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis and save it to
// the database.
func (Initializer) FromGenesis(opts dealchain.Options, db dealchain.KVStore) error {
	next, err := opts.Stream("system")
	if err != nil {
		if errors.ErrEmpty.Is(err) {
			return nil
		}
		return err
	}
	bucket := NewBucket()
	for {
		var ga GenesisAccount
		switch err := next(&ga); {
		case errors.ErrEmpty.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "cannot load account")
		}
		if ga.Address.IsZero() {
			return errors.Wrap(errors.ErrEmpty, "genesis account address")
		}
		if ga.Balance == 0 {
			continue
		}
		acct := NewAccount()
		acct.Balance = ga.Balance
		if err := bucket.Save(db, newAccountObj(ga.Address, acct)); err != nil {
			return errors.Wrapf(err, "cannot save %s", ga.Address)
		}
	}
}
