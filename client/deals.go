package client

import (
	"context"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/app"
	"github.com/iov-one/dealchain/crypto"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
	"github.com/iov-one/dealchain/x/deal"
	"github.com/iov-one/dealchain/x/sigs"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
)

// Deal is an open deal together with the address of its storage account.
type Deal struct {
	Address dealchain.Address
	*deal.Record
}

// State returns a read only view of the committed node state.
func (c *Client) State() dealchain.ReadOnlyKVStore {
	return app.NewABCIStore(c)
}

// NextNonce returns the sequence the next signature of given address must
// carry.
func (c *Client) NextNonce(addr dealchain.Address) (int64, error) {
	return sigs.NextNonce(c.State(), addr)
}

// SignTx appends a signature of every signer to the transaction, using the
// chain id reported by the node and the current nonce of each signer.
func (c *Client) SignTx(ctx context.Context, tx *dealchain.Tx, signers ...crypto.Signer) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	for _, s := range signers {
		seq, err := c.NextNonce(s.PublicKey().Address())
		if err != nil {
			return errors.Wrap(err, "nonce")
		}
		sig, err := sigs.SignTx(s, tx, status.ChainID, seq)
		if err != nil {
			return errors.Wrap(err, "sign")
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	return nil
}

// Deal returns the open deal stored under given address. A closed or
// unknown deal results in ErrNotFound.
func (c *Client) Deal(addr dealchain.Address) (*Deal, error) {
	models, err := app.QueryModels(c, "/deals", addr.Bytes())
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "deal %s", addr)
	}
	deals, err := toDeals(models)
	if err != nil {
		return nil, err
	}
	return deals[0], nil
}

// OpenDeals lists the open deals of given initializer. The zero address
// lists the open deals of everyone.
func (c *Client) OpenDeals(initializer dealchain.Address) ([]*Deal, error) {
	var data []byte
	if !initializer.IsZero() {
		data = initializer.Bytes()
	}
	models, err := app.QueryModels(c, "/deals?"+dealchain.PrefixQueryMod, data)
	if err != nil {
		return nil, err
	}
	return toDeals(models)
}

// TokenBalance returns the amount held by the associated token account of
// the owner for given mint.
func (c *Client) TokenBalance(owner, mint dealchain.Address) (uint64, error) {
	addr, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return 0, err
	}
	auth := x.ChainAuth()
	acct, err := token.NewController(auth, system.NewController(auth)).Account(c.State(), addr)
	if err != nil {
		return 0, err
	}
	return acct.Amount, nil
}

func toDeals(models []dealchain.Model) ([]*Deal, error) {
	deals := make([]*Deal, len(models))
	for i, m := range models {
		addr, err := dealchain.NewAddress(m.Key)
		if err != nil {
			return nil, errors.Wrap(err, "deal address")
		}
		rec, err := deal.UnmarshalRecord(m.Value)
		if err != nil {
			return nil, err
		}
		deals[i] = &Deal{Address: addr, Record: rec}
	}
	return deals, nil
}
