package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := dealchain.WithChainID(context.Background(), chainID)

	priv := chaintest.NewKey()
	perms := []dealchain.Address{priv.PublicKey().Address()}

	tx := newTx("art")
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec dealchain.Decorator, my *dealchain.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec dealchain.Decorator, my *dealchain.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(dealchain.Decorator, *dealchain.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test with one
		tx.Signatures = []*dealchain.StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// test with replay
		err = fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []dealchain.Address{}, signers.Signers)

		// test allowing, with next sequence
		tx.Signatures = []*dealchain.StdSignature{sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)
	}
}

func TestDecoratorChargesGas(t *testing.T) {
	kv := store.MemStore()
	chainID := "gas-chain"
	ctx := dealchain.WithChainID(context.Background(), chainID)

	tx := newTx("gas")
	a, b := chaintest.NewKey(), chaintest.NewKey()
	sa, err := SignTx(a, tx, chainID, 0)
	require.NoError(t, err)
	sb, err := SignTx(b, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*dealchain.StdSignature{sa, sb}

	res, err := NewDecorator().Check(ctx, kv, tx, new(SigCheckHandler))
	require.NoError(t, err)
	assert.Equal(t, int64(2*signatureVerifyCost), res.GasAllocated)
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []dealchain.Address
}

var _ dealchain.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx) (*dealchain.CheckResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &dealchain.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx) (*dealchain.DeliverResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &dealchain.DeliverResult{}, nil
}
