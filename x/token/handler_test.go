package token

import (
	"context"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramLifecycle(t *testing.T) {
	payer := chaintest.NewAddress()
	bob := chaintest.NewAddress()
	mint := chaintest.NewAddress()
	f := newFixture(t, payer)
	ctx := context.Background()
	tokens := NewProgram(f.ctrl)
	assoc := NewAssociatedProgram(f.ctrl)

	deliver := func(p dealchain.Program, ix *dealchain.Instruction) *dealchain.DeliverResult {
		t.Helper()
		_, err := p.Check(ctx, f.db, ix)
		require.NoError(t, err)
		res, err := p.Deliver(ctx, f.db, ix)
		require.NoError(t, err)
		return res
	}

	f.signed.Signers = []dealchain.Address{payer, mint}
	sysProgram := system.NewProgram(f.sys)
	deliver(sysProgram, system.NewCreateAccountInstruction(payer, mint, f.rent.MinimumBalance(MintLength), MintLength, ProgramID))
	deliver(tokens, NewInitializeMintInstruction(mint, 2, payer))

	create, err := NewCreateAssociatedInstruction(payer, payer, mint, true)
	require.NoError(t, err)
	res := deliver(assoc, create)
	src, err := dealchain.NewAddress(res.Data)
	require.NoError(t, err)

	// creating again is fine when idempotent
	deliver(assoc, create)
	strict, err := NewCreateAssociatedInstruction(payer, payer, mint, false)
	require.NoError(t, err)
	_, err = assoc.Deliver(ctx, f.db, strict)
	assert.True(t, errors.ErrAccountInUse.Is(err))

	createBob, err := NewCreateAssociatedInstruction(payer, bob, mint, false)
	require.NoError(t, err)
	res = deliver(assoc, createBob)
	dst, err := dealchain.NewAddress(res.Data)
	require.NoError(t, err)

	deliver(tokens, NewMintToInstruction(mint, src, payer, 500))
	deliver(tokens, NewTransferCheckedInstruction(src, mint, dst, payer, 200, 2))
	assert.Equal(t, uint64(300), f.balance(t, src))
	assert.Equal(t, uint64(200), f.balance(t, dst))

	f.signed.Signers = []dealchain.Address{bob}
	deliver(tokens, NewTransferCheckedInstruction(dst, mint, src, bob, 200, 2))
	deliver(tokens, NewCloseAccountInstruction(dst, bob, bob))
	_, err = f.ctrl.Account(f.db, dst)
	assert.True(t, ErrInvalidAccount.Is(err))
}

func TestProgramValidate(t *testing.T) {
	a := chaintest.NewAddress()
	b := chaintest.NewAddress()
	p := NewProgram(nil)

	unsigned := NewMintToInstruction(a, b, a, 1)
	unsigned.Accounts[2].IsSigner = false
	short := NewTransferCheckedInstruction(a, a, b, a, 1, 0)
	short.Data = short.Data[:9]

	cases := map[string]struct {
		ix      *dealchain.Instruction
		wantErr *errors.Error
	}{
		"initialize mint":    {ix: NewInitializeMintInstruction(a, 1, b)},
		"initialize account": {ix: NewInitializeAccountInstruction(a, b, a)},
		"close":              {ix: NewCloseAccountInstruction(a, b, a)},
		"authority unsigned": {ix: unsigned, wantErr: errors.ErrUnauthorized},
		"short data":         {ix: short, wantErr: errors.ErrInput},
		"empty data":         {ix: &dealchain.Instruction{}, wantErr: errors.ErrInput},
		"unknown":            {ix: &dealchain.Instruction{Data: []byte{42}}, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := p.Check(context.Background(), nil, tc.ix)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestAssociatedProgramRejectsWrongAddress(t *testing.T) {
	a := chaintest.NewAddress()
	mint := chaintest.NewAddress()
	ix, err := NewCreateAssociatedInstruction(a, a, mint, true)
	require.NoError(t, err)
	ix.Accounts[1] = dealchain.NewAccountMeta(chaintest.NewAddress(), false, true)
	_, err = NewAssociatedProgram(nil).Check(context.Background(), nil, ix)
	assert.True(t, errors.ErrInput.Is(err))
}
