package app

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/app"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/crypto"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x/deal"
	"github.com/iov-one/dealchain/x/sigs"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "dealchain-test"

type chain struct {
	t      *testing.T
	runner *chaintest.ChainRunner
	state  *app.ABCIStore
	tokens token.Controller
}

func newChain(t *testing.T, gen interface{}) (*chain, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "dealchaind")
	require.NoError(t, err)

	abciApp, err := NewApp(home, log.NewNopLogger(), true, prometheus.NewRegistry())
	require.NoError(t, err)

	runner := chaintest.NewChainRunner(t, abciApp, chainID)
	runner.InitChain(gen)

	auth := Authenticator()
	return &chain{
		t:      t,
		runner: runner,
		state:  app.NewABCIStore(abciApp),
		tokens: token.NewController(auth, system.NewController(auth)),
	}, func() { os.RemoveAll(home) }
}

// deliver signs the transaction with given key and delivers it in a new
// block.
func (c *chain) deliver(key *crypto.PrivateKey, ixs ...*dealchain.Instruction) error {
	c.t.Helper()
	tx := chaintest.Tx(ixs...)
	seq, err := sigs.NextNonce(c.state, key.PublicKey().Address())
	require.NoError(c.t, err)
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	require.NoError(c.t, err)
	tx.Signatures = append(tx.Signatures, sig)

	var txErr error
	c.runner.InBlock(func(a chaintest.ChainApp) error {
		if txErr = a.CheckTx(tx); txErr != nil {
			return nil
		}
		txErr = a.DeliverTx(tx)
		return nil
	})
	return txErr
}

func (c *chain) balance(owner, mint dealchain.Address) uint64 {
	c.t.Helper()
	ata, err := token.AssociatedAddress(owner, mint)
	require.NoError(c.t, err)
	acct, err := c.tokens.Account(c.state, ata)
	require.NoError(c.t, err)
	return acct.Amount
}

func TestDealOverABCI(t *testing.T) {
	initializer := chaintest.NewKey()
	taker := chaintest.NewKey()
	initAddr := initializer.PublicKey().Address()
	takerAddr := taker.PublicKey().Address()
	mintA, mintB := chaintest.NewAddress(), chaintest.NewAddress()

	c, cleanup := newChain(t, dealGenesis(initAddr, takerAddr, mintA, mintB))
	defer cleanup()

	conf := deal.DefaultConfiguration()
	sourceA, err := token.AssociatedAddress(initAddr, mintA)
	require.NoError(t, err)
	sourceB, err := token.AssociatedAddress(takerAddr, mintB)
	require.NoError(t, err)

	initIx, err := deal.NewInitInstruction(conf, deal.InitParams{
		Initializer:    initAddr,
		Source:         sourceA,
		MintA:          mintA,
		MintB:          mintB,
		AmountToTrade:  100,
		AmountExpected: 50,
		Seed:           7,
	})
	require.NoError(t, err)
	require.NoError(t, c.deliver(initializer, initIx))

	dealAddr, _, err := deal.DealAddress(deal.ProgramID, 7, initAddr)
	require.NoError(t, err)
	deals, err := c.runner.Query("/deals", dealAddr.Bytes())
	require.NoError(t, err)
	require.Equal(t, 1, len(deals))
	rec, err := deal.UnmarshalRecord(deals[0].Value)
	require.NoError(t, err)
	assert.True(t, rec.IsOpen)
	assert.Equal(t, uint64(50), rec.ExpectedAmount)
	assert.Equal(t, uint64(50), c.balance(initAddr, mintA))

	exchangeIx, err := deal.NewExchangeInstruction(conf, deal.ExchangeParams{
		Taker:       takerAddr,
		Initializer: initAddr,
		Seed:        7,
		Source:      sourceB,
		MintA:       mintA,
		MintB:       mintB,
		Amount:      50,
	})
	require.NoError(t, err)

	// only the taker can accept the deal
	err = c.deliver(initializer, exchangeIx)
	assert.True(t, deal.ErrInvalidSigner.Is(err), "unexpected error %+v", err)

	require.NoError(t, c.deliver(taker, exchangeIx))

	assert.Equal(t, uint64(100), c.balance(takerAddr, mintA))
	assert.Equal(t, uint64(30), c.balance(takerAddr, mintB))
	assert.Equal(t, uint64(50), c.balance(initAddr, mintB))
	assert.Equal(t, uint64(50), c.balance(initAddr, mintA))

	deals, err = c.runner.Query("/deals", dealAddr.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, len(deals))
	assert.Nil(t, c.runner.Get(system.NewBucket().DBKey(dealAddr.Bytes())))

	// a consumed deal cannot be exchanged twice
	err = c.deliver(taker, exchangeIx)
	assert.True(t, deal.ErrDeserializeEscrowAccountError.Is(err), "unexpected error %+v", err)
}

// dealGenesis returns a genesis where initializer holds 150 of asset A and
// taker holds 80 of asset B.
func dealGenesis(initAddr, takerAddr, mintA, mintB dealchain.Address) Genesis {
	gen := GenesisTemplate(initAddr)
	gen.System = append(gen.System, system.GenesisAccount{Address: takerAddr, Balance: genesisBalance})
	gen.Token = []token.GenesisMint{
		{Address: mintA, Decimals: 2, Authority: initAddr, Holders: []token.GenesisHolder{{Owner: initAddr, Amount: 150}}},
		{Address: mintB, Decimals: 6, Authority: initAddr, Holders: []token.GenesisHolder{{Owner: takerAddr, Amount: 80}}},
	}
	return gen
}

func TestFailedInitLeavesNoState(t *testing.T) {
	initializer := chaintest.NewKey()
	initAddr := initializer.PublicKey().Address()
	mintA, mintB := chaintest.NewAddress(), chaintest.NewAddress()

	c, cleanup := newChain(t, dealGenesis(initAddr, chaintest.NewAddress(), mintA, mintB))
	defer cleanup()
	sys := system.NewController(Authenticator())

	sourceA, err := token.AssociatedAddress(initAddr, mintA)
	require.NoError(t, err)
	dealAddr, _, err := deal.DealAddress(deal.ProgramID, 11, initAddr)
	require.NoError(t, err)
	vault, err := token.AssociatedAddress(dealAddr, mintA)
	require.NoError(t, err)
	before, err := sys.Account(c.state, initAddr)
	require.NoError(t, err)

	// the initializer holds only 150 of asset A
	initIx, err := deal.NewInitInstruction(deal.DefaultConfiguration(), deal.InitParams{
		Initializer:    initAddr,
		Source:         sourceA,
		MintA:          mintA,
		MintB:          mintB,
		AmountToTrade:  151,
		AmountExpected: 50,
		Seed:           11,
	})
	require.NoError(t, err)
	err = c.deliver(initializer, initIx)
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "unexpected error %+v", err)

	// neither the deal storage nor the vault was created
	bucket := system.NewBucket()
	assert.Nil(t, c.runner.Get(bucket.DBKey(dealAddr.Bytes())))
	assert.Nil(t, c.runner.Get(bucket.DBKey(vault.Bytes())))
	deals, err := c.runner.Query("/deals", dealAddr.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, len(deals))

	after, err := sys.Account(c.state, initAddr)
	require.NoError(t, err)
	assert.Equal(t, before.Balance, after.Balance)
	assert.Equal(t, uint64(150), c.balance(initAddr, mintA))

	// the nonce was consumed, the next transaction uses the following one
	seq, err := sigs.NextNonce(c.state, initAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestExchangeWithFundedReceiver(t *testing.T) {
	initializer := chaintest.NewKey()
	taker := chaintest.NewKey()
	initAddr := initializer.PublicKey().Address()
	takerAddr := taker.PublicKey().Address()
	mintA, mintB := chaintest.NewAddress(), chaintest.NewAddress()

	c, cleanup := newChain(t, dealGenesis(initAddr, takerAddr, mintA, mintB))
	defer cleanup()

	conf := deal.DefaultConfiguration()
	sourceA, err := token.AssociatedAddress(initAddr, mintA)
	require.NoError(t, err)
	sourceB, err := token.AssociatedAddress(takerAddr, mintB)
	require.NoError(t, err)
	initIx, err := deal.NewInitInstruction(conf, deal.InitParams{
		Initializer:    initAddr,
		Source:         sourceA,
		MintA:          mintA,
		MintB:          mintB,
		AmountToTrade:  100,
		AmountExpected: 50,
		Seed:           5,
	})
	require.NoError(t, err)
	require.NoError(t, c.deliver(initializer, initIx))

	// the receiver of asset B gets native balance before it exists
	receiver, err := token.AssociatedAddress(initAddr, mintB)
	require.NoError(t, err)
	require.NoError(t, c.deliver(taker, system.NewTransferInstruction(takerAddr, receiver, 1)))

	exchangeIx, err := deal.NewExchangeInstruction(conf, deal.ExchangeParams{
		Taker:       takerAddr,
		Initializer: initAddr,
		Seed:        5,
		Source:      sourceB,
		MintA:       mintA,
		MintB:       mintB,
		Amount:      50,
	})
	require.NoError(t, err)
	require.NoError(t, c.deliver(taker, exchangeIx))

	assert.Equal(t, uint64(100), c.balance(takerAddr, mintA))
	assert.Equal(t, uint64(50), c.balance(initAddr, mintB))
}

func TestGenInitOptions(t *testing.T) {
	owner := chaintest.NewAddress()
	raw, err := GenInitOptions([]string{owner.String()})
	require.NoError(t, err)

	c, cleanup := newChain(t, raw)
	defer cleanup()

	res, err := c.runner.Query("/accounts", owner.Bytes())
	require.NoError(t, err)
	require.Equal(t, 1, len(res))

	_, err = GenInitOptions([]string{"not an address"})
	assert.True(t, errors.ErrInput.Is(err))
}
