package app

import (
	"context"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle(dealchain.ProgramID("a"), &chaintest.Program{})

	assert.Panics(t, func() {
		r.Handle(dealchain.ProgramID("a"), &chaintest.Program{})
	})
	assert.Panics(t, func() {
		r.Handle(dealchain.ZeroAddress, &chaintest.Program{})
	})
}

func TestRouterDeliver(t *testing.T) {
	progA := &chaintest.Program{Write: []byte("a")}
	progB := &chaintest.Program{Write: []byte("b")}
	idA, idB := dealchain.ProgramID("a"), dealchain.ProgramID("b")

	r := NewRouter()
	r.Handle(idA, progA)
	r.Handle(idB, progB)

	db := store.MemStore()
	tx := chaintest.Tx(
		chaintest.Instruction(idA, []byte("first")),
		chaintest.Instruction(idB, []byte("second")),
		chaintest.Instruction(idA, []byte("third")),
	)
	res, err := r.Deliver(context.Background(), db, tx)
	require.NoError(t, err)

	data, err := InstructionResults(res.Data)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("first"), []byte("second"), []byte("third")}, data)

	assert.Equal(t, [][]byte{[]byte("first"), []byte("third")}, progA.Delivered())
	assert.Equal(t, [][]byte{[]byte("second")}, progB.Delivered())

	v, err := db.Get([]byte("second"))
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), v)
}

func TestRouterUnknownProgram(t *testing.T) {
	id := dealchain.ProgramID("a")
	r := NewRouter()
	r.Handle(id, &chaintest.Program{})

	tx := chaintest.Tx(
		chaintest.Instruction(id, []byte("ok")),
		chaintest.Instruction(dealchain.ProgramID("missing"), []byte("nope")),
	)
	_, err := r.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRouterEmptyTx(t *testing.T) {
	r := NewRouter()
	_, err := r.Deliver(context.Background(), store.MemStore(), chaintest.Tx())
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestRouterDeliverStopsAtFailure(t *testing.T) {
	ok := &chaintest.Program{}
	failing := &chaintest.Program{DeliverErr: errors.ErrInsufficientAmount}
	idOK, idFail := dealchain.ProgramID("ok"), dealchain.ProgramID("fail")

	r := NewRouter()
	r.Handle(idOK, ok)
	r.Handle(idFail, failing)

	tx := chaintest.Tx(
		chaintest.Instruction(idFail, []byte("one")),
		chaintest.Instruction(idOK, []byte("two")),
	)
	_, err := r.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	assert.Equal(t, 0, len(ok.Delivered()))
}

func TestRouterCheckSimulatesPrecedingInstructions(t *testing.T) {
	prog := &chaintest.Program{Write: []byte("x")}
	id := dealchain.ProgramID("a")
	r := NewRouter()
	r.Handle(id, prog)

	db := store.MemStore()
	tx := chaintest.Tx(
		chaintest.Instruction(id, []byte("one")),
		chaintest.Instruction(id, []byte("two")),
	)
	_, err := r.Check(context.Background(), db, tx)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{[]byte("one"), []byte("two")}, prog.Checked())
	// only the first instruction is delivered to prepare the state for the
	// second check
	assert.Equal(t, [][]byte{[]byte("one")}, prog.Delivered())

	// nothing of the simulation is persisted
	has, err := db.Has([]byte("one"))
	require.NoError(t, err)
	assert.False(t, has)
}
