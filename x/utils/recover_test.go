package utils

import (
	"context"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/store"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()
	tx := &dealchain.Tx{}

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, s, tx) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, tx) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, tx, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, tx, h)
	assert.True(t, errors.ErrPanic.Is(err))
}
