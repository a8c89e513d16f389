package utils

import (
	"context"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	program := dealchain.ProgramID("metrics")
	tx := chaintest.Tx(
		chaintest.Instruction(program, []byte{1}),
		chaintest.Instruction(program, []byte{2}),
	)
	ctx := context.Background()
	db := store.MemStore()

	_, err := m.Deliver(ctx, db, tx, &chaintest.Handler{})
	assert.NoError(t, err)
	_, err = m.Deliver(ctx, db, tx, &chaintest.Handler{DeliverErr: errors.ErrNotFound})
	assert.Error(t, err)
	_, err = m.Check(ctx, db, tx, &chaintest.Handler{})
	assert.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.txs.WithLabelValues("deliver", program.String(), "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txs.WithLabelValues("deliver", program.String(), "3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txs.WithLabelValues("check", program.String(), "0")))

	// registering twice in the same registry is a configuration error
	assert.Panics(t, func() { NewMetrics(reg) })
}
