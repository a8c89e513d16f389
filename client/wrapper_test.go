package client

import (
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest/assert"
)

func TestWaitForNextBlock(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	header, err := c.WaitForNextBlock(ctx)
	assert.Nil(t, err)
	assert.Equal(t, lastHeight+1, header.Height)
}

func TestWaitForHeight(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	cases := map[string]struct {
		diff int64
	}{
		"next block":   {diff: 1},
		"old block":    {diff: -2},
		"future block": {diff: 3},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, err := c.Status(ctx)
			assert.Nil(t, err)
			desired := status.Height + tc.diff

			header, err := c.WaitForHeight(ctx, desired)
			assert.Nil(t, err)
			if header == nil {
				t.Fatalf("Returned nil header")
			}

			if tc.diff > 0 {
				assert.Equal(t, true, header.Height >= desired)
			} else {
				// a past height returns the next header
				assert.Equal(t, true, header.Height > status.Height)
			}
		})
	}
}

// memoTx returns a transaction unique to this run. The kvstore application
// accepts any bytes.
func memoTx(i int) *dealchain.Tx {
	return &dealchain.Tx{Memo: fmt.Sprintf("client test %d %d", time.Now().UnixNano(), i)}
}

func TestCommitTx(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	res, err := c.CommitTx(ctx, memoTx(0))
	assert.Nil(t, err)
	assert.Nil(t, res.Err)
	if res.Height < 1 {
		t.Fatalf("Unexpected height %d", res.Height)
	}

	found, err := c.GetTxByID(ctx, res.ID)
	assert.Nil(t, err)
	assert.Equal(t, res.Height, found.Height)

	search, err := c.SearchTx(ctx, QueryTxByID(res.ID))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(search))
}

func TestCommitTxs(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	txs := []*dealchain.Tx{memoTx(1), memoTx(2), memoTx(3)}
	results, err := c.CommitTxs(ctx, txs)
	assert.Nil(t, err)
	assert.Equal(t, len(txs), len(results))
	for _, r := range results {
		assert.Nil(t, r.Err)
	}

	// a nil id is skipped
	watched, err := c.WatchTxs(ctx, []TransactionID{nil, results[0].ID})
	assert.Nil(t, err)
	assert.Nil(t, watched[0])
	assert.Equal(t, results[0].Height, watched[1].Height)
}
