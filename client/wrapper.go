package client

import (
	"context"
	"time"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"golang.org/x/sync/errgroup"
)

// indexDelay is the time the node needs to index a block after its header
// event was published.
const indexDelay = 100 * time.Millisecond

// SubscribeTxByID will block until there is a result, then return it
// You must cancel the context to avoid blocking forever in some cases
func (c *Client) SubscribeTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}

	// the channel is closed if the subscription is cancelled first
	res, ok := <-txs
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "unsubscribed before result")
	}
	return &res, nil
}

// WatchTx will block until this transaction makes it into a block
// It will return immediately if the id was included in a block prior to the query, to avoid timing issues
// You can use context.Context to pass in a timeout
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := make(chan resultOrError, 1)
	go func() {
		res, err := c.SubscribeTxByID(subctx, id)
		sub <- resultOrError{
			result: res,
			err:    err,
		}
	}()

	// Not found is reported as a network error, so any error means we wait
	// for the subscription.
	if found, _ := c.GetTxByID(ctx, id); found != nil {
		return found, nil
	}

	result := <-sub
	return result.result, result.err
}

// CommitTx will block on both Check and Deliver, returning when it is in a block
func (c *Client) CommitTx(ctx context.Context, tx *dealchain.Tx) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err == nil {
		c.waitForTxIndex()
	}
	return res, err
}

// WatchTxs will watch a list of transactions in parallel. Nil ids are
// skipped and leave a nil result.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	res := make([]*CommitResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		if id == nil {
			continue
		}
		i, id := i, id
		g.Go(func() error {
			r, err := c.WatchTx(ctx, id)
			res[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// CommitTxs will submit many transactions and wait until they are all included in blocks.
// Ideally, all in the same block.
//
// If any tx fails in mempool or network, this returns an error
func (c *Client) CommitTxs(ctx context.Context, txs []*dealchain.Tx) ([]*CommitResult, error) {
	ids := make([]TransactionID, len(txs))
	for i, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %d", i)
		}
		ids[i] = id
	}
	return c.WatchTxs(ctx, ids)
}

// WaitForNextBlock will return the next block header to arrive (as subscription)
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 1)
	if err := c.SubscribeHeaders(cctx, headers); err != nil {
		return nil, err
	}

	h, ok := <-headers
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "subscription closed without returning any headers")
	}
	c.waitForTxIndex()
	return &h, nil
}

// WaitForHeight subscribes to headers and returns as soon as a header arrives
// equal to or greater than the given height. If the requested height is in the past,
// it will still wait for the next block to arrive
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(cctx, headers); err != nil {
		return nil, err
	}

	for h := range headers {
		if h.Height >= height {
			c.waitForTxIndex()
			return &h, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrTimeout, "subscription closed before height %d", height)
}

func (c *Client) waitForTxIndex() {
	time.Sleep(indexDelay)
}
