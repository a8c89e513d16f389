package utils

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ dealchain.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Checker) (_ *dealchain.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Deliverer) (_ *dealchain.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
