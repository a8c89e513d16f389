package utils

import (
	"time"

	"github.com/iov-one/dealchain"
)

// Logging is a decorator to log transactions as they pass through
type Logging struct{}

var _ dealchain.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (r Logging) Check(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Checker) (*dealchain.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Deliverer) (*dealchain.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx dealchain.Context, tx *dealchain.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := dealchain.GetLogger(ctx).With(
		"duration", delta/time.Microsecond,
		"instructions", len(tx.Instructions),
	)

	if err != nil {
		logger.With("err", err).Error(msg)
		return
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	if lowPrio {
		logger.Debug(msg)
	} else {
		logger.Info(msg)
	}
}
