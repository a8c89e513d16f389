package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions per program and
// result code and measures how long their processing took.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ dealchain.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer. It panics if the collectors are already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dealchain",
			Name:      "transactions_total",
			Help:      "Number of processed transactions.",
		}, []string{"phase", "program", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dealchain",
			Name:      "transaction_duration_seconds",
			Help:      "Time spent processing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase"}),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

// Check observes the check phase.
func (m *Metrics) Check(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Checker) (*dealchain.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver observes the deliver phase.
func (m *Metrics) Deliver(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Deliverer) (*dealchain.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m *Metrics) observe(phase string, tx *dealchain.Tx, start time.Time, err error) {
	m.duration.WithLabelValues(phase).Observe(time.Since(start).Seconds())

	code, _ := errors.ABCIInfo(err, false)
	c := strconv.FormatUint(uint64(code), 10)
	programs := tx.Programs()
	if len(programs) == 0 {
		m.txs.WithLabelValues(phase, "", c).Inc()
		return
	}
	for _, p := range programs {
		m.txs.WithLabelValues(phase, p.String(), c).Inc()
	}
}
