package chaintest

import "github.com/iov-one/dealchain"

// Decorator is a mock implementation of the dealchain.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ dealchain.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx, next dealchain.Checker) (*dealchain.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return &dealchain.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx, next dealchain.Deliverer) (*dealchain.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return &dealchain.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with one decorator and returns it as a single
// handler.
func Decorate(h dealchain.Handler, d dealchain.Decorator) dealchain.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn dealchain.Handler
	dc dealchain.Decorator
}

var _ dealchain.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx) (*dealchain.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx) (*dealchain.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
