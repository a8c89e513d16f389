package deal

import (
	"context"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/x"
)

type contextKey int

const (
	contextKeyCustody contextKey = iota
)

// withCustody grants the authority of a deal storage address for the
// duration of the calls made with the returned context.
func withCustody(ctx dealchain.Context, addr dealchain.Address) dealchain.Context {
	return context.WithValue(ctx, contextKeyCustody, addr)
}

// Authenticate exposes the deal storage address the deal program is
// currently signing for.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns the granted deal address, if any.
func (Authenticate) GetSigners(ctx dealchain.Context) []dealchain.Address {
	addr, ok := ctx.Value(contextKeyCustody).(dealchain.Address)
	if !ok {
		return nil
	}
	return []dealchain.Address{addr}
}

// HasAddress returns true if addr is the granted deal address.
func (Authenticate) HasAddress(ctx dealchain.Context, addr dealchain.Address) bool {
	granted, ok := ctx.Value(contextKeyCustody).(dealchain.Address)
	return ok && granted == addr
}
