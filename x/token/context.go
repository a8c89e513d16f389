package token

import (
	"context"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/x"
)

type contextKey int

const (
	contextKeyAssociated contextKey = iota
)

// withAssociated grants the authority of an associated token account
// address, so it can be created at its derived address.
func withAssociated(ctx dealchain.Context, addr dealchain.Address) dealchain.Context {
	return context.WithValue(ctx, contextKeyAssociated, addr)
}

// Authenticate exposes the derived address the associated token program is
// currently acting for.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns the associated account address if one is granted.
func (Authenticate) GetSigners(ctx dealchain.Context) []dealchain.Address {
	addr, ok := ctx.Value(contextKeyAssociated).(dealchain.Address)
	if !ok {
		return nil
	}
	return []dealchain.Address{addr}
}

// HasAddress returns true if addr is the granted associated account.
func (Authenticate) HasAddress(ctx dealchain.Context, addr dealchain.Address) bool {
	granted, ok := ctx.Value(contextKeyAssociated).(dealchain.Address)
	return ok && granted == addr
}
