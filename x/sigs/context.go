package sigs

import (
	"context"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx dealchain.Context, signers []dealchain.Address) dealchain.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the addresses whose signatures were verified by the
// Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns who signed the current Context.
// May be empty
func (a Authenticate) GetSigners(ctx dealchain.Context) []dealchain.Address {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]dealchain.Address)
	return val
}

// HasAddress returns true if the given address signed the transaction.
func (a Authenticate) HasAddress(ctx dealchain.Context, addr dealchain.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
