package chaintest

import (
	"context"
	"fmt"

	"github.com/iov-one/dealchain"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer dealchain.Address

	// Signers represents an authentication of multiple signers.
	Signers []dealchain.Address
}

func (a *Auth) GetSigners(dealchain.Context) []dealchain.Address {
	if !a.Signer.IsZero() {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx dealchain.Context, addr dealchain.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convinience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetSigners(ctx dealchain.Context, signers ...dealchain.Address) dealchain.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetSigners(ctx dealchain.Context) []dealchain.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	signers, ok := val.([]dealchain.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []dealchain.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx dealchain.Context, addr dealchain.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
