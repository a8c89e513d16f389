package x

import (
	"github.com/iov-one/dealchain"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all programs.
type Authenticator interface {
	// GetSigners reveals all addresses that authorized the current
	// transaction, either by signature or granted by a program.
	GetSigners(dealchain.Context) []dealchain.Address
	// HasAddress checks if this address authorized the transaction
	HasAddress(dealchain.Context, dealchain.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetSigners combines all signers from all Authenticators
func (m MultiAuth) GetSigners(ctx dealchain.Context) []dealchain.Address {
	var res []dealchain.Address
	for _, impl := range m.impls {
		add := impl.GetSigners(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx dealchain.Context, addr dealchain.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer if any, otherwise the zero address
func MainSigner(ctx dealchain.Context, auth Authenticator) dealchain.Address {
	signers := auth.GetSigners(ctx)
	if len(signers) == 0 {
		return dealchain.ZeroAddress
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx dealchain.Context, auth Authenticator, required []dealchain.Address) bool {
	return HasNAddresses(ctx, auth, required, len(required))
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx dealchain.Context, auth Authenticator, required []dealchain.Address, n int) bool {
	if n <= 0 {
		return true
	}

	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
