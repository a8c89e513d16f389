package x

import (
	"context"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/chaintest/assert"
)

func TestAuth(t *testing.T) {
	a := chaintest.NewAddress()
	b := chaintest.NewAddress()
	c := chaintest.NewAddress()

	ctx1 := &chaintest.CtxAuth{Key: "foo"}
	ctx2 := &chaintest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          dealchain.Context
		auth         Authenticator
		mainSigner   dealchain.Address
		wantInCtx    dealchain.Address
		wantNotInCtx dealchain.Address
		wantAll      []dealchain.Address
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &chaintest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &chaintest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []dealchain.Address{a},
		},
		"signer b": {
			ctx: context.Background(),
			auth: ChainAuth(
				&chaintest.Auth{Signer: b},
				&chaintest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []dealchain.Address{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []dealchain.Address{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if !tc.wantInCtx.IsZero() && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx) {
				t.Fatal("address that was expected in context not found")
			}
			if tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx) {
				t.Fatal("address that was expected not to be in context found")
			}

			all := tc.auth.GetSigners(tc.ctx)
			assert.Equal(t, tc.wantAll, all)

			if !HasAllAddresses(tc.ctx, tc.auth, all) {
				t.Fatal("has all addresses check failed")
			}
			if HasAllAddresses(tc.ctx, tc.auth, append(all, tc.wantNotInCtx)) {
				t.Fatal("has all addresses succeeded after adding non existing address")
			}

			if len(all) > 0 {
				if !HasNAddresses(tc.ctx, tc.auth, all, len(all)-1) {
					t.Fatal("want address check of a subset to succeed")
				}
				if HasNAddresses(tc.ctx, tc.auth, all, len(all)+1) {
					t.Fatal("want address check of a superset to fail")
				}
			}
		})
	}
}
