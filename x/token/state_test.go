package token

import (
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintLayout(t *testing.T) {
	m := Mint{IsInitialized: true, Decimals: 6, Supply: 1 << 40, Authority: dealchain.ProgramID("auth")}
	raw := m.MarshalBinary()
	require.Len(t, raw, MintLength)
	assert.Equal(t, byte(1), raw[0])
	assert.Equal(t, byte(6), raw[1])
	assert.Equal(t, m.Authority[:], raw[10:])

	got, err := UnmarshalMint(raw)
	require.NoError(t, err)
	assert.Equal(t, m, *got)

	cases := map[string][]byte{
		"short":           raw[:MintLength-1],
		"not initialized": append([]byte{0}, raw[1:]...),
		"invalid flag":    append([]byte{2}, raw[1:]...),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalMint(data)
			assert.True(t, ErrInvalidMint.Is(err))
		})
	}
}

func TestAccountLayout(t *testing.T) {
	a := Account{
		Mint:   dealchain.ProgramID("mint"),
		Owner:  dealchain.ProgramID("owner"),
		Amount: 12345,
		State:  StateInitialized,
	}
	raw := a.MarshalBinary()
	require.Len(t, raw, AccountLength)
	assert.Equal(t, a.Mint[:], raw[:32])
	assert.Equal(t, a.Owner[:], raw[32:64])
	assert.Equal(t, byte(1), raw[72])

	got, err := UnmarshalAccount(raw)
	require.NoError(t, err)
	assert.Equal(t, a, *got)

	uninit := append([]byte(nil), raw...)
	uninit[72] = 0
	unknown := append([]byte(nil), raw...)
	unknown[72] = 7

	for name, data := range map[string][]byte{
		"short":         raw[:10],
		"uninitialized": uninit,
		"unknown state": unknown,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalAccount(data)
			if !ErrInvalidAccount.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
