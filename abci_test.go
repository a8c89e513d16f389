package dealchain_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err   error
		debug bool
		msg   string
		code  uint32
	}{
		"stdlib error is hidden": {
			err:  fmt.Errorf("base"),
			msg:  "internal error",
			code: 1,
		},
		"stdlib error in debug mode": {
			err:   fmt.Errorf("base"),
			debug: true,
			msg:   "base",
			code:  1,
		},
		"registered error": {
			err:  errors.Wrap(errors.ErrUnauthorized, "nonce"),
			msg:  "nonce: unauthorized",
			code: errors.ErrUnauthorized.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := dealchain.DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.msg), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := dealchain.CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx: "+tc.msg), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	dres := dealchain.DeliverResult{Data: d, Log: msg}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Empty(t, ad.Tags)

	c, gas := "aok", int64(12345)
	cres := dealchain.NewCheck(gas, c)
	ac := cres.ToABCI()
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)

	ok := dealchain.DeliverOrError(&dres, nil, false)
	assert.False(t, ok.IsErr())
	bad := dealchain.CheckOrError(nil, errors.ErrEmpty, false)
	assert.Equal(t, errors.ErrEmpty.ABCICode(), bad.Code)
}

func TestParseDeliverOrError(t *testing.T) {
	res, err := dealchain.ParseDeliverOrError(dealchain.DeliverResult{Data: []byte("ok"), Log: "fine"}.ToABCI())
	assert.NoError(t, err)
	assert.Equal(t, []byte("ok"), res.Data)
	assert.Equal(t, "fine", res.Log)

	failed := dealchain.DeliverTxError(errors.Wrap(errors.ErrAccountInUse, "deal"), false)
	res, err = dealchain.ParseDeliverOrError(failed)
	assert.Nil(t, res)
	assert.True(t, errors.ErrAccountInUse.Is(err), "%+v", err)
}
