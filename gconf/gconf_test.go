package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/chaintest/assert"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/store"
)

type testConfig struct {
	Number uint64            `json:"number"`
	Text   string            `json:"text"`
	Owner  dealchain.Address `json:"owner"`
}

func (c *testConfig) Marshal() ([]byte, error) { return Encode(c) }

func (c *testConfig) Unmarshal(raw []byte) error { return Decode(raw, c) }

func (c *testConfig) Validate() error {
	if c.Number == 0 {
		return errors.Wrap(errors.ErrEmpty, "number")
	}
	if c.Owner.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	owner := chaintest.NewAddress()

	cases := map[string]struct {
		Conf        *testConfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &testConfig{Number: 852151421, Text: "foobar", Owner: owner},
		},
		"empty text": {
			Conf: &testConfig{Number: 1, Owner: owner},
		},
		"invalid configuration cannot be saved": {
			Conf:        &testConfig{Text: "no number", Owner: owner},
			WantSaveErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "test", tc.Conf)
			if !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got testConfig
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got testConfig
	err := Load(db, "test", &got)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestLoadIsPerPackage(t *testing.T) {
	db := store.MemStore()
	a := &testConfig{Number: 1, Owner: chaintest.NewAddress()}
	b := &testConfig{Number: 2, Owner: chaintest.NewAddress()}
	assert.Nil(t, Save(db, "a", a))
	assert.Nil(t, Save(db, "b", b))

	var got testConfig
	assert.Nil(t, Load(db, "a", &got))
	assert.Equal(t, *a, got)
	assert.Nil(t, Load(db, "b", &got))
	assert.Equal(t, *b, got)
}

func TestInitConfig(t *testing.T) {
	owner := chaintest.NewAddress()

	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
	}{
		"valid configuration": {
			Genesis: `{"conf": {"test": {"number": 3, "text": "x", "owner": "` + owner.String() + `"}}}`,
		},
		"missing package": {
			Genesis: `{"conf": {"other": {"number": 3}}}`,
			WantErr: errors.ErrNotFound,
		},
		"no conf section": {
			Genesis: `{}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			Genesis: `{"conf": {"test": {"text": "x", "owner": "` + owner.String() + `"}}}`,
			WantErr: errors.ErrEmpty,
		},
		"malformed address": {
			Genesis: `{"conf": {"test": {"number": 3, "owner": "0OIl"}}}`,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts dealchain.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.Genesis), &opts))

			db := store.MemStore()
			err := InitConfig(db, opts, "test", &testConfig{})
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}
			var got testConfig
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, testConfig{Number: 3, Text: "x", Owner: owner}, got)
		})
	}
}
