package app

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// ResultSet is the list of values returned by queries and by the
// instructions of a delivered transaction.
type ResultSet struct {
	Results [][]byte
}

// Marshal encodes the result set.
func (r *ResultSet) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Unmarshal decodes a result set.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		*r = ResultSet{}
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, r); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []dealchain.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []dealchain.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]dealchain.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys, %d values", len(kref), len(vref))
	}
	mods := make([]dealchain.Model, len(kref))
	for i := range mods {
		mods[i] = dealchain.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// InstructionResults decodes the data of a delivered transaction into the
// data returned by each of its instructions.
func InstructionResults(txData []byte) ([][]byte, error) {
	var rs ResultSet
	if err := rs.Unmarshal(txData); err != nil {
		return nil, err
	}
	return rs.Results, nil
}
