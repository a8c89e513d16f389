package utils

import (
	"github.com/iov-one/dealchain"
	"github.com/tendermint/tendermint/libs/common"
)

// ProgramKey is used by ProgramTagger as the Key in the Tag it appends
const ProgramKey = "program"

// ProgramTagger adds a `program = <id>` tag for every program a successfully
// delivered transaction invoked, so clients can subscribe to all deals.
type ProgramTagger struct{}

var _ dealchain.Decorator = ProgramTagger{}

// NewProgramTagger creates a ProgramTagger decorator
func NewProgramTagger() ProgramTagger {
	return ProgramTagger{}
}

// Check just passes the request along
func (ProgramTagger) Check(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx, next dealchain.Checker) (*dealchain.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends the tags on the result if there is a success.
func (ProgramTagger) Deliver(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx, next dealchain.Deliverer) (*dealchain.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	for _, p := range tx.Programs() {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(ProgramKey),
			Value: []byte(p.String()),
		})
	}
	return res, nil
}
