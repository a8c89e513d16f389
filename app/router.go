package app

import (
	"fmt"
	"strings"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// Router dispatches every instruction of a transaction to the program
// registered for its program id. Instructions are executed in order and
// the transaction fails with the first failing instruction.
type Router struct {
	programs map[dealchain.Address]dealchain.Program
}

var _ dealchain.Registry = (*Router)(nil)
var _ dealchain.Handler = (*Router)(nil)

// NewRouter returns a router without any program registered.
func NewRouter() *Router {
	return &Router{
		programs: make(map[dealchain.Address]dealchain.Program),
	}
}

// Handle registers a program. It panics when the program id is already
// taken.
func (r *Router) Handle(programID dealchain.Address, p dealchain.Program) {
	if programID.IsZero() {
		panic("program id must not be zero")
	}
	if _, ok := r.programs[programID]; ok {
		panic(fmt.Sprintf("re-registering program %s", programID))
	}
	r.programs[programID] = p
}

// program returns the program the instruction is addressed to.
func (r *Router) program(ix *dealchain.Instruction) (dealchain.Program, error) {
	id, err := ix.Program()
	if err != nil {
		return nil, err
	}
	p, ok := r.programs[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no program %s", id)
	}
	return p, nil
}

// Check validates every instruction. When the store can be cache wrapped,
// each instruction is checked against the state left by delivering the
// instructions before it; all of it is discarded afterwards.
func (r *Router) Check(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx) (*dealchain.CheckResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	sim, simulate := db, false
	if cacheable, ok := db.(dealchain.CacheableKVStore); ok {
		cache := cacheable.CacheWrap()
		defer cache.Discard()
		sim, simulate = cache, true
	}

	var (
		res  dealchain.CheckResult
		logs []string
	)
	last := len(tx.Instructions) - 1
	for i, ix := range tx.Instructions {
		p, err := r.program(ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		cres, err := p.Check(ctx, sim, ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		res.GasAllocated += cres.GasAllocated
		if cres.Log != "" {
			logs = append(logs, cres.Log)
		}
		if i == last || !simulate {
			continue
		}
		if _, err := p.Deliver(ctx, sim, ix); err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
	}
	res.Log = strings.Join(logs, "\n")
	return &res, nil
}

// Deliver executes all instructions. The result data holds the data of each
// instruction, encoded as a ResultSet.
func (r *Router) Deliver(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx) (*dealchain.DeliverResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	var (
		res  dealchain.DeliverResult
		data = make([][]byte, len(tx.Instructions))
		logs []string
	)
	for i, ix := range tx.Instructions {
		p, err := r.program(ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		dres, err := p.Deliver(ctx, db, ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		data[i] = dres.Data
		if dres.Log != "" {
			logs = append(logs, dres.Log)
		}
		res.Tags = append(res.Tags, dres.Tags...)
		res.GasUsed += dres.GasUsed
	}
	raw, err := (&ResultSet{Results: data}).Marshal()
	if err != nil {
		return nil, err
	}
	res.Data = raw
	res.Log = strings.Join(logs, "\n")
	return &res, nil
}
