package app

import (
	"github.com/iov-one/dealchain"
)

// ChainInitializers lets you initialize many extensions with one function.
// Initializers are called in the order given.
func ChainInitializers(inits ...dealchain.Initializer) dealchain.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []dealchain.Initializer
}

var _ dealchain.Initializer = chainInitializer{}

// FromGenesis passes opts to all initializers in the list, aborting at the
// first error.
func (c chainInitializer) FromGenesis(opts dealchain.Options, kv dealchain.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
