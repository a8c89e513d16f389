package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/store"
)

// ValidateGenesis loads the app_state of every given genesis file into a
// throwaway store and returns the first failure.
func ValidateGenesis(ini dealchain.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no genesis file")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini dealchain.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(errors.ErrNotFound, err.Error())
	}

	var genesis struct {
		State dealchain.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
