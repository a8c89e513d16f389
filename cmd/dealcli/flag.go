package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/dealchain"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *dealchain.Address {
	var a dealchain.Address
	if defaultVal != "" {
		var err error
		a, err = dealchain.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*addressValue)(&a), name, usage)
	return &a
}

// addressValue implements flag.Value for a base58 address.
type addressValue dealchain.Address

func (a *addressValue) String() string {
	if a == nil {
		return ""
	}
	addr := dealchain.Address(*a)
	if addr.IsZero() {
		return ""
	}
	return addr.String()
}

func (a *addressValue) Set(raw string) error {
	addr, err := dealchain.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = addressValue(addr)
	return nil
}
