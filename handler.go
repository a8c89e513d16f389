package dealchain

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/dealchain/errors"
)

// Handler is a core engine that can process a transaction. The application
// router is the handler at the bottom of the decorator stack, it dispatches
// each instruction to the program it addresses.
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx *Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx *Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or logging, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx *Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx *Tx, next Deliverer) (*DeliverResult, error)
}

// Program processes instructions addressed to its program id. Check must not
// write to the store.
type Program interface {
	Check(ctx Context, store KVStore, ix *Instruction) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, ix *Instruction) (*DeliverResult, error)
}

// Registry is an interface to register your programs,
// the setup side of a Router
type Registry interface {
	Handle(programID Address, p Program)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q: %s", key, err)
	}
	return nil
}

// Stream expects a json array under the given key and returns a function
// decoding one element per call. Once all elements are consumed ErrEmpty is
// returned, any further call returns ErrState.
func (o Options) Stream(key string) (func(interface{}) error, error) {
	raw, ok := o[key]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEmpty, "no %q key", key)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if t, err := dec.Token(); err != nil || t != json.Delim('[') {
		return nil, errors.Wrapf(errors.ErrInput, "%q is not a list", key)
	}

	var done bool
	return func(dst interface{}) error {
		if done {
			return errors.Wrap(errors.ErrState, "stream consumed")
		}
		if !dec.More() {
			done = true
			return errors.ErrEmpty
		}
		if err := dec.Decode(dst); err != nil {
			done = true
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		return nil
	}, nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
