package gconf

import (
	"fmt"
	"sort"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// Initializer loads the configuration of every registered package from the
// genesis file.
type Initializer struct {
	confs map[string]func() Configuration
}

var _ dealchain.Initializer = (*Initializer)(nil)

// NewInitializer returns an initializer with no packages registered.
func NewInitializer() *Initializer {
	return &Initializer{confs: make(map[string]func() Configuration)}
}

// Register declares that the given package expects a configuration in
// genesis. It panics when the package is registered twice.
func (i *Initializer) Register(pkg string, newConf func() Configuration) *Initializer {
	if _, ok := i.confs[pkg]; ok {
		panic(fmt.Sprintf("configuration %q registered twice", pkg))
	}
	i.confs[pkg] = newConf
	return i
}

// FromGenesis will parse the configuration of all registered packages from
// genesis and save it to the database. A missing configuration is an error.
func (i *Initializer) FromGenesis(opts dealchain.Options, db dealchain.KVStore) error {
	pkgs := make([]string, 0, len(i.confs))
	for pkg := range i.confs {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		if err := InitConfig(db, opts, pkg, i.confs[pkg]()); err != nil {
			return errors.Wrapf(err, "package %s", pkg)
		}
	}
	return nil
}
