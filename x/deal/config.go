package deal

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/gconf"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
)

// PackageName is the gconf key of the deal configuration.
const PackageName = "deal"

// ProgramID is the id the deal program is registered under.
var ProgramID = dealchain.ProgramID("deal")

// Configuration binds the deal program to its own id and to the programs it
// calls. Instructions and account handles are checked against it.
type Configuration struct {
	ProgramID         dealchain.Address `json:"program_id"`
	TokenProgram      dealchain.Address `json:"token_program"`
	AssociatedProgram dealchain.Address `json:"associated_program"`
	SystemProgram     dealchain.Address `json:"system_program"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns the well known program ids.
func DefaultConfiguration() Configuration {
	return Configuration{
		ProgramID:         ProgramID,
		TokenProgram:      token.ProgramID,
		AssociatedProgram: token.AssociatedProgramID,
		SystemProgram:     system.ProgramID,
	}
}

func (c *Configuration) Marshal() ([]byte, error) { return gconf.Encode(c) }

func (c *Configuration) Unmarshal(raw []byte) error { return gconf.Decode(raw, c) }

func (c *Configuration) Validate() error {
	if c.ProgramID.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "program id")
	}
	if c.TokenProgram.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "token program")
	}
	if c.AssociatedProgram.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "associated program")
	}
	if c.SystemProgram.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "system program")
	}
	return nil
}

// LoadConfiguration reads the deal configuration from the store.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return conf, errors.Wrap(err, "deal configuration")
	}
	return conf, nil
}
