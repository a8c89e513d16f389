package system

import (
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/gconf"
)

// AccountStorageOverhead is the size charged for every account on top of its
// data.
const AccountStorageOverhead = 128

// Configuration holds the rent parameters of the ledger.
type Configuration struct {
	// LamportsPerByteYear is the rent price of a single byte.
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year"`
	// ExemptionYears is how many years of rent an account must hold to be
	// exempt from paying it.
	ExemptionYears uint64 `json:"exemption_years"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration mirrors the common mainnet rent settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
	}
}

func (c *Configuration) Marshal() ([]byte, error) { return gconf.Encode(c) }

func (c *Configuration) Unmarshal(raw []byte) error { return gconf.Decode(raw, c) }

// Validate requires all rent parameters to be set.
func (c *Configuration) Validate() error {
	if c.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrEmpty, "lamports per byte year")
	}
	if c.ExemptionYears == 0 {
		return errors.Wrap(errors.ErrEmpty, "exemption years")
	}
	return nil
}

// Rent calculates storage deposits.
type Rent struct {
	conf Configuration
}

// NewRent returns a rent calculator for given parameters.
func NewRent(conf Configuration) Rent {
	return Rent{conf: conf}
}

// LoadRent reads the rent parameters from the store.
func LoadRent(db gconf.ReadStore) (Rent, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return Rent{}, errors.Wrap(err, "rent configuration")
	}
	return NewRent(conf), nil
}

// MinimumBalance returns the balance an account with size bytes of data must
// hold to be rent exempt.
func (r Rent) MinimumBalance(size uint64) uint64 {
	return (AccountStorageOverhead + size) * r.conf.LamportsPerByteYear * r.conf.ExemptionYears
}

// IsExempt returns true if the balance covers the rent of size bytes.
func (r Rent) IsExempt(balance, size uint64) bool {
	return balance >= r.MinimumBalance(size)
}

// PackageName is the gconf key of the rent configuration.
const PackageName = "system"
