package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/dealchain/errors"
)

// ConfigFile is the name of the node configuration file in the home
// directory.
const ConfigFile = "dealchaind.toml"

// Config holds the node settings. Command line flags take precedence.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// Debug returns call stacks of failed transactions to clients.
	Debug bool `toml:"debug"`
	// LogLevel filters log output, ie. "info" or "main:info,*:error".
	LogLevel string `toml:"log_level"`
	// Metrics is the address prometheus metrics are served on. Empty
	// disables the endpoint.
	Metrics string `toml:"metrics"`
}

// DefaultConfig returns the settings of a fresh node.
func DefaultConfig() Config {
	return Config{
		Bind:     "tcp://localhost:26658",
		LogLevel: "info",
		Metrics:  "localhost:26660",
	}
}

// LoadConfig reads the configuration from the home directory. A missing
// file is created with the default settings.
func LoadConfig(home string) (Config, error) {
	path := filepath.Join(home, ConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		conf := DefaultConfig()
		if err := saveConfig(path, conf); err != nil {
			return conf, err
		}
		return conf, nil
	}

	conf := DefaultConfig()
	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "cannot decode %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return conf, errors.Wrapf(errors.ErrInput, "unknown setting %q in %s", undecoded[0].String(), path)
	}
	return conf, nil
}

func saveConfig(path string, conf Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create home directory")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrap(err, "create config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}
