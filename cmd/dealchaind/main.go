package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/dealchain"
	dealchaind "github.com/iov-one/dealchain/cmd/dealchaind/app"
	"github.com/iov-one/dealchain/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".dealchain")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("dealchaind")
	fmt.Println("          Two party token exchange node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Check that genesis files can be loaded")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.dealchain")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		var logger log.Logger
		if logger, err = newLogger(*varHome); err == nil {
			err = server.InitCmd(dealchaind.GenInitOptions, logger, *varHome, rest)
		}
	case "start":
		var logger log.Logger
		if logger, err = newLogger(*varHome); err == nil {
			err = server.StartCmd(dealchaind.GenerateApp, logger, *varHome, rest)
		}
	case "validate":
		err = server.ValidateGenesis(dealchaind.Initializer(), rest)
	case "version":
		fmt.Println(dealchain.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

// newLogger builds the node logger filtered by the configured level.
func newLogger(home string) (log.Logger, error) {
	conf, err := server.LoadConfig(home)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "dealchain")
	level, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, level), nil
}
