package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/crypto"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/gconf"
	"github.com/iov-one/dealchain/x/deal"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// genesisBalance is the native balance of the development account.
const genesisBalance = 1000000000000

// Genesis is the app_state layout understood by Initializer.
type Genesis struct {
	Conf   GenesisConf             `json:"conf"`
	System []system.GenesisAccount `json:"system"`
	Token  []token.GenesisMint     `json:"token"`
}

// GenesisConf holds the package configurations loaded by gconf.
type GenesisConf struct {
	System system.Configuration `json:"system"`
	Deal   deal.Configuration   `json:"deal"`
}

func gconfInitializer() dealchain.Initializer {
	return gconf.NewInitializer().
		Register(system.PackageName, func() gconf.Configuration { return &system.Configuration{} }).
		Register(deal.PackageName, func() gconf.Configuration { return &deal.Configuration{} })
}

// GenesisTemplate returns a genesis with default configuration, a funded
// owner account and two mints of which the owner holds the whole supply.
func GenesisTemplate(owner dealchain.Address, mints ...dealchain.Address) Genesis {
	gen := Genesis{
		Conf: GenesisConf{
			System: system.DefaultConfiguration(),
			Deal:   deal.DefaultConfiguration(),
		},
		System: []system.GenesisAccount{
			{Address: owner, Balance: genesisBalance},
		},
	}
	for i, m := range mints {
		gen.Token = append(gen.Token, token.GenesisMint{
			Address:   m,
			Decimals:  uint8(6 - 3*(i%2)),
			Authority: owner,
			Holders: []token.GenesisHolder{
				{Owner: owner, Amount: 1000000000},
			},
		})
	}
	return gen
}

// GenInitOptions will produce the genesis for one rich account owning two
// mints, to use for dev mode.
//
// The first argument is the base58 address of the account. When missing a
// new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owner dealchain.Address
	if len(args) > 0 {
		addr, err := dealchain.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		owner = addr
	} else {
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(keys)
	}

	mintA := crypto.GenPrivKeyEd25519().PublicKey().Address()
	mintB := crypto.GenPrivKeyEd25519().PublicKey().Address()
	raw, err := json.MarshalIndent(GenesisTemplate(owner, mintA, mintB), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	return NewApp(home, logger, debug, prometheus.DefaultRegisterer)
}

// NewApp builds the application stored under home. Metrics are registered
// with reg, a nil reg disables them.
func NewApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	dbPath := filepath.Join(home, "dealchain.db")
	stack := Stack(reg)
	application, err := Application(Name, stack, dealchain.UnmarshalTx, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializer())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Address dealchain.Address `json:"address"`
	Seed    []byte            `json:"seed"`
}

// GenerateCoinKey returns the address of a new key, along with a json
// representation of the key seed. You can fund this address and import the
// seed in a client to use it.
func GenerateCoinKey() (dealchain.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	addr := privKey.PublicKey().Address()

	out := output{Address: addr, Seed: privKey.Seed()}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return dealchain.ZeroAddress, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return addr, string(keys), nil
}
