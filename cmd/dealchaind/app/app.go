/*
Package app links together all the various components
to construct the dealchaind app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/app"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/orm"
	"github.com/iov-one/dealchain/store/iavl"
	"github.com/iov-one/dealchain/x"
	"github.com/iov-one/dealchain/x/deal"
	"github.com/iov-one/dealchain/x/sigs"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
	"github.com/iov-one/dealchain/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Name is returned by the ABCI Info call.
const Name = "dealchaind"

// Authenticator returns the authentication used by all programs. Besides
// transaction signatures it accepts the grants of the token and the deal
// programs for the addresses they derive.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, token.Authenticate{}, deal.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(reg prometheus.Registerer) app.Decorators {
	var metrics dealchain.Decorator
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewKeyTagger(),
		utils.NewProgramTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if an instruction fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router with the system, token, associated token and deal
// programs registered. All programs share the same controllers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	sys := system.NewController(authFn)
	tokens := token.NewController(authFn, sys)
	system.RegisterRoutes(r, authFn)
	token.RegisterRoutes(r, authFn, sys)
	deal.RegisterRoutes(r, authFn, sys, tokens)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/accounts", "/auth", "/deals" and "/"
func QueryRouter() dealchain.QueryRouter {
	r := dealchain.NewQueryRouter()
	r.RegisterAll(
		system.RegisterQuery,
		sigs.RegisterQuery,
		deal.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) dealchain.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn))
}

// Initializer loads the genesis. Package configurations go first as the
// token mints need the rent parameters.
func Initializer() dealchain.Initializer {
	conf := gconfInitializer()
	return app.ChainInitializers(
		conf,
		system.Initializer{},
		token.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h dealchain.Handler,
	tx dealchain.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (dealchain.CommitKVStore, error) {
	if dbPath == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "database path")
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
