/*
Package app links together all the extensions to construct the tst
application: native value wallets, the token ledgers, the delegate record
and the instrument itself.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/app"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/store/iavl"
	"github.com/iov-one/tst/x"
	"github.com/iov-one/tst/x/cash"
	"github.com/iov-one/tst/x/instrument"
	"github.com/iov-one/tst/x/token"
	"github.com/iov-one/tst/x/utils"
	"github.com/iov-one/tst/x/validators"
	"github.com/jonboulle/clockwork"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator trusts the caller declared by the transaction.
func Authenticator() x.Authenticator {
	return app.CallerAuth{}
}

// Chain returns a chain of decorators to handle logging, recovery, metrics,
// the caller identity and atomicity. Metrics are optional.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		app.NewCallerDecorator(),
		// A failed call leaves no trace, including the writes it made
		// through other ledgers.
		utils.NewSavepoint(),
	)
}

// Keeper returns the instrument keeper wired to the default controllers.
func Keeper() instrument.Keeper {
	return instrument.NewKeeper(cash.NewController(), token.NewController(), validators.NewController())
}

// Router returns a router dispatching to every extension.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, cash.NewController())
	token.RegisterRoutes(r, auth, token.NewController())
	instrument.RegisterRoutes(r, auth, Keeper())
	return r
}

// QueryRouter returns a query router answering the questions of every
// extension.
func QueryRouter() *app.QueryRouter {
	r := app.NewQueryRouter()
	cash.RegisterQuery(r, cash.NewController())
	token.RegisterQuery(r, token.NewController())
	validators.RegisterQuery(r, validators.NewController())
	instrument.RegisterQuery(r, Keeper())
	return r
}

// Initializers returns the genesis initializers of all extensions. Ledgers
// must exist before the instrument is configured.
func Initializers() tst.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
		validators.Initializer{},
		instrument.Initializer{},
	)
}

// Stack wires up the router with the decorator chain.
func Stack(metrics *utils.Metrics) tst.Handler {
	auth := Authenticator()
	return Chain(metrics).WithHandler(Router(auth))
}

// Options configure an Application.
type Options struct {
	// DBPath is the path of the database. An empty path keeps everything
	// in memory.
	DBPath  string
	Logger  log.Logger
	Clock   clockwork.Clock
	Metrics *utils.Metrics
}

// Application constructs the tst application.
func Application(opts Options) (*app.Application, error) {
	kv, err := CommitKVStore(opts.DBPath)
	if err != nil {
		return nil, err
	}
	return app.NewApplication(app.Config{
		Store:       kv,
		Handler:     Stack(opts.Metrics),
		Initializer: Initializers(),
		Queries:     QueryRouter(),
		Clock:       opts.Clock,
		Logger:      opts.Logger,
	})
}

// CommitKVStore returns an initialized KVStore that persists the data to
// the named path.
func CommitKVStore(dbPath string) (tst.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name %q: %s", dbPath, err)
	}
	// Some callers add a ".db" suffix that the backend adds again.
	path = strings.TrimSuffix(path, filepath.Ext(path))
	kv, err := iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return kv, nil
}
