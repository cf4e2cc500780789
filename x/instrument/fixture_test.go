package instrument

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/gconf"
	"github.com/iov-one/tst/store"
	"github.com/iov-one/tst/weavetest"
	"github.com/iov-one/tst/x/cash"
	"github.com/iov-one/tst/x/token"
	"github.com/iov-one/tst/x/validators"
	"github.com/stretchr/testify/require"
)

const (
	day   = 60 * 60 * 24
	whole = DefaultUnit
)

// tenDays is a ten period schedule, one period per day, ending at par.
var tenDays = []string{
	"0.952380", "0.957557", "0.962763", "0.967996", "0.973258",
	"0.978548", "0.983868", "0.989216", "0.994593", "1", "1",
}

type fixture struct {
	db         tst.KVStore
	keeper     Keeper
	cash       cash.BaseController
	tokens     token.BaseController
	validators validators.BaseController
	deployer   tst.Address
}

func testConfig(deployer tst.Address) Configuration {
	conf := NewConfiguration()
	conf.Start = 0
	conf.Duration = 10 * day
	conf.Interval = day
	conf.Periods = 10
	conf.Schedule = tenDays
	conf.Deployer = deployer
	return conf
}

// newFixture deploys an instrument with both ledgers created. The
// instrument is bootstrapped unless told otherwise.
func newFixture(t testing.TB, bootstrap bool, configure ...func(*Configuration)) *fixture {
	t.Helper()
	f := &fixture{
		db:         store.MemStore(),
		cash:       cash.NewController(),
		tokens:     token.NewController(),
		validators: validators.NewController(),
		deployer:   weavetest.NewCondition().Address(),
	}
	f.keeper = NewKeeper(f.cash, f.tokens, f.validators)

	conf := testConfig(f.deployer)
	for _, fn := range configure {
		fn(&conf)
	}
	require.NoError(t, gconf.Save(f.db, confPkg, &conf))
	require.NoError(t, saveState(f.db, &State{Proposal: &NoProposal{}}))

	for _, name := range []string{"balance", "share"} {
		require.NoError(t, f.tokens.Create(f.db, name, f.deployer))
		require.NoError(t, f.tokens.Bootstrap(f.db, name, f.deployer, Address))
	}
	if bootstrap {
		require.NoError(t, f.keeper.Bootstrap(f.db, f.deployer, "balance", "share"))
	}
	return f
}

// account returns a new address holding given amount of value.
func (f *fixture) account(t testing.TB, funds uint64) tst.Address {
	t.Helper()
	addr := weavetest.NewCondition().Address()
	if funds > 0 {
		require.NoError(t, f.cash.IssueCoins(f.db, addr, funds))
	}
	return addr
}

// guarantor returns a new account that deposited given collateral.
func (f *fixture) guarantor(t testing.TB, collateral uint64) tst.Address {
	t.Helper()
	addr := f.account(t, collateral)
	_, err := f.keeper.DepositCollateral(f.db, addr, collateral)
	require.NoError(t, err)
	return addr
}

func (f *fixture) cashOf(t testing.TB, addr tst.Address) uint64 {
	t.Helper()
	b, err := f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	return b
}

func (f *fixture) claimOf(t testing.TB, addr tst.Address) uint64 {
	t.Helper()
	n, err := tokenLedger{ctrl: f.tokens, name: "balance"}.Balance(f.db, addr)
	require.NoError(t, err)
	return n
}

func (f *fixture) sharesOf(t testing.TB, addr tst.Address) uint64 {
	t.Helper()
	n, err := tokenLedger{ctrl: f.tokens, name: "share"}.Balance(f.db, addr)
	require.NoError(t, err)
	return n
}

func (f *fixture) state(t testing.TB) *State {
	t.Helper()
	s, err := f.keeper.State(f.db)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	return s
}

// at returns a context of a block at given unix time and height.
func at(unix int64, height int64) context.Context {
	return inBlock(context.Background(), unix, height)
}

func inBlock(ctx context.Context, unix int64, height int64) context.Context {
	ctx = tst.WithBlockTime(ctx, time.Unix(unix, 0))
	return tst.WithHeight(ctx, height)
}
