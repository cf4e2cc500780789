package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/jonboulle/clockwork"
	"github.com/tendermint/tendermint/libs/log"
)

// Application is the host of the engine. It owns the committed store and
// serializes every call, so that each call is processed to completion before
// the next one starts. Block time is taken from the clock when a block
// begins and is the same for all calls of that block.
//
// Each call is executed against the block cache through the handler. The
// handler chain must contain a savepoint so that a failed call leaves no
// trace.
type Application struct {
	mu sync.Mutex

	store   tst.CommitKVStore
	handler tst.Handler
	init    tst.Initializer
	queries *QueryRouter
	clock   clockwork.Clock
	logger  log.Logger

	chainID string
	// height of the last committed block.
	height int64

	// Valid between BeginBlock and Commit.
	blockTime time.Time
	deliver   tst.KVCacheWrap
	inBlock   bool
}

// Config groups the Application collaborators.
type Config struct {
	Store       tst.CommitKVStore
	Handler     tst.Handler
	Initializer tst.Initializer
	Queries     *QueryRouter
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// Logger defaults to tst.DefaultLogger.
	Logger log.Logger
}

// NewApplication loads the latest committed state and returns an
// application ready to process blocks.
func NewApplication(c Config) (*Application, error) {
	if c.Store == nil || c.Handler == nil {
		return nil, errors.Wrap(errors.ErrHuman, "store and handler are required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = tst.DefaultLogger
	}
	if c.Queries == nil {
		c.Queries = NewQueryRouter()
	}
	if err := c.Store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	id, err := c.Store.LatestVersion()
	if err != nil {
		return nil, errors.Wrap(err, "latest version")
	}
	chainID, err := loadChainID(c.Store)
	if err != nil {
		return nil, err
	}
	return &Application{
		store:   c.Store,
		handler: c.Handler,
		init:    c.Initializer,
		queries: c.Queries,
		clock:   c.Clock,
		logger:  c.Logger.With("module", "app"),
		chainID: chainID,
		height:  id.Version,
	}, nil
}

// ChainID returns the chain id set by the genesis or an empty string before
// the chain was initialized.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// Height returns the height of the last committed block.
func (a *Application) Height() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

// InitChain loads the genesis state. The state is committed together with
// the first block.
func (a *Application) InitChain(gen Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", a.chainID)
	}
	if a.init == nil {
		return errors.Wrap(errors.ErrHuman, "no initializer")
	}
	cache := a.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := a.init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	a.deliver = cache
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// BeginBlock starts a new block. All calls until Commit observe the same
// height and block time.
func (a *Application) BeginBlock() (int64, time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID == "" {
		return 0, time.Time{}, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	if a.inBlock {
		return 0, time.Time{}, errors.Wrap(errors.ErrState, "block already started")
	}
	a.inBlock = true
	a.blockTime = a.clock.Now().UTC()
	if a.deliver == nil {
		a.deliver = a.store.CacheWrap()
	}
	return a.height + 1, a.blockTime, nil
}

// DeliverTx decodes and executes a single call.
func (a *Application) DeliverTx(raw []byte) (*tst.DeliverResult, error) {
	tx, err := DecodeTx(raw)
	if err != nil {
		return nil, err
	}
	return a.Deliver(tx)
}

// Deliver executes a single call that was already decoded.
func (a *Application) Deliver(tx tst.Tx) (*tst.DeliverResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.inBlock {
		return nil, errors.Wrap(errors.ErrState, "no block in progress")
	}
	ctx := tst.WithLogInfo(a.blockContext(), "call", "deliver_tx")
	res, err := a.handler.Deliver(ctx, a.deliver, tx)
	return res, errors.Redact(err)
}

// CheckTx validates a call against the committed state without applying
// it.
func (a *Application) CheckTx(raw []byte) (*tst.CheckResult, error) {
	tx, err := DecodeTx(raw)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	ctx := context.Background()
	ctx = tst.WithChainID(ctx, a.chainID)
	ctx = tst.WithHeight(ctx, a.height+1)
	ctx = tst.WithBlockTime(ctx, a.clock.Now().UTC())
	ctx = tst.WithLogger(ctx, a.logger.With("call", "check_tx"))

	cache := a.store.CacheWrap()
	defer cache.Discard()
	res, err := a.handler.Check(ctx, cache, tx)
	return res, errors.Redact(err)
}

// Commit persists all changes of the current block.
func (a *Application) Commit() (tst.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.inBlock {
		return tst.CommitID{}, errors.Wrap(errors.ErrState, "no block in progress")
	}
	if err := a.deliver.Write(); err != nil {
		return tst.CommitID{}, errors.Wrap(err, "write block")
	}
	id, err := a.store.Commit()
	if err != nil {
		return tst.CommitID{}, err
	}
	a.deliver = nil
	a.inBlock = false
	a.height = id.Version
	a.logger.Debug("block committed", "height", id.Version, "hash", id.Hash)
	return id, nil
}

// Query answers a read-only question against the committed state. Time
// dependent answers use the current clock time.
func (a *Application) Query(path string, data []byte) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx := context.Background()
	if a.chainID != "" {
		ctx = tst.WithChainID(ctx, a.chainID)
	}
	ctx = tst.WithHeight(ctx, a.height)
	ctx = tst.WithBlockTime(ctx, a.clock.Now().UTC())
	ctx = tst.WithLogger(ctx, a.logger.With("call", "query"))
	res, err := a.queries.Query(ctx, a.store, path, data)
	return res, errors.Redact(err)
}

// blockContext returns the context of the current block. Must be called
// with the lock held.
func (a *Application) blockContext() context.Context {
	ctx := context.Background()
	ctx = tst.WithChainID(ctx, a.chainID)
	ctx = tst.WithHeight(ctx, a.height+1)
	ctx = tst.WithBlockTime(ctx, a.blockTime)
	return tst.WithLogger(ctx, a.logger)
}
