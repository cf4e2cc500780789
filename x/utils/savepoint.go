package utils

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// Savepoint isolates all data written inside of the call, and commits or
// rolls back to the savepoint depending on the returned error. Every write
// made by a handler, including writes done on behalf of other ledgers, is
// either applied in full or not at all.
type Savepoint struct {
	onCheck bool
}

var _ tst.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator that protects deliver calls.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that also protects check calls.
func (s Savepoint) OnCheck() Savepoint {
	return Savepoint{onCheck: true}
}

// Check will optionally set a savepoint.
func (s Savepoint) Check(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Checker) (*tst.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	var res *tst.CheckResult
	err := Atomically(db, func(cache tst.KVStore) error {
		var err error
		res, err = next.Check(ctx, cache, tx)
		return err
	})
	return res, err
}

// Deliver sets a savepoint.
func (s Savepoint) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Deliverer) (*tst.DeliverResult, error) {
	var res *tst.DeliverResult
	err := Atomically(db, func(cache tst.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, cache, tx)
		return err
	})
	return res, err
}

// Atomically runs fn on a cache wrap of given store. The cache is written
// only when fn succeeds. Stores that cannot be wrapped are used directly.
func Atomically(db tst.KVStore, fn func(tst.KVStore) error) error {
	cstore, ok := db.(tst.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
