package utils

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// Recovery is a decorator to recover from panics in transactions, so we can
// log them as errors.
type Recovery struct{}

var _ tst.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors.
func (Recovery) Check(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Checker) (_ *tst.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors.
func (Recovery) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Deliverer) (_ *tst.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
