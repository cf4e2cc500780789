package utils

import (
	"context"
	"time"

	"github.com/iov-one/tst"
)

// Logging is a decorator to log messages as they pass through.
type Logging struct{}

var _ tst.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug.
func (Logging) Check(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Checker) (*tst.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info.
func (Logging) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Deliverer) (*tst.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx context.Context, tx tst.Tx, start time.Time, msg string, err error, lowPrio bool) {
	logger := tst.GetLogger(ctx).With(
		"path", tst.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)

	// An empty message is still logged, the key/value pairs carry the
	// relevant information.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
