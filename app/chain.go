package app

import (
	"context"
	"reflect"

	"github.com/iov-one/tst"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler.
type Decorators struct {
	chain []tst.Decorator
}

/*
ChainDecorators takes a chain of decorators, and upon adding a final Handler
(often a Router), returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  app.NewCallerDecorator(),
	  utils.NewSavepoint(),
	).WithHandler(
	  router,
	)
*/
func ChainDecorators(chain ...tst.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain. Nil
// decorators are skipped.
func (d Decorators) Chain(chain ...tst.Decorator) Decorators {
	next := append([]tst.Decorator{}, d.chain...)
	for _, dc := range chain {
		if isNil(dc) {
			continue
		}
		next = append(next, dc)
	}
	return Decorators{chain: next}
}

func isNil(d tst.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a concrete Handler that will
// pass through the chain of decorators before calling the final Handler.
func (d Decorators) WithHandler(h tst.Handler) tst.Handler {
	// The top of the chain is executed first, so wrap from the last one.
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a specific Handler.
type step struct {
	d    tst.Decorator
	next tst.Handler
}

var _ tst.Handler = step{}

// Check passes the handler into the decorator, implements Handler.
func (s step) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler.
func (s step) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
