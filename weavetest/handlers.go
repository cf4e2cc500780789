package weavetest

import (
	"context"

	"github.com/iov-one/tst"
)

// Handler is a mock implementing tst.Handler interface that counts the
// calls and returns preconfigured results.
type Handler struct {
	checkCall   int
	CheckResult tst.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult tst.DeliverResult
	DeliverErr    error

	// WriteKey, if set, is written with WriteValue to the store on every
	// call, before returning the configured error.
	WriteKey   []byte
	WriteValue []byte
}

var _ tst.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db tst.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorator is a mock implementing tst.Decorator interface that counts the
// calls and passes them to the next handler unless an error is configured.
type Decorator struct {
	checkCall int
	CheckErr  error

	deliverCall int
	DeliverErr  error
}

var _ tst.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Checker) (*tst.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Deliverer) (*tst.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that is wrapped by given decorator.
func Decorate(h tst.Handler, d tst.Decorator) tst.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn tst.Handler
	dc tst.Decorator
}

func (d *decoratedHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
