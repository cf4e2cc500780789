package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// isPath is the RegExp to ensure the routes make sense.
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
type Router struct {
	routes map[string]tst.Handler
}

var _ tst.Registry = (*Router)(nil)
var _ tst.Handler = (*Router)(nil)

// NewRouter returns a new empty handler.
func NewRouter() *Router {
	return &Router{routes: make(map[string]tst.Handler, 16)}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *Router) Handle(path string, h tst.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is found,
// returns a notFound Handler that always errors.
func (r *Router) handler(m tst.Msg) tst.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path.
func (r *Router) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on path.
func (r *Router) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, db, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(context.Context, tst.KVStore, tst.Tx) (*tst.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(context.Context, tst.KVStore, tst.Tx) (*tst.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
