package app

import (
	"context"
	"fmt"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// QueryRouter dispatches read-only queries by path.
type QueryRouter struct {
	routes map[string]tst.QueryHandler
}

var _ tst.QueryRegistry = (*QueryRouter)(nil)

// NewQueryRouter returns an empty query router.
func NewQueryRouter() *QueryRouter {
	return &QueryRouter{routes: make(map[string]tst.QueryHandler)}
}

// RegisterQuery adds a handler for given path. It panics if the path is
// invalid or already registered.
func (r *QueryRouter) RegisterQuery(path string, h tst.QueryHandler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid query path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering query: %s", path))
	}
	r.routes[path] = h
}

// Query runs the handler registered for given path.
func (r *QueryRouter) Query(ctx context.Context, db tst.ReadOnlyKVStore, path string, data []byte) ([]byte, error) {
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}
	return h.Query(ctx, db, data)
}
