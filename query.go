package heirloom

import (
	"fmt"
	"regexp"
)

// Model is a single key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a model of given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers ABCI queries from the committed state. The context
// carries the height and the time of the last block, so that time dependent
// state such as a heartbeat expiry or a freeze can be reported.
type QueryHandler interface {
	Query(ctx Context, db ReadOnlyKVStore, data []byte) ([]Model, error)
}

// QueryHandlerFunc adapts a function to the QueryHandler interface.
type QueryHandlerFunc func(ctx Context, db ReadOnlyKVStore, data []byte) ([]Model, error)

func (fn QueryHandlerFunc) Query(ctx Context, db ReadOnlyKVStore, data []byte) ([]Model, error) {
	return fn(ctx, db, data)
}

var isQueryPath = regexp.MustCompile(`^(/[a-zA-Z0-9_]+)+$`).MatchString

// QueryRouter dispatches a query to the handler registered for its exact
// path, for example "/deadman/status".
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without any route.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// Register adds a handler for path. It panics if the path is malformed or
// already taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !isQueryPath(path) {
		panic(fmt.Sprintf("invalid query path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
