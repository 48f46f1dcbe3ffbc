package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]heirloom.Handler
}

var _ heirloom.Registry = (*Router)(nil)
var _ heirloom.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]heirloom.Handler, 16),
	}
}

// Handle registers a handler for the path of the given message.
// It panics if the path is not valid or already taken.
func (r *Router) Handle(m heirloom.Msg, h heirloom.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered handler for the given message path, or a
// handler that always returns ErrNotFound.
func (r *Router) handler(m heirloom.Msg) heirloom.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx heirloom.Context, store heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx heirloom.Context, store heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(heirloom.Context, heirloom.KVStore, heirloom.Tx) (*heirloom.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(heirloom.Context, heirloom.KVStore, heirloom.Tx) (*heirloom.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

// HandlerAsExecutor wraps the handler so messages can be executed without a
// signed transaction around them. The message is validated and checked
// before it is delivered.
func HandlerAsExecutor(h heirloom.Handler) heirloom.Executor {
	return func(ctx heirloom.Context, store heirloom.KVStore, msg heirloom.Msg) (*heirloom.DeliverResult, error) {
		tx := &msgTx{msg: msg}
		if _, err := h.Check(ctx, store, tx); err != nil {
			return nil, err
		}
		return h.Deliver(ctx, store, tx)
	}
}

// msgTx is the minimal transaction carrying a single message.
type msgTx struct {
	msg heirloom.Msg
}

func (tx *msgTx) GetMsg() (heirloom.Msg, error) {
	return tx.msg, nil
}
