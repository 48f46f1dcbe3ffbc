/*
Package app links together all the various components
to construct the heirloomd application.
*/
package app

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/app"
	"github.com/iov-one/heirloom/store"
	"github.com/iov-one/heirloom/x"
	"github.com/iov-one/heirloom/x/deadman"
	"github.com/iov-one/heirloom/x/freeze"
	"github.com/iov-one/heirloom/x/sigs"
	"github.com/iov-one/heirloom/x/utils"
	"github.com/iov-one/heirloom/x/wallet"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by abci.Info
const Name = "heirloom"

// Authenticator returns the authentication used by all handlers: public key
// signatures and wallet authority.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, wallet.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// wallet guards, logging, and recovery
func Chain(authFn x.Authenticator, guard wallet.Guard) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce even if the
		// message fails. Guard hooks run inside the savepoint, so a
		// rejection after execution discards the operation.
		utils.NewSavepoint().OnDeliver(),
		wallet.NewDecorator(authFn, guard),
	)
}

// Modules holds the components shared between the router, the query
// router and the genesis initializer.
type Modules struct {
	Router  *app.Router
	Codec   *app.Codec
	Wallets *wallet.BaseController
	Deadman *deadman.Controller
	Freeze  *freeze.Guard
}

// NewModules registers all message handlers. Every message registered with
// the router can be decoded by the codec.
func NewModules(authFn x.Authenticator) *Modules {
	r := app.NewRouter()
	m := &Modules{
		Router:  r,
		Codec:   app.NewCodec(),
		Wallets: wallet.NewController(app.HandlerAsExecutor(r)),
		Freeze:  freeze.NewGuard(),
	}
	m.Deadman = deadman.NewController(m.Wallets)

	reg := codecRegistry{router: r, codec: m.Codec}
	wallet.RegisterRoutes(reg, authFn)
	deadman.RegisterRoutes(reg, authFn, m.Wallets)
	freeze.RegisterRoutes(reg, authFn, m.Freeze)
	return m
}

// QueryRouter returns a query router giving access to "/wallets",
// "/deadman/status" and "/freeze/status".
func (m *Modules) QueryRouter() heirloom.QueryRouter {
	qr := heirloom.NewQueryRouter()
	wallet.RegisterQuery(qr)
	deadman.RegisterQuery(qr, m.Deadman)
	freeze.RegisterQuery(qr, m.Freeze)
	return qr
}

// Initializer loads wallets first, so that switches and freezes declared in
// the genesis can reference them.
func Initializer() heirloom.Initializer {
	return heirloom.ChainInitializers(
		&wallet.Initializer{},
		&deadman.Initializer{},
		&freeze.Initializer{},
	)
}

// Stack wires up the router with the standard decorator chain.
func (m *Modules) Stack(authFn x.Authenticator) heirloom.Handler {
	return Chain(authFn, m.Freeze).WithHandler(m.Router)
}

// Application constructs an ABCI application with in-memory state.
func Application(logger log.Logger, debug bool) (*app.BaseApp, *app.Codec) {
	authFn := Authenticator()
	m := NewModules(authFn)
	return m.application(logger, debug, m.Stack(authFn)), m.Codec
}

func (m *Modules) application(logger log.Logger, debug bool, stack heirloom.Handler) *app.BaseApp {
	base := app.NewBaseApp(
		Name,
		store.MemStore(),
		m.Codec.TxDecoder(),
		stack,
		Initializer(),
		m.QueryRouter(),
		debug,
	)
	base.WithLogger(logger)
	return base
}

// codecRegistry registers every handled message type with the codec.
type codecRegistry struct {
	router *app.Router
	codec  *app.Codec
}

var _ heirloom.Registry = codecRegistry{}

func (r codecRegistry) Handle(m heirloom.Msg, h heirloom.Handler) {
	r.codec.Register(m)
	r.router.Handle(m, h)
}
