package deadman

import (
	"context"
	"testing"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/heirloomtest"
	"github.com/iov-one/heirloom/store"
	"github.com/iov-one/heirloom/x"
	"github.com/iov-one/heirloom/x/wallet"
)

const (
	hour = heirloom.UnixDuration(60 * 60)

	// t0 is an arbitrary moment all tests start at.
	t0 = heirloom.UnixTime(1546300800)
)

// testEnv wires the wallet and deadman extensions together the way an
// application does.
type testEnv struct {
	t        testing.TB
	db       *store.BTreeStore
	auth     *heirloomtest.CtxAuth
	handlers map[string]heirloom.Handler
	wallets  *wallet.BaseController
}

func newTestEnv(t testing.TB) *testEnv {
	env := &testEnv{
		t:        t,
		db:       store.MemStore(),
		auth:     &heirloomtest.CtxAuth{Key: "auth"},
		handlers: make(map[string]heirloom.Handler),
	}
	auth := x.ChainAuth(env.auth, wallet.Authenticate{})
	env.wallets = wallet.NewController(env.execute)
	wallet.RegisterRoutes(env, auth)
	RegisterRoutes(env, auth, env.wallets)
	return env
}

func (e *testEnv) Handle(m heirloom.Msg, h heirloom.Handler) {
	e.handlers[m.Path()] = h
}

func (e *testEnv) execute(ctx heirloom.Context, db heirloom.KVStore, msg heirloom.Msg) (*heirloom.DeliverResult, error) {
	h, ok := e.handlers[msg.Path()]
	if !ok {
		return nil, errors.Wrap(errors.ErrNotFound, msg.Path())
	}
	return h.Deliver(ctx, db, &heirloomtest.Tx{Msg: msg})
}

// deliver processes given message at given time, signed by given
// conditions. The message is checked first and a message rejected by the
// check must be rejected by the deliver as well.
func (e *testEnv) deliver(now heirloom.UnixTime, msg heirloom.Msg, signers ...heirloom.Condition) (*heirloom.DeliverResult, error) {
	e.t.Helper()

	h, ok := e.handlers[msg.Path()]
	if !ok {
		e.t.Fatalf("no handler for %q", msg.Path())
	}
	ctx := heirloom.WithBlockTime(context.Background(), now.Time())
	ctx = e.auth.SetConditions(ctx, signers...)
	tx := &heirloomtest.Tx{Msg: msg}

	cache := e.db.CacheWrap()
	_, checkErr := h.Check(ctx, cache, tx)
	cache.Discard()

	res, err := h.Deliver(ctx, e.db, tx)
	if checkErr != nil && err == nil {
		e.t.Fatalf("check failed but deliver succeeded: %v", checkErr)
	}
	return res, err
}

// mustDeliver is deliver that fails the test on error.
func (e *testEnv) mustDeliver(now heirloom.UnixTime, msg heirloom.Msg, signers ...heirloom.Condition) *heirloom.DeliverResult {
	e.t.Helper()
	res, err := e.deliver(now, msg, signers...)
	if err != nil {
		e.t.Fatalf("cannot deliver %T: %+v", msg, err)
	}
	return res
}

// createWallet creates a wallet controlled by given conditions with the
// deadman plug-in enabled.
func (e *testEnv) createWallet(controllers ...heirloom.Condition) []byte {
	e.t.Helper()
	addrs := make([]heirloom.Address, len(controllers))
	for i, c := range controllers {
		addrs[i] = c.Address()
	}
	res := e.mustDeliver(t0, &wallet.CreateWalletMsg{
		Metadata:    meta(),
		Controllers: addrs,
		Guard:       true,
	}, controllers[0])
	walletID := res.Data
	e.mustDeliver(t0, &wallet.SetPluginMsg{
		Metadata: meta(),
		WalletID: walletID,
		Plugin:   PluginCondition(walletID).Address(),
		Enabled:  true,
	}, wallet.Condition(walletID))
	return walletID
}

// initialize attaches a switch with given parameters at t0.
func (e *testEnv) initialize(walletID []byte, beneficiary heirloom.Address, interval, period heirloom.UnixDuration) {
	e.t.Helper()
	e.mustDeliver(t0, &InitializeMsg{
		Metadata:          meta(),
		WalletID:          walletID,
		Beneficiary:       beneficiary,
		HeartbeatInterval: interval,
		ChallengePeriod:   period,
	}, wallet.Condition(walletID))
}

func (e *testEnv) load(walletID []byte) *Switch {
	e.t.Helper()
	s, err := NewBucket().Load(e.db, walletID)
	if err != nil {
		e.t.Fatalf("cannot load switch: %s", err)
	}
	return s
}

func meta() *heirloom.Metadata {
	return &heirloom.Metadata{Schema: 1}
}
