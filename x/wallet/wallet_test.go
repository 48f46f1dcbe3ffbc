package wallet

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/heirloomtest"
	"github.com/iov-one/heirloom/heirloomtest/assert"
	"github.com/iov-one/heirloom/store"
	"github.com/iov-one/heirloom/x"
)

func TestCreateWallet(t *testing.T) {
	alice := heirloomtest.NewCondition()
	bob := heirloomtest.NewCondition()

	cases := map[string]struct {
		signer  heirloom.Condition
		msg     *CreateWalletMsg
		wantErr *errors.Error
	}{
		"created by a controller": {
			signer: alice,
			msg: &CreateWalletMsg{
				Metadata:    &heirloom.Metadata{Schema: 1},
				Controllers: []heirloom.Address{alice.Address(), bob.Address()},
				Guard:       true,
			},
		},
		"created by a stranger": {
			signer: heirloomtest.NewCondition(),
			msg: &CreateWalletMsg{
				Metadata:    &heirloom.Metadata{Schema: 1},
				Controllers: []heirloom.Address{alice.Address()},
			},
			wantErr: errors.ErrUnauthorized,
		},
		"duplicated controller": {
			signer: alice,
			msg: &CreateWalletMsg{
				Metadata:    &heirloom.Metadata{Schema: 1},
				Controllers: []heirloom.Address{alice.Address(), alice.Address()},
			},
			wantErr: ErrDuplicateController,
		},
		"no controllers": {
			signer: alice,
			msg: &CreateWalletMsg{
				Metadata: &heirloom.Metadata{Schema: 1},
			},
			wantErr: ErrNoControllers,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			auth := &heirloomtest.Auth{Signer: tc.signer}
			h := CreateWalletHandler{auth: auth, bucket: NewBucket()}
			tx := &heirloomtest.Tx{Msg: tc.msg}

			_, err := h.Check(context.Background(), db.CacheWrap(), tx)
			if tc.wantErr != nil {
				assert.ContainsErr(t, err, tc.wantErr)
				return
			}
			assert.Nil(t, err)

			res, err := h.Deliver(context.Background(), db, tx)
			assert.Nil(t, err)
			assert.Equal(t, heirloomtest.SequenceID(1), res.Data)
			assert.Equal(t, "wallet_created", res.Events[0].Type)

			w, err := NewBucket().Load(db, res.Data)
			assert.Nil(t, err)
			assert.Equal(t, tc.msg.Controllers, w.Controllers)
			assert.Equal(t, tc.msg.Guard, w.Guard)
		})
	}
}

func TestSwapController(t *testing.T) {
	alice := heirloomtest.NewCondition().Address()
	bob := heirloomtest.NewCondition().Address()
	carol := heirloomtest.NewCondition().Address()

	db := store.MemStore()
	id := createWallet(t, db, &Wallet{
		Metadata:    &heirloom.Metadata{Schema: 1},
		Controllers: []heirloom.Address{alice, bob},
	})

	h := SwapControllerHandler{auth: Authenticate{}, bucket: NewBucket()}
	authorized := withWallet(context.Background(), id)

	swap := func(ctx heirloom.Context, old, new heirloom.Address) (*heirloom.DeliverResult, error) {
		tx := &heirloomtest.Tx{Msg: &SwapControllerMsg{
			Metadata: &heirloom.Metadata{Schema: 1},
			WalletID: id,
			Old:      old,
			New:      new,
		}}
		return h.Deliver(ctx, db, tx)
	}

	_, err := swap(context.Background(), alice, carol)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = swap(withWallet(context.Background(), heirloomtest.SequenceID(99)), alice, carol)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = swap(authorized, carol, alice)
	assert.IsErr(t, ErrUnknownController, err)

	_, err = swap(authorized, alice, bob)
	assert.IsErr(t, ErrDuplicateController, err)

	res, err := swap(authorized, alice, carol)
	assert.Nil(t, err)
	assert.Equal(t, "wallet_controller_swapped", res.Events[0].Type)
	assert.Equal(t, carol.String(), res.Events[0].Attr("new"))

	w, err := NewBucket().Load(db, id)
	assert.Nil(t, err)
	// order is kept, the first controller is replaced in place
	assert.Equal(t, []heirloom.Address{carol, bob}, w.Controllers)
}

func TestSetPluginAndGuard(t *testing.T) {
	alice := heirloomtest.NewCondition().Address()
	plugin := heirloomtest.NewCondition()

	db := store.MemStore()
	id := createWallet(t, db, &Wallet{
		Metadata:    &heirloom.Metadata{Schema: 1},
		Controllers: []heirloom.Address{alice},
	})
	ctx := withWallet(context.Background(), id)

	ph := SetPluginHandler{auth: Authenticate{}, bucket: NewBucket()}
	gh := SetGuardHandler{auth: Authenticate{}, bucket: NewBucket()}

	setPlugin := func(enabled bool) *heirloom.DeliverResult {
		t.Helper()
		res, err := ph.Deliver(ctx, db, &heirloomtest.Tx{Msg: &SetPluginMsg{
			Metadata: &heirloom.Metadata{Schema: 1},
			WalletID: id,
			Plugin:   plugin.Address(),
			Enabled:  enabled,
		}})
		assert.Nil(t, err)
		return res
	}

	res := setPlugin(true)
	assert.Equal(t, 1, len(res.Events))
	// enabling twice is a no-op
	res = setPlugin(true)
	assert.Equal(t, 0, len(res.Events))

	w, err := NewBucket().Load(db, id)
	assert.Nil(t, err)
	assert.Equal(t, true, w.HasPlugin(plugin.Address()))

	setPlugin(false)
	w, err = NewBucket().Load(db, id)
	assert.Nil(t, err)
	assert.Equal(t, false, w.HasPlugin(plugin.Address()))

	res, err = gh.Deliver(ctx, db, &heirloomtest.Tx{Msg: &SetGuardMsg{
		Metadata: &heirloom.Metadata{Schema: 1},
		WalletID: id,
		Enabled:  true,
	}})
	assert.Nil(t, err)
	assert.Equal(t, "wallet_guard_set", res.Events[0].Type)
	w, err = NewBucket().Load(db, id)
	assert.Nil(t, err)
	assert.Equal(t, true, w.Guard)

	_, err = gh.Deliver(context.Background(), db, &heirloomtest.Tx{Msg: &SetGuardMsg{
		Metadata: &heirloom.Metadata{Schema: 1},
		WalletID: id,
	}})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestDecorator(t *testing.T) {
	alice := heirloomtest.NewCondition()
	stranger := heirloomtest.NewCondition()

	db := store.MemStore()
	guarded := createWallet(t, db, &Wallet{
		Metadata:    &heirloom.Metadata{Schema: 1},
		Controllers: []heirloom.Address{alice.Address()},
		Guard:       true,
	})
	unguarded := createWallet(t, db, &Wallet{
		Metadata:    &heirloom.Metadata{Schema: 1},
		Controllers: []heirloom.Address{alice.Address()},
	})
	msg := &heirloomtest.Msg{RoutePath: "test/op"}

	cases := map[string]struct {
		signer    heirloom.Condition
		walletID  []byte
		guardErr  error
		wantErr   *errors.Error
		wantCalls []string
		wantAuth  bool
	}{
		"not a wallet transaction": {
			signer:   alice,
			walletID: nil,
		},
		"controller operation consults the guard": {
			signer:    alice,
			walletID:  guarded,
			wantCalls: []string{GuardCheckOperation, GuardCheckAfterExecution},
			wantAuth:  true,
		},
		"guard rejection stops the operation": {
			signer:    alice,
			walletID:  guarded,
			guardErr:  errors.ErrState,
			wantErr:   errors.ErrState,
			wantCalls: []string{GuardCheckOperation},
		},
		"guard disabled on wallet": {
			signer:   alice,
			walletID: unguarded,
			guardErr: errors.ErrState,
			wantAuth: true,
		},
		"stranger cannot operate": {
			signer:   stranger,
			walletID: guarded,
			wantErr:  errors.ErrUnauthorized,
		},
		"unknown wallet": {
			signer:   alice,
			walletID: heirloomtest.SequenceID(42),
			wantErr:  errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			guard := &recordingGuard{err: tc.guardErr}
			d := NewDecorator(&heirloomtest.Auth{Signer: tc.signer}, guard)
			h := &authCheckHandler{walletID: tc.walletID}
			tx := &walletTx{Tx: heirloomtest.Tx{Msg: msg}, walletID: tc.walletID}

			_, err := d.Deliver(context.Background(), db, tx, h)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, tc.wantAuth, h.authorized)
			}
			assert.Equal(t, tc.wantCalls, guard.calls)

			_, err = d.Check(context.Background(), db, tx, h)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestControllerExecuteAsPlugin(t *testing.T) {
	alice := heirloomtest.NewCondition().Address()
	bob := heirloomtest.NewCondition().Address()
	plugin := heirloom.NewCondition("test", "plugin", []byte("x"))

	db := store.MemStore()
	id := createWallet(t, db, &Wallet{
		Metadata:    &heirloom.Metadata{Schema: 1},
		Controllers: []heirloom.Address{alice},
		Guard:       true,
	})

	r := &routerMock{handlers: map[string]heirloom.Handler{}}
	RegisterRoutes(r, x.ChainAuth(Authenticate{}))
	ctrl := NewController(r.execute)

	ctrls, err := ctrl.Controllers(db, id)
	assert.Nil(t, err)
	assert.Equal(t, []heirloom.Address{alice}, ctrls)

	ok, err := ctrl.IsController(db, id, alice)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	ok, err = ctrl.IsController(db, id, bob)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	_, err = ctrl.IsController(db, heirloomtest.SequenceID(77), alice)
	assert.IsErr(t, errors.ErrNotFound, err)

	swap := &SwapControllerMsg{
		Metadata: &heirloom.Metadata{Schema: 1},
		WalletID: id,
		Old:      alice,
		New:      bob,
	}
	_, err = ctrl.ExecuteAsPlugin(context.Background(), db, id, plugin, swap)
	assert.IsErr(t, ErrPluginNotEnabled, err)

	// enable the plugin using wallet authority
	_, err = r.execute(withWallet(context.Background(), id), db, &SetPluginMsg{
		Metadata: &heirloom.Metadata{Schema: 1},
		WalletID: id,
		Plugin:   plugin.Address(),
		Enabled:  true,
	})
	assert.Nil(t, err)

	res, err := ctrl.ExecuteAsPlugin(context.Background(), db, id, plugin, swap)
	assert.Nil(t, err)
	assert.Equal(t, "wallet_controller_swapped", res.Events[0].Type)

	ctrls, err = ctrl.Controllers(db, id)
	assert.Nil(t, err)
	assert.Equal(t, []heirloom.Address{bob}, ctrls)
}

func TestGenesis(t *testing.T) {
	alice := heirloomtest.NewCondition().Address()
	genesis := `{"wallets": [{"controllers": ["` + alice.String() + `"], "guard": true}]}`

	var opts heirloom.Options
	if err := jsonUnmarshal(genesis, &opts); err != nil {
		t.Fatalf("cannot parse genesis: %s", err)
	}

	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))

	w, err := NewBucket().Load(db, heirloomtest.SequenceID(1))
	assert.Nil(t, err)
	assert.Equal(t, []heirloom.Address{alice}, w.Controllers)
	assert.Equal(t, true, w.Guard)
}

func createWallet(t testing.TB, db heirloom.KVStore, w *Wallet) []byte {
	t.Helper()
	id, err := NewBucket().Put(db, nil, w)
	if err != nil {
		t.Fatalf("cannot create wallet: %s", err)
	}
	return id
}

type walletTx struct {
	heirloomtest.Tx
	walletID []byte
}

func (tx *walletTx) GetWalletID() []byte {
	return tx.walletID
}

type recordingGuard struct {
	err   error
	calls []string
}

func (g *recordingGuard) Hook(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, call GuardCall) error {
	g.calls = append(g.calls, call.Kind)
	if call.Kind == GuardCheckOperation {
		return g.err
	}
	return nil
}

// authCheckHandler records whether wallet authority was granted.
type authCheckHandler struct {
	walletID   []byte
	authorized bool
}

func (h *authCheckHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	return &heirloom.CheckResult{}, nil
}

func (h *authCheckHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	h.authorized = len(h.walletID) != 0 && Authenticate{}.HasAddress(ctx, Condition(h.walletID).Address())
	return &heirloom.DeliverResult{}, nil
}

// routerMock is a minimal message router.
type routerMock struct {
	handlers map[string]heirloom.Handler
}

func (r *routerMock) Handle(m heirloom.Msg, h heirloom.Handler) {
	r.handlers[m.Path()] = h
}

func (r *routerMock) execute(ctx heirloom.Context, db heirloom.KVStore, msg heirloom.Msg) (*heirloom.DeliverResult, error) {
	h, ok := r.handlers[msg.Path()]
	if !ok {
		return nil, errors.Wrap(errors.ErrNotFound, msg.Path())
	}
	return h.Deliver(ctx, db, &heirloomtest.Tx{Msg: msg})
}

func jsonUnmarshal(s string, dest interface{}) error {
	return json.Unmarshal([]byte(s), dest)
}
