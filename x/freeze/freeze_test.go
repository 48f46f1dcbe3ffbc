package freeze

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/heirloomtest"
	"github.com/iov-one/heirloom/store"
	"github.com/iov-one/heirloom/x"
	"github.com/iov-one/heirloom/x/wallet"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	day  = heirloom.UnixDuration(24 * 60 * 60)
	year = 365 * day

	t0 = heirloom.UnixTime(1546300800)
)

func at(now heirloom.UnixTime) heirloom.Context {
	return heirloom.WithBlockTime(context.Background(), now.Time())
}

func freeze(db heirloom.KVStore, h heirloom.Handler, now heirloom.UnixTime, signer heirloom.Condition, walletID []byte, until heirloom.UnixTime) (*heirloom.DeliverResult, error) {
	auth := &heirloomtest.CtxAuth{Key: "auth"}
	ctx := auth.SetConditions(at(now), signer)
	tx := &heirloomtest.Tx{Msg: &FreezeMsg{
		Metadata: &heirloom.Metadata{Schema: 1},
		WalletID: walletID,
		Until:    until,
	}}
	if _, err := h.Check(ctx, db, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

func TestFreezeLifecycle(t *testing.T) {
	Convey("Given a wallet that was never frozen", t, func() {
		db := store.MemStore()
		guard := NewGuard()
		h := FreezeHandler{auth: &heirloomtest.CtxAuth{Key: "auth"}, guard: guard}
		walletID := heirloomtest.SequenceID(1)
		self := wallet.Condition(walletID)

		Convey("it is not frozen and has no unfreeze time", func() {
			frozen, err := guard.IsFrozen(at(t0), db, walletID)
			So(err, ShouldBeNil)
			So(frozen, ShouldBeFalse)

			rem, err := guard.RemainingFreezeTime(at(t0), db, walletID)
			So(err, ShouldBeNil)
			So(rem, ShouldEqual, heirloom.UnixDuration(0))

			_, ok, err := guard.UnfreezeTime(db, walletID)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("a zero freeze time is rejected", func() {
			_, err := freeze(db, h, t0, self, walletID, 0)
			So(ErrInvalidFreezeTime.Is(err), ShouldBeTrue)
		})

		Convey("a freeze time that is not in the future is rejected", func() {
			_, err := freeze(db, h, t0, self, walletID, t0)
			So(ErrFreezeTimeInPast.Is(err), ShouldBeTrue)
			_, err = freeze(db, h, t0, self, walletID, t0-1)
			So(ErrFreezeTimeInPast.Is(err), ShouldBeTrue)
		})

		Convey("only the wallet itself can freeze", func() {
			_, err := freeze(db, h, t0, heirloomtest.NewCondition(), walletID, t0+1)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			_, err = freeze(db, h, t0, wallet.Condition(heirloomtest.SequenceID(2)), walletID, t0+1)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
		})

		Convey("When it freezes itself for ten days", func() {
			until := t0.AddDuration(10 * day)
			res, err := freeze(db, h, t0, self, walletID, until)
			So(err, ShouldBeNil)
			So(res.Events[0].Type, ShouldEqual, "wallet_frozen")

			Convey("it is frozen until then", func() {
				for _, now := range []heirloom.UnixTime{t0, t0.AddDuration(day), until - 1} {
					frozen, err := guard.IsFrozen(at(now), db, walletID)
					So(err, ShouldBeNil)
					So(frozen, ShouldBeTrue)

					rem, err := guard.RemainingFreezeTime(at(now), db, walletID)
					So(err, ShouldBeNil)
					So(rem, ShouldEqual, until.Sub(now))
				}
				got, ok, err := guard.UnfreezeTime(db, walletID)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, until)
			})

			Convey("it unfreezes when the time comes", func() {
				frozen, err := guard.IsFrozen(at(until), db, walletID)
				So(err, ShouldBeNil)
				So(frozen, ShouldBeFalse)

				rem, err := guard.RemainingFreezeTime(at(until+100), db, walletID)
				So(err, ShouldBeNil)
				So(rem, ShouldEqual, heirloom.UnixDuration(0))

				// The elapsed entry is kept.
				got, ok, err := guard.UnfreezeTime(db, walletID)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, until)
			})

			Convey("the freeze can be shortened", func() {
				res, err := freeze(db, h, t0+1, self, walletID, t0.AddDuration(day))
				So(err, ShouldBeNil)
				So(res.Events[0].Type, ShouldEqual, "freeze_period_updated")
				So(res.Events[0].Attr("old"), ShouldEqual, "1547164800")

				frozen, err := guard.IsFrozen(at(t0.AddDuration(day)), db, walletID)
				So(err, ShouldBeNil)
				So(frozen, ShouldBeFalse)
			})

			Convey("the freeze can be extended", func() {
				res, err := freeze(db, h, t0+1, self, walletID, t0.AddDuration(20*day))
				So(err, ShouldBeNil)
				So(res.Events[0].Type, ShouldEqual, "freeze_period_updated")
			})

			Convey("freezing again after it elapsed is a new freeze", func() {
				res, err := freeze(db, h, until+1, self, walletID, until.AddDuration(day))
				So(err, ShouldBeNil)
				So(res.Events[0].Type, ShouldEqual, "wallet_frozen")
			})

			Convey("other wallets are not affected", func() {
				frozen, err := guard.IsFrozen(at(t0), db, heirloomtest.SequenceID(2))
				So(err, ShouldBeNil)
				So(frozen, ShouldBeFalse)
			})
		})
	})
}

func TestGuardHook(t *testing.T) {
	Convey("Given a frozen wallet", t, func() {
		db := store.MemStore()
		guard := NewGuard()
		walletID := heirloomtest.SequenceID(1)
		until := t0.AddDuration(day)
		_, err := guard.bucket.Put(db, walletID, &Entry{
			Metadata:    &heirloom.Metadata{Schema: 1},
			WalletID:    walletID,
			FrozenUntil: until,
		})
		So(err, ShouldBeNil)

		call := func(kind string) wallet.GuardCall {
			return wallet.GuardCall{Kind: kind, WalletID: walletID}
		}

		Convey("operations are rejected", func() {
			err := guard.Hook(at(t0), db, call(wallet.GuardCheckOperation))
			So(ErrWalletIsFrozen.Is(err), ShouldBeTrue)
		})

		Convey("operations are allowed after the freeze", func() {
			err := guard.Hook(at(until), db, call(wallet.GuardCheckOperation))
			So(err, ShouldBeNil)
		})

		Convey("after execution check never fails", func() {
			err := guard.Hook(at(t0), db, call(wallet.GuardCheckAfterExecution))
			So(err, ShouldBeNil)
		})

		Convey("unknown calls succeed", func() {
			err := guard.Hook(at(t0), db, call("check_something_new"))
			So(err, ShouldBeNil)
		})
	})
}

// TestFreezeBypass checks that a freeze blocks operations initiated by the
// controllers while operations executed by a plug-in go through.
func TestFreezeBypass(t *testing.T) {
	Convey("Given a guarded wallet frozen for five years", t, func() {
		db := store.MemStore()
		alice := heirloomtest.NewCondition()
		bob := heirloomtest.NewCondition()
		plugin := heirloom.NewCondition("test", "plugin", []byte{1})
		guard := NewGuard()

		walletID, err := wallet.NewBucket().Put(db, nil, &wallet.Wallet{
			Metadata:    &heirloom.Metadata{Schema: 1},
			Controllers: []heirloom.Address{alice.Address()},
			Plugins:     []heirloom.Address{plugin.Address()},
			Guard:       true,
		})
		So(err, ShouldBeNil)

		until := t0.AddDuration(5 * year)
		_, err = freeze(db, FreezeHandler{auth: &heirloomtest.CtxAuth{Key: "auth"}, guard: guard},
			t0, wallet.Condition(walletID), walletID, until)
		So(err, ShouldBeNil)

		r := &router{handlers: map[string]heirloom.Handler{}}
		wallet.RegisterRoutes(r, x.ChainAuth(wallet.Authenticate{}))
		swap := &wallet.SwapControllerMsg{
			Metadata: &heirloom.Metadata{Schema: 1},
			WalletID: walletID,
			Old:      alice.Address(),
			New:      bob.Address(),
		}

		Convey("a controller initiated swap fails two years later", func() {
			d := wallet.NewDecorator(&heirloomtest.Auth{Signer: alice}, guard)
			tx := &walletTx{Tx: heirloomtest.Tx{Msg: swap}, walletID: walletID}
			_, err := d.Deliver(at(t0.AddDuration(2*year)), db, tx, r.handlers[swap.Path()])
			So(ErrWalletIsFrozen.Is(err), ShouldBeTrue)
		})

		Convey("a plug-in initiated swap succeeds two years later", func() {
			ctrl := wallet.NewController(r.execute)
			_, err := ctrl.ExecuteAsPlugin(at(t0.AddDuration(2*year)), db, walletID, plugin, swap)
			So(err, ShouldBeNil)

			controllers, err := ctrl.Controllers(db, walletID)
			So(err, ShouldBeNil)
			So(controllers, ShouldResemble, []heirloom.Address{bob.Address()})
		})

		Convey("the wallet is unfrozen right after five years", func() {
			now := at(until + 1)
			frozen, err := guard.IsFrozen(now, db, walletID)
			So(err, ShouldBeNil)
			So(frozen, ShouldBeFalse)

			rem, err := guard.RemainingFreezeTime(now, db, walletID)
			So(err, ShouldBeNil)
			So(rem, ShouldEqual, heirloom.UnixDuration(0))

			d := wallet.NewDecorator(&heirloomtest.Auth{Signer: alice}, guard)
			tx := &walletTx{Tx: heirloomtest.Tx{Msg: swap}, walletID: walletID}
			_, err = d.Deliver(now, db, tx, r.handlers[swap.Path()])
			So(err, ShouldBeNil)
		})
	})
}

func TestStatusQuery(t *testing.T) {
	Convey("Given a frozen wallet", t, func() {
		db := store.MemStore()
		guard := NewGuard()
		walletID := heirloomtest.SequenceID(3)
		until := t0.AddDuration(day)
		_, err := guard.bucket.Put(db, walletID, &Entry{
			Metadata:    &heirloom.Metadata{Schema: 1},
			WalletID:    walletID,
			FrozenUntil: until,
		})
		So(err, ShouldBeNil)

		qr := heirloom.NewQueryRouter()
		RegisterQuery(qr, guard)
		h := qr.Handler("/freeze/status")

		Convey("the status reflects the query time", func() {
			models, err := h.Query(at(t0), db, walletID)
			So(err, ShouldBeNil)
			So(models, ShouldHaveLength, 1)

			var st Status
			So(proto.Unmarshal(models[0].Value, &st), ShouldBeNil)
			So(st.Frozen, ShouldBeTrue)
			So(st.Remaining, ShouldEqual, day)
			So(st.UnfreezeTime, ShouldEqual, until)
		})

		Convey("a never frozen wallet is reported as such", func() {
			models, err := h.Query(at(t0), db, heirloomtest.SequenceID(4))
			So(err, ShouldBeNil)
			var st Status
			So(proto.Unmarshal(models[0].Value, &st), ShouldBeNil)
			So(st.Frozen, ShouldBeFalse)
			So(st.UnfreezeTime, ShouldEqual, heirloom.UnixTime(0))
		})

		Convey("block time is required", func() {
			_, err := h.Query(context.Background(), db, walletID)
			So(errors.ErrState.Is(err), ShouldBeTrue)
		})
	})
}

func TestGenesis(t *testing.T) {
	Convey("Given a genesis with a freeze", t, func() {
		var opts heirloom.Options
		err := json.Unmarshal([]byte(`{"freeze": [{"wallet": 2, "frozen_until": 1546387200}]}`), &opts)
		So(err, ShouldBeNil)

		db := store.MemStore()
		var ini Initializer
		So(ini.FromGenesis(opts, db), ShouldBeNil)

		got, ok, err := NewGuard().UnfreezeTime(db, heirloomtest.SequenceID(2))
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(got, ShouldEqual, t0.AddDuration(day))
	})
}

type walletTx struct {
	heirloomtest.Tx
	walletID []byte
}

func (tx *walletTx) GetWalletID() []byte {
	return tx.walletID
}

type router struct {
	handlers map[string]heirloom.Handler
}

func (r *router) Handle(m heirloom.Msg, h heirloom.Handler) {
	r.handlers[m.Path()] = h
}

func (r *router) execute(ctx heirloom.Context, db heirloom.KVStore, msg heirloom.Msg) (*heirloom.DeliverResult, error) {
	h, ok := r.handlers[msg.Path()]
	if !ok {
		return nil, errors.Wrap(errors.ErrNotFound, msg.Path())
	}
	return h.Deliver(ctx, db, &heirloomtest.Tx{Msg: msg})
}
