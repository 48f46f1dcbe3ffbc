package app

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/app"
	"github.com/iov-one/heirloom/crypto"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/orm"
	"github.com/iov-one/heirloom/x/deadman"
	"github.com/iov-one/heirloom/x/freeze"
	"github.com/iov-one/heirloom/x/sigs"
	"github.com/iov-one/heirloom/x/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	chainID = "heirloom-test"

	day  = heirloom.UnixDuration(24 * 60 * 60)
	year = 365 * day

	t0 = heirloom.UnixTime(1546300800)
)

// testChain drives the application block by block and keeps track of the
// signer sequences.
type testChain struct {
	t      *testing.T
	app    *app.BaseApp
	codec  *app.Codec
	height int64
	seqs   map[string]int64
}

func newTestChain(t *testing.T, appState interface{}) *testChain {
	t.Helper()
	raw, err := json.Marshal(appState)
	require.NoError(t, err)

	a, codec := Application(log.NewNopLogger(), true)
	return startTestChain(t, a, codec, raw)
}

func startTestChain(t *testing.T, a *app.BaseApp, codec *app.Codec, appState []byte) *testChain {
	a.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: appState})
	return &testChain{
		t:     t,
		app:   a,
		codec: codec,
		seqs:  make(map[string]int64),
	}
}

// block runs all given transactions in a new block at given time. Results
// are returned in the transaction order.
func (c *testChain) block(now heirloom.UnixTime, txs ...[]byte) []abci.ResponseDeliverTx {
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{
		ChainID: chainID,
		Height:  c.height,
		Time:    now.Time(),
	}})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = c.app.DeliverTx(tx)
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

// tx builds a transaction signed by given key. The signer sequence is
// incremented, as the signature is verified before any handler runs.
func (c *testChain) tx(key *crypto.PrivateKey, walletID []byte, msg heirloom.Msg) []byte {
	c.t.Helper()
	tx, err := app.NewTx(msg, walletID)
	require.NoError(c.t, err)

	signer := key.PublicKey().Address().String()
	sig, err := sigs.SignTx(key, tx, chainID, c.seqs[signer])
	require.NoError(c.t, err)
	c.seqs[signer]++
	tx.Signatures = []*sigs.StdSignature{sig}

	raw, err := c.codec.Encode(tx)
	require.NoError(c.t, err)
	return raw
}

func (c *testChain) query(path string, data []byte, dst proto.Message) {
	c.t.Helper()
	res := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(c.t, uint32(0), res.Code, res.Log)
	require.NoError(c.t, app.UnmarshalOneResult(res.Value, dst))
}

func meta() *heirloom.Metadata {
	return &heirloom.Metadata{Schema: 1}
}

func requireOK(t *testing.T, res abci.ResponseDeliverTx) {
	t.Helper()
	require.Equal(t, uint32(0), res.Code, res.Log)
}

func hasTag(res abci.ResponseDeliverTx, key, value string) bool {
	for _, tag := range res.Tags {
		if string(tag.Key) == key && string(tag.Value) == value {
			return true
		}
	}
	return false
}

func inheritanceGenesis(walletID []byte, controller, beneficiary heirloom.Address, frozenUntil heirloom.UnixTime) map[string]interface{} {
	state := map[string]interface{}{
		"wallets": []interface{}{
			map[string]interface{}{
				"controllers": []heirloom.Address{controller},
				"plugins":     []heirloom.Address{deadman.PluginCondition(walletID).Address()},
				"guard":       true,
			},
		},
		"deadman": []interface{}{
			map[string]interface{}{
				"wallet":             1,
				"beneficiary":        beneficiary,
				"heartbeat_interval": 7 * day,
				"challenge_period":   2 * day,
				"last_check_in":      t0,
			},
		},
	}
	if frozenUntil != 0 {
		state["freeze"] = []interface{}{
			map[string]interface{}{"wallet": 1, "frozen_until": frozenUntil},
		}
	}
	return state
}

func TestFrozenWalletInheritance(t *testing.T) {
	var (
		alice    = crypto.GenPrivKeyEd25519()
		bob      = crypto.GenPrivKeyEd25519()
		carol    = crypto.GenPrivKeyEd25519()
		walletID = sequenceID(1)
		unfreeze = t0.AddDuration(5 * year)
	)
	chain := newTestChain(t, inheritanceGenesis(walletID, alice.PublicKey().Address(), bob.PublicKey().Address(), unfreeze))

	// Two years into the freeze the controller cannot act on the wallet,
	// while the beneficiary can start a claim.
	res := chain.block(t0.AddDuration(2*year),
		chain.tx(alice, walletID, &wallet.SwapControllerMsg{
			Metadata: meta(),
			WalletID: walletID,
			Old:      alice.PublicKey().Address(),
			New:      carol.PublicKey().Address(),
		}),
		chain.tx(bob, nil, &deadman.StartClaimMsg{Metadata: meta(), WalletID: walletID}),
	)
	assert.Equal(t, freeze.ErrWalletIsFrozen.ABCICode(), res[0].Code, res[0].Log)
	requireOK(t, res[1])
	assert.True(t, hasTag(res[1], "deadman_claim_started.wallet", walletIDString(walletID)), "%v", res[1].Tags)

	// The plug-in swaps the controller while the wallet is still frozen.
	res = chain.block(t0.AddDuration(2*year+2*day),
		chain.tx(bob, nil, &deadman.FinalizeClaimMsg{Metadata: meta(), WalletID: walletID}),
	)
	requireOK(t, res[0])

	var w wallet.Wallet
	chain.query("/wallets", walletID, &w)
	assert.Equal(t, []heirloom.Address{bob.PublicKey().Address()}, w.Controllers)

	var st deadman.Status
	chain.query("/deadman/status", walletID, &st)
	assert.Equal(t, bob.PublicKey().Address(), st.Controller)
	assert.Nil(t, st.Claim)

	// The new controller is subject to the freeze as well.
	res = chain.block(t0.AddDuration(3*year),
		chain.tx(bob, walletID, &wallet.SetGuardMsg{Metadata: meta(), WalletID: walletID, Enabled: false}),
	)
	assert.Equal(t, freeze.ErrWalletIsFrozen.ABCICode(), res[0].Code, res[0].Log)

	var fs freeze.Status
	chain.query("/freeze/status", walletID, &fs)
	assert.True(t, fs.Frozen)
	assert.Equal(t, unfreeze.Sub(t0.AddDuration(3*year)), fs.Remaining)

	// Once the freeze elapsed the wallet is usable again.
	res = chain.block(unfreeze + 1)
	chain.query("/freeze/status", walletID, &fs)
	assert.False(t, fs.Frozen)
	assert.Equal(t, heirloom.UnixDuration(0), fs.Remaining)
	assert.Equal(t, unfreeze, fs.UnfreezeTime)

	res = chain.block(unfreeze+2,
		chain.tx(bob, walletID, &wallet.SetGuardMsg{Metadata: meta(), WalletID: walletID, Enabled: false}),
	)
	requireOK(t, res[0])
}

func TestCheckInThroughApplication(t *testing.T) {
	var (
		alice    = crypto.GenPrivKeyEd25519()
		bob      = crypto.GenPrivKeyEd25519()
		walletID = sequenceID(1)
	)
	chain := newTestChain(t, inheritanceGenesis(walletID, alice.PublicKey().Address(), bob.PublicKey().Address(), 0))

	res := chain.block(t0.AddDuration(8*day),
		chain.tx(bob, nil, &deadman.StartClaimMsg{Metadata: meta(), WalletID: walletID}),
	)
	requireOK(t, res[0])

	// The controller is alive and cancels the claim.
	res = chain.block(t0.AddDuration(9*day),
		chain.tx(alice, nil, &deadman.CheckInMsg{Metadata: meta(), WalletID: walletID}),
		chain.tx(bob, nil, &deadman.FinalizeClaimMsg{Metadata: meta(), WalletID: walletID}),
	)
	requireOK(t, res[0])
	assert.True(t, hasTag(res[0], "deadman_claim_cancelled.wallet", walletIDString(walletID)), "%v", res[0].Tags)
	assert.NotEqual(t, uint32(0), res[1].Code)

	var st deadman.Status
	chain.query("/deadman/status", walletID, &st)
	assert.Equal(t, alice.PublicKey().Address(), st.Controller)
	assert.Equal(t, t0.AddDuration(9*day), st.LastCheckIn)
	assert.Equal(t, t0.AddDuration(16*day), st.ExpiresAt)
	assert.Nil(t, st.Claim)
}

func TestUnsignedTransactionRejected(t *testing.T) {
	walletID := sequenceID(1)
	alice := crypto.GenPrivKeyEd25519()
	chain := newTestChain(t, inheritanceGenesis(walletID, alice.PublicKey().Address(), crypto.GenPrivKeyEd25519().PublicKey().Address(), 0))

	tx, err := app.NewTx(&deadman.CheckInMsg{Metadata: meta(), WalletID: walletID}, nil)
	require.NoError(t, err)
	raw, err := chain.codec.Encode(tx)
	require.NoError(t, err)

	res := chain.block(t0.AddDuration(day), raw)
	assert.NotEqual(t, uint32(0), res[0].Code)
}

// rejectAfterExecution is a guard that lets every operation run and then
// refuses it.
type rejectAfterExecution struct{}

func (rejectAfterExecution) Hook(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, call wallet.GuardCall) error {
	if call.Kind == wallet.GuardCheckAfterExecution {
		return errors.Wrap(errors.ErrUnauthorized, "rejected after execution")
	}
	return nil
}

func TestGuardRejectionDiscardsOperation(t *testing.T) {
	var (
		alice    = crypto.GenPrivKeyEd25519()
		bob      = crypto.GenPrivKeyEd25519()
		walletID = sequenceID(1)
	)
	raw, err := json.Marshal(map[string]interface{}{
		"wallets": []interface{}{
			map[string]interface{}{
				"controllers": []heirloom.Address{alice.PublicKey().Address()},
				"guard":       true,
			},
		},
	})
	require.NoError(t, err)

	authFn := Authenticator()
	m := NewModules(authFn)
	stack := Chain(authFn, rejectAfterExecution{}).WithHandler(m.Router)
	chain := startTestChain(t, m.application(log.NewNopLogger(), true, stack), m.Codec, raw)

	res := chain.block(t0.AddDuration(day),
		chain.tx(alice, walletID, &wallet.SwapControllerMsg{
			Metadata: meta(),
			WalletID: walletID,
			Old:      alice.PublicKey().Address(),
			New:      bob.PublicKey().Address(),
		}),
		// The signer sequence was consumed by the rejected operation.
		chain.tx(alice, nil, &wallet.CreateWalletMsg{
			Metadata:    meta(),
			Controllers: []heirloom.Address{alice.PublicKey().Address()},
		}),
	)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res[0].Code, res[0].Log)
	requireOK(t, res[1])

	var w wallet.Wallet
	chain.query("/wallets", walletID, &w)
	assert.Equal(t, []heirloom.Address{alice.PublicKey().Address()}, w.Controllers)
}

func TestGenesisFile(t *testing.T) {
	gen, err := app.LoadGenesis("testdata/genesis.json")
	require.NoError(t, err)
	require.Equal(t, "heirloom-testnet", gen.ChainID)

	raw, err := json.Marshal(gen.AppState)
	require.NoError(t, err)
	a, _ := Application(log.NewNopLogger(), false)
	a.InitChain(abci.RequestInitChain{ChainId: gen.ChainID, AppStateBytes: raw})
	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: t0.Time()}})
	a.Commit()

	res := a.Query(abci.RequestQuery{Path: "/deadman/status", Data: sequenceID(1)})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var st deadman.Status
	require.NoError(t, app.UnmarshalOneResult(res.Value, &st))
	assert.Equal(t, 10*day, st.HeartbeatInterval)
	assert.Equal(t, 3*day, st.ChallengePeriod)

	res = a.Query(abci.RequestQuery{Path: "/freeze/status", Data: sequenceID(2)})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var fs freeze.Status
	require.NoError(t, app.UnmarshalOneResult(res.Value, &fs))
	assert.True(t, fs.Frozen)
}

func sequenceID(n int64) []byte {
	return orm.EncodeSequence(n)
}

func walletIDString(id []byte) string {
	return fmt.Sprintf("%X", id)
}
