package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/store"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// BaseApp glues the handler stack, the genesis initializer and the query
// router to the in-memory state and exposes them as an abci.Application.
//
// Errors on ABCI steps that do not take user input (InitChain, Commit)
// cannot be handled gracefully and result in a panic.
type BaseApp struct {
	logger log.Logger

	// name is what is returned from abci.Info
	name string

	store       *CommitStore
	decoder     heirloom.TxDecoder
	handler     heirloom.Handler
	initializer heirloom.Initializer
	queryRouter heirloom.QueryRouter
	debug       bool

	// chainID is saved once in InitChain
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext heirloom.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, block time), reset on BeginBlock
	blockContext heirloom.Context

	// lastBlockTime is used to build the query context
	lastBlockTime time.Time
}

var _ abci.Application = (*BaseApp)(nil)

// NewBaseApp constructs an application on top of given in-memory state.
func NewBaseApp(
	name string,
	db *store.BTreeStore,
	decoder heirloom.TxDecoder,
	handler heirloom.Handler,
	initializer heirloom.Initializer,
	queryRouter heirloom.QueryRouter,
	debug bool,
) *BaseApp {
	b := &BaseApp{
		name:        name,
		store:       NewCommitStore(db),
		decoder:     decoder,
		handler:     handler,
		initializer: initializer,
		queryRouter: queryRouter,
		debug:       debug,
		baseContext: context.Background(),
	}
	b.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(db)
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		b.chainID = chainID
		b.baseContext = heirloom.WithChainID(b.baseContext, chainID)
	}
	b.blockContext = b.baseContext
	return b
}

// WithLogger sets the logger on the application and the base context.
func (b *BaseApp) WithLogger(logger log.Logger) *BaseApp {
	b.baseContext = heirloom.WithLogger(b.baseContext, logger)
	b.logger = logger
	return b
}

// Logger returns the application base logger
func (b *BaseApp) Logger() log.Logger {
	return b.logger
}

// GetChainID returns the current chainID
func (b *BaseApp) GetChainID() string {
	return b.chainID
}

// BlockContext returns the context of the block being processed.
func (b *BaseApp) BlockContext() heirloom.Context {
	return b.blockContext
}

// DeliverStore returns the current DeliverTx cache
func (b *BaseApp) DeliverStore() heirloom.CacheableKVStore {
	return b.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache
func (b *BaseApp) CheckStore() heirloom.CacheableKVStore {
	return b.store.CheckStore()
}

// Info implements abci.Application. It returns the application name and
// the last committed height.
func (b *BaseApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	height := b.store.Height()
	b.logger.Info("Info synced", "height", height)
	return abci.ResponseInfo{
		Data:            b.name,
		LastBlockHeight: height,
	}
}

// SetOption is not supported.
func (b *BaseApp) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain loads the genesis application state and stores the chain ID.
// It is called only once, when the chain starts.
func (b *BaseApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := b.loadAppState(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (b *BaseApp) loadAppState(raw []byte, chainID string) error {
	if b.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", b.chainID)
	}
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	var appState heirloom.Options
	if err := json.Unmarshal(raw, &appState); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app_state: %s", err)
	}

	db := b.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	b.chainID = chainID
	b.baseContext = heirloom.WithChainID(b.baseContext, chainID)
	b.blockContext = b.baseContext

	if b.initializer == nil {
		return nil
	}
	return b.initializer.FromGenesis(appState, db)
}

// BeginBlock sets up the block context with the height and the block time
// of the header. Every handler reads the current time from this context.
func (b *BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := heirloom.WithHeight(b.baseContext, req.Header.Height)
	ctx = heirloom.WithBlockTime(ctx, req.Header.Time)
	b.blockContext = ctx
	b.lastBlockTime = req.Header.Time
	return abci.ResponseBeginBlock{}
}

// EndBlock does nothing, this application does not manage validators.
func (b *BaseApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// DeliverTx decodes the transaction and dispatches it to the handler.
func (b *BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return heirloom.DeliverTxError(err, b.debug)
	}
	ctx := heirloom.WithLogInfo(b.blockContext,
		"call", "deliver_tx",
		"path", heirloom.GetPath(tx))
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return heirloom.DeliverOrError(res, err, b.debug)
}

// CheckTx decodes the transaction and dispatches it to the handler.
func (b *BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return heirloom.CheckTxError(err, b.debug)
	}
	ctx := heirloom.WithLogInfo(b.blockContext,
		"call", "check_tx",
		"path", heirloom.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return heirloom.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and captures any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx heirloom.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}

// Commit writes the state of delivered transactions.
func (b *BaseApp) Commit() abci.ResponseCommit {
	height, err := b.store.Commit()
	if err != nil {
		panic(err)
	}
	b.logger.Debug("Commit synced", "height", height)
	return abci.ResponseCommit{}
}

// Query dispatches the query to the handler registered for the path. The
// committed state is used. Keys and values of the result are returned as
// serialized ResultSet objects.
func (b *BaseApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	qh := b.queryRouter.Handler(req.Path)
	if qh == nil {
		return b.queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %q", req.Path))
	}

	ctx := heirloom.WithHeight(b.baseContext, b.store.Height())
	if !b.lastBlockTime.IsZero() {
		ctx = heirloom.WithBlockTime(ctx, b.lastBlockTime)
	}
	models, err := qh.Query(ctx, b.store.QueryStore(), req.Data)
	if err != nil {
		return b.queryError(err)
	}

	res := abci.ResponseQuery{Height: b.store.Height()}
	if res.Key, err = marshalResults(ResultsFromKeys(models)); err != nil {
		return b.queryError(err)
	}
	if res.Value, err = marshalResults(ResultsFromValues(models)); err != nil {
		return b.queryError(err)
	}
	return res
}

func (b *BaseApp) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, b.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
