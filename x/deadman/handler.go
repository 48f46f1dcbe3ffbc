package deadman

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/gconf"
	"github.com/iov-one/heirloom/x"
	"github.com/iov-one/heirloom/x/wallet"
)

const (
	initializeCost int64 = 100
	checkInCost    int64 = 0
	claimCost      int64 = 50
	updateCost     int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this package.
// Wallets are accessed using given wallet controller.
func RegisterRoutes(r heirloom.Registry, auth x.Authenticator, wallets wallet.Controller) {
	bucket := NewBucket()
	r.Handle(&InitializeMsg{}, InitializeHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&CheckInMsg{}, CheckInHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&StartClaimMsg{}, StartClaimHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&FinalizeClaimMsg{}, FinalizeClaimHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&UpdateHeartbeatIntervalMsg{}, UpdateHeartbeatIntervalHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&UpdateChallengePeriodMsg{}, UpdateChallengePeriodHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&UpdateBeneficiaryMsg{}, UpdateBeneficiaryHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&UpdateParametersMsg{}, UpdateParametersHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth, nil))
}

// InitializeHandler attaches a switch to a wallet.
type InitializeHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: initializeCost}, nil
}

func (h InitializeHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now := heirloom.Now(ctx)
	s := &Switch{
		Metadata:          &heirloom.Metadata{Schema: 1},
		WalletID:          msg.WalletID,
		Beneficiary:       msg.Beneficiary,
		HeartbeatInterval: msg.HeartbeatInterval,
		ChallengePeriod:   msg.ChallengePeriod,
		LastCheckIn:       now,
	}
	if _, err := h.bucket.Put(db, msg.WalletID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store switch")
	}
	heirloom.GetLogger(ctx).Debug("switch initialized", "wallet", msg.WalletID, "beneficiary", msg.Beneficiary.String())
	ev := heirloom.NewEvent("deadman_initialized").
		With("wallet", msg.WalletID).
		With("beneficiary", msg.Beneficiary).
		With("heartbeat_interval", msg.HeartbeatInterval).
		With("challenge_period", msg.ChallengePeriod).
		With("last_check_in", now)
	return &heirloom.DeliverResult{Events: []heirloom.Event{ev}}, nil
}

func (h InitializeHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, wallet.Condition(msg.WalletID).Address()) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "wallet %X authority required", msg.WalletID)
	}
	switch err := h.bucket.Has(db, msg.WalletID); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyInitialized, "wallet %X", msg.WalletID)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	controllers, err := h.wallets.Controllers(db, msg.WalletID)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrInvalidParty, "unknown wallet %X", msg.WalletID)
	case err != nil:
		return nil, errors.Wrap(err, "wallet controllers")
	}
	if isController(controllers, msg.Beneficiary) {
		return nil, errors.Wrapf(ErrInvalidParty, "beneficiary %s controls wallet %X", msg.Beneficiary, msg.WalletID)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := conf.checkInterval(msg.HeartbeatInterval); err != nil {
		return nil, err
	}
	if err := conf.checkPeriod(msg.ChallengePeriod); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CheckInHandler records liveness of the wallet controllers.
type CheckInHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = CheckInHandler{}

func (h CheckInHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: checkInCost}, nil
}

func (h CheckInHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	s, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now := heirloom.Now(ctx)
	events := []heirloom.Event{
		heirloom.NewEvent("deadman_check_in").
			With("wallet", s.WalletID).
			With("controller", caller).
			With("time", now),
	}
	if s.Claim != nil {
		events = append(events, heirloom.NewEvent("deadman_claim_cancelled").
			With("wallet", s.WalletID).
			With("ready_at", s.Claim.ReadyAt))
	}
	s.LastCheckIn = now
	s.Claim = nil
	if _, err := h.bucket.Put(db, s.WalletID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store switch")
	}
	heirloom.GetLogger(ctx).Debug("check in", "wallet", s.WalletID, "controller", caller.String())
	return &heirloom.DeliverResult{Events: events}, nil
}

func (h CheckInHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*Switch, heirloom.Address, error) {
	var msg CheckInMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := h.bucket.Load(db, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	caller, _, err := requireController(ctx, db, h.auth, h.wallets, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	return s, caller, nil
}

// StartClaimHandler starts a claim of an expired switch.
type StartClaimHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = StartClaimHandler{}

func (h StartClaimHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: claimCost}, nil
}

func (h StartClaimHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now := heirloom.Now(ctx)
	// A repeated call while a claim is pending re-arms it.
	s.Claim = &PendingClaim{
		StartedAt: now,
		ReadyAt:   now.AddDuration(s.ChallengePeriod),
	}
	if _, err := h.bucket.Put(db, s.WalletID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store switch")
	}
	heirloom.GetLogger(ctx).Debug("claim started", "wallet", s.WalletID, "ready_at", s.Claim.ReadyAt)
	ev := heirloom.NewEvent("deadman_claim_started").
		With("wallet", s.WalletID).
		With("beneficiary", s.Beneficiary).
		With("started_at", s.Claim.StartedAt).
		With("ready_at", s.Claim.ReadyAt)
	return &heirloom.DeliverResult{Events: []heirloom.Event{ev}}, nil
}

func (h StartClaimHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*Switch, error) {
	var msg StartClaimMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	s, err := h.bucket.Load(db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, s.Beneficiary) {
		return nil, errors.Wrapf(ErrNotBeneficiary, "beneficiary %s signature required", s.Beneficiary)
	}
	if now := heirloom.Now(ctx); !s.IsExpired(now) {
		return nil, errors.Wrapf(ErrNotExpired, "heartbeat of wallet %X expires at %d, now %d",
			s.WalletID, s.ExpiresAt(), now)
	}
	if _, err := beneficiaryOutside(db, h.wallets, s); err != nil {
		return nil, err
	}
	return s, nil
}

// FinalizeClaimHandler hands the wallet over to the beneficiary.
type FinalizeClaimHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = FinalizeClaimHandler{}

func (h FinalizeClaimHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: claimCost}, nil
}

func (h FinalizeClaimHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	s, old, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	swap := &wallet.SwapControllerMsg{
		Metadata: &heirloom.Metadata{Schema: 1},
		WalletID: s.WalletID,
		Old:      old,
		New:      s.Beneficiary,
	}
	res, err := h.wallets.ExecuteAsPlugin(ctx, db, s.WalletID, PluginCondition(s.WalletID), swap)
	if err != nil {
		return nil, errors.Append(
			errors.Wrapf(ErrExecutionFailed, "swap %s for %s on wallet %X", old, s.Beneficiary, s.WalletID),
			err)
	}
	readyAt := s.Claim.ReadyAt
	s.Claim = nil
	if _, err := h.bucket.Put(db, s.WalletID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store switch")
	}
	heirloom.GetLogger(ctx).Info("claim finalized",
		"wallet", s.WalletID, "old", old.String(), "new", s.Beneficiary.String())
	ev := heirloom.NewEvent("deadman_claim_finalized").
		With("wallet", s.WalletID).
		With("old_controller", old).
		With("new_controller", s.Beneficiary).
		With("ready_at", readyAt)
	return &heirloom.DeliverResult{Events: append([]heirloom.Event{ev}, res.Events...)}, nil
}

func (h FinalizeClaimHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*Switch, heirloom.Address, error) {
	var msg FinalizeClaimMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := h.bucket.Load(db, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, s.Beneficiary) {
		return nil, nil, errors.Wrapf(ErrNotBeneficiary, "beneficiary %s signature required", s.Beneficiary)
	}
	now := heirloom.Now(ctx)
	if s.Claim == nil {
		return nil, nil, errors.Wrapf(ErrNotReady, "no claim started on wallet %X", s.WalletID)
	}
	if !s.ClaimReady(now) {
		return nil, nil, errors.Wrapf(ErrNotReady, "claim on wallet %X ready at %d, now %d",
			s.WalletID, s.Claim.ReadyAt, now)
	}
	controllers, err := beneficiaryOutside(db, h.wallets, s)
	if err != nil {
		return nil, nil, err
	}
	if len(controllers) == 0 {
		return nil, nil, errors.Wrapf(ErrNoController, "wallet %X", s.WalletID)
	}
	return s, controllers[0], nil
}

// UpdateHeartbeatIntervalHandler changes the heartbeat interval. It is
// allowed while a claim is pending.
type UpdateHeartbeatIntervalHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = UpdateHeartbeatIntervalHandler{}

func (h UpdateHeartbeatIntervalHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: updateCost}, nil
}

func (h UpdateHeartbeatIntervalHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	s, ev, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return saveUpdate(db, h.bucket, s, []heirloom.Event{ev})
}

func (h UpdateHeartbeatIntervalHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*Switch, heirloom.Event, error) {
	var msg UpdateHeartbeatIntervalMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, heirloom.Event{}, errors.Wrap(err, "load msg")
	}
	s, _, conf, err := loadForUpdate(ctx, db, h.auth, h.bucket, h.wallets, msg.WalletID)
	if err != nil {
		return nil, heirloom.Event{}, err
	}
	ev, err := updateInterval(conf, s, msg.HeartbeatInterval)
	return s, ev, err
}

// UpdateChallengePeriodHandler changes the challenge period. It is rejected
// while a claim is pending.
type UpdateChallengePeriodHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = UpdateChallengePeriodHandler{}

func (h UpdateChallengePeriodHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: updateCost}, nil
}

func (h UpdateChallengePeriodHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	s, ev, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return saveUpdate(db, h.bucket, s, []heirloom.Event{ev})
}

func (h UpdateChallengePeriodHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*Switch, heirloom.Event, error) {
	var msg UpdateChallengePeriodMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, heirloom.Event{}, errors.Wrap(err, "load msg")
	}
	s, _, conf, err := loadForUpdate(ctx, db, h.auth, h.bucket, h.wallets, msg.WalletID)
	if err != nil {
		return nil, heirloom.Event{}, err
	}
	ev, err := updatePeriod(conf, s, msg.ChallengePeriod)
	return s, ev, err
}

// UpdateBeneficiaryHandler changes the beneficiary. It is rejected while a
// claim is pending.
type UpdateBeneficiaryHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = UpdateBeneficiaryHandler{}

func (h UpdateBeneficiaryHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: updateCost}, nil
}

func (h UpdateBeneficiaryHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	s, ev, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return saveUpdate(db, h.bucket, s, []heirloom.Event{ev})
}

func (h UpdateBeneficiaryHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*Switch, heirloom.Event, error) {
	var msg UpdateBeneficiaryMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, heirloom.Event{}, errors.Wrap(err, "load msg")
	}
	s, controllers, _, err := loadForUpdate(ctx, db, h.auth, h.bucket, h.wallets, msg.WalletID)
	if err != nil {
		return nil, heirloom.Event{}, err
	}
	ev, err := updateBeneficiary(s, controllers, msg.Beneficiary)
	return s, ev, err
}

// UpdateParametersHandler applies any subset of the parameter updates at
// once. Zero and unchanged values are skipped. Either all the remaining
// updates are applied or none.
type UpdateParametersHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets wallet.Controller
}

var _ heirloom.Handler = UpdateParametersHandler{}

func (h UpdateParametersHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: updateCost}, nil
}

func (h UpdateParametersHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	s, events, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return &heirloom.DeliverResult{}, nil
	}
	return saveUpdate(db, h.bucket, s, events)
}

func (h UpdateParametersHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*Switch, []heirloom.Event, error) {
	var msg UpdateParametersMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, controllers, conf, err := loadForUpdate(ctx, db, h.auth, h.bucket, h.wallets, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}

	var events []heirloom.Event
	if msg.HeartbeatInterval != 0 && msg.HeartbeatInterval != s.HeartbeatInterval {
		ev, err := updateInterval(conf, s, msg.HeartbeatInterval)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}
	if msg.ChallengePeriod != 0 && msg.ChallengePeriod != s.ChallengePeriod {
		ev, err := updatePeriod(conf, s, msg.ChallengePeriod)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}
	if !msg.Beneficiary.IsZero() && !msg.Beneficiary.Equals(s.Beneficiary) {
		ev, err := updateBeneficiary(s, controllers, msg.Beneficiary)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}
	return s, events, nil
}

// loadForUpdate returns the switch together with the wallet controllers and
// the configuration, if one of the controllers signed the transaction.
func loadForUpdate(
	ctx heirloom.Context,
	db heirloom.KVStore,
	auth x.Authenticator,
	bucket Bucket,
	wallets wallet.Controller,
	walletID []byte,
) (*Switch, []heirloom.Address, *Configuration, error) {
	s, err := bucket.Load(db, walletID)
	if err != nil {
		return nil, nil, nil, err
	}
	_, controllers, err := requireController(ctx, db, auth, wallets, walletID)
	if err != nil {
		return nil, nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, controllers, conf, nil
}

// requireController returns the first wallet controller that signed the
// transaction together with all controllers of the wallet.
func requireController(
	ctx heirloom.Context,
	db heirloom.ReadOnlyKVStore,
	auth x.Authenticator,
	wallets wallet.Controller,
	walletID []byte,
) (heirloom.Address, []heirloom.Address, error) {
	controllers, err := wallets.Controllers(db, walletID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "wallet controllers")
	}
	caller, ok := x.AnySigner(ctx, auth, controllers)
	if !ok {
		return nil, nil, errors.Wrapf(ErrNotController, "no controller of wallet %X signed", walletID)
	}
	return caller, controllers, nil
}

func updateInterval(conf *Configuration, s *Switch, d heirloom.UnixDuration) (heirloom.Event, error) {
	if err := conf.checkInterval(d); err != nil {
		return heirloom.Event{}, err
	}
	ev := heirloom.NewEvent("deadman_heartbeat_interval_updated").
		With("wallet", s.WalletID).
		With("old", s.HeartbeatInterval).
		With("new", d)
	s.HeartbeatInterval = d
	return ev, nil
}

func updatePeriod(conf *Configuration, s *Switch, d heirloom.UnixDuration) (heirloom.Event, error) {
	if s.Claim != nil {
		return heirloom.Event{}, errors.Wrapf(ErrClaimInProgress, "claim on wallet %X ready at %d", s.WalletID, s.Claim.ReadyAt)
	}
	if err := conf.checkPeriod(d); err != nil {
		return heirloom.Event{}, err
	}
	ev := heirloom.NewEvent("deadman_challenge_period_updated").
		With("wallet", s.WalletID).
		With("old", s.ChallengePeriod).
		With("new", d)
	s.ChallengePeriod = d
	return ev, nil
}

func updateBeneficiary(s *Switch, controllers []heirloom.Address, b heirloom.Address) (heirloom.Event, error) {
	if s.Claim != nil {
		return heirloom.Event{}, errors.Wrapf(ErrClaimInProgress, "claim on wallet %X ready at %d", s.WalletID, s.Claim.ReadyAt)
	}
	switch {
	case b.IsZero():
		return heirloom.Event{}, errors.Wrap(ErrZeroAddress, "beneficiary")
	case b.Equals(s.Beneficiary):
		return heirloom.Event{}, errors.Wrapf(ErrSameBeneficiary, "%s", b)
	case isController(controllers, b):
		return heirloom.Event{}, errors.Wrapf(ErrBeneficiaryIsController, "%s controls wallet %X", b, s.WalletID)
	}
	ev := heirloom.NewEvent("deadman_beneficiary_updated").
		With("wallet", s.WalletID).
		With("old", s.Beneficiary).
		With("new", b)
	s.Beneficiary = b
	return ev, nil
}

func saveUpdate(db heirloom.KVStore, bucket Bucket, s *Switch, events []heirloom.Event) (*heirloom.DeliverResult, error) {
	if _, err := bucket.Put(db, s.WalletID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store switch")
	}
	return &heirloom.DeliverResult{Events: events}, nil
}

// beneficiaryOutside returns the wallet controllers, failing if the
// beneficiary of the switch has become one of them.
func beneficiaryOutside(db heirloom.ReadOnlyKVStore, wallets wallet.Controller, s *Switch) ([]heirloom.Address, error) {
	controllers, err := wallets.Controllers(db, s.WalletID)
	if err != nil {
		return nil, errors.Wrap(err, "wallet controllers")
	}
	if isController(controllers, s.Beneficiary) {
		return nil, errors.Wrapf(ErrBeneficiaryIsController, "%s controls wallet %X", s.Beneficiary, s.WalletID)
	}
	return controllers, nil
}

func isController(controllers []heirloom.Address, a heirloom.Address) bool {
	for _, c := range controllers {
		if c.Equals(a) {
			return true
		}
	}
	return false
}
