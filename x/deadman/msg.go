package deadman

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x/wallet"
)

const (
	pathInitialize              = "deadman/initialize"
	pathCheckIn                 = "deadman/check_in"
	pathStartClaim              = "deadman/start_claim"
	pathFinalizeClaim           = "deadman/finalize_claim"
	pathUpdateHeartbeatInterval = "deadman/update_heartbeat_interval"
	pathUpdateChallengePeriod   = "deadman/update_challenge_period"
	pathUpdateBeneficiary       = "deadman/update_beneficiary"
	pathUpdateParameters        = "deadman/update_parameters"
)

// InitializeMsg attaches a switch to a wallet. It must be executed with the
// wallet authority.
type InitializeMsg struct {
	Metadata          *heirloom.Metadata    `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID          []byte                `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	Beneficiary       heirloom.Address      `protobuf:"bytes,3,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	HeartbeatInterval heirloom.UnixDuration `protobuf:"varint,4,opt,name=heartbeat_interval,json=heartbeatInterval,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"heartbeat_interval,omitempty"`
	ChallengePeriod   heirloom.UnixDuration `protobuf:"varint,5,opt,name=challenge_period,json=challengePeriod,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"challenge_period,omitempty"`
}

func (m *InitializeMsg) Reset()         { *m = InitializeMsg{} }
func (m *InitializeMsg) String() string { return proto.CompactTextString(m) }
func (*InitializeMsg) ProtoMessage()    {}

// CheckInMsg proves liveness of the wallet controllers and cancels any
// pending claim.
type CheckInMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
}

func (m *CheckInMsg) Reset()         { *m = CheckInMsg{} }
func (m *CheckInMsg) String() string { return proto.CompactTextString(m) }
func (*CheckInMsg) ProtoMessage()    {}

// StartClaimMsg is sent by the beneficiary once the heartbeat expired.
type StartClaimMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
}

func (m *StartClaimMsg) Reset()         { *m = StartClaimMsg{} }
func (m *StartClaimMsg) String() string { return proto.CompactTextString(m) }
func (*StartClaimMsg) ProtoMessage()    {}

// FinalizeClaimMsg is sent by the beneficiary once the challenge period of
// a pending claim elapsed.
type FinalizeClaimMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
}

func (m *FinalizeClaimMsg) Reset()         { *m = FinalizeClaimMsg{} }
func (m *FinalizeClaimMsg) String() string { return proto.CompactTextString(m) }
func (*FinalizeClaimMsg) ProtoMessage()    {}

type UpdateHeartbeatIntervalMsg struct {
	Metadata          *heirloom.Metadata    `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID          []byte                `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	HeartbeatInterval heirloom.UnixDuration `protobuf:"varint,3,opt,name=heartbeat_interval,json=heartbeatInterval,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"heartbeat_interval,omitempty"`
}

func (m *UpdateHeartbeatIntervalMsg) Reset()         { *m = UpdateHeartbeatIntervalMsg{} }
func (m *UpdateHeartbeatIntervalMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateHeartbeatIntervalMsg) ProtoMessage()    {}

type UpdateChallengePeriodMsg struct {
	Metadata        *heirloom.Metadata    `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID        []byte                `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	ChallengePeriod heirloom.UnixDuration `protobuf:"varint,3,opt,name=challenge_period,json=challengePeriod,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"challenge_period,omitempty"`
}

func (m *UpdateChallengePeriodMsg) Reset()         { *m = UpdateChallengePeriodMsg{} }
func (m *UpdateChallengePeriodMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateChallengePeriodMsg) ProtoMessage()    {}

type UpdateBeneficiaryMsg struct {
	Metadata    *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID    []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	Beneficiary heirloom.Address   `protobuf:"bytes,3,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
}

func (m *UpdateBeneficiaryMsg) Reset()         { *m = UpdateBeneficiaryMsg{} }
func (m *UpdateBeneficiaryMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateBeneficiaryMsg) ProtoMessage()    {}

// UpdateParametersMsg updates any of the switch parameters at once. Zero
// values are skipped.
type UpdateParametersMsg struct {
	Metadata          *heirloom.Metadata    `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID          []byte                `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	HeartbeatInterval heirloom.UnixDuration `protobuf:"varint,3,opt,name=heartbeat_interval,json=heartbeatInterval,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"heartbeat_interval,omitempty"`
	ChallengePeriod   heirloom.UnixDuration `protobuf:"varint,4,opt,name=challenge_period,json=challengePeriod,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"challenge_period,omitempty"`
	Beneficiary       heirloom.Address      `protobuf:"bytes,5,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
}

func (m *UpdateParametersMsg) Reset()         { *m = UpdateParametersMsg{} }
func (m *UpdateParametersMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateParametersMsg) ProtoMessage()    {}

var _ heirloom.Msg = (*InitializeMsg)(nil)
var _ heirloom.Msg = (*CheckInMsg)(nil)
var _ heirloom.Msg = (*StartClaimMsg)(nil)
var _ heirloom.Msg = (*FinalizeClaimMsg)(nil)
var _ heirloom.Msg = (*UpdateHeartbeatIntervalMsg)(nil)
var _ heirloom.Msg = (*UpdateChallengePeriodMsg)(nil)
var _ heirloom.Msg = (*UpdateBeneficiaryMsg)(nil)
var _ heirloom.Msg = (*UpdateParametersMsg)(nil)

func (InitializeMsg) Path() string              { return pathInitialize }
func (CheckInMsg) Path() string                 { return pathCheckIn }
func (StartClaimMsg) Path() string              { return pathStartClaim }
func (FinalizeClaimMsg) Path() string           { return pathFinalizeClaim }
func (UpdateHeartbeatIntervalMsg) Path() string { return pathUpdateHeartbeatInterval }
func (UpdateChallengePeriodMsg) Path() string   { return pathUpdateChallengePeriod }
func (UpdateBeneficiaryMsg) Path() string       { return pathUpdateBeneficiary }
func (UpdateParametersMsg) Path() string        { return pathUpdateParameters }

func (m *InitializeMsg) Validate() error {
	if err := validateHeader(m.Metadata, m.WalletID); err != nil {
		return err
	}
	if m.Beneficiary.IsZero() {
		return errors.Wrap(ErrInvalidParty, "beneficiary required")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(ErrInvalidParty, "beneficiary: "+err.Error())
	}
	if m.HeartbeatInterval <= 0 {
		return errors.Wrap(ErrInvalidInterval, "must be positive")
	}
	if m.ChallengePeriod <= 0 {
		return errors.Wrap(ErrInvalidPeriod, "must be positive")
	}
	return nil
}

func (m *CheckInMsg) Validate() error {
	return validateHeader(m.Metadata, m.WalletID)
}

func (m *StartClaimMsg) Validate() error {
	return validateHeader(m.Metadata, m.WalletID)
}

func (m *FinalizeClaimMsg) Validate() error {
	return validateHeader(m.Metadata, m.WalletID)
}

func (m *UpdateHeartbeatIntervalMsg) Validate() error {
	if err := validateHeader(m.Metadata, m.WalletID); err != nil {
		return err
	}
	if m.HeartbeatInterval <= 0 {
		return errors.Wrap(ErrInvalidInterval, "must be positive")
	}
	return nil
}

func (m *UpdateChallengePeriodMsg) Validate() error {
	if err := validateHeader(m.Metadata, m.WalletID); err != nil {
		return err
	}
	if m.ChallengePeriod <= 0 {
		return errors.Wrap(ErrInvalidPeriod, "must be positive")
	}
	return nil
}

func (m *UpdateBeneficiaryMsg) Validate() error {
	if err := validateHeader(m.Metadata, m.WalletID); err != nil {
		return err
	}
	if m.Beneficiary.IsZero() {
		return errors.Wrap(ErrZeroAddress, "beneficiary")
	}
	return m.Beneficiary.Validate()
}

func (m *UpdateParametersMsg) Validate() error {
	if err := validateHeader(m.Metadata, m.WalletID); err != nil {
		return err
	}
	if m.HeartbeatInterval < 0 {
		return errors.Wrap(ErrInvalidInterval, "must not be negative")
	}
	if m.ChallengePeriod < 0 {
		return errors.Wrap(ErrInvalidPeriod, "must not be negative")
	}
	if !m.Beneficiary.IsZero() {
		if err := m.Beneficiary.Validate(); err != nil {
			return errors.Wrap(err, "beneficiary")
		}
	}
	return nil
}

func validateHeader(meta *heirloom.Metadata, walletID []byte) error {
	if err := meta.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := wallet.ValidateID(walletID); err != nil {
		return errors.Wrap(ErrInvalidParty, err.Error())
	}
	return nil
}
