package deadman

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/orm"
	"github.com/iov-one/heirloom/x/wallet"
)

// BucketName is where switches are stored.
const BucketName = "deadman"

// Switch protects a single wallet. It is stored under the wallet ID.
type Switch struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// WalletID is the protected wallet. It never changes.
	WalletID []byte `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	// Beneficiary is the party entitled to claim the wallet.
	Beneficiary heirloom.Address `protobuf:"bytes,3,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	// HeartbeatInterval is the allowed silence since the last check in.
	HeartbeatInterval heirloom.UnixDuration `protobuf:"varint,4,opt,name=heartbeat_interval,json=heartbeatInterval,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"heartbeat_interval,omitempty"`
	// ChallengePeriod is the delay between starting and finalizing a
	// claim.
	ChallengePeriod heirloom.UnixDuration `protobuf:"varint,5,opt,name=challenge_period,json=challengePeriod,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"challenge_period,omitempty"`
	LastCheckIn     heirloom.UnixTime     `protobuf:"varint,6,opt,name=last_check_in,json=lastCheckIn,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"last_check_in,omitempty"`
	// Claim is nil unless a claim is in progress.
	Claim *PendingClaim `protobuf:"bytes,7,opt,name=claim,proto3" json:"claim,omitempty"`
}

func (m *Switch) Reset()         { *m = Switch{} }
func (m *Switch) String() string { return proto.CompactTextString(m) }
func (*Switch) ProtoMessage()    {}

// PendingClaim describes a claim started by the beneficiary.
type PendingClaim struct {
	StartedAt heirloom.UnixTime `protobuf:"varint,1,opt,name=started_at,json=startedAt,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"started_at,omitempty"`
	// ReadyAt is the earliest time the claim can be finalized.
	ReadyAt heirloom.UnixTime `protobuf:"varint,2,opt,name=ready_at,json=readyAt,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"ready_at,omitempty"`
}

func (m *PendingClaim) Reset()         { *m = PendingClaim{} }
func (m *PendingClaim) String() string { return proto.CompactTextString(m) }
func (*PendingClaim) ProtoMessage()    {}

var _ orm.Model = (*Switch)(nil)

func (s *Switch) Validate() error {
	var errs error
	if err := s.Metadata.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "metadata"))
	}
	if err := wallet.ValidateID(s.WalletID); err != nil {
		errs = errors.Append(errs, errors.Wrap(ErrInvalidParty, err.Error()))
	}
	if err := s.Beneficiary.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(ErrInvalidParty, "beneficiary: "+err.Error()))
	}
	if s.HeartbeatInterval <= 0 {
		errs = errors.Append(errs, errors.Wrap(ErrInvalidInterval, "must be positive"))
	}
	if s.ChallengePeriod <= 0 {
		errs = errors.Append(errs, errors.Wrap(ErrInvalidPeriod, "must be positive"))
	}
	if err := s.LastCheckIn.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "last check in"))
	}
	if s.Claim != nil && s.Claim.ReadyAt < s.Claim.StartedAt {
		errs = errors.Append(errs, errors.Wrap(errors.ErrState, "claim ready before started"))
	}
	return errs
}

// ExpiresAt returns the moment the heartbeat expires. A claim can be started
// only after this time.
func (s *Switch) ExpiresAt() heirloom.UnixTime {
	return s.LastCheckIn.AddDuration(s.HeartbeatInterval)
}

// IsExpired returns true if no check in happened within the heartbeat
// interval.
func (s *Switch) IsExpired(now heirloom.UnixTime) bool {
	return now > s.ExpiresAt()
}

// ClaimReady returns true if a claim is pending and its challenge period
// elapsed.
func (s *Switch) ClaimReady(now heirloom.UnixTime) bool {
	return s.Claim != nil && now >= s.Claim.ReadyAt
}

// PluginCondition returns the condition this extension uses to act on the
// wallet with given ID. The wallet must enable its address as a plug-in for
// claims to be finalized.
func PluginCondition(walletID []byte) heirloom.Condition {
	return heirloom.NewCondition("deadman", "wallet", walletID)
}

// Bucket stores switches under the wallet ID.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing switches.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Switch{}),
	}
}

// Load returns the switch of the wallet with given ID.
func (b Bucket) Load(db heirloom.ReadOnlyKVStore, walletID []byte) (*Switch, error) {
	var s Switch
	if err := b.One(db, walletID, &s); err != nil {
		return nil, errors.Wrapf(err, "switch of wallet %X", walletID)
	}
	return &s, nil
}
