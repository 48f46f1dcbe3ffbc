package deadman

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x/wallet"
)

// Status is a read only snapshot of a switch.
type Status struct {
	WalletID []byte `protobuf:"bytes,1,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	// Controller is the primary controller of the wallet, the one that is
	// replaced when a claim is finalized.
	Controller        heirloom.Address      `protobuf:"bytes,2,opt,name=controller,proto3" json:"controller,omitempty"`
	Beneficiary       heirloom.Address      `protobuf:"bytes,3,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	LastCheckIn       heirloom.UnixTime     `protobuf:"varint,4,opt,name=last_check_in,json=lastCheckIn,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"last_check_in,omitempty"`
	HeartbeatInterval heirloom.UnixDuration `protobuf:"varint,5,opt,name=heartbeat_interval,json=heartbeatInterval,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"heartbeat_interval,omitempty"`
	ChallengePeriod   heirloom.UnixDuration `protobuf:"varint,6,opt,name=challenge_period,json=challengePeriod,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"challenge_period,omitempty"`
	// Claim is nil unless a claim is in progress.
	Claim *PendingClaim `protobuf:"bytes,7,opt,name=claim,proto3" json:"claim,omitempty"`
	// ExpiresAt is the heartbeat expiration. A claim can be started
	// after this time.
	ExpiresAt heirloom.UnixTime `protobuf:"varint,8,opt,name=expires_at,json=expiresAt,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"expires_at,omitempty"`
}

func (m *Status) Reset()         { *m = Status{} }
func (m *Status) String() string { return proto.CompactTextString(m) }
func (*Status) ProtoMessage()    {}

// Controller gives read access to switches.
type Controller struct {
	bucket  Bucket
	wallets wallet.Controller
}

// NewController returns a controller reading wallet controllers using given
// wallet controller.
func NewController(wallets wallet.Controller) *Controller {
	return &Controller{
		bucket:  NewBucket(),
		wallets: wallets,
	}
}

// Switch returns the switch protecting given wallet.
func (c *Controller) Switch(db heirloom.ReadOnlyKVStore, walletID []byte) (*Switch, error) {
	return c.bucket.Load(db, walletID)
}

// Status returns a snapshot of the switch protecting given wallet.
func (c *Controller) Status(db heirloom.ReadOnlyKVStore, walletID []byte) (*Status, error) {
	s, err := c.bucket.Load(db, walletID)
	if err != nil {
		return nil, err
	}
	controllers, err := c.wallets.Controllers(db, walletID)
	if err != nil {
		return nil, errors.Wrap(err, "wallet controllers")
	}
	st := &Status{
		WalletID:          s.WalletID,
		Beneficiary:       s.Beneficiary,
		LastCheckIn:       s.LastCheckIn,
		HeartbeatInterval: s.HeartbeatInterval,
		ChallengePeriod:   s.ChallengePeriod,
		Claim:             s.Claim,
		ExpiresAt:         s.ExpiresAt(),
	}
	if len(controllers) != 0 {
		st.Controller = controllers[0]
	}
	return st, nil
}
