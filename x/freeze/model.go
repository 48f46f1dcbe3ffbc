package freeze

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/orm"
	"github.com/iov-one/heirloom/x/wallet"
)

// BucketName is where freeze entries are stored.
const BucketName = "freeze"

// Entry holds the freeze state of a single wallet. A wallet that was never
// frozen has no entry.
type Entry struct {
	Metadata    *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID    []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	FrozenUntil heirloom.UnixTime  `protobuf:"varint,3,opt,name=frozen_until,json=frozenUntil,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"frozen_until,omitempty"`
}

func (m *Entry) Reset()         { *m = Entry{} }
func (m *Entry) String() string { return proto.CompactTextString(m) }
func (*Entry) ProtoMessage()    {}

var _ orm.Model = (*Entry)(nil)

func (e *Entry) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := wallet.ValidateID(e.WalletID); err != nil {
		return err
	}
	if e.FrozenUntil <= 0 {
		return errors.Wrap(ErrInvalidFreezeTime, "frozen until must be set")
	}
	return nil
}

// isFrozen returns true if the entry blocks operations at given time.
func (e *Entry) isFrozen(now heirloom.UnixTime) bool {
	return e != nil && now < e.FrozenUntil
}

func newBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Entry{})
}
