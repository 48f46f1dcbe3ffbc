package freeze

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x/wallet"
)

// FreezeMsg freezes the wallet until given time. It must be executed with
// the wallet authority.
type FreezeMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	Until    heirloom.UnixTime  `protobuf:"varint,3,opt,name=until,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"until,omitempty"`
}

func (m *FreezeMsg) Reset()         { *m = FreezeMsg{} }
func (m *FreezeMsg) String() string { return proto.CompactTextString(m) }
func (*FreezeMsg) ProtoMessage()    {}

var _ heirloom.Msg = (*FreezeMsg)(nil)

func (FreezeMsg) Path() string {
	return "freeze/freeze"
}

func (m *FreezeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := wallet.ValidateID(m.WalletID); err != nil {
		return err
	}
	if m.Until <= 0 {
		return errors.Wrap(ErrInvalidFreezeTime, "until must be set")
	}
	return nil
}
