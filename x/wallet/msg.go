package wallet

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

const (
	pathCreateWallet   = "wallet/create"
	pathSwapController = "wallet/swap_controller"
	pathSetPlugin      = "wallet/set_plugin"
	pathSetGuard       = "wallet/set_guard"
)

// CreateWalletMsg creates a new wallet. It must be signed by at least one of
// the declared controllers.
type CreateWalletMsg struct {
	Metadata    *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Controllers []heirloom.Address `protobuf:"bytes,2,rep,name=controllers,proto3" json:"controllers,omitempty"`
	Plugins     []heirloom.Address `protobuf:"bytes,3,rep,name=plugins,proto3" json:"plugins,omitempty"`
	Guard       bool               `protobuf:"varint,4,opt,name=guard,proto3" json:"guard,omitempty"`
}

func (m *CreateWalletMsg) Reset()         { *m = CreateWalletMsg{} }
func (m *CreateWalletMsg) String() string { return proto.CompactTextString(m) }
func (*CreateWalletMsg) ProtoMessage()    {}

// SwapControllerMsg replaces one controller of the wallet with another
// address. Requires wallet authority.
type SwapControllerMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	Old      heirloom.Address   `protobuf:"bytes,3,opt,name=old,proto3" json:"old,omitempty"`
	New      heirloom.Address   `protobuf:"bytes,4,opt,name=new,proto3" json:"new,omitempty"`
}

func (m *SwapControllerMsg) Reset()         { *m = SwapControllerMsg{} }
func (m *SwapControllerMsg) String() string { return proto.CompactTextString(m) }
func (*SwapControllerMsg) ProtoMessage()    {}

// SetPluginMsg enables or disables a plug-in. Requires wallet authority.
type SetPluginMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	Plugin   heirloom.Address   `protobuf:"bytes,3,opt,name=plugin,proto3" json:"plugin,omitempty"`
	Enabled  bool               `protobuf:"varint,4,opt,name=enabled,proto3" json:"enabled,omitempty"`
}

func (m *SetPluginMsg) Reset()         { *m = SetPluginMsg{} }
func (m *SetPluginMsg) String() string { return proto.CompactTextString(m) }
func (*SetPluginMsg) ProtoMessage()    {}

// SetGuardMsg enables or disables consulting the guard. Requires wallet
// authority.
type SetGuardMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	WalletID []byte             `protobuf:"bytes,2,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	Enabled  bool               `protobuf:"varint,3,opt,name=enabled,proto3" json:"enabled,omitempty"`
}

func (m *SetGuardMsg) Reset()         { *m = SetGuardMsg{} }
func (m *SetGuardMsg) String() string { return proto.CompactTextString(m) }
func (*SetGuardMsg) ProtoMessage()    {}

var _ heirloom.Msg = (*CreateWalletMsg)(nil)
var _ heirloom.Msg = (*SwapControllerMsg)(nil)
var _ heirloom.Msg = (*SetPluginMsg)(nil)
var _ heirloom.Msg = (*SetGuardMsg)(nil)

func (CreateWalletMsg) Path() string {
	return pathCreateWallet
}

func (SwapControllerMsg) Path() string {
	return pathSwapController
}

func (SetPluginMsg) Path() string {
	return pathSetPlugin
}

func (SetGuardMsg) Path() string {
	return pathSetGuard
}

func (m *CreateWalletMsg) Validate() error {
	w := Wallet{
		Metadata:    m.Metadata,
		Controllers: m.Controllers,
		Plugins:     m.Plugins,
		Guard:       m.Guard,
	}
	return w.Validate()
}

func (m *SwapControllerMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := ValidateID(m.WalletID); err != nil {
		return err
	}
	if err := m.Old.Validate(); err != nil {
		return errors.Wrap(err, "old")
	}
	if err := m.New.Validate(); err != nil {
		return errors.Wrap(err, "new")
	}
	if m.Old.Equals(m.New) {
		return errors.Wrap(errors.ErrInput, "old and new controller are the same")
	}
	return nil
}

func (m *SetPluginMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := ValidateID(m.WalletID); err != nil {
		return err
	}
	if err := m.Plugin.Validate(); err != nil {
		return errors.Wrap(err, "plugin")
	}
	return nil
}

func (m *SetGuardMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return ValidateID(m.WalletID)
}

// ValidateID returns an error if given value is not a wallet ID.
func ValidateID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet ID")
	}
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "wallet ID must be 8 bytes, got %d", len(id))
	}
	return nil
}
