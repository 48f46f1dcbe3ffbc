package wallet

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/orm"
)

const (
	// BucketName is where wallets are stored.
	BucketName = "wallet"
)

// Wallet is a set of controllers that collectively own it, together with the
// plug-ins allowed to act with wallet authority.
type Wallet struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Controllers are the addresses allowed to operate the wallet. Order
	// is significant, the first controller is the primary one.
	Controllers []heirloom.Address `protobuf:"bytes,2,rep,name=controllers,proto3" json:"controllers,omitempty"`
	// Plugins are addresses of conditions that may execute messages with
	// wallet authority.
	Plugins []heirloom.Address `protobuf:"bytes,3,rep,name=plugins,proto3" json:"plugins,omitempty"`
	// Guard enables consulting the guard for controller operations.
	Guard bool `protobuf:"varint,4,opt,name=guard,proto3" json:"guard,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet has unique, valid controllers and plug-ins.
func (w *Wallet) Validate() error {
	var errs error
	if err := w.Metadata.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "metadata"))
	}
	if err := validateAddresses(w.Controllers, "controller"); err != nil {
		errs = errors.Append(errs, err)
	}
	if len(w.Controllers) == 0 {
		errs = errors.Append(errs, errors.Wrap(ErrNoControllers, "at least one controller required"))
	}
	if err := validateAddresses(w.Plugins, "plugin"); err != nil {
		errs = errors.Append(errs, err)
	}
	return errs
}

func validateAddresses(addrs []heirloom.Address, name string) error {
	for i, a := range addrs {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "%s %d", name, i)
		}
		if indexOf(addrs[:i], a) >= 0 {
			return errors.Wrapf(ErrDuplicateController, "%s %s", name, a)
		}
	}
	return nil
}

func indexOf(addrs []heirloom.Address, a heirloom.Address) int {
	for i, x := range addrs {
		if x.Equals(a) {
			return i
		}
	}
	return -1
}

// HasController returns true if given address is one of the controllers.
func (w *Wallet) HasController(a heirloom.Address) bool {
	return indexOf(w.Controllers, a) >= 0
}

// HasPlugin returns true if given address is an enabled plug-in.
func (w *Wallet) HasPlugin(a heirloom.Address) bool {
	return indexOf(w.Plugins, a) >= 0
}

// Condition returns the condition that represents the authority of the
// wallet with given ID.
func Condition(walletID []byte) heirloom.Condition {
	return heirloom.NewCondition("wallet", "seq", walletID)
}

// Bucket stores wallets under an 8 byte sequence ID.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing wallets.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{},
			orm.WithIDSequence(orm.NewSequence(BucketName, "id"))),
	}
}

// Load returns the wallet with given ID.
func (b Bucket) Load(db heirloom.ReadOnlyKVStore, walletID []byte) (*Wallet, error) {
	var w Wallet
	if err := b.One(db, walletID, &w); err != nil {
		return nil, errors.Wrapf(err, "wallet %X", walletID)
	}
	return &w, nil
}
