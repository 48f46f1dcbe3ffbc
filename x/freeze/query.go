package freeze

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// Status describes the freeze state of a wallet at a given time.
type Status struct {
	WalletID  []byte                `protobuf:"bytes,1,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	Frozen    bool                  `protobuf:"varint,2,opt,name=frozen,proto3" json:"frozen,omitempty"`
	Remaining heirloom.UnixDuration `protobuf:"varint,3,opt,name=remaining,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"remaining,omitempty"`
	// UnfreezeTime is zero if the wallet was never frozen.
	UnfreezeTime heirloom.UnixTime `protobuf:"varint,4,opt,name=unfreeze_time,json=unfreezeTime,proto3,casttype=github.com/iov-one/heirloom.UnixTime" json:"unfreeze_time,omitempty"`
}

func (m *Status) Reset()         { *m = Status{} }
func (m *Status) String() string { return proto.CompactTextString(m) }
func (*Status) ProtoMessage()    {}

// Status returns the freeze state of given wallet.
func (g *Guard) Status(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, walletID []byte) (*Status, error) {
	e, err := g.entry(db, walletID)
	if err != nil {
		return nil, err
	}
	now := heirloom.Now(ctx)
	st := &Status{
		WalletID:  walletID,
		Frozen:    e.isFrozen(now),
		Remaining: remaining(e, now),
	}
	if e != nil {
		st.UnfreezeTime = e.FrozenUntil
	}
	return st, nil
}

// RegisterQuery will register the status lookup as "/freeze/status". The
// query data is the wallet ID. The state is computed for the block time of
// the query context.
func RegisterQuery(qr heirloom.QueryRouter, g *Guard) {
	qr.Register("/freeze/status", heirloom.QueryHandlerFunc(func(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, walletID []byte) ([]heirloom.Model, error) {
		if _, ok := heirloom.BlockTime(ctx); !ok {
			return nil, errors.Wrap(errors.ErrState, "block time required")
		}
		st, err := g.Status(ctx, db, walletID)
		if err != nil {
			return nil, err
		}
		raw, err := proto.Marshal(st)
		if err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		return []heirloom.Model{heirloom.Pair(walletID, raw)}, nil
	}))
}
