package deadman

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// RegisterQuery will register the status lookup as "/deadman/status". The
// query data is the wallet ID.
func RegisterQuery(qr heirloom.QueryRouter, c *Controller) {
	qr.Register("/deadman/status", heirloom.QueryHandlerFunc(func(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, walletID []byte) ([]heirloom.Model, error) {
		st, err := c.Status(db, walletID)
		if err != nil {
			if errors.ErrNotFound.Is(err) {
				return nil, nil
			}
			return nil, err
		}
		raw, err := proto.Marshal(st)
		if err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		return []heirloom.Model{heirloom.Pair(walletID, raw)}, nil
	}))
}
