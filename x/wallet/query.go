package wallet

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// RegisterQuery will register the wallet lookup as "/wallets".
func RegisterQuery(qr heirloom.QueryRouter) {
	bucket := NewBucket()
	qr.Register("/wallets", heirloom.QueryHandlerFunc(func(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, id []byte) ([]heirloom.Model, error) {
		w, err := bucket.Load(db, id)
		if err != nil {
			if errors.ErrNotFound.Is(err) {
				return nil, nil
			}
			return nil, err
		}
		raw, err := proto.Marshal(w)
		if err != nil {
			return nil, errors.Wrap(err, "marshal")
		}
		return []heirloom.Model{heirloom.Pair(id, raw)}, nil
	}))
}
