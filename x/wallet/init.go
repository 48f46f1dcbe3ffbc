package wallet

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ heirloom.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial wallets from genesis and save them to the
// database. Wallets receive sequence IDs in the declaration order.
func (*Initializer) FromGenesis(opts heirloom.Options, db heirloom.KVStore) error {
	var wallets []struct {
		Controllers []heirloom.Address `json:"controllers"`
		Plugins     []heirloom.Address `json:"plugins"`
		Guard       bool               `json:"guard"`
	}
	if err := opts.ReadOptions("wallets", &wallets); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, w := range wallets {
		wallet := &Wallet{
			Metadata:    &heirloom.Metadata{Schema: 1},
			Controllers: w.Controllers,
			Plugins:     w.Plugins,
			Guard:       w.Guard,
		}
		if _, err := bucket.Put(db, nil, wallet); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
	}
	return nil
}
