package freeze

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/orm"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ heirloom.Initializer = (*Initializer)(nil)

// FromGenesis stores the freeze entries declared under "freeze". Wallets are
// referenced by their sequence number.
func (*Initializer) FromGenesis(opts heirloom.Options, db heirloom.KVStore) error {
	var entries []struct {
		Wallet      int64             `json:"wallet"`
		FrozenUntil heirloom.UnixTime `json:"frozen_until"`
	}
	if err := opts.ReadOptions("freeze", &entries); err != nil {
		return err
	}
	bucket := newBucket()
	for i, e := range entries {
		walletID := orm.EncodeSequence(e.Wallet)
		entry := &Entry{
			Metadata:    &heirloom.Metadata{Schema: 1},
			WalletID:    walletID,
			FrozenUntil: e.FrozenUntil,
		}
		if _, err := bucket.Put(db, walletID, entry); err != nil {
			return errors.Wrapf(err, "freeze %d", i)
		}
	}
	return nil
}
