package deadman

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/gconf"
	"github.com/iov-one/heirloom/orm"
	"github.com/iov-one/heirloom/x/wallet"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ heirloom.Initializer = (*Initializer)(nil)

// FromGenesis stores the configuration found under "conf.deadman", if any,
// and every switch declared under "deadman". Wallets are referenced by their
// sequence number and must be loaded before. The beneficiary of a switch
// must not control its wallet.
func (*Initializer) FromGenesis(opts heirloom.Options, db heirloom.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, packageName, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}

	var switches []struct {
		Wallet            int64                 `json:"wallet"`
		Beneficiary       heirloom.Address      `json:"beneficiary"`
		HeartbeatInterval heirloom.UnixDuration `json:"heartbeat_interval"`
		ChallengePeriod   heirloom.UnixDuration `json:"challenge_period"`
		LastCheckIn       heirloom.UnixTime     `json:"last_check_in"`
	}
	if err := opts.ReadOptions("deadman", &switches); err != nil {
		return err
	}
	bounds, err := loadConf(db)
	if err != nil {
		return err
	}
	bucket := NewBucket()
	wallets := wallet.NewBucket()
	for i, s := range switches {
		if err := bounds.checkInterval(s.HeartbeatInterval); err != nil {
			return errors.Wrapf(err, "switch %d", i)
		}
		if err := bounds.checkPeriod(s.ChallengePeriod); err != nil {
			return errors.Wrapf(err, "switch %d", i)
		}
		walletID := orm.EncodeSequence(s.Wallet)
		w, err := wallets.Load(db, walletID)
		switch {
		case errors.ErrNotFound.Is(err):
			return errors.Wrapf(ErrInvalidParty, "switch %d: unknown wallet %d", i, s.Wallet)
		case err != nil:
			return errors.Wrapf(err, "switch %d", i)
		}
		if s.Beneficiary.IsZero() {
			return errors.Wrapf(ErrZeroAddress, "switch %d: beneficiary", i)
		}
		if w.HasController(s.Beneficiary) {
			return errors.Wrapf(ErrInvalidParty, "switch %d: beneficiary %s controls wallet %d", i, s.Beneficiary, s.Wallet)
		}
		sw := &Switch{
			Metadata:          &heirloom.Metadata{Schema: 1},
			WalletID:          walletID,
			Beneficiary:       s.Beneficiary,
			HeartbeatInterval: s.HeartbeatInterval,
			ChallengePeriod:   s.ChallengePeriod,
			LastCheckIn:       s.LastCheckIn,
		}
		if err := bucket.Has(db, walletID); err == nil {
			return errors.Wrapf(ErrAlreadyInitialized, "switch %d: wallet %X", i, walletID)
		}
		if _, err := bucket.Put(db, walletID, sw); err != nil {
			return errors.Wrapf(err, "switch %d", i)
		}
	}
	return nil
}
