package sigs

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// NextNonce returns the next sequence value that should be used when signing
// a transaction with the key of given address.
func NextNonce(db heirloom.ReadOnlyKVStore, signer heirloom.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		// If not yet present, counting starts with zero.
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
