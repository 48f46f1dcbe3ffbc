package sigs

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/crypto"
	"github.com/iov-one/heirloom/errors"
)

// signPrefix separates heirloom signatures from signatures made with the
// same key for any other purpose. The last byte is the format version.
var signPrefix = []byte("heirloom-tx\x00\x01")

// VerifyTxSignatures checks every signature of the transaction and
// increments the sequence of each signer. It returns the conditions of all
// signers, possibly none.
func VerifyTxSignatures(db heirloom.KVStore, tx SignedTx, chainID string) ([]heirloom.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]heirloom.Condition, len(sigs))
	for i, sig := range sigs {
		if signers[i], err = VerifySignature(db, sig, raw, chainID); err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
	}
	return signers, nil
}

// VerifySignature checks a single signature of signBytes. The sequence of
// the signer is incremented on success, so the same signature cannot be
// replayed.
func VerifySignature(db heirloom.KVStore, sig *StdSignature, signBytes []byte, chainID string) (heirloom.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "invalid signature of %s", sig.Pubkey.Address())
	}

	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, user); err != nil {
		return nil, err
	}
	return sig.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is signed. The digest covers
//
//   prefix | len(chainID) uint8 | chainID | sequence uint64 BE | signBytes
//
// so a signature is valid for one chain and one sequence only.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !heirloom.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}

	var buf bytes.Buffer
	buf.Grow(len(signPrefix) + 1 + len(chainID) + 8 + len(signBytes))
	buf.Write(signPrefix)
	buf.WriteByte(uint8(len(chainID)))
	buf.WriteString(chainID)
	_ = binary.Write(&buf, binary.BigEndian, uint64(seq))
	buf.Write(signBytes)

	digest := sha512.Sum512(buf.Bytes())
	return digest[:], nil
}

// SignTx signs the transaction for given chain, using seq as the expected
// sequence of the signer.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	digest, err := BuildSignBytes(raw, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
