package heirloomtest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a signature condition of a new random key.
func NewCondition() heirloom.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns an ID encoded as it would be by the orm sequence.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) heirloom.Address {
	t.Helper()
	raw := make([]byte, heirloom.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return heirloom.Address(raw)
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) heirloom.Address {
	t.Helper()

	addr, err := heirloom.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
