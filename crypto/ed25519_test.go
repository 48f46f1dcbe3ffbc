package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	msg := []byte("check in")

	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()

	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("start claim"), sig))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
	assert.False(t, pub.Verify(msg, nil))
	assert.False(t, (&PublicKey{Ed25519: []byte{1, 2}}).Verify(msg, sig))
}

func TestDeterministicKeys(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	cond := a.PublicKey().Condition()
	require.NoError(t, cond.Validate())
	assert.Equal(t, a.PublicKey().Address(), cond.Address())
	assert.Equal(t, ExtensionName+"/ed25519/", cond.String()[:len(ExtensionName)+9])
}
