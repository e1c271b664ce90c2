package mvx

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = "413f42575f7f26fad3317a778771212fdb80245850981e48b58a4f25e344e8f9"

func TestEd25519Signer_SignTransaction(t *testing.T) {
	s, err := NewEd25519SignerFromHex(testSeed)
	require.NoError(t, err)
	require.Len(t, s.Address(), AddressLen)

	tx := &Transaction{Nonce: 1, Value: "0", Receiver: "r", Sender: s.Address().Bech32(), ChainID: "T", Version: 1}
	require.NoError(t, SignTransaction(s, tx))

	sig, err := hex.DecodeString(tx.Signature)
	require.NoError(t, err)

	msg, err := tx.SigningBytes()
	require.NoError(t, err)
	assert.NotContains(t, string(msg), "signature")
	assert.True(t, ed25519.Verify(ed25519.PublicKey(s.Address()), msg, sig))
}

func TestNewEd25519SignerFromHex_Invalid(t *testing.T) {
	_, err := NewEd25519SignerFromHex("zz")
	assert.Error(t, err)

	_, err = NewEd25519SignerFromHex(strings.Repeat("ab", 10))
	assert.Error(t, err)
}

func TestTransaction_DigestIgnoresSignature(t *testing.T) {
	tx := &Transaction{Nonce: 3, Value: "5", Data: []byte("x")}
	d1, err := tx.Digest()
	require.NoError(t, err)

	tx.Signature = "ff"
	d2, err := tx.Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}
