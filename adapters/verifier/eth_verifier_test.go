package verifier

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNonce = "4fa1c791f2251f6e2f249c6c68fcf5b4a0af490a46f22e3c3c50c96c9c54a9ec"

func signNonce(t *testing.T, key *ecdsa.PrivateKey, nonce string) string {
	t.Helper()
	messageBytes, err := hex.DecodeString(nonce)
	require.NoError(t, err)
	sig, err := crypto.Sign(accounts.TextHash(messageBytes), key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}

func TestVerifyRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	v := NewEthVerifier()
	assert.True(t, v.Verify(address, testNonce, signNonce(t, key, testNonce)))
}

func TestVerifyLegacyVValue(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	sig, err := base64.StdEncoding.DecodeString(signNonce(t, key, testNonce))
	require.NoError(t, err)
	sig[64] += 27 // wallet-style V encoding

	v := NewEthVerifier()
	assert.True(t, v.Verify(address, testNonce, base64.StdEncoding.EncodeToString(sig)))
}

func TestVerifyWrongKeypair(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	v := NewEthVerifier()
	assert.False(t, v.Verify(address, testNonce, signNonce(t, other, testNonce)))
}

func TestVerifyWrongMessage(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	otherNonce := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	v := NewEthVerifier()
	assert.False(t, v.Verify(address, otherNonce, signNonce(t, key, testNonce)))
}

func TestVerifyMalformedInputs(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	goodSig := signNonce(t, key, testNonce)

	v := NewEthVerifier()
	assert.False(t, v.Verify("not-an-address", testNonce, goodSig))
	assert.False(t, v.Verify(address, "zzz-not-hex", goodSig))
	assert.False(t, v.Verify(address, testNonce, "!!!not-base64!!!"))
	assert.False(t, v.Verify(address, testNonce, base64.StdEncoding.EncodeToString([]byte("short"))))
}
