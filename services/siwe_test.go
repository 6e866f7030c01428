package services

import (
	goctx "context"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spruceid/siwe-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage_Garbage(t *testing.T) {
	svc := &SiweService{}

	_, err := svc.ParseMessage("hello world")
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestVerifySignature_EOA(t *testing.T) {
	svc := &SiweService{}

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	msg, err := siwe.InitMessage("example.com", address, "https://example.com", siwe.GenerateNonce(), map[string]interface{}{})
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(msg.String())), key)
	require.NoError(t, err)
	sig[64] += 27

	err = svc.VerifySignature(goctx.Background(), msg, hexutil.Encode(sig))
	assert.NoError(t, err)
}

func TestVerifySignature_WrongSigner(t *testing.T) {
	svc := &SiweService{}

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	msg, err := siwe.InitMessage("example.com", address, "https://example.com", siwe.GenerateNonce(), map[string]interface{}{})
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(msg.String())), otherKey)
	require.NoError(t, err)
	sig[64] += 27

	// No RPC client, so no contract wallet fallback.
	err = svc.VerifySignature(goctx.Background(), msg, hexutil.Encode(sig))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestEncodeIsValidSignature(t *testing.T) {
	hash := make([]byte, 32)
	hash[31] = 0x7f
	sig := make([]byte, 65)

	data := encodeIsValidSignature(hash, sig)

	// selector + bytes32 + offset + length + padded signature
	assert.Equal(t, []byte{0x16, 0x26, 0xba, 0x7e}, data[:4])
	assert.Equal(t, byte(0x7f), data[4+31])
	assert.Equal(t, byte(0x40), data[4+32+31])
	assert.Equal(t, byte(65), data[4+64+31])
	assert.Len(t, data, 4+32+32+32+96) // 65 bytes padded to 96
}
