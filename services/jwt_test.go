package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return &JWTService{
		secret: []byte("test-secret"),
		ttl:    time.Hour,
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.IssueSessionToken("0xabc123", "supabase-token")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", claims.WalletAddress)
	assert.Equal(t, "supabase-token", claims.SupabaseAccessToken)
	assert.Equal(t, "0xabc123", claims.Subject)
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.IssueSessionToken("0xabc123", "")
	require.NoError(t, err)

	other := &JWTService{secret: []byte("different"), ttl: time.Hour}
	_, err = other.VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionToken_Expired(t *testing.T) {
	svc := &JWTService{secret: []byte("test-secret"), ttl: -time.Minute}
	token, err := svc.IssueSessionToken("0xabc123", "")
	require.NoError(t, err)

	_, err = svc.VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifySessionToken_Garbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.VerifySessionToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("abc"))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
}
