package services

import (
	goctx "context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/gofiber/fiber/v2"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spruceid/siwe-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/shared"
)

type fakeNonceStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeNonceStore() *fakeNonceStore {
	return &fakeNonceStore{entries: make(map[string]string)}
}

func (s *fakeNonceStore) Set(_ goctx.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *fakeNonceStore) GetDel(_ goctx.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.entries[key]
	delete(s.entries, key)
	return v, nil
}

type fakeIdentityProvider struct {
	provisioned []string
	err         error
}

func (p *fakeIdentityProvider) ProvisionWalletIdentity(_ goctx.Context, walletAddress string) (*SupabaseSession, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.provisioned = append(p.provisioned, walletAddress)
	return &SupabaseSession{AccessToken: "supa-token"}, nil
}

type signedLogin struct {
	address string
	request dto.SiweLoginRequest
}

func signLoginMessage(t *testing.T, domain, nonce string) signedLogin {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	msg, err := siwe.InitMessage(domain, address, "https://"+domain, nonce, map[string]interface{}{})
	require.NoError(t, err)

	raw := msg.String()
	sig, err := crypto.Sign(accounts.TextHash([]byte(raw)), key)
	require.NoError(t, err)
	sig[64] += 27

	return signedLogin{
		address: address,
		request: dto.SiweLoginRequest{
			Message:   raw,
			Signature: hexutil.Encode(sig),
		},
	}
}

func newTestAuthService(identity *fakeIdentityProvider, nonces *fakeNonceStore) *AuthService {
	return &AuthService{
		config:   &ConfigService{nextAuthURL: "https://arcade.example.com"},
		jwt:      newTestJWTService(),
		siwe:     &SiweService{},
		identity: identity,
		nonces:   nonces,
	}
}

func assertOpaqueRejection(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
	assert.Equal(t, "authentication failed", appErr.Message)
}

func TestLogin_Success(t *testing.T) {
	identity := &fakeIdentityProvider{}
	nonces := newFakeNonceStore()
	svc := newTestAuthService(identity, nonces)

	nonce, err := svc.Nonce(goctx.Background())
	require.NoError(t, err)

	login := signLoginMessage(t, "arcade.example.com", nonce)
	resp, err := svc.Login(goctx.Background(), &login.request)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	// Address is lowercased everywhere downstream.
	assert.Equal(t, strings.ToLower(login.address), resp.Address)
	require.Len(t, identity.provisioned, 1)
	assert.Equal(t, resp.Address, identity.provisioned[0])

	claims, err := svc.jwt.VerifySessionToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Address, claims.WalletAddress)
	assert.Equal(t, "supa-token", claims.SupabaseAccessToken)
}

func TestLogin_NonceIsSingleUse(t *testing.T) {
	identity := &fakeIdentityProvider{}
	nonces := newFakeNonceStore()
	svc := newTestAuthService(identity, nonces)

	nonce, err := svc.Nonce(goctx.Background())
	require.NoError(t, err)

	login := signLoginMessage(t, "arcade.example.com", nonce)
	_, err = svc.Login(goctx.Background(), &login.request)
	require.NoError(t, err)

	// Replaying the exact same signed message must fail.
	_, err = svc.Login(goctx.Background(), &login.request)
	assertOpaqueRejection(t, err)
}

func TestLogin_UnknownNonce(t *testing.T) {
	svc := newTestAuthService(&fakeIdentityProvider{}, newFakeNonceStore())

	login := signLoginMessage(t, "arcade.example.com", siwe.GenerateNonce())
	_, err := svc.Login(goctx.Background(), &login.request)
	assertOpaqueRejection(t, err)
}

func TestLogin_WrongDomain(t *testing.T) {
	nonces := newFakeNonceStore()
	svc := newTestAuthService(&fakeIdentityProvider{}, nonces)

	nonce, err := svc.Nonce(goctx.Background())
	require.NoError(t, err)

	login := signLoginMessage(t, "evil.example.com", nonce)
	_, err = svc.Login(goctx.Background(), &login.request)
	assertOpaqueRejection(t, err)
}

func TestLogin_BadSignature(t *testing.T) {
	nonces := newFakeNonceStore()
	svc := newTestAuthService(&fakeIdentityProvider{}, nonces)

	nonce, err := svc.Nonce(goctx.Background())
	require.NoError(t, err)

	login := signLoginMessage(t, "arcade.example.com", nonce)

	// Sign with a different key than the message's address.
	other := signLoginMessage(t, "arcade.example.com", nonce)
	login.request.Signature = other.request.Signature

	_, err = svc.Login(goctx.Background(), &login.request)
	assertOpaqueRejection(t, err)
}

func TestLogin_MalformedMessage(t *testing.T) {
	svc := newTestAuthService(&fakeIdentityProvider{}, newFakeNonceStore())

	_, err := svc.Login(goctx.Background(), &dto.SiweLoginRequest{
		Message:   "this is not a sign-in message",
		Signature: "0x00",
	})
	assertOpaqueRejection(t, err)
}

func TestLogin_ProvisioningFailureIsOpaque(t *testing.T) {
	nonces := newFakeNonceStore()
	svc := newTestAuthService(&fakeIdentityProvider{err: errors.New("gotrue down")}, nonces)

	nonce, err := svc.Nonce(goctx.Background())
	require.NoError(t, err)

	login := signLoginMessage(t, "arcade.example.com", nonce)
	_, err = svc.Login(goctx.Background(), &login.request)
	assertOpaqueRejection(t, err)
}

func TestLogin_NoDomainConfiguredSkipsCheck(t *testing.T) {
	nonces := newFakeNonceStore()
	svc := newTestAuthService(&fakeIdentityProvider{}, nonces)
	svc.config = &ConfigService{} // no NEXTAUTH_URL

	nonce, err := svc.Nonce(goctx.Background())
	require.NoError(t, err)

	login := signLoginMessage(t, "whatever.example.com", nonce)
	_, err = svc.Login(goctx.Background(), &login.request)
	assert.NoError(t, err)
}

func TestRequireAuthAndRequireAdmin(t *testing.T) {
	svc := newTestAuthService(&fakeIdentityProvider{}, newFakeNonceStore())
	svc.config = &ConfigService{adminAddresses: parseAdminAddresses("0xAdminAddr")}

	app := fiber.New()
	app.Get("/user", svc.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(shared.WalletAddress).(string))
	})
	app.Get("/admin", svc.RequireAuth(), svc.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// No token.
	resp, err := app.Test(httptest.NewRequest("GET", "/user", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	// Valid token, not an admin.
	userToken, err := svc.jwt.IssueSessionToken("0xuseraddr", "")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	// Admin passes regardless of address casing in the allow-list.
	adminToken, err := svc.jwt.IssueSessionToken("0xadminaddr", "")
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestSession(t *testing.T) {
	svc := newTestAuthService(&fakeIdentityProvider{}, newFakeNonceStore())
	svc.config = &ConfigService{adminAddresses: parseAdminAddresses("0xadmin")}

	resp := svc.Session(&SessionClaims{WalletAddress: "0xadmin", SupabaseAccessToken: "supa"})
	assert.True(t, resp.IsAdmin)
	assert.Equal(t, "supa", resp.SupabaseAccessToken)

	resp = svc.Session(&SessionClaims{WalletAddress: "0xuser"})
	assert.False(t, resp.IsAdmin)
}
