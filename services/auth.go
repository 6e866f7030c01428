package services

import (
	goctx "context"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spruceid/siwe-go"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/shared"
)

// AuthService runs the wallet sign-in flow: nonce issuance, message
// validation, signature verification and Supabase provisioning, then
// session token issuance. Every rejection surfaces to the caller as
// the same opaque 401; the real reason is only logged.
type AuthService struct {
	context.DefaultService

	config *ConfigService
	jwt    *JWTService

	siwe     siweVerifier
	identity identityProvider
	nonces   nonceStore
}

// Collaborator seams, concrete services by default.
type siweVerifier interface {
	ParseMessage(raw string) (*siwe.Message, error)
	VerifySignature(ctx goctx.Context, msg *siwe.Message, signature string) error
}

type identityProvider interface {
	ProvisionWalletIdentity(ctx goctx.Context, walletAddress string) (*SupabaseSession, error)
}

type nonceStore interface {
	Set(ctx goctx.Context, key, value string, ttl time.Duration) error
	GetDel(ctx goctx.Context, key string) (string, error)
}

const AUTH_SVC = "auth_svc"

const nonceTTL = 10 * time.Minute

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	svc.config = svc.Service(CONFIG_SVC).(*ConfigService)
	svc.jwt = svc.Service(JWT_SVC).(*JWTService)
	if svc.siwe == nil {
		svc.siwe = svc.Service(SIWE_SVC).(*SiweService)
	}
	if svc.identity == nil {
		svc.identity = svc.Service(SUPABASE_SVC).(*SupabaseService)
	}
	if svc.nonces == nil {
		svc.nonces = svc.Service(REDIS_SVC).(*RedisService)
	}
	return nil
}

// Nonce issues a fresh single-use nonce for the next sign-in attempt.
func (svc *AuthService) Nonce(ctx goctx.Context) (string, error) {
	nonce := GenerateNonce()
	if err := svc.nonces.Set(ctx, nonceKey(nonce), "1", nonceTTL); err != nil {
		return "", err
	}
	return nonce, nil
}

// Login validates a signed sign-in message end to end and returns a
// session token. All failures map to shared.NewUnauthorizedError with
// the same message so callers cannot probe which stage rejected them.
func (svc *AuthService) Login(ctx goctx.Context, req *dto.SiweLoginRequest) (*dto.LoginResponse, error) {
	msg, err := svc.siwe.ParseMessage(req.Message)
	if err != nil {
		return nil, svc.reject("parse", "", err)
	}

	address := strings.ToLower(msg.GetAddress().Hex())

	if host := svc.config.Host(); host != "" && msg.GetDomain() != host {
		return nil, svc.reject("domain", address, nil)
	}

	consumed, err := svc.nonces.GetDel(ctx, nonceKey(msg.GetNonce()))
	if err != nil {
		return nil, svc.reject("nonce_store", address, err)
	}
	if consumed == "" {
		return nil, svc.reject("nonce", address, nil)
	}

	if err := svc.siwe.VerifySignature(ctx, msg, req.Signature); err != nil {
		return nil, svc.reject("signature", address, err)
	}

	session, err := svc.identity.ProvisionWalletIdentity(ctx, address)
	if err != nil {
		return nil, svc.reject("provision", address, err)
	}

	token, err := svc.jwt.IssueSessionToken(address, session.AccessToken)
	if err != nil {
		return nil, svc.reject("issue", address, err)
	}

	RecordWalletSignin("success")
	log.WithField("address", address).Info("Wallet signed in")
	return &dto.LoginResponse{
		Token:     token,
		Address:   address,
		ExpiresIn: int64(svc.jwt.SessionTTL().Seconds()),
	}, nil
}

// Session resolves the claims of a verified session token into the
// caller-visible view.
func (svc *AuthService) Session(claims *SessionClaims) *dto.SessionResponse {
	return &dto.SessionResponse{
		Address:             claims.WalletAddress,
		SupabaseAccessToken: claims.SupabaseAccessToken,
		IsAdmin:             svc.config.IsAuthorizedAdmin(claims.WalletAddress),
	}
}

// RequireAuth verifies the bearer token and stashes the wallet address
// and Supabase token in request locals.
func (svc *AuthService) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractTokenFromHeader(c.Get("Authorization"))
		if token == "" {
			return shared.ResponseUnauthorized(c, "authentication required")
		}

		claims, err := svc.jwt.VerifySessionToken(token)
		if err != nil {
			return shared.ResponseUnauthorized(c, "authentication required")
		}

		c.Locals(shared.WalletAddress, claims.WalletAddress)
		c.Locals(shared.SupabaseAccessToken, claims.SupabaseAccessToken)
		return c.Next()
	}
}

// RequireAdmin gates a route on the admin allow-list. Must run after
// RequireAuth. Membership is re-checked on every request so allow-list
// changes apply without re-login.
func (svc *AuthService) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		address, _ := c.Locals(shared.WalletAddress).(string)
		if !svc.config.IsAuthorizedAdmin(address) {
			log.WithField("address", address).Warn("Admin access denied")
			return shared.ResponseForbidden(c, "admin access required")
		}
		return c.Next()
	}
}

func (svc *AuthService) reject(stage, address string, err error) error {
	RecordWalletSignin(stage)
	log.WithFields(log.Fields{
		"stage":   stage,
		"address": address,
	}).WithError(err).Warn("Sign-in rejected")
	return shared.NewUnauthorizedError(err, "authentication failed")
}

func nonceKey(nonce string) string {
	return "siwe:nonce:" + nonce
}
