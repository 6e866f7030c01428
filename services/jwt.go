package services

import (
	"errors"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService mints and verifies the app's session tokens. A session
// token carries the wallet address plus the Supabase access token
// obtained during provisioning, so downstream calls can act as the
// bridged Supabase identity.
type JWTService struct {
	context.DefaultService

	config *ConfigService
	secret []byte
	ttl    time.Duration
}

type SessionClaims struct {
	WalletAddress       string `json:"wallet_address"`
	SupabaseAccessToken string `json:"supabase_access_token,omitempty"`
	jwt.RegisteredClaims
}

const JWT_SVC = "jwt_svc"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

func (svc JWTService) Id() string {
	return JWT_SVC
}

func (svc *JWTService) Start() error {
	svc.config = svc.Service(CONFIG_SVC).(*ConfigService)
	svc.secret = []byte(svc.config.NextAuthSecret())
	svc.ttl = time.Duration(svc.config.SessionTTLHours()) * time.Hour
	return nil
}

func (svc *JWTService) SessionTTL() time.Duration {
	return svc.ttl
}

func (svc *JWTService) IssueSessionToken(walletAddress, supabaseAccessToken string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		WalletAddress:       walletAddress,
		SupabaseAccessToken: supabaseAccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   walletAddress,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(svc.ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(svc.secret)
}

func (svc *JWTService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return svc.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.WalletAddress == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractTokenFromHeader pulls the bearer token out of an
// Authorization header value.
func ExtractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
