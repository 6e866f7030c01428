package services

import (
	"bytes"
	goctx "context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// SupabaseService bridges wallet identities onto Supabase auth. Each
// wallet maps deterministically to a GoTrue user: email
// "<address>@wallet.local" with the lowercased address as password.
// The password never leaves the backend, so the account is only
// reachable through a verified signature.
type SupabaseService struct {
	context.DefaultService

	config *ConfigService
	client *http.Client
}

type SupabaseSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type supabaseError struct {
	Code    string `json:"error_code"`
	Message string `json:"msg"`
	ErrDesc string `json:"error_description"`
	Err     string `json:"error"`
}

const SUPABASE_SVC = "supabase_svc"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

func (svc SupabaseService) Id() string {
	return SUPABASE_SVC
}

func (svc *SupabaseService) Start() error {
	svc.config = svc.Service(CONFIG_SVC).(*ConfigService)
	svc.client = &http.Client{Timeout: 10 * time.Second}
	return nil
}

// ProvisionWalletIdentity signs the wallet's deterministic account in,
// lazily creating it on first use. An "already exists" conflict during
// creation counts as success; the final sign-in settles it either way.
func (svc *SupabaseService) ProvisionWalletIdentity(ctx goctx.Context, walletAddress string) (*SupabaseSession, error) {
	email, password := walletCredentials(walletAddress)

	session, err := svc.SignInWithPassword(ctx, email, password)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return nil, err
	}

	if err := svc.CreateUser(ctx, email, password); err != nil && !errors.Is(err, ErrUserExists) {
		return nil, err
	}

	return svc.SignInWithPassword(ctx, email, password)
}

// SignInWithPassword runs the GoTrue password grant with the anon key.
func (svc *SupabaseService) SignInWithPassword(ctx goctx.Context, email, password string) (*SupabaseSession, error) {
	body, status, err := svc.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password",
		svc.config.SupabaseAnonKey(),
		map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("supabase sign-in: %s", errorMessage(body, status))
	}

	var session SupabaseSession
	if err := sonic.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode supabase session: %w", err)
	}
	if session.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}
	return &session, nil
}

// CreateUser provisions a pre-confirmed GoTrue user with the service
// role key.
func (svc *SupabaseService) CreateUser(ctx goctx.Context, email, password string) error {
	body, status, err := svc.do(ctx, http.MethodPost, "/auth/v1/admin/users",
		svc.config.SupabaseServiceRoleKey(),
		map[string]interface{}{
			"email":         email,
			"password":      password,
			"email_confirm": true,
		})
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return nil
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return ErrUserExists
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(errorMessage(body, status)), "already"):
		return ErrUserExists
	default:
		return fmt.Errorf("supabase create user: %s", errorMessage(body, status))
	}
}

func (svc *SupabaseService) do(ctx goctx.Context, method, path, apiKey string, payload interface{}) ([]byte, int, error) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, svc.config.SupabaseURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apiKey)
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := svc.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func errorMessage(body []byte, status int) string {
	var e supabaseError
	if err := sonic.Unmarshal(body, &e); err == nil {
		for _, m := range []string{e.Message, e.ErrDesc, e.Err, e.Code} {
			if m != "" {
				return m
			}
		}
	}
	log.WithField("status", status).Debug("Unparseable supabase error body")
	return fmt.Sprintf("status %d", status)
}

func walletCredentials(walletAddress string) (email, password string) {
	addr := strings.ToLower(walletAddress)
	return addr + "@wallet.local", addr
}
