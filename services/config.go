package services

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// ConfigService loads and validates process configuration from the
// environment at startup. Other services read their settings through it
// instead of calling os.Getenv directly.
type ConfigService struct {
	context.DefaultService

	nextAuthSecret string
	nextAuthURL    string

	supabaseURL            string
	supabaseAnonKey        string
	supabaseServiceRoleKey string

	adminAddresses map[string]struct{}

	rateLimitMaxRequests int
	rateLimitWindowMs    int64

	maxFileSizeMB    int64
	allowedFileTypes []string

	ethRPCURL       string
	sessionTTLHours int
}

const CONFIG_SVC = "config_svc"

func (svc ConfigService) Id() string {
	return CONFIG_SVC
}

func (svc *ConfigService) Configure(ctx *context.Context) error {
	svc.nextAuthSecret = os.Getenv("NEXTAUTH_SECRET")
	svc.nextAuthURL = os.Getenv("NEXTAUTH_URL")
	svc.supabaseURL = strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	svc.supabaseAnonKey = os.Getenv("SUPABASE_ANON_KEY")
	svc.supabaseServiceRoleKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	svc.ethRPCURL = os.Getenv("ETH_RPC_URL")

	missing := make([]string, 0)
	if svc.nextAuthSecret == "" {
		missing = append(missing, "NEXTAUTH_SECRET")
	}
	if svc.supabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if svc.supabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if svc.supabaseServiceRoleKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	svc.adminAddresses = parseAdminAddresses(os.Getenv("AUTHORIZED_ADMIN_ADDRESSES"))

	svc.rateLimitMaxRequests = envInt("RATE_LIMIT_MAX_REQUESTS", 100)
	svc.rateLimitWindowMs = envInt64("RATE_LIMIT_WINDOW_MS", 900_000)
	svc.maxFileSizeMB = envInt64("MAX_FILE_SIZE_MB", 10)
	svc.sessionTTLHours = envInt("SESSION_TTL_HOURS", 24)

	fileTypes := os.Getenv("ALLOWED_FILE_TYPES")
	if fileTypes == "" {
		fileTypes = "jpg,jpeg,png,gif,webp"
	}
	for _, t := range strings.Split(fileTypes, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			svc.allowedFileTypes = append(svc.allowedFileTypes, t)
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *ConfigService) Start() error {
	log.WithFields(log.Fields{
		"admins":        len(svc.adminAddresses),
		"rl_max":        svc.rateLimitMaxRequests,
		"rl_window_ms":  svc.rateLimitWindowMs,
		"max_upload_mb": svc.maxFileSizeMB,
	}).Info("Configuration loaded")
	return nil
}

func (svc *ConfigService) NextAuthSecret() string {
	return svc.nextAuthSecret
}

func (svc *ConfigService) SupabaseURL() string {
	return svc.supabaseURL
}

func (svc *ConfigService) SupabaseAnonKey() string {
	return svc.supabaseAnonKey
}

func (svc *ConfigService) SupabaseServiceRoleKey() string {
	return svc.supabaseServiceRoleKey
}

func (svc *ConfigService) EthRPCURL() string {
	return svc.ethRPCURL
}

func (svc *ConfigService) SessionTTLHours() int {
	return svc.sessionTTLHours
}

func (svc *ConfigService) DefaultRateLimit() (maxRequests int, windowMs int64) {
	return svc.rateLimitMaxRequests, svc.rateLimitWindowMs
}

func (svc *ConfigService) MaxFileSizeBytes() int64 {
	return svc.maxFileSizeMB * 1024 * 1024
}

func (svc *ConfigService) AllowedFileTypes() []string {
	return svc.allowedFileTypes
}

// IsAuthorizedAdmin reports whether the wallet address is on the admin
// allow-list. Comparison is case-insensitive.
func (svc *ConfigService) IsAuthorizedAdmin(address string) bool {
	if address == "" {
		return false
	}
	_, ok := svc.adminAddresses[strings.ToLower(address)]
	return ok
}

// Host returns the hostname of NEXTAUTH_URL, used to validate the
// domain bound into sign-in messages. Empty when NEXTAUTH_URL is unset,
// in which case domain validation is skipped.
func (svc *ConfigService) Host() string {
	if svc.nextAuthURL == "" {
		return ""
	}
	u, err := url.Parse(svc.nextAuthURL)
	if err != nil {
		log.WithError(err).Warn("Invalid NEXTAUTH_URL, skipping domain validation")
		return ""
	}
	return u.Host
}

func parseAdminAddresses(raw string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, addr := range strings.Split(raw, ",") {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr != "" {
			out[addr] = struct{}{}
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.WithField("key", key).Warn("Invalid integer env value, using default")
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.WithField("key", key).Warn("Invalid integer env value, using default")
		return fallback
	}
	return n
}
