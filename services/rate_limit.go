package services

import (
	"fmt"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/baesapp/arcade_api/shared"
)

// RateLimitService applies per-client fixed-window quotas before a
// request reaches its handler. Keys combine the client IP with the
// endpoint class so a burst on one surface cannot starve another.
type RateLimitService struct {
	context.DefaultService

	config *ConfigService
	store  *RateLimitStore
}

type rateLimitPolicy struct {
	class       string
	maxRequests int
	windowMs    int64
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.store = NewRateLimitStore()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.config = svc.Service(CONFIG_SVC).(*ConfigService)
	return nil
}

func (svc *RateLimitService) Store() *RateLimitStore {
	return svc.store
}

// Middleware enforces the quota for the request's endpoint class.
func (svc *RateLimitService) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		// Static assets don't count against quotas. The auth routes are
		// exempt: abuse prevention there is the nonce and signature
		// checks, and a shared IP must not get locked out of sign-in.
		if strings.Contains(path, ".") || strings.HasPrefix(path, "/api/auth") {
			return c.Next()
		}

		policy := svc.policyFor(path)
		clientID := getClientID(c)
		key := clientID + ":" + policy.class

		result := svc.store.Check(key, policy.maxRequests, policy.windowMs)
		addRateLimitHeaders(c, result)

		if !result.Allowed {
			log.WithFields(log.Fields{
				"client": clientID,
				"class":  policy.class,
				"path":   path,
			}).Warn("Rate limit exceeded")
			recordRateLimitRejection(policy.class)

			c.Set("Retry-After", fmt.Sprintf("%d", result.ResetIn))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Too many requests",
				"message": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", result.ResetIn),
				"type":    policy.class,
				"limit":   result.Limit,
				"resetIn": result.ResetIn,
			})
		}

		return c.Next()
	}
}

func (svc *RateLimitService) policyFor(path string) rateLimitPolicy {
	switch {
	case strings.Contains(path, "/api/auth"):
		return rateLimitPolicy{class: shared.ClassAuth, maxRequests: 1000, windowMs: 60_000}
	case strings.Contains(path, "/comments"):
		return rateLimitPolicy{class: shared.ClassComments, maxRequests: 30, windowMs: 900_000}
	case strings.Contains(path, "/upload"):
		return rateLimitPolicy{class: shared.ClassUpload, maxRequests: 10, windowMs: 3_600_000}
	default:
		maxRequests, windowMs := svc.config.DefaultRateLimit()
		return rateLimitPolicy{class: shared.ClassDefault, maxRequests: maxRequests, windowMs: windowMs}
	}
}

// PeekClient reports the current window state for a client on every
// endpoint class without consuming quota.
func (svc *RateLimitService) PeekClient(clientID string) map[string]RateLimitResult {
	defMax, defWindow := svc.config.DefaultRateLimit()
	policies := []rateLimitPolicy{
		{shared.ClassAuth, 1000, 60_000},
		{shared.ClassComments, 30, 900_000},
		{shared.ClassUpload, 10, 3_600_000},
		{shared.ClassDefault, defMax, defWindow},
	}

	out := make(map[string]RateLimitResult, len(policies))
	for _, p := range policies {
		out[p.class] = svc.store.Peek(clientID+":"+p.class, p.maxRequests, p.windowMs)
	}
	return out
}

// ClearClient drops all quota windows for a client. Used by the admin
// surface to unblock a wedged IP.
func (svc *RateLimitService) ClearClient(clientID string) int {
	removed := svc.store.ClearClient(clientID)
	log.WithFields(log.Fields{
		"client":  clientID,
		"removed": removed,
	}).Info("Rate limit entries cleared")
	return removed
}

// getClientID resolves the caller identity for quota keying. Behind a
// proxy the first X-Forwarded-For hop is the real client; fall through
// to X-Real-IP and Cloudflare's header, then a shared "unknown" bucket.
func getClientID(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(c.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return "unknown"
}

func addRateLimitHeaders(c *fiber.Ctx, result RateLimitResult) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))
}
