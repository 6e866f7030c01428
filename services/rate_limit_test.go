package services

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimitApp(maxRequests int, windowMs int64) (*fiber.App, *RateLimitService) {
	svc := &RateLimitService{
		store: NewRateLimitStore(),
		config: &ConfigService{
			rateLimitMaxRequests: maxRequests,
			rateLimitWindowMs:    windowMs,
		},
	}
	svc.store.rand = func() float64 { return 1.0 }

	app := fiber.New()
	app.Use(svc.Middleware())
	app.All("/*", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, svc
}

func TestRateLimitMiddleware_Headers(t *testing.T) {
	app, _ := newTestRateLimitApp(5, 60_000)

	req := httptest.NewRequest("GET", "/api/v1/games", nil)
	req.Header.Set("X-Forwarded-For", "9.9.9.9")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", resp.Header.Get("X-RateLimit-Remaining"))

	reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, reset, time.Now().UnixMilli())
}

func TestRateLimitMiddleware_RejectsWith429(t *testing.T) {
	app, _ := newTestRateLimitApp(2, 60_000)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/v1/games", nil)
		req.Header.Set("X-Real-IP", "1.1.1.1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/v1/games", nil)
	req.Header.Set("X-Real-IP", "1.1.1.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRateLimitMiddleware_ClassIsolation(t *testing.T) {
	app, _ := newTestRateLimitApp(1, 60_000)

	req := httptest.NewRequest("GET", "/api/v1/games", nil)
	req.Header.Set("X-Real-IP", "2.2.2.2")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	// Default class is exhausted, comments class is not.
	req = httptest.NewRequest("GET", "/api/v1/games/foo/comments", nil)
	req.Header.Set("X-Real-IP", "2.2.2.2")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("X-RateLimit-Limit"))
}

func TestRateLimitMiddleware_StaticAssetsSkipped(t *testing.T) {
	app, svc := newTestRateLimitApp(1, 60_000)

	req := httptest.NewRequest("GET", "/favicon.ico", nil)
	req.Header.Set("X-Real-IP", "3.3.3.3")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))

	total, _, _ := svc.store.Stats()
	assert.Zero(t, total)
}

func TestRateLimitMiddleware_AuthRoutesExempt(t *testing.T) {
	app, svc := newTestRateLimitApp(1, 60_000)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.Header.Set("X-Real-IP", "4.4.4.4")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	total, _, _ := svc.store.Stats()
	assert.Zero(t, total)
}

func TestGetClientID(t *testing.T) {
	app := fiber.New()

	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = getClientID(c)
		return nil
	})

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"first forwarded hop wins", map[string]string{
			"X-Forwarded-For":  " 10.0.0.1 , 10.0.0.2",
			"X-Real-IP":        "11.0.0.1",
			"CF-Connecting-IP": "12.0.0.1",
		}, "10.0.0.1"},
		{"real ip fallback", map[string]string{
			"X-Real-IP":        "11.0.0.1",
			"CF-Connecting-IP": "12.0.0.1",
		}, "11.0.0.1"},
		{"cloudflare fallback", map[string]string{
			"CF-Connecting-IP": "12.0.0.1",
		}, "12.0.0.1"},
		{"no headers", map[string]string{}, "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPolicyFor(t *testing.T) {
	svc := &RateLimitService{
		config: &ConfigService{rateLimitMaxRequests: 100, rateLimitWindowMs: 900_000},
	}

	p := svc.policyFor("/api/auth/login")
	assert.Equal(t, "auth", p.class)
	assert.Equal(t, 1000, p.maxRequests)
	assert.Equal(t, int64(60_000), p.windowMs)

	p = svc.policyFor("/api/v1/games/snake/comments")
	assert.Equal(t, "comments", p.class)
	assert.Equal(t, 30, p.maxRequests)

	p = svc.policyFor("/api/v1/admin/upload")
	assert.Equal(t, "upload", p.class)
	assert.Equal(t, 10, p.maxRequests)

	p = svc.policyFor("/api/v1/games")
	assert.Equal(t, "default", p.class)
	assert.Equal(t, 100, p.maxRequests)
	assert.Equal(t, int64(900_000), p.windowMs)
}
