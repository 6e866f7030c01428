package services

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// RateLimitResult describes the outcome of a single rate limit check.
// ResetTime is unix milliseconds; ResetIn is whole seconds, rounded up.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime int64
	ResetIn   int
}

type rateLimitEntry struct {
	count     int
	resetTime int64 // unix ms
}

// RateLimitStore is a fixed-window counter keyed by "clientID:class".
// Each window starts on the first request after the previous window
// expired; entries are swept opportunistically on ~1% of checks.
type RateLimitStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry

	now  func() time.Time
	rand func() float64
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
		rand:    rand.Float64,
	}
}

// Check counts a request against the window for key and reports whether
// it is allowed. A request that lands on an expired window starts a new
// one. The rejected request is not counted toward the next window.
func (s *RateLimitStore) Check(key string, maxRequests int, windowMs int64) RateLimitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := s.now().UnixMilli()

	if s.rand() < 0.01 {
		s.sweep(nowMs)
	}

	e, ok := s.entries[key]
	if !ok || nowMs > e.resetTime {
		e = &rateLimitEntry{count: 0, resetTime: nowMs + windowMs}
		s.entries[key] = e
	}

	e.count++

	remaining := maxRequests - e.count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   e.count <= maxRequests,
		Limit:     maxRequests,
		Remaining: remaining,
		ResetTime: e.resetTime,
		ResetIn:   ceilSeconds(e.resetTime - nowMs),
	}
}

// Peek reports the current window state for key without counting a
// request. A missing or expired window reads as a full quota.
func (s *RateLimitStore) Peek(key string, maxRequests int, windowMs int64) RateLimitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := s.now().UnixMilli()

	e, ok := s.entries[key]
	if !ok || nowMs > e.resetTime {
		return RateLimitResult{
			Allowed:   true,
			Limit:     maxRequests,
			Remaining: maxRequests,
			ResetTime: nowMs + windowMs,
			ResetIn:   ceilSeconds(windowMs),
		}
	}

	remaining := maxRequests - e.count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   e.count < maxRequests,
		Limit:     maxRequests,
		Remaining: remaining,
		ResetTime: e.resetTime,
		ResetIn:   ceilSeconds(e.resetTime - nowMs),
	}
}

// Clear removes the window for a single key.
func (s *RateLimitStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// ClearClient removes every window belonging to clientID across all
// endpoint classes. Returns the number of entries removed.
func (s *RateLimitStore) ClearClient(clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := clientID + ":"
	removed := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Stats reports live entry counts, bucketed by endpoint class.
func (s *RateLimitStore) Stats() (total int, clients int, byClass map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := s.now().UnixMilli()
	byClass = make(map[string]int)
	seen := make(map[string]struct{})

	for k, e := range s.entries {
		if nowMs > e.resetTime {
			continue
		}
		total++
		clientID, class := splitKey(k)
		seen[clientID] = struct{}{}
		byClass[class]++
	}
	return total, len(seen), byClass
}

// sweep drops expired entries. Caller must hold the mutex.
func (s *RateLimitStore) sweep(nowMs int64) {
	for k, e := range s.entries {
		if nowMs > e.resetTime {
			delete(s.entries, k)
		}
	}
}

func splitKey(key string) (clientID, class string) {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

func ceilSeconds(ms int64) int {
	if ms <= 0 {
		return 0
	}
	return int((ms + 999) / 1000)
}
