package ghclient

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spiffcs/maintainer-dashboard/internal/constants"
	"github.com/spiffcs/maintainer-dashboard/internal/log"
)

// ErrRateLimited is returned when GitHub rejects a request for exceeding
// the rate limit.
var ErrRateLimited = errors.New("GitHub API rate limit exceeded")

// RateLimitState records the most recent rate limit headers seen.
type RateLimitState struct {
	mu        sync.RWMutex
	remaining int
	limit     int
	resetAt   time.Time
}

// Update stores the values from a response.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
}

// Status returns the last recorded values. limit is zero until a response
// carrying rate limit headers has been seen.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt
}

// rateLimitTransport records rate limit headers and turns rate limit
// rejections into ErrRateLimited. It never delays or blocks a request.
type rateLimitTransport struct {
	base  http.RoundTripper
	state *RateLimitState
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		t.state.Update(remaining, limit, resetAt)
		if remaining <= constants.RateLimitLowWatermark {
			log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0") {
		_ = resp.Body.Close()
		return nil, ErrRateLimited
	}

	return resp, nil
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// Missing values are reported as -1 (or the zero time).
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			remaining = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt = time.Unix(sec, 0)
		}
	}

	return remaining, limit, resetAt
}
