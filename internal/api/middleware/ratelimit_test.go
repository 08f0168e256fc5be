package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhq/backend/internal/api/middleware"
	"github.com/communityhq/backend/internal/auth"
	"github.com/communityhq/backend/internal/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinQuota(t *testing.T) {
	limiter := ratelimit.New(3, time.Minute)
	handler := middleware.RateLimit(limiter, auth.CodeRateLimitExceeded)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimit_RejectsOverQuota(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	handler := middleware.RateLimit(limiter, auth.CodeAuthRateLimitExceeded)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, auth.CodeAuthRateLimitExceeded, errorCode(t, w))

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
}

func TestRateLimit_KeysByClientAddress(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	handler := middleware.RateLimit(limiter, auth.CodeRateLimitExceeded)(okHandler())

	reqA := httptest.NewRequest(http.MethodGet, "/", nil)
	reqA.RemoteAddr = "10.0.0.1:1111"
	handler.ServeHTTP(httptest.NewRecorder(), reqA)

	// Same address, different port: same bucket.
	reqA2 := httptest.NewRequest(http.MethodGet, "/", nil)
	reqA2.RemoteAddr = "10.0.0.1:2222"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, reqA2)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Different address: fresh bucket.
	reqB := httptest.NewRequest(http.MethodGet, "/", nil)
	reqB.RemoteAddr = "10.0.0.2:1111"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, reqB)
	assert.Equal(t, http.StatusOK, w.Code)
}
