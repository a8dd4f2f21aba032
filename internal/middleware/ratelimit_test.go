package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubCounter struct {
	hits map[string]int64
	err  error
}

func (c *stubCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if c.err != nil {
		return 0, 0, c.err
	}
	c.hits[key]++
	return c.hits[key], 42 * time.Second, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimit(t *testing.T) {
	counter := &stubCounter{hits: map[string]int64{}}
	h := RateLimit(counter, "login", 2, time.Minute, zap.NewNop())(okHandler())

	post := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, post("10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusNoContent, post("10.0.0.1:5001").Code)
	rec := post("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, post("10.0.0.2:5000").Code, "limits are per client address")
	assert.Equal(t, int64(3), counter.hits["login:10.0.0.1"])

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "10.0.0.1:5003"
	getRec := httptest.NewRecorder()
	h.ServeHTTP(getRec, req)
	assert.Equal(t, http.StatusNoContent, getRec.Code, "reads are never limited")
}

func TestRateLimitFailsOpen(t *testing.T) {
	counter := &stubCounter{err: errors.New("redis down")}
	h := RateLimit(counter, "login", 1, time.Minute, zap.NewNop())(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := Logging(zap.NewNop())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitZeroDisables(t *testing.T) {
	counter := &stubCounter{hits: map[string]int64{}}
	h := RateLimit(counter, "login", 0, time.Minute, zap.NewNop())(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	assert.Empty(t, counter.hits)
}
