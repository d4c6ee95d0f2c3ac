package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket(t *testing.T) {
	t.Parallel()

	tb := NewTokenBucket(3, 1)
	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "request %d within capacity", i)
	}
	assert.False(t, tb.Allow(), "bucket exhausted")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	handler := RateLimit(2, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, do("1.2.3.4:1111"))
	assert.Equal(t, http.StatusOK, do("1.2.3.4:2222")) // same IP, different port
	assert.Equal(t, http.StatusTooManyRequests, do("1.2.3.4:3333"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, do("5.6.7.8:1111"))
}
