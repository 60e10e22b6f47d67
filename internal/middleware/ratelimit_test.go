package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/travel-booking/backend/internal/middleware"
)

func TestRateLimiter_PerIPBurst(t *testing.T) {
	h := middleware.NewRateLimiter(0.001, 2)(trivialHandler)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5002"), "burst exhausted, port ignored")
	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"), "other IPs have their own bucket")
	assert.Equal(t, http.StatusOK, send("10.0.0.3"), "RealIP may leave no port")
}
