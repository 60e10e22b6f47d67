package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/backend/internal/handler"
)

func TestGetHealth(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{}), http.MethodGet, "/healthz", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestGetOpenAPI(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{}), http.MethodGet, "/openapi.yaml", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi:")
	assert.Contains(t, rec.Body.String(), "/reservations/book")
}
