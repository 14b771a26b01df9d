package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-service/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(RequestLogger(logger))
	router.Post("/api/orders", okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/orders", entry["path"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
	assert.Greater(t, entry["bytes"], 0.0)
}

func TestRequestLogger_ServerErrorLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusInternalServerError, "boom")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
}

func TestNewCORS(t *testing.T) {
	testCases := []struct {
		name            string
		cfg             config.CORSConfig
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{"wildcard accepts any origin", config.CORSConfig{AllowedOrigins: []string{"*"}}, "http://localhost:5500", "*", ""},
		{"wildcard with credentials echoes origin", config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}, "http://localhost:5500", "http://localhost:5500", "true"},
		{"listed origin echoed", config.CORSConfig{AllowedOrigins: []string{"https://cuerar.com.ar"}, AllowCredentials: true}, "https://cuerar.com.ar", "https://cuerar.com.ar", "true"},
		{"unlisted origin refused", config.CORSConfig{AllowedOrigins: []string{"https://cuerar.com.ar"}}, "https://evil.example", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCORS(tc.cfg).Handler(http.HandlerFunc(okHandler))

			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.wantCredentials, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestNewCORS_CredentialsNeverPairedWithWildcard(t *testing.T) {
	handler := NewCORS(config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}).Handler(http.HandlerFunc(okHandler))

	for _, origin := range []string{"http://localhost:5500", "https://cuerar.com.ar"} {
		req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	}
}

func TestNewCORS_Preflight(t *testing.T) {
	handler := NewCORS(config.CORSConfig{AllowedOrigins: []string{"*"}}).Handler(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(1, 2)(http.HandlerFunc(okHandler))

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, do("10.0.0.1:1111"))
	assert.Equal(t, http.StatusCreated, do("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:3333"), "burst exhausted for the same host")
	assert.Equal(t, http.StatusCreated, do("10.0.0.2:1111"), "other clients have their own bucket")
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := RateLimit(0, 0)(http.HandlerFunc(okHandler))
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", nil))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestClientLimiter_ExpiresIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cl := newClientLimiter(1, 1)
	cl.now = func() time.Time { return now }

	assert.True(t, cl.allow("a"))
	assert.False(t, cl.allow("a"))
	assert.Len(t, cl.clients, 1)

	now = now.Add(10 * time.Minute)
	assert.True(t, cl.allow("b"))
	assert.Len(t, cl.clients, 1, "idle client a should have been swept")
	assert.True(t, cl.allow("a"), "a starts with a fresh bucket")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:53211"
	assert.Equal(t, "192.168.1.10", clientKey(req))

	req.RemoteAddr = "192.168.1.10"
	assert.Equal(t, "192.168.1.10", clientKey(req))
}
