package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/config"
	"github.com/router-for-me/WiFiVoucher/internal/metrics"
	"github.com/router-for-me/WiFiVoucher/internal/payment"
	"github.com/router-for-me/WiFiVoucher/internal/ratelimit"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cors []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		CORS:   cors,
		Cookie: config.CookieConfig{Name: config.DefaultCookieName},
		Token:  config.TokenConfig{Mode: config.TokenModeLegacy, TTL: time.Hour},
	}
	return NewEngine(Deps{
		Config:  cfg,
		Store:   newTestStore(t),
		Codec:   security.NewLegacyCodec(),
		Gateway: payment.NewStub(0, 1, nil),
		Limiter: ratelimit.NewManager(nil, nil, nil),
		Metrics: metrics.New(),
	})
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestNewEngine_WiresAllSurfaces(t *testing.T) {
	engine := newTestEngine(t, nil)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/api/vouchers/plans", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hourly Pass")

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestNewEngine_NoRoute(t *testing.T) {
	engine := newTestEngine(t, nil)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestNewEngine_CORS(t *testing.T) {
	engine := newTestEngine(t, []string{"https://portal.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(engine, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://portal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	assert.Nil(t, newCORS([]string{" ", ""}))
	assert.NotNil(t, newCORS([]string{"*"}))
}
