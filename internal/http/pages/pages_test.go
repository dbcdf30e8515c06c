package pages

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/security"
)

const testCookie = "auth-token"

func newPageRouter(t *testing.T) (*gin.Engine, security.TokenCodec) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	codec := security.NewLegacyCodec()
	r := gin.New()
	RegisterPageRoutes(r, codec, testCookie)
	r.GET("/api/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r, codec
}

func issue(t *testing.T, codec security.TokenCodec, role string) string {
	t.Helper()
	token, err := codec.Issue(security.Claims{UserID: "u-1", Email: "someone@example.com", Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGate_PublicPages(t *testing.T) {
	r, _ := newPageRouter(t)
	for _, path := range []string{"/", "/login", "/register"} {
		rec := get(r, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
	rec := get(r, "/login", "garbage")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public page to ignore a bad token, got %d", rec.Code)
	}
}

func TestGate_RedirectsAnonymousToLogin(t *testing.T) {
	r, _ := newPageRouter(t)
	for _, path := range []string{"/dashboard", "/admin"} {
		rec := get(r, path, "")
		if rec.Code != http.StatusFound {
			t.Fatalf("GET %s: expected 302, got %d", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Fatalf("GET %s: expected redirect to /login, got %q", path, loc)
		}
	}
	rec := get(r, "/dashboard", "bm90LWpzb24=")
	if rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected invalid token to redirect to /login, got %q", rec.Header().Get("Location"))
	}
}

func TestGate_NonAdminRedirectedToDashboard(t *testing.T) {
	r, codec := newPageRouter(t)
	token := issue(t, codec, models.RoleUser)

	rec := get(r, "/admin", token)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	rec = get(r, "/dashboard", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected dashboard for signed-in user, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "someone@example.com") {
		t.Fatalf("expected signed-in email in page")
	}
}

func TestAdminPagePollsDashboardStats(t *testing.T) {
	r, codec := newPageRouter(t)
	rec := get(r, "/admin", issue(t, codec, models.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/api/admin/dashboard-stats") {
		t.Fatalf("expected admin page to fetch dashboard stats")
	}
	if !strings.Contains(body, "30000") {
		t.Fatalf("expected 30s polling interval in page")
	}
}

func TestGate_SkipsAPIAndFavicon(t *testing.T) {
	r, _ := newPageRouter(t)
	if rec := get(r, "/api/ping", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected api path to bypass the page gate, got %d", rec.Code)
	}
	if rec := get(r, "/favicon.ico", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected favicon 204, got %d", rec.Code)
	}
}
