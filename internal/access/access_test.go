package access

import (
	"testing"
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/security"
)

func issue(t *testing.T, codec security.TokenCodec, role string, ttl time.Duration) string {
	t.Helper()
	token, err := codec.Issue(security.Claims{UserID: "u-1", Email: "u@example.com", Role: role}, ttl)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestDecide(t *testing.T) {
	codec := security.NewLegacyCodec()
	userToken := issue(t, codec, "user", time.Hour)
	adminToken := issue(t, codec, "admin", time.Hour)
	expired := issue(t, codec, "admin", -time.Minute)

	cases := []struct {
		name  string
		token string
		need  Requirement
		want  Outcome
	}{
		{"public anonymous", "", Public, Allow},
		{"public garbage token", "%%%", Public, Allow},
		{"auth missing", "", Authenticated, Unauthenticated},
		{"auth garbage", "not-base64!", Authenticated, InvalidToken},
		{"auth expired", expired, Authenticated, InvalidToken},
		{"auth user", userToken, Authenticated, Allow},
		{"admin missing", "", Admin, Unauthenticated},
		{"admin as user", userToken, Admin, Forbidden},
		{"admin as admin", adminToken, Admin, Allow},
	}
	for _, tc := range cases {
		got := Decide(tc.token, codec, tc.need)
		if got.Outcome != tc.want {
			t.Fatalf("%s: expected %s, got %s (err=%v)", tc.name, tc.want, got.Outcome, got.Err)
		}
	}
}

func TestDecide_ClaimsExposed(t *testing.T) {
	codec := security.NewLegacyCodec()
	d := Decide(issue(t, codec, "user", time.Hour), codec, Authenticated)
	if !d.Allowed() || d.Claims.UserID != "u-1" || d.Claims.Role != "user" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecide_NilCodec(t *testing.T) {
	if d := Decide("abc", nil, Authenticated); d.Outcome != InvalidToken {
		t.Fatalf("expected invalid token without codec, got %s", d.Outcome)
	}
}

func TestRequirementForPath(t *testing.T) {
	cases := map[string]Requirement{
		"/":            Public,
		"/login":       Public,
		"/register":    Public,
		"/dashboard":   Authenticated,
		"/purchase":    Authenticated,
		"/admin":       Admin,
		"/admin/users": Admin,
		"/administer":  Authenticated,
	}
	for path, want := range cases {
		if got := RequirementForPath(path); got != want {
			t.Fatalf("RequirementForPath(%q)=%d, want %d", path, got, want)
		}
	}
}

func TestSkipPageGate(t *testing.T) {
	for _, p := range []string{"/api/auth/login", "/assets/app.js", "/favicon.ico"} {
		if !SkipPageGate(p) {
			t.Fatalf("expected %q to skip the page gate", p)
		}
	}
	for _, p := range []string{"/", "/dashboard", "/admin", "/apiary"} {
		if SkipPageGate(p) {
			t.Fatalf("expected %q to pass through the page gate", p)
		}
	}
}
