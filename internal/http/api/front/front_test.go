package front

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/config"
	"github.com/router-for-me/WiFiVoucher/internal/db"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/payment"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	result payment.Result
	calls  []payment.Request
}

func (g *fakeGateway) Process(_ context.Context, req payment.Request) (payment.Result, error) {
	g.calls = append(g.calls, req)
	return g.result, nil
}

type testServer struct {
	router  *gin.Engine
	store   *store.Store
	conn    *gorm.DB
	codec   security.TokenCodec
	gateway *fakeGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "front-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(conn) })
	require.NoError(t, db.Migrate(conn))

	s := store.New(conn, store.WithLocation(time.UTC))
	codec := security.NewLegacyCodec()
	gateway := &fakeGateway{result: payment.Result{Success: true, TransactionID: "TXN42", Message: "Payment processed successfully", Currency: "TZS"}}
	r := gin.New()
	RegisterFrontRoutes(r, Deps{
		Store:   s,
		Codec:   codec,
		Gateway: gateway,
		Cookie:  config.CookieConfig{Name: config.DefaultCookieName},
		TTL:     24 * time.Hour,
	})
	return &testServer{router: r, store: s, conn: conn, codec: codec, gateway: gateway}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (ts *testServer) register(t *testing.T, email string) (string, string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"fullName": "Neema Said",
		"email":    email,
		"password": "s3cret-pass",
		"phone":    "0712345678",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "x@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Full name, email, and password are required", decode(t, rec)["message"])

	userID, _ := ts.register(t, "neema@example.com")

	rec = ts.do(t, http.MethodPost, "/api/auth/register", map[string]string{"fullName": "N", "email": "NEEMA@example.com", "password": "p"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already exists", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "neema@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and password are required", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "neema@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "neema@example.com", "password": "s3cret-pass"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, userID, body["user"].(map[string]any)["id"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, config.DefaultCookieName, cookies[0].Name)
	assert.Equal(t, 86400, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Equal(t, "/", cookies[0].Path)

	claims, err := ts.codec.Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	user := ts.store.GetUserByID(context.Background(), userID)
	require.NotNil(t, user)
	assert.NotNil(t, user.LastLogin)
}

func TestLogin_BypassLiteralAndSuspended(t *testing.T) {
	ts := newTestServer(t)
	userID, _ := ts.register(t, "bypass@example.com")

	rec := ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "bypass@example.com", "password": "password"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := ts.store.SetUserStatus(context.Background(), userID, models.UserStatusSuspended)
	require.NoError(t, err)
	rec = ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "bypass@example.com", "password": "s3cret-pass"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Account suspended", decode(t, rec)["message"])
}

func TestLogout_ExpiresCookie(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/user/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodGet, "/api/user/profile", nil, "garbage!")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decode(t, rec)["message"])

	userID, token := ts.register(t, "profile@example.com")
	rec = ts.do(t, http.MethodGet, "/api/user/profile", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	_, hasHash := user["password_hash"]
	assert.False(t, hasHash)

	ghost, err := ts.codec.Issue(security.Claims{UserID: "00000000-0000-0000-0000-000000000000", Role: "user"}, time.Hour)
	require.NoError(t, err)
	rec = ts.do(t, http.MethodGet, "/api/user/profile", nil, ghost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode(t, rec)["message"])
}

func TestPlansArePublic(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/vouchers/plans", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	plans := decode(t, rec)["plans"].([]any)
	assert.Len(t, plans, len(db.DefaultPlans()))
}

func firstPlanID(t *testing.T, ts *testServer) (string, float64) {
	t.Helper()
	plans := ts.store.ListVoucherPlans(context.Background())
	require.NotEmpty(t, plans)
	return plans[0].ID, plans[0].Price
}

func TestPurchase_Success(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.register(t, "buyer@example.com")
	planID, price := firstPlanID(t, ts)

	rec := ts.do(t, http.MethodPost, "/api/vouchers/purchase", map[string]string{
		"planId":        planID,
		"paymentMethod": "mpesa",
		"phoneNumber":   "+254712345678",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Voucher purchased successfully", body["message"])
	assert.Equal(t, "TXN42", body["transactionId"])
	issued := body["voucher"].(map[string]any)
	assert.Len(t, issued["code"], 12)

	require.Len(t, ts.gateway.calls, 1)
	assert.Equal(t, price, ts.gateway.calls[0].Amount)
	assert.Regexp(t, `^voucher-\d+$`, ts.gateway.calls[0].Reference)

	var payments []models.Payment
	require.NoError(t, ts.conn.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)
	require.NotNil(t, payments[0].VoucherID)
	assert.Equal(t, issued["id"], *payments[0].VoucherID)

	rec = ts.do(t, http.MethodGet, "/api/vouchers/my-vouchers", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	vouchers := decode(t, rec)["vouchers"].([]any)
	require.Len(t, vouchers, 1)
	mine := vouchers[0].(map[string]any)
	assert.Equal(t, userID, mine["user_id"])
	assert.Equal(t, "unused", mine["status"])

	rec = ts.do(t, http.MethodGet, "/api/vouchers/"+issued["id"].(string)+"/qr", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestPurchase_Validation(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "validate@example.com")
	planID, _ := firstPlanID(t, ts)

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing plan", map[string]string{"paymentMethod": "card"}, "Invalid plan selected"},
		{"unknown plan", map[string]string{"planId": "nope", "paymentMethod": "card"}, "Invalid plan selected"},
		{"bad method", map[string]string{"planId": planID, "paymentMethod": "cash"}, "Invalid payment method"},
		{"bad phone", map[string]string{"planId": planID, "paymentMethod": "mpesa", "phoneNumber": "12345"}, "Invalid phone number"},
	}
	for _, tc := range cases {
		rec := ts.do(t, http.MethodPost, "/api/vouchers/purchase", tc.body, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
		assert.Equal(t, tc.want, decode(t, rec)["message"], tc.name)
	}
	assert.Empty(t, ts.gateway.calls)
}

func TestPurchase_PaymentDeclined(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "declined@example.com")
	planID, _ := firstPlanID(t, ts)
	ts.gateway.result = payment.Result{Success: false, Message: "Payment failed. Please try again.", Currency: "TZS"}

	rec := ts.do(t, http.MethodPost, "/api/vouchers/purchase", map[string]string{"planId": planID, "paymentMethod": "card"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Payment failed. Please try again.", decode(t, rec)["message"])

	var vouchers int64
	ts.conn.Model(&models.Voucher{}).Count(&vouchers)
	assert.Equal(t, int64(0), vouchers)

	var payments []models.Payment
	require.NoError(t, ts.conn.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusFailed, payments[0].Status)
	assert.Nil(t, payments[0].VoucherID)
}

func TestQRCode_OtherUsersVoucherIsHidden(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.register(t, "owner@example.com")
	_, otherToken := ts.register(t, "other@example.com")
	planID, _ := firstPlanID(t, ts)

	rec := ts.do(t, http.MethodPost, "/api/vouchers/purchase", map[string]string{"planId": planID, "paymentMethod": "card"}, ownerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	voucherID := decode(t, rec)["voucher"].(map[string]any)["id"].(string)

	rec = ts.do(t, http.MethodGet, "/api/vouchers/"+voucherID+"/qr", nil, otherToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Voucher not found", decode(t, rec)["message"])
}
