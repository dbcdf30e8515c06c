package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/config"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	log "github.com/sirupsen/logrus"
)

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	store  *store.Store
	codec  security.TokenCodec
	cookie config.CookieConfig
	ttl    time.Duration
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(s *store.Store, codec security.TokenCodec, cookie config.CookieConfig, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}
	if cookie.Name == "" {
		cookie.Name = config.DefaultCookieName
	}
	return &AuthHandler{store: s, codec: codec, cookie: cookie, ttl: ttl}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login verifies credentials, sets the session cookie and returns the token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	ctx := c.Request.Context()
	user := h.store.GetUserByEmail(ctx, email)
	if user == nil || !security.VerifyPassword(body.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if user.Status == models.UserStatusSuspended {
		c.JSON(http.StatusForbidden, gin.H{"message": "Account suspended"})
		return
	}

	token, errIssue := h.codec.Issue(security.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, h.ttl)
	if errIssue != nil {
		api.InternalError(c, "issue token", errIssue)
		return
	}

	if errTouch := h.store.TouchLastLogin(ctx, user.ID); errTouch != nil {
		log.WithError(errTouch).WithField("user_id", user.ID).Warn("update last login failed")
	}
	if errLog := h.store.LogActivity(ctx, store.NewActivity{
		UserID:  user.ID,
		Type:    models.ActivityUserLogin,
		Message: user.FullName + " logged in",
	}); errLog != nil {
		log.WithError(errLog).Warn("log login activity failed")
	}

	h.setSessionCookie(c, token, int(h.ttl/time.Second))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    publicUser(user),
	})
}

// Register creates a user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Full name, email, and password are required"})
		return
	}
	fullName := strings.TrimSpace(body.FullName)
	email := strings.TrimSpace(body.Email)
	if fullName == "" || email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Full name, email, and password are required"})
		return
	}

	ctx := c.Request.Context()
	if existing := h.store.GetUserByEmail(ctx, email); existing != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already exists"})
		return
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		api.InternalError(c, "hash password", errHash)
		return
	}
	user, errCreate := h.store.CreateUser(ctx, store.NewUser{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        body.Phone,
	})
	if errCreate != nil {
		api.InternalError(c, "create user", errCreate)
		return
	}

	token, errIssue := h.codec.Issue(security.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, h.ttl)
	if errIssue != nil {
		api.InternalError(c, "issue token", errIssue)
		return
	}
	if errLog := h.store.LogActivity(ctx, store.NewActivity{
		UserID:  user.ID,
		Type:    models.ActivityUserRegistered,
		Message: user.FullName + " registered",
	}); errLog != nil {
		log.WithError(errLog).Warn("log registration activity failed")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    publicUser(user),
	})
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, false)
}

func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"role":      u.Role,
	}
}
