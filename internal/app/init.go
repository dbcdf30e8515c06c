package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/router-for-me/WiFiVoucher/internal/config"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	log "github.com/sirupsen/logrus"
)

// minAdminPasswordLength is the shortest bootstrap password accepted.
const minAdminPasswordLength = 6

// EnsureBootstrapAdmin creates the configured administrator when no admin
// account exists yet. It is a no-op when the admin email is unset.
func EnsureBootstrapAdmin(ctx context.Context, s *store.Store, cfg config.AdminConfig) error {
	if s == nil {
		return fmt.Errorf("bootstrap admin: %w", store.ErrNotInitialized)
	}
	initialized, errInit := s.HasAdmin(ctx)
	if errInit != nil {
		return fmt.Errorf("bootstrap admin: check admin status: %w", errInit)
	}
	if initialized {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" {
		log.Warn("no administrator exists; set ADMIN_EMAIL and ADMIN_PASSWORD to create one")
		return nil
	}
	if len(cfg.Password) < minAdminPasswordLength {
		return fmt.Errorf("bootstrap admin: password must be at least %d characters", minAdminPasswordLength)
	}
	if existing := s.GetUserByEmail(ctx, email); existing != nil {
		return fmt.Errorf("bootstrap admin: %s already exists as a non-admin user", email)
	}

	hashedPassword, errHash := security.HashPassword(cfg.Password)
	if errHash != nil {
		return fmt.Errorf("bootstrap admin: hash password: %w", errHash)
	}
	fullName := strings.TrimSpace(cfg.FullName)
	if fullName == "" {
		fullName = config.DefaultAdminFullName
	}
	admin, errCreate := s.CreateUser(ctx, store.NewUser{
		Email:        email,
		PasswordHash: hashedPassword,
		FullName:     fullName,
		Role:         models.RoleAdmin,
	})
	if errCreate != nil {
		return fmt.Errorf("bootstrap admin: %w", errCreate)
	}
	log.WithField("email", admin.Email).Info("bootstrap administrator created")
	return nil
}
