package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/router-for-me/WiFiVoucher/internal/analytics"
	dbutil "github.com/router-for-me/WiFiVoucher/internal/db"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"gorm.io/gorm"
)

// NewUser holds the fields supplied at registration.
type NewUser struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         string
}

// ListUsers returns users newest first. A non-empty search matches name,
// email or phone case-insensitively.
func (s *Store) ListUsers(ctx context.Context, search string) []models.User {
	if !s.ready() {
		return nil
	}
	q := s.read(ctx).Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		clause, args := dbutil.ContainsAny(s.db, search, "full_name", "email", "phone")
		q = q.Where(clause, args...)
	}
	var rows []models.User
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		logReadError("list users", errFind)
		return nil
	}
	return rows
}

// GetUserByEmail looks a user up by email, ignoring case and surrounding space.
func (s *Store) GetUserByEmail(ctx context.Context, email string) *models.User {
	email = strings.ToLower(strings.TrimSpace(email))
	if !s.ready() || email == "" {
		return nil
	}
	return s.takeUser(ctx, "get user by email", "email = ?", email)
}

// GetUserByID looks a user up by primary key.
func (s *Store) GetUserByID(ctx context.Context, id string) *models.User {
	id = strings.TrimSpace(id)
	if !s.ready() || id == "" {
		return nil
	}
	return s.takeUser(ctx, "get user by id", "id = ?", id)
}

func (s *Store) takeUser(ctx context.Context, op, query string, arg any) *models.User {
	var user models.User
	if errTake := s.read(ctx).Where(query, arg).Take(&user).Error; errTake != nil {
		if !errors.Is(errTake, gorm.ErrRecordNotFound) {
			logReadError(op, errTake)
		}
		return nil
	}
	return &user
}

// CreateUser inserts a new account. Role defaults to user and status to active.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	if !s.ready() {
		return nil, ErrNotInitialized
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: in.PasswordHash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		Status:       models.UserStatusActive,
		CreatedAt:    s.now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		return nil, fmt.Errorf("store: create user: %w", errCreate)
	}
	return &user, nil
}

// TouchLastLogin stamps the user's last successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	if !s.ready() {
		return ErrNotInitialized
	}
	now := s.now().UTC()
	if errUpdate := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", now).Error; errUpdate != nil {
		return fmt.Errorf("store: touch last login: %w", errUpdate)
	}
	return nil
}

// SetUserStatus suspends or reactivates an account. It reports false when
// no user has the given id.
func (s *Store) SetUserStatus(ctx context.Context, id, status string) (bool, error) {
	if !s.ready() {
		return false, ErrNotInitialized
	}
	if status != models.UserStatusActive && status != models.UserStatusSuspended {
		return false, fmt.Errorf("store: invalid user status %q", status)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("store: set user status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// HasAdmin reports whether any administrator account exists.
func (s *Store) HasAdmin(ctx context.Context) (bool, error) {
	if !s.ready() {
		return false, ErrNotInitialized
	}
	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; errCount != nil {
		return false, fmt.Errorf("store: count admins: %w", errCount)
	}
	return count > 0, nil
}

func (s *Store) usersByID(ctx context.Context, ids []string) analytics.UserIndex {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return analytics.UserIndex{}
	}
	var rows []models.User
	if errFind := s.read(ctx).Where("id IN ?", ids).Find(&rows).Error; errFind != nil {
		logReadError("load users", errFind)
		return analytics.UserIndex{}
	}
	return analytics.IndexUsers(rows)
}
