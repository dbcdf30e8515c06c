package store

import (
	"context"
	"fmt"
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/analytics"
	"github.com/router-for-me/WiFiVoucher/internal/models"
)

// ListActiveSessions returns connected sessions, most recent start first.
func (s *Store) ListActiveSessions(ctx context.Context) []analytics.SessionView {
	if !s.ready() {
		return nil
	}
	var rows []models.Session
	if errFind := s.read(ctx).
		Where("is_active = ?", true).
		Order("session_start DESC").
		Find(&rows).Error; errFind != nil {
		logReadError("list active sessions", errFind)
		return nil
	}
	userIDs := make([]string, 0, len(rows))
	voucherIDs := make([]string, 0, len(rows))
	for _, sess := range rows {
		userIDs = append(userIDs, sess.UserID)
		voucherIDs = append(voucherIDs, sess.VoucherID)
	}
	vouchers := s.vouchersByID(ctx, voucherIDs)
	planIDs := make([]string, 0, len(vouchers))
	for _, v := range vouchers {
		planIDs = append(planIDs, v.PlanID)
	}
	return analytics.DenormalizeSessions(rows, s.usersByID(ctx, userIDs), vouchers, s.plansByID(ctx, planIDs))
}

// CloseSession marks an active session as ended. It reports false when no
// active session has the given id.
func (s *Store) CloseSession(ctx context.Context, id string) (bool, error) {
	if !s.ready() {
		return false, ErrNotInitialized
	}
	now := s.now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":   false,
			"session_end": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("store: close session: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) activeSessionStarts(ctx context.Context) []time.Time {
	var starts []time.Time
	if errPluck := s.read(ctx).Model(&models.Session{}).
		Where("is_active = ?", true).
		Pluck("session_start", &starts).Error; errPluck != nil {
		logReadError("peak usage", errPluck)
		return nil
	}
	return starts
}
