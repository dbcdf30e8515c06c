package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/router-for-me/WiFiVoucher/internal/analytics"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"gorm.io/datatypes"
)

// ActivityFeedLimit caps the admin activity feed.
const ActivityFeedLimit = 20

// NewActivity is one entry appended to the activity feed.
type NewActivity struct {
	UserID   string
	Type     string
	Message  string
	Metadata map[string]any
}

// LogActivity appends an entry to the activity feed.
func (s *Store) LogActivity(ctx context.Context, in NewActivity) error {
	if !s.ready() {
		return ErrNotInitialized
	}
	item := models.ActivityItem{
		Type:      in.Type,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}
	if in.UserID != "" {
		userID := in.UserID
		item.UserID = &userID
	}
	if len(in.Metadata) > 0 {
		raw, errMarshal := json.Marshal(in.Metadata)
		if errMarshal != nil {
			return fmt.Errorf("store: marshal activity metadata: %w", errMarshal)
		}
		item.Metadata = datatypes.JSON(raw)
	}
	if errCreate := s.db.WithContext(ctx).Create(&item).Error; errCreate != nil {
		return fmt.Errorf("store: log activity: %w", errCreate)
	}
	return nil
}

// ListActivityFeed returns the latest activity with actor names.
func (s *Store) ListActivityFeed(ctx context.Context) []analytics.ActivityView {
	if !s.ready() {
		return nil
	}
	var rows []models.ActivityItem
	if errFind := s.read(ctx).
		Order("created_at DESC").
		Limit(ActivityFeedLimit).
		Find(&rows).Error; errFind != nil {
		logReadError("list activity feed", errFind)
		return nil
	}
	userIDs := make([]string, 0, len(rows))
	for _, item := range rows {
		if item.UserID != nil {
			userIDs = append(userIDs, *item.UserID)
		}
	}
	return analytics.DenormalizeActivity(rows, s.usersByID(ctx, userIDs))
}

// ListSystemAlerts returns alerts that have not been dismissed, newest first.
func (s *Store) ListSystemAlerts(ctx context.Context) []models.SystemAlert {
	if !s.ready() {
		return nil
	}
	var rows []models.SystemAlert
	if errFind := s.read(ctx).
		Where("is_dismissed = ?", false).
		Order("created_at DESC").
		Find(&rows).Error; errFind != nil {
		logReadError("list system alerts", errFind)
		return nil
	}
	return rows
}

// DismissAlert hides an alert. It reports false when no open alert has the given id.
func (s *Store) DismissAlert(ctx context.Context, id string) (bool, error) {
	if !s.ready() {
		return false, ErrNotInitialized
	}
	res := s.db.WithContext(ctx).Model(&models.SystemAlert{}).
		Where("id = ? AND is_dismissed = ?", id, false).
		Update("is_dismissed", true)
	if res.Error != nil {
		return false, fmt.Errorf("store: dismiss alert: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
