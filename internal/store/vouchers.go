package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/router-for-me/WiFiVoucher/internal/analytics"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"gorm.io/gorm"
)

// ListVoucherPlans returns the plans on sale, cheapest first.
func (s *Store) ListVoucherPlans(ctx context.Context) []models.VoucherPlan {
	if !s.ready() {
		return nil
	}
	var rows []models.VoucherPlan
	if errFind := s.publicDB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&rows).Error; errFind != nil {
		logReadError("list voucher plans", errFind)
		return nil
	}
	return rows
}

// GetVoucherPlan returns an active plan by id.
func (s *Store) GetVoucherPlan(ctx context.Context, id string) *models.VoucherPlan {
	id = strings.TrimSpace(id)
	if !s.ready() || id == "" {
		return nil
	}
	var plan models.VoucherPlan
	if errTake := s.publicDB.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		Take(&plan).Error; errTake != nil {
		if !errors.Is(errTake, gorm.ErrRecordNotFound) {
			logReadError("get voucher plan", errTake)
		}
		return nil
	}
	return &plan
}

// CreateVoucher issues an unused voucher. Later status changes belong to
// the metering side and are never written here.
func (s *Store) CreateVoucher(ctx context.Context, code, planID, userID string) (*models.Voucher, error) {
	if !s.ready() {
		return nil, ErrNotInitialized
	}
	voucher := models.Voucher{
		Code:      code,
		PlanID:    planID,
		UserID:    userID,
		Status:    models.VoucherStatusUnused,
		CreatedAt: s.now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&voucher).Error; errCreate != nil {
		return nil, fmt.Errorf("store: create voucher: %w", errCreate)
	}
	return &voucher, nil
}

// ListVouchers returns every voucher with plan and owner details, newest first.
func (s *Store) ListVouchers(ctx context.Context) []analytics.VoucherView {
	if !s.ready() {
		return nil
	}
	var rows []models.Voucher
	if errFind := s.read(ctx).Order("created_at DESC").Find(&rows).Error; errFind != nil {
		logReadError("list vouchers", errFind)
		return nil
	}
	planIDs := make([]string, 0, len(rows))
	userIDs := make([]string, 0, len(rows))
	for _, v := range rows {
		planIDs = append(planIDs, v.PlanID)
		userIDs = append(userIDs, v.UserID)
	}
	return analytics.DenormalizeVouchers(rows, s.plansByID(ctx, planIDs), s.usersByID(ctx, userIDs))
}

// ListUserVouchers returns the user's vouchers with plan details, newest first.
func (s *Store) ListUserVouchers(ctx context.Context, userID string) []analytics.VoucherView {
	if !s.ready() || strings.TrimSpace(userID) == "" {
		return nil
	}
	var rows []models.Voucher
	if errFind := s.read(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; errFind != nil {
		logReadError("list user vouchers", errFind)
		return nil
	}
	planIDs := make([]string, 0, len(rows))
	for _, v := range rows {
		planIDs = append(planIDs, v.PlanID)
	}
	return analytics.DenormalizeVouchers(rows, s.plansByID(ctx, planIDs), nil)
}

// GetUserVoucher returns one voucher owned by userID.
func (s *Store) GetUserVoucher(ctx context.Context, userID, voucherID string) *analytics.VoucherView {
	if !s.ready() || userID == "" || voucherID == "" {
		return nil
	}
	var voucher models.Voucher
	if errTake := s.read(ctx).
		Where("id = ? AND user_id = ?", voucherID, userID).
		Take(&voucher).Error; errTake != nil {
		if !errors.Is(errTake, gorm.ErrRecordNotFound) {
			logReadError("get user voucher", errTake)
		}
		return nil
	}
	views := analytics.DenormalizeVouchers([]models.Voucher{voucher}, s.plansByID(ctx, []string{voucher.PlanID}), nil)
	return &views[0]
}

func (s *Store) plansByID(ctx context.Context, ids []string) analytics.PlanIndex {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return analytics.PlanIndex{}
	}
	var rows []models.VoucherPlan
	if errFind := s.read(ctx).Where("id IN ?", ids).Find(&rows).Error; errFind != nil {
		logReadError("load plans", errFind)
		return analytics.PlanIndex{}
	}
	return analytics.IndexPlans(rows)
}

func (s *Store) vouchersByID(ctx context.Context, ids []string) analytics.VoucherIndex {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return analytics.VoucherIndex{}
	}
	var rows []models.Voucher
	if errFind := s.read(ctx).Where("id IN ?", ids).Find(&rows).Error; errFind != nil {
		logReadError("load vouchers", errFind)
		return analytics.VoucherIndex{}
	}
	return analytics.IndexVouchers(rows)
}
