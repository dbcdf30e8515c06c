package store

import (
	"context"
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/analytics"
	"github.com/router-for-me/WiFiVoucher/internal/models"
)

const (
	chartDays     = 7
	expiryHorizon = 24 * time.Hour
)

// DashboardStats assembles the admin overview counters.
func (s *Store) DashboardStats(ctx context.Context) analytics.DashboardStats {
	stats := analytics.DashboardStats{
		SystemUptime:       analytics.SystemUptime,
		DailyEarningsChart: []analytics.EarningsPoint{},
	}
	if !s.ready() {
		return stats
	}
	now := s.now()
	today := analytics.DayStart(now, s.loc)
	monthStart := analytics.MonthStart(now, s.loc)

	stats.ActiveUsers = s.count(ctx, "count active users", &models.User{}, "status = ?", models.UserStatusActive)
	stats.TotalVouchers = s.count(ctx, "count vouchers", &models.Voucher{}, "")
	stats.ActiveVouchers = s.count(ctx, "count active vouchers", &models.Voucher{}, "status = ?", models.VoucherStatusActive)
	stats.ActiveSessions = s.count(ctx, "count active sessions", &models.Session{}, "is_active = ?", true)
	stats.VouchersSoldToday = s.count(ctx, "count vouchers sold today", &models.Voucher{}, "created_at >= ?", today.UTC())
	stats.ExpiringSoon = s.count(ctx, "count expiring vouchers", &models.Voucher{},
		"status = ? AND expires_at <= ?", models.VoucherStatusActive, now.Add(expiryHorizon).UTC())

	stats.DailyEarnings = analytics.SumCompleted(s.completedPayments(ctx, "daily earnings", today, time.Time{}), today, time.Time{})
	stats.MonthlyEarnings = analytics.SumCompleted(s.completedPayments(ctx, "monthly earnings", monthStart, time.Time{}), monthStart, time.Time{})
	stats.TotalDataUsed = s.totalDataUsed(ctx)

	for _, window := range analytics.TrailingDays(now, s.loc, chartDays) {
		rows := s.completedPayments(ctx, "earnings chart", window.From, window.To)
		stats.DailyEarningsChart = append(stats.DailyEarningsChart, analytics.EarningsChart(rows, []analytics.DayWindow{window})...)
	}
	return stats
}

// AdminStats returns the compact header counters.
func (s *Store) AdminStats(ctx context.Context) analytics.AdminStats {
	if !s.ready() {
		return analytics.AdminStats{}
	}
	now := s.now()
	today := analytics.DayStart(now, s.loc)
	monthStart := analytics.MonthStart(now, s.loc)
	return analytics.AdminStats{
		ActiveUsers:     s.count(ctx, "count active users", &models.User{}, "status = ?", models.UserStatusActive),
		DailyEarnings:   analytics.SumCompleted(s.completedPayments(ctx, "daily earnings", today, time.Time{}), today, time.Time{}),
		MonthlyEarnings: analytics.SumCompleted(s.completedPayments(ctx, "monthly earnings", monthStart, time.Time{}), monthStart, time.Time{}),
		TotalVouchers:   s.count(ctx, "count vouchers", &models.Voucher{}, ""),
	}
}

// TopPerformingVouchers ranks plans by active vouchers sold.
func (s *Store) TopPerformingVouchers(ctx context.Context) []analytics.TopVoucher {
	if !s.ready() {
		return []analytics.TopVoucher{}
	}
	var rows []models.Voucher
	if errFind := s.read(ctx).
		Where("status = ?", models.VoucherStatusActive).
		Order("created_at ASC").
		Find(&rows).Error; errFind != nil {
		logReadError("top vouchers", errFind)
		return []analytics.TopVoucher{}
	}
	planIDs := make([]string, 0, len(rows))
	for _, v := range rows {
		planIDs = append(planIDs, v.PlanID)
	}
	sales := analytics.PlanSales(rows, s.plansByID(ctx, planIDs))
	return analytics.RankTopVouchers(sales, analytics.TopVoucherLimit)
}

// PeakUsageTimes buckets active sessions by the day-part they started in.
func (s *Store) PeakUsageTimes(ctx context.Context) analytics.PeakUsage {
	if !s.ready() {
		return analytics.PeakUsage{}
	}
	return analytics.BucketPeakUsage(s.activeSessionStarts(ctx), s.loc)
}

// PaymentMethodBreakdown sums all completed payments per method.
func (s *Store) PaymentMethodBreakdown(ctx context.Context) map[string]float64 {
	if !s.ready() {
		return map[string]float64{}
	}
	return analytics.BreakdownByMethod(s.completedPayments(ctx, "payment breakdown", time.Time{}, time.Time{}))
}

func (s *Store) count(ctx context.Context, op string, model any, query string, args ...any) int64 {
	q := s.read(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	var n int64
	if errCount := q.Count(&n).Error; errCount != nil {
		logReadError(op, errCount)
		return 0
	}
	return n
}

func (s *Store) totalDataUsed(ctx context.Context) float64 {
	var total float64
	if errSum := s.read(ctx).Model(&models.User{}).
		Select("COALESCE(SUM(data_used_mb), 0)").
		Scan(&total).Error; errSum != nil {
		logReadError("total data used", errSum)
		return 0
	}
	return total
}
