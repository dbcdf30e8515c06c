package db

import (
	"fmt"

	"github.com/router-for-me/WiFiVoucher/internal/models"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite, DialectPostgres, "":
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.VoucherPlan{},
		&models.Voucher{},
		&models.Session{},
		&models.Payment{},
		&models.ActivityItem{},
		&models.SystemAlert{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// Partial indexes back the dashboard counters; both dialects accept the syntax.
	for name, stmt := range map[string]string{
		"idx_vouchers_active_expiry":   `CREATE INDEX IF NOT EXISTS idx_vouchers_active_expiry ON vouchers (expires_at) WHERE status = 'active'`,
		"idx_payments_completed_time":  `CREATE INDEX IF NOT EXISTS idx_payments_completed_time ON payments (created_at) WHERE status = 'completed'`,
		"idx_user_sessions_active_day": `CREATE INDEX IF NOT EXISTS idx_user_sessions_active_day ON user_sessions (session_start) WHERE is_active = true`,
	} {
		if errIndex := conn.Exec(stmt).Error; errIndex != nil {
			return fmt.Errorf("db: create index %s: %w", name, errIndex)
		}
	}

	if errSeed := ensureDefaultPlans(conn); errSeed != nil {
		return errSeed
	}
	return nil
}

// DefaultPlans is the catalogue seeded into an empty voucher_plans table.
func DefaultPlans() []models.VoucherPlan {
	intPtr := func(v int) *int { return &v }
	return []models.VoucherPlan{
		{Name: "Hourly Pass", Description: "1 hour of browsing", DataLimitMB: intPtr(500), TimeLimitHours: intPtr(1), Price: 500, IsActive: true},
		{Name: "Daily Pass", Description: "24 hours, 2 GB", DataLimitMB: intPtr(2048), TimeLimitHours: intPtr(24), Price: 1000, IsActive: true},
		{Name: "Weekly Bundle", Description: "7 days, 10 GB", DataLimitMB: intPtr(10240), TimeLimitHours: intPtr(168), Price: 5000, IsActive: true},
		{Name: "Monthly Unlimited", Description: "30 days, no data cap", TimeLimitHours: intPtr(720), Price: 20000, IsActive: true},
	}
}

// ensureDefaultPlans seeds the plan catalogue when no plan exists yet.
func ensureDefaultPlans(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.VoucherPlan{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count voucher plans: %w", errCount)
	}
	if count > 0 {
		return nil
	}
	plans := DefaultPlans()
	if errCreate := conn.Create(&plans).Error; errCreate != nil {
		return fmt.Errorf("db: seed voucher plans: %w", errCreate)
	}
	return nil
}
