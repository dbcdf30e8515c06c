// Package analytics holds the typed, database-free transformations behind
// the admin dashboard: joins of flat rows into display records, earnings
// sums, plan rankings and usage bucketing. Every function operates on value
// objects so it can be exercised with canned rows.
package analytics

import (
	"time"

	"gorm.io/datatypes"
)

// SystemUptime is a fixed placeholder; no health signal backs it.
const SystemUptime = 99.8

// PaymentRow is the subset of a payment needed by earnings aggregations.
type PaymentRow struct {
	Amount    float64
	Method    string
	Status    string
	CreatedAt time.Time
}

// EarningsPoint is one bar of the trailing daily earnings chart.
type EarningsPoint struct {
	Date     string  `json:"date"`
	Earnings float64 `json:"earnings"`
}

// DayWindow is a half-open [From, To) calendar day.
type DayWindow struct {
	Label string
	From  time.Time
	To    time.Time
}

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	ActiveUsers        int64           `json:"activeUsers"`
	TotalVouchers      int64           `json:"totalVouchers"`
	ActiveVouchers     int64           `json:"activeVouchers"`
	ActiveSessions     int64           `json:"activeSessions"`
	ExpiringSoon       int64           `json:"expiringSoon"`
	VouchersSoldToday  int64           `json:"vouchersSoldToday"`
	TotalDataUsed      float64         `json:"totalDataUsed"`
	DailyEarnings      float64         `json:"dailyEarnings"`
	MonthlyEarnings    float64         `json:"monthlyEarnings"`
	DailyEarningsChart []EarningsPoint `json:"dailyEarningsChart"`
	SystemUptime       float64         `json:"systemUptime"`
}

// AdminStats is the compact header summary.
type AdminStats struct {
	ActiveUsers     int64   `json:"activeUsers"`
	DailyEarnings   float64 `json:"dailyEarnings"`
	MonthlyEarnings float64 `json:"monthlyEarnings"`
	TotalVouchers   int64   `json:"totalVouchers"`
}

// PlanSale is one active voucher reduced to its plan name and price.
type PlanSale struct {
	PlanName string
	Price    float64
}

// TopVoucher is a plan ranked by active vouchers sold.
type TopVoucher struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Sold  int     `json:"sold"`
}

// PeakUsage counts active sessions per day-part.
type PeakUsage struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
	Night     int `json:"night"`
}

// Total returns the number of sessions bucketed.
func (p PeakUsage) Total() int {
	return p.Morning + p.Afternoon + p.Evening + p.Night
}

// VoucherView is a voucher with its plan (and owner, for admin listings) folded in.
type VoucherView struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	PlanID     string     `json:"plan_id"`
	UserID     string     `json:"user_id"`
	Status     string     `json:"status"`
	DataUsedMB float64    `json:"data_used_mb"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`

	PlanName       string  `json:"plan_name"`
	DataLimitMB    *int    `json:"data_limit_mb"`
	TimeLimitHours *int    `json:"time_limit_hours"`
	Price          float64 `json:"price"`

	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

// SessionView is an active session with user and plan details.
type SessionView struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	VoucherID      string    `json:"voucher_id"`
	DeviceName     string    `json:"device_name"`
	DeviceType     string    `json:"device_type"`
	MACAddress     string    `json:"mac_address"`
	IPAddress      string    `json:"ip_address"`
	SignalStrength int       `json:"signal_strength"`
	DataUsedMB     float64   `json:"data_used_mb"`
	IsActive       bool      `json:"is_active"`
	SessionStart   time.Time `json:"session_start"`

	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	VoucherCode string `json:"voucher_code"`
	PlanName    string `json:"plan_name"`
}

// TransactionView is a completed payment with payer and plan names.
type TransactionView struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	VoucherID     *string   `json:"voucher_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`

	UserName string `json:"user_name"`
	PlanName string `json:"plan_name"`
}

// ActivityView is an activity feed entry with the actor's name.
type ActivityView struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`

	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}
