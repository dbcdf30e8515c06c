// Package export renders admin listings as CSV text.
//
// Text fields are wrapped in double quotes without escaping, so a value
// containing a quote or a comma produces a malformed row. Downstream
// spreadsheets were built against this exact shape.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/analytics"
	"github.com/router-for-me/WiFiVoucher/internal/models"
)

const (
	// UsersHeader is the first line of the users export.
	UsersHeader = "ID,Name,Email,Role,Status,Data Used (MB),Phone,Created At,Last Login"
	// VouchersHeader is the first line of the vouchers export.
	VouchersHeader = "ID,Code,User,Plan,Status,Data Used (MB),Data Limit (MB),Price (TZS),Expires At,Created At"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// UsersCSV renders users, one row each, after the header line.
func UsersCSV(users []models.User) string {
	rows := make([]string, 0, len(users))
	for _, u := range users {
		lastLogin := "Never"
		if u.LastLogin != nil {
			lastLogin = formatTime(*u.LastLogin)
		}
		rows = append(rows, strings.Join([]string{
			u.ID,
			quote(u.FullName),
			quote(u.Email),
			u.Role,
			u.Status,
			formatNumber(u.DataUsedMB),
			quote(u.Phone),
			quote(formatTime(u.CreatedAt)),
			quote(lastLogin),
		}, ","))
	}
	return UsersHeader + "\n" + strings.Join(rows, "\n")
}

// VouchersCSV renders denormalized vouchers, one row each, after the header line.
func VouchersCSV(vouchers []analytics.VoucherView) string {
	rows := make([]string, 0, len(vouchers))
	for _, v := range vouchers {
		dataLimit := "Unlimited"
		if v.DataLimitMB != nil && *v.DataLimitMB != 0 {
			dataLimit = strconv.Itoa(*v.DataLimitMB)
		}
		expires := "No expiry"
		if v.ExpiresAt != nil {
			expires = formatTime(*v.ExpiresAt)
		}
		rows = append(rows, strings.Join([]string{
			v.ID,
			quote(v.Code),
			quote(v.UserName),
			quote(v.PlanName),
			v.Status,
			formatNumber(v.DataUsedMB),
			dataLimit,
			formatNumber(v.Price),
			quote(expires),
			quote(formatTime(v.CreatedAt)),
		}, ","))
	}
	return VouchersHeader + "\n" + strings.Join(rows, "\n")
}

// Filename returns the download name for a dated export, e.g. vouchers-2026-01-02.csv.
func Filename(kind string, now time.Time) string {
	return kind + "-" + now.Format("2006-01-02") + ".csv"
}

func quote(s string) string {
	return `"` + s + `"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
