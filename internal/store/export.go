package store

import (
	"context"

	"github.com/router-for-me/WiFiVoucher/internal/export"
)

// ExportUsersCSV renders every user as CSV.
func (s *Store) ExportUsersCSV(ctx context.Context) string {
	return export.UsersCSV(s.ListUsers(ctx, ""))
}

// ExportVouchersCSV renders every voucher with owner and plan as CSV.
func (s *Store) ExportVouchersCSV(ctx context.Context) string {
	return export.VouchersCSV(s.ListVouchers(ctx))
}
