package analytics

import "github.com/router-for-me/WiFiVoucher/internal/models"

// PlanIndex maps plan IDs to plans.
type PlanIndex map[string]models.VoucherPlan

// UserIndex maps user IDs to users.
type UserIndex map[string]models.User

// VoucherIndex maps voucher IDs to vouchers.
type VoucherIndex map[string]models.Voucher

// IndexPlans builds a PlanIndex.
func IndexPlans(plans []models.VoucherPlan) PlanIndex {
	out := make(PlanIndex, len(plans))
	for _, p := range plans {
		out[p.ID] = p
	}
	return out
}

// IndexUsers builds a UserIndex.
func IndexUsers(users []models.User) UserIndex {
	out := make(UserIndex, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}

// IndexVouchers builds a VoucherIndex.
func IndexVouchers(vouchers []models.Voucher) VoucherIndex {
	out := make(VoucherIndex, len(vouchers))
	for _, v := range vouchers {
		out[v.ID] = v
	}
	return out
}

// DenormalizeVouchers folds plan details, and user details when users is
// non-nil, onto each voucher. Input order is preserved.
func DenormalizeVouchers(vouchers []models.Voucher, plans PlanIndex, users UserIndex) []VoucherView {
	out := make([]VoucherView, 0, len(vouchers))
	for _, v := range vouchers {
		view := VoucherView{
			ID:         v.ID,
			Code:       v.Code,
			PlanID:     v.PlanID,
			UserID:     v.UserID,
			Status:     v.Status,
			DataUsedMB: v.DataUsedMB,
			ExpiresAt:  v.ExpiresAt,
			CreatedAt:  v.CreatedAt,
		}
		if plan, ok := plans[v.PlanID]; ok {
			view.PlanName = plan.Name
			view.DataLimitMB = plan.DataLimitMB
			view.TimeLimitHours = plan.TimeLimitHours
			view.Price = plan.Price
		}
		if users != nil {
			if user, ok := users[v.UserID]; ok {
				view.UserName = user.FullName
				view.UserEmail = user.Email
			}
		}
		out = append(out, view)
	}
	return out
}

// DenormalizeSessions folds user, voucher code and plan name onto each session.
func DenormalizeSessions(sessions []models.Session, users UserIndex, vouchers VoucherIndex, plans PlanIndex) []SessionView {
	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		view := SessionView{
			ID:             s.ID,
			UserID:         s.UserID,
			VoucherID:      s.VoucherID,
			DeviceName:     s.DeviceName,
			DeviceType:     s.DeviceType,
			MACAddress:     s.MACAddress,
			IPAddress:      s.IPAddress,
			SignalStrength: s.SignalStrength,
			DataUsedMB:     s.DataUsedMB,
			IsActive:       s.IsActive,
			SessionStart:   s.SessionStart,
		}
		if user, ok := users[s.UserID]; ok {
			view.UserName = user.FullName
			view.UserEmail = user.Email
		}
		if v, ok := vouchers[s.VoucherID]; ok {
			view.VoucherCode = v.Code
			if plan, okPlan := plans[v.PlanID]; okPlan {
				view.PlanName = plan.Name
			}
		}
		out = append(out, view)
	}
	return out
}

// DenormalizeTransactions folds payer name and purchased plan onto each payment.
func DenormalizeTransactions(payments []models.Payment, users UserIndex, vouchers VoucherIndex, plans PlanIndex) []TransactionView {
	out := make([]TransactionView, 0, len(payments))
	for _, p := range payments {
		view := TransactionView{
			ID:            p.ID,
			UserID:        p.UserID,
			VoucherID:     p.VoucherID,
			Amount:        p.Amount,
			Currency:      p.Currency,
			PaymentMethod: p.PaymentMethod,
			TransactionID: p.TransactionID,
			Status:        p.Status,
			CreatedAt:     p.CreatedAt,
		}
		if user, ok := users[p.UserID]; ok {
			view.UserName = user.FullName
		}
		if p.VoucherID != nil {
			if v, ok := vouchers[*p.VoucherID]; ok {
				if plan, okPlan := plans[v.PlanID]; okPlan {
					view.PlanName = plan.Name
				}
			}
		}
		out = append(out, view)
	}
	return out
}

// DenormalizeActivity folds the actor's name and email onto each entry.
func DenormalizeActivity(items []models.ActivityItem, users UserIndex) []ActivityView {
	out := make([]ActivityView, 0, len(items))
	for _, item := range items {
		view := ActivityView{
			ID:        item.ID,
			UserID:    item.UserID,
			Type:      item.Type,
			Message:   item.Message,
			Metadata:  item.Metadata,
			CreatedAt: item.CreatedAt,
		}
		if item.UserID != nil {
			if user, ok := users[*item.UserID]; ok {
				view.UserName = user.FullName
				view.UserEmail = user.Email
			}
		}
		out = append(out, view)
	}
	return out
}

// PlanSales reduces vouchers to their plan name and price, dropping vouchers
// whose plan is unknown.
func PlanSales(vouchers []models.Voucher, plans PlanIndex) []PlanSale {
	out := make([]PlanSale, 0, len(vouchers))
	for _, v := range vouchers {
		plan, ok := plans[v.PlanID]
		if !ok {
			continue
		}
		out = append(out, PlanSale{PlanName: plan.Name, Price: plan.Price})
	}
	return out
}
