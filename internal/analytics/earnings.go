package analytics

import (
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/models"
)

// ChartLabelLayout formats chart labels as short month and day, e.g. "Jan 2".
const ChartLabelLayout = "Jan 2"

// DayStart returns local midnight of the day containing t.
func DayStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// MonthStart returns local midnight of the first day of t's month.
func MonthStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
}

// TrailingDays returns n calendar-day windows ending with today, oldest first.
func TrailingDays(now time.Time, loc *time.Location, n int) []DayWindow {
	if n <= 0 {
		return nil
	}
	today := DayStart(now, loc)
	out := make([]DayWindow, 0, n)
	for i := n - 1; i >= 0; i-- {
		from := today.AddDate(0, 0, -i)
		out = append(out, DayWindow{
			Label: from.Format(ChartLabelLayout),
			From:  from,
			To:    from.AddDate(0, 0, 1),
		})
	}
	return out
}

// SumCompleted sums completed payments created in [from, to). A zero to
// leaves the window open-ended.
func SumCompleted(rows []PaymentRow, from, to time.Time) float64 {
	var total float64
	for _, row := range rows {
		if row.Status != models.PaymentStatusCompleted {
			continue
		}
		if row.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !row.CreatedAt.Before(to) {
			continue
		}
		total += row.Amount
	}
	return total
}

// EarningsChart sums completed payments per window.
func EarningsChart(rows []PaymentRow, windows []DayWindow) []EarningsPoint {
	out := make([]EarningsPoint, 0, len(windows))
	for _, w := range windows {
		out = append(out, EarningsPoint{Date: w.Label, Earnings: SumCompleted(rows, w.From, w.To)})
	}
	return out
}

// BreakdownByMethod sums completed payment amounts per payment method.
func BreakdownByMethod(rows []PaymentRow) map[string]float64 {
	out := make(map[string]float64)
	for _, row := range rows {
		if row.Status != models.PaymentStatusCompleted {
			continue
		}
		out[row.Method] += row.Amount
	}
	return out
}
