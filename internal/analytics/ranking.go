package analytics

import (
	"sort"
	"time"
)

// TopVoucherLimit caps the top-performing plan list.
const TopVoucherLimit = 5

// RankTopVouchers groups sales by plan name in first-seen order, sorts by
// count descending (ties keep grouping order) and keeps the first limit.
func RankTopVouchers(sales []PlanSale, limit int) []TopVoucher {
	index := make(map[string]int)
	grouped := make([]TopVoucher, 0)
	for _, sale := range sales {
		pos, ok := index[sale.PlanName]
		if !ok {
			pos = len(grouped)
			index[sale.PlanName] = pos
			grouped = append(grouped, TopVoucher{Name: sale.PlanName, Price: sale.Price})
		}
		grouped[pos].Sold++
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Sold > grouped[j].Sold
	})
	if limit >= 0 && len(grouped) > limit {
		grouped = grouped[:limit]
	}
	return grouped
}

// DayPart names the bucket a clock hour belongs to.
func DayPart(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 24:
		return "evening"
	default:
		return "night"
	}
}

// BucketPeakUsage counts session start times per day-part in loc.
func BucketPeakUsage(starts []time.Time, loc *time.Location) PeakUsage {
	if loc == nil {
		loc = time.Local
	}
	var out PeakUsage
	for _, start := range starts {
		switch DayPart(start.In(loc).Hour()) {
		case "morning":
			out.Morning++
		case "afternoon":
			out.Afternoon++
		case "evening":
			out.Evening++
		default:
			out.Night++
		}
	}
	return out
}
