// Package reports rolls completed appointments up into the three revenue
// views: trailing six months, current calendar year, and lifetime by service.
// Only appointments with status completed count toward revenue, and revenue is
// always the sum of each appointment's captured price; the current catalog
// price is never consulted.
package reports

import (
	"sort"
	"time"

	"naildash/internal/catalog"
	"naildash/internal/core"
)

// MonthBucket is one month of revenue. Label is display-only ("mar/25");
// Year/Month carry the ordering.
type MonthBucket struct {
	Year  int
	Month time.Month
	Label string
	Total core.Money
}

// ServiceRevenue accumulates lifetime count and revenue for one catalog
// service.
type ServiceRevenue struct {
	ServiceID string
	Name      string
	Count     int
	Revenue   core.Money
}

type monthKey struct {
	year  int
	month time.Month
}

// TrailingMonths returns exactly 6 buckets covering current month-5 through
// the current month, oldest first. Buckets with no revenue stay at zero; the
// shape never depends on data sparsity. Completed appointments outside the
// window are ignored by this view only.
func TrailingMonths(appointments []core.Appointment, clock core.Clock) []MonthBucket {
	now := clock.Now()

	buckets := make([]MonthBucket, 0, 6)
	index := make(map[monthKey]int, 6)
	for i := 5; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		index[monthKey{m.Year(), m.Month()}] = len(buckets)
		buckets = append(buckets, MonthBucket{
			Year:  m.Year(),
			Month: m.Month(),
			Label: core.MonthYearLabelPT(m.Year(), m.Month()),
		})
	}

	for _, a := range appointments {
		if a.Status != core.StatusCompleted {
			continue
		}
		if i, ok := index[monthKey{a.Date.Year(), a.Date.Month()}]; ok {
			buckets[i].Total = buckets[i].Total.Add(a.Price)
		}
	}
	return buckets
}

// AnnualByMonth returns exactly 12 buckets, January through December of the
// year containing now. Completed appointments from other years are ignored by
// this view only.
func AnnualByMonth(appointments []core.Appointment, clock core.Clock) []MonthBucket {
	year := clock.Now().Year()

	buckets := make([]MonthBucket, 12)
	for i := 0; i < 12; i++ {
		m := time.Month(i + 1)
		buckets[i] = MonthBucket{
			Year:  year,
			Month: m,
			Label: core.MonthShortPT(m),
		}
	}

	for _, a := range appointments {
		if a.Status != core.StatusCompleted {
			continue
		}
		if a.Date.Year() != year {
			continue
		}
		i := int(a.Date.Month()) - 1
		buckets[i].Total = buckets[i].Total.Add(a.Price)
	}
	return buckets
}

// ByService returns one bucket per catalog entry (a never-booked service
// still appears with zero count and revenue), ordered descending by revenue
// (catalog order preserved for ties). Appointments whose service id is no
// longer in the catalog are silently skipped: they create no synthetic
// bucket.
func ByService(appointments []core.Appointment, cat *catalog.Catalog) []ServiceRevenue {
	services := cat.Services()
	out := make([]ServiceRevenue, len(services))
	index := make(map[string]int, len(services))
	for i, s := range services {
		out[i] = ServiceRevenue{ServiceID: s.ID, Name: s.Name}
		index[s.ID] = i
	}

	for _, a := range appointments {
		if a.Status != core.StatusCompleted {
			continue
		}
		i, ok := index[a.ServiceID]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Revenue = out[i].Revenue.Add(a.Price)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.Cents > out[j].Revenue.Cents
	})
	return out
}
