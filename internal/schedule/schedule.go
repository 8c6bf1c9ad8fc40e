// Package schedule groups appointments into calendar-day buckets for the
// agenda view.
package schedule

import (
	"sort"
	"time"

	"naildash/internal/core"
)

// DayGroup is one calendar day of appointments. Label is the pt-BR display
// heading; ordering between groups always uses the numeric Year/Month/Day
// key, never the label, since localized day names do not sort
// chronologically.
type DayGroup struct {
	Year         int
	Month        time.Month
	Day          int
	Label        string
	Appointments []core.Appointment
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// Build buckets every appointment (any status) by calendar day, orders the
// groups chronologically and each group's appointments ascending by full
// timestamp. Empty input yields an empty slice.
func Build(appointments []core.Appointment) []DayGroup {
	buckets := make(map[dayKey][]core.Appointment)
	for _, a := range appointments {
		y, m, d := a.Date.Date()
		k := dayKey{year: y, month: m, day: d}
		buckets[k] = append(buckets[k], a)
	}

	keys := make([]dayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.month != b.month {
			return a.month < b.month
		}
		return a.day < b.day
	})

	groups := make([]DayGroup, 0, len(keys))
	for _, k := range keys {
		appts := buckets[k]
		sort.SliceStable(appts, func(i, j int) bool {
			return appts[i].Date.Before(appts[j].Date)
		})
		groups = append(groups, DayGroup{
			Year:         k.year,
			Month:        k.month,
			Day:          k.day,
			Label:        core.DayLabelPT(k.year, k.month, k.day),
			Appointments: appts,
		})
	}
	return groups
}
