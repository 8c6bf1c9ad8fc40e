// Package dashboard derives the landing-page counts and lists. Everything
// here is stateless and recomputed on every read from store snapshots.
package dashboard

import (
	"sort"

	"naildash/internal/core"
)

// Summary holds the three stat cards.
type Summary struct {
	TotalClients       int
	UpcomingScheduled  int
	CompletedThisMonth int
}

// Summarize counts clients, scheduled appointments dated today-or-later, and
// appointments completed in the current calendar month. "Today" is the clock
// instant truncated to start of day, so an appointment earlier today still
// counts as upcoming.
func Summarize(clients []core.Client, appointments []core.Appointment, clock core.Clock) Summary {
	now := clock.Now()
	today := core.StartOfDay(now)

	s := Summary{TotalClients: len(clients)}
	for _, a := range appointments {
		if a.Status == core.StatusScheduled && !a.Date.Before(today) {
			s.UpcomingScheduled++
		}
		if a.Status == core.StatusCompleted &&
			a.Date.Month() == now.Month() && a.Date.Year() == now.Year() {
			s.CompletedThisMonth++
		}
	}
	return s
}

// Upcoming returns at most limit scheduled appointments dated today-or-later,
// soonest first.
func Upcoming(appointments []core.Appointment, clock core.Clock, limit int) []core.Appointment {
	today := core.StartOfDay(clock.Now())

	var out []core.Appointment
	for _, a := range appointments {
		if a.Status == core.StatusScheduled && !a.Date.Before(today) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecentClients returns at most limit clients, newest registration first.
func RecentClients(clients []core.Client, limit int) []core.Client {
	out := make([]core.Client, len(clients))
	copy(out, clients)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
