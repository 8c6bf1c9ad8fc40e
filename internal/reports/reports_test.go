package reports

import (
	"testing"
	"time"

	"naildash/internal/catalog"
	"naildash/internal/core"
)

var now = core.FixedClock{T: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

func completed(serviceID string, cents int64, date time.Time) core.Appointment {
	return core.Appointment{
		ID:        serviceID + date.String(),
		ClientID:  "c1",
		ServiceID: serviceID,
		Date:      date,
		Price:     core.Money{Cents: cents},
		Status:    core.StatusCompleted,
	}
}

func TestTrailingMonthsShape(t *testing.T) {
	buckets := TrailingMonths(nil, now)
	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}
	// now is June 2025, so the window is Jan..Jun 2025.
	if buckets[0].Month != time.January || buckets[0].Year != 2025 {
		t.Fatalf("expected Jan 2025 first, got %v %d", buckets[0].Month, buckets[0].Year)
	}
	if buckets[5].Month != time.June {
		t.Fatalf("expected June last, got %v", buckets[5].Month)
	}
	for i, b := range buckets {
		if b.Total.Cents != 0 {
			t.Fatalf("bucket %d not zero-initialized: %d", i, b.Total.Cents)
		}
	}
	if buckets[2].Label != "mar/25" {
		t.Fatalf("unexpected label %q", buckets[2].Label)
	}
}

func TestTrailingMonthsCrossesYearBoundary(t *testing.T) {
	feb := core.FixedClock{T: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)}
	buckets := TrailingMonths(nil, feb)
	if buckets[0].Year != 2024 || buckets[0].Month != time.September {
		t.Fatalf("expected Sep 2024 first, got %v %d", buckets[0].Month, buckets[0].Year)
	}
	if buckets[5].Year != 2025 || buckets[5].Month != time.February {
		t.Fatalf("expected Feb 2025 last, got %v %d", buckets[5].Month, buckets[5].Year)
	}
}

func TestTrailingMonthsAccumulation(t *testing.T) {
	appts := []core.Appointment{
		completed("gel_nails", 12000, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
		completed("gel_nails", 12000, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)),
		completed("manicure_classic", 3000, time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)),
		// Outside the window: ignored by this view.
		completed("manicure_classic", 3000, time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC)),
	}
	// A scheduled appointment never contributes revenue.
	sched := completed("gel_nails", 12000, time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC))
	sched.Status = core.StatusScheduled
	appts = append(appts, sched)

	buckets := TrailingMonths(appts, now)
	var sum int64
	for _, b := range buckets {
		sum += b.Total.Cents
	}
	if sum != 27000 {
		t.Fatalf("expected window total 27000, got %d", sum)
	}
	if buckets[5].Total.Cents != 24000 { // June
		t.Fatalf("June bucket expected 24000, got %d", buckets[5].Total.Cents)
	}
	if buckets[2].Total.Cents != 3000 { // March
		t.Fatalf("March bucket expected 3000, got %d", buckets[2].Total.Cents)
	}
}

func TestAnnualByMonthExample(t *testing.T) {
	// Catalog {A: R$30, B: R$120}; two A in January, one B in March.
	appts := []core.Appointment{
		completed("manicure_classic", 3000, time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)),
		completed("manicure_classic", 3000, time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)),
		completed("gel_nails", 12000, time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)),
		// Another year: ignored.
		completed("gel_nails", 12000, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)),
	}

	buckets := AnnualByMonth(appts, now)
	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}
	for i, b := range buckets {
		var want int64
		switch b.Month {
		case time.January:
			want = 6000
		case time.March:
			want = 12000
		}
		if b.Total.Cents != want {
			t.Fatalf("bucket %d (%v) expected %d, got %d", i, b.Month, want, b.Total.Cents)
		}
	}
}

func TestByServiceExample(t *testing.T) {
	cat := catalog.New(catalog.Defaults())
	appts := []core.Appointment{
		completed("manicure_classic", 3000, time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)),
		completed("manicure_classic", 3000, time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)),
		completed("gel_nails", 12000, time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)),
		// Unknown service: silently ignored, no synthetic bucket.
		completed("ghost_service", 9900, time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC)),
	}

	rows := ByService(appts, cat)
	if len(rows) != cat.Len() {
		t.Fatalf("expected one bucket per catalog entry (%d), got %d", cat.Len(), len(rows))
	}
	if rows[0].ServiceID != "gel_nails" || rows[0].Count != 1 || rows[0].Revenue.Cents != 12000 {
		t.Fatalf("expected gel_nails first with 12000, got %+v", rows[0])
	}
	if rows[1].ServiceID != "manicure_classic" || rows[1].Count != 2 || rows[1].Revenue.Cents != 6000 {
		t.Fatalf("expected manicure_classic second with 6000, got %+v", rows[1])
	}
	// Never-booked services still appear, zero-filled.
	var zeroes int
	for _, r := range rows {
		if r.Count == 0 && r.Revenue.Cents == 0 {
			zeroes++
		}
	}
	if zeroes != cat.Len()-2 {
		t.Fatalf("expected %d zero buckets, got %d", cat.Len()-2, zeroes)
	}
}

func TestByServiceTiesKeepCatalogOrder(t *testing.T) {
	cat := catalog.New(catalog.Defaults())
	rows := ByService(nil, cat)
	for i, s := range cat.Services() {
		if rows[i].ServiceID != s.ID {
			t.Fatalf("tie ordering broke catalog order at %d: %s", i, rows[i].ServiceID)
		}
	}
}

func TestByServiceRevenueUsesCapturedPrice(t *testing.T) {
	cat := catalog.New(catalog.Defaults())
	// Booked back when gel nails cost R$100, not today's R$120.
	appts := []core.Appointment{
		completed("gel_nails", 10000, time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)),
	}
	rows := ByService(appts, cat)
	if rows[0].Revenue.Cents != 10000 {
		t.Fatalf("expected captured price 10000, got %d", rows[0].Revenue.Cents)
	}
}
