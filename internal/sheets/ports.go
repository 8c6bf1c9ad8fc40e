package sheets

import (
	"context"

	"naildash/internal/reports"
)

// RevenueWriter is the outbound port for the spreadsheet export: it replaces
// the monthly revenue rows for one user.
type RevenueWriter interface {
	WriteMonthly(ctx context.Context, owner string, buckets []reports.MonthBucket) error
}
