// Package memory is an in-process sheet adapter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"naildash/internal/reports"
	ports "naildash/internal/sheets"
)

type Adapter struct {
	mu      sync.Mutex
	monthly map[string][]reports.MonthBucket
}

var _ ports.RevenueWriter = (*Adapter)(nil)

func New() *Adapter {
	return &Adapter{monthly: make(map[string][]reports.MonthBucket)}
}

func (a *Adapter) WriteMonthly(_ context.Context, owner string, buckets []reports.MonthBucket) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]reports.MonthBucket, len(buckets))
	copy(out, buckets)
	a.monthly[owner] = out
	return nil
}

// Monthly returns the last written buckets for an owner.
func (a *Adapter) Monthly(owner string) []reports.MonthBucket {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.monthly[owner]
}
