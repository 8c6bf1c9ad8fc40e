// Package worker mirrors user data out of the document backend: JSON backup
// files on disk and, when configured, monthly revenue rows in Google Sheets.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"naildash/internal/amqp"
	"naildash/internal/core"
	"naildash/internal/persist"
	"naildash/internal/reports"
	"naildash/internal/services"
	"naildash/internal/sheets"
)

// BackupWorker consumes change messages and refreshes the owner's backup
// snapshot. Owners seen since startup are re-snapshotted periodically as a
// recovery path for missed messages.
type BackupWorker struct {
	docs      persist.Documents
	backupDir string
	revenue   sheets.RevenueWriter // optional
	clock     core.Clock

	mu     sync.Mutex
	owners map[string]struct{}
}

func NewBackupWorker(docs persist.Documents, backupDir string, revenue sheets.RevenueWriter, clock core.Clock) *BackupWorker {
	if clock == nil {
		clock = core.SystemClock()
	}
	return &BackupWorker{
		docs:      docs,
		backupDir: backupDir,
		revenue:   revenue,
		clock:     clock,
		owners:    make(map[string]struct{}),
	}
}

// HandleChange processes a single change message.
func (w *BackupWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Owner == "" {
		return fmt.Errorf("change message without owner")
	}

	w.mu.Lock()
	w.owners[msg.Owner] = struct{}{}
	w.mu.Unlock()

	if err := w.SnapshotOwner(ctx, msg.Owner); err != nil {
		return fmt.Errorf("snapshot owner %s: %w", msg.Owner, err)
	}

	if w.revenue != nil && msg.Stream == persist.StreamAppointments {
		if err := w.syncRevenue(ctx, msg.Owner); err != nil {
			// Revenue export is best effort; the backup already succeeded.
			slog.ErrorContext(ctx, "Failed to sync revenue", "owner", msg.Owner, "error", err)
		}
	}

	return nil
}

// SnapshotOwner writes the owner's full snapshot to <backupDir>/<owner>.json.
// The file is written to a temp path and renamed, so readers never see a
// partial backup.
func (w *BackupWorker) SnapshotOwner(ctx context.Context, owner string) error {
	clients, err := loadStream[core.Client](ctx, w.docs, owner, persist.StreamClients)
	if err != nil {
		return err
	}
	appointments, err := loadStream[core.Appointment](ctx, w.docs, owner, persist.StreamAppointments)
	if err != nil {
		return err
	}

	snap := services.Snapshot{Clients: clients, Appointments: appointments}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(w.backupDir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(w.backupDir, owner+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize backup: %w", err)
	}

	slog.InfoContext(ctx, "Backup written",
		"owner", owner,
		"path", path,
		"clients", len(clients),
		"appointments", len(appointments))
	return nil
}

// RunPeriodic re-snapshots every known owner on each tick until ctx is
// cancelled.
func (w *BackupWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, owner := range w.knownOwners() {
				if err := w.SnapshotOwner(ctx, owner); err != nil {
					slog.ErrorContext(ctx, "Periodic snapshot failed", "owner", owner, "error", err)
				}
			}
		}
	}
}

func (w *BackupWorker) knownOwners() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	owners := make([]string, 0, len(w.owners))
	for owner := range w.owners {
		owners = append(owners, owner)
	}
	return owners
}

func (w *BackupWorker) syncRevenue(ctx context.Context, owner string) error {
	appointments, err := loadStream[core.Appointment](ctx, w.docs, owner, persist.StreamAppointments)
	if err != nil {
		return err
	}
	buckets := reports.AnnualByMonth(appointments, w.clock)
	return w.revenue.WriteMonthly(ctx, owner, buckets)
}

func loadStream[T any](ctx context.Context, docs persist.Documents, owner, stream string) ([]T, error) {
	body, ok, err := docs.Load(ctx, owner, stream)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", stream, err)
	}
	if !ok {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", stream, err)
	}
	return items, nil
}
