package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"naildash/internal/amqp"
	"naildash/internal/catalog"
	"naildash/internal/core"
	"naildash/internal/persist/memory"
	"naildash/internal/services"
	sheetsmem "naildash/internal/sheets/memory"
)

var clock = core.FixedClock{T: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}

func seedOwner(t *testing.T, docs *memory.Store, owner string) {
	t.Helper()
	svc := services.NewStudioService(docs, nil, catalog.New(catalog.Defaults()), clock)
	ctx := context.Background()

	c, err := svc.AddClient(ctx, owner, core.Client{Name: "Ana", Phone: "1", Email: "a@b"})
	if err != nil {
		t.Fatal(err)
	}
	a, err := svc.AddAppointment(ctx, owner, core.Appointment{
		ClientID: c.ID, ServiceID: "gel_nails", Date: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateAppointmentStatus(ctx, owner, a.ID, core.StatusCompleted); err != nil {
		t.Fatal(err)
	}
}

func TestHandleChangeWritesBackup(t *testing.T) {
	docs := memory.New()
	seedOwner(t, docs, "u1")
	dir := t.TempDir()

	w := NewBackupWorker(docs, dir, nil, clock)
	msg := amqp.NewChangeMessage("u1", "appointments", "status_updated")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("handle change: %v", err)
	}

	body, err := os.ReadFile(filepath.Join(dir, "u1.json"))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var snap services.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if len(snap.Clients) != 1 || len(snap.Appointments) != 1 {
		t.Fatalf("unexpected snapshot: %d clients, %d appointments", len(snap.Clients), len(snap.Appointments))
	}
}

func TestHandleChangeSyncsRevenue(t *testing.T) {
	docs := memory.New()
	seedOwner(t, docs, "u1")

	revenue := sheetsmem.New()
	w := NewBackupWorker(docs, t.TempDir(), revenue, clock)

	msg := amqp.NewChangeMessage("u1", "appointments", "status_updated")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	buckets := revenue.Monthly("u1")
	if len(buckets) != 12 {
		t.Fatalf("expected 12 monthly buckets, got %d", len(buckets))
	}
	if buckets[2].Total.Cents != 12000 {
		t.Fatalf("expected March total 12000, got %d", buckets[2].Total.Cents)
	}
}

func TestHandleChangeRequiresOwner(t *testing.T) {
	w := NewBackupWorker(memory.New(), t.TempDir(), nil, clock)
	if err := w.HandleChange(context.Background(), &amqp.ChangeMessage{}); err == nil {
		t.Fatal("expected error for message without owner")
	}
}

func TestClientStreamChangeSkipsRevenue(t *testing.T) {
	docs := memory.New()
	seedOwner(t, docs, "u1")

	revenue := sheetsmem.New()
	w := NewBackupWorker(docs, t.TempDir(), revenue, clock)

	msg := amqp.NewChangeMessage("u1", "clients", "client_added")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if revenue.Monthly("u1") != nil {
		t.Fatal("revenue synced for a client stream change")
	}
}
