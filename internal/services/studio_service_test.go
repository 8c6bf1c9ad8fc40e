package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"naildash/internal/catalog"
	"naildash/internal/core"
	"naildash/internal/persist/memory"
)

var clock = core.FixedClock{T: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}

type recordingPublisher struct {
	published []string
}

func (p *recordingPublisher) PublishChange(_ context.Context, _, stream, reason string) error {
	p.published = append(p.published, stream+":"+reason)
	return nil
}

func newService(t *testing.T) (*StudioService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewStudioService(memory.New(), pub, catalog.New(catalog.Defaults()), clock), pub
}

func validClient() core.Client {
	return core.Client{Name: "Ana", Phone: "11 99999-0000", Email: "ana@example.com"}
}

func TestAddClientPersistsAndPublishes(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()

	created, err := svc.AddClient(ctx, "u1", validClient())
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	// A fresh service over the same backend must see the client.
	again := NewStudioService(svc.docs, nil, svc.catalog, clock)
	clients, err := again.Clients(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 1 || clients[0].ID != created.ID {
		t.Fatalf("expected persisted client, got %+v", clients)
	}

	if len(pub.published) != 1 || pub.published[0] != "clients:client_added" {
		t.Fatalf("unexpected publishes: %v", pub.published)
	}
}

func TestAddClientRejectsInvalid(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.AddClient(context.Background(), "u1", core.Client{}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestAddAppointmentCapturesCatalogPrice(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.AddClient(ctx, "u1", validClient())
	if err != nil {
		t.Fatal(err)
	}

	a, err := svc.AddAppointment(ctx, "u1", core.Appointment{
		ClientID:  c.ID,
		ServiceID: "manicure_classic",
		Date:      time.Date(2025, 6, 20, 14, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("add appointment: %v", err)
	}
	if a.Price.Cents != 3000 {
		t.Fatalf("expected price captured from catalog (3000), got %d", a.Price.Cents)
	}
	if a.Status != core.StatusScheduled {
		t.Fatalf("expected scheduled status, got %q", a.Status)
	}
}

func TestAddAppointmentOffCatalogNeedsExplicitPrice(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.AddClient(ctx, "u1", validClient())
	if err != nil {
		t.Fatal(err)
	}

	// No catalog entry means no price to capture, so the booking is invalid.
	_, err = svc.AddAppointment(ctx, "u1", core.Appointment{
		ClientID: c.ID, ServiceID: "pedicure", Date: clock.T,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if appts, _ := svc.Appointments(ctx, "u1"); len(appts) != 0 {
		t.Fatalf("rejected booking was stored: %+v", appts)
	}

	// An explicit price makes the off-catalog booking valid.
	a, err := svc.AddAppointment(ctx, "u1", core.Appointment{
		ClientID: c.ID, ServiceID: "pedicure", Date: clock.T, Price: core.Money{Cents: 2500},
	})
	if err != nil {
		t.Fatalf("add with explicit price: %v", err)
	}
	if a.Price.Cents != 2500 {
		t.Fatalf("expected explicit price kept, got %d", a.Price.Cents)
	}
}

func TestAddClientWithAppointment(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, a, err := svc.AddClientWithAppointment(ctx, "u1", validClient(), core.Appointment{
		ServiceID: "gel_nails",
		Date:      time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("add client with appointment: %v", err)
	}
	if a.ClientID != c.ID {
		t.Fatalf("appointment not linked to new client: %q vs %q", a.ClientID, c.ID)
	}

	// An invalid appointment must not leave a half-registered client behind.
	svc2, _ := newService(t)
	if _, _, err := svc2.AddClientWithAppointment(ctx, "u1", validClient(), core.Appointment{}); err == nil {
		t.Fatal("expected error for invalid appointment")
	}
	clients, _ := svc2.Clients(ctx, "u1")
	if len(clients) != 0 {
		t.Fatalf("client stored despite invalid appointment: %+v", clients)
	}
}

func TestUpdateAppointmentStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.AddClient(ctx, "u1", validClient())
	if err != nil {
		t.Fatal(err)
	}
	a, err := svc.AddAppointment(ctx, "u1", core.Appointment{
		ClientID: c.ID, ServiceID: "pedicure_classic", Date: clock.T,
	})
	if err != nil {
		t.Fatal(err)
	}

	found, err := svc.UpdateAppointmentStatus(ctx, "u1", a.ID, core.StatusCompleted)
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}

	found, err = svc.UpdateAppointmentStatus(ctx, "u1", "missing", core.StatusCancelled)
	if err != nil {
		t.Fatalf("missing id must be a no-op, got %v", err)
	}
	if found {
		t.Fatal("missing id reported found")
	}
}

func TestDeleteClientCascades(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.AddClient(ctx, "u1", validClient())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddAppointment(ctx, "u1", core.Appointment{ClientID: c.ID, ServiceID: "pedicure_classic", Date: clock.T}); err != nil {
		t.Fatal(err)
	}
	if appts, _ := svc.Appointments(ctx, "u1"); len(appts) != 1 {
		t.Fatalf("expected 1 appointment before delete, got %d", len(appts))
	}

	found, err := svc.DeleteClient(ctx, "u1", c.ID)
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}

	appts, _ := svc.Appointments(ctx, "u1")
	if len(appts) != 0 {
		t.Fatalf("expected cascade delete, got %+v", appts)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.AddClient(ctx, "u1", validClient())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddAppointment(ctx, "u1", core.Appointment{ClientID: c.ID, ServiceID: "pedicure_classic", Date: clock.T}); err != nil {
		t.Fatal(err)
	}

	snapshot, err := svc.Export(ctx, "u1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	other, _ := newService(t)
	if err := other.Import(ctx, "u2", snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}
	clients, _ := other.Clients(ctx, "u2")
	appts, _ := other.Appointments(ctx, "u2")
	if len(clients) != 1 || len(appts) != 1 {
		t.Fatalf("unexpected import result: %d clients, %d appointments", len(clients), len(appts))
	}
}

func TestImportRejectsInvalidSnapshotWithoutOverwriting(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	svc.AddClient(ctx, "u1", validClient())

	bad := []byte(`{"clients":[{"ID":"x","Name":"","Phone":"1","Email":"a@b"}],"appointments":[]}`)
	if err := svc.Import(ctx, "u1", bad); err == nil {
		t.Fatal("expected validation error")
	}

	clients, _ := svc.Clients(ctx, "u1")
	if len(clients) != 1 || clients[0].Name != "Ana" {
		t.Fatalf("existing data overwritten by invalid snapshot: %+v", clients)
	}

	if err := svc.Import(ctx, "u1", []byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestUsersAreIsolated(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.AddClient(ctx, "u1", validClient())
	clients, err := svc.Clients(ctx, "u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 0 {
		t.Fatalf("user u2 sees u1's clients: %+v", clients)
	}
}
