// Package services orchestrates studio operations across the in-memory
// store, the document backend and AMQP.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"naildash/internal/catalog"
	"naildash/internal/core"
	"naildash/internal/dashboard"
	"naildash/internal/persist"
	"naildash/internal/reports"
	"naildash/internal/schedule"
	"naildash/internal/store"
)

// ChangePublisher publishes change notifications for a user stream.
type ChangePublisher interface {
	PublishChange(ctx context.Context, owner, stream, reason string) error
}

// Snapshot is the backup exchange format: both streams of one user.
type Snapshot struct {
	Clients      []core.Client      `json:"clients"`
	Appointments []core.Appointment `json:"appointments"`
}

// StudioService keeps one Store per user, loaded lazily from the document
// backend and written back whole after every mutation.
type StudioService struct {
	docs      persist.Documents
	publisher ChangePublisher
	catalog   *catalog.Catalog
	clock     core.Clock

	mu     sync.Mutex
	stores map[string]*store.Store
}

func NewStudioService(docs persist.Documents, publisher ChangePublisher, cat *catalog.Catalog, clock core.Clock) *StudioService {
	return &StudioService{
		docs:      docs,
		publisher: publisher,
		catalog:   cat,
		clock:     clock,
		stores:    make(map[string]*store.Store),
	}
}

func (s *StudioService) Catalog() *catalog.Catalog { return s.catalog }

// storeFor returns the user's store, loading both streams from the
// document backend on first access.
func (s *StudioService) storeFor(ctx context.Context, owner string) (*store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores[owner]; ok {
		return st, nil
	}

	clients, err := loadStream[core.Client](ctx, s.docs, owner, persist.StreamClients)
	if err != nil {
		return nil, err
	}
	appointments, err := loadStream[core.Appointment](ctx, s.docs, owner, persist.StreamAppointments)
	if err != nil {
		return nil, err
	}

	st := store.Load(s.clock, clients, appointments)
	s.stores[owner] = st
	return st, nil
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

func (s *StudioService) saveStream(ctx context.Context, owner, stream string, items any) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", stream, err)
	}
	if err := s.docs.Save(ctx, owner, stream, body); err != nil {
		return fmt.Errorf("save %s: %w", stream, err)
	}
	return nil
}

func (s *StudioService) publish(ctx context.Context, owner, stream, reason string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, owner, stream, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"owner", owner, "stream", stream, "reason", reason, "error", err)
		// The mutation is already saved locally, don't fail the request.
	}
}

// Clients returns the user's clients, newest first.
func (s *StudioService) Clients(ctx context.Context, owner string) ([]core.Client, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return st.Clients(), nil
}

// Appointments returns the user's appointments in ascending date order.
func (s *StudioService) Appointments(ctx context.Context, owner string) ([]core.Appointment, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return st.Appointments(), nil
}

func (s *StudioService) Client(ctx context.Context, owner, clientID string) (core.Client, bool, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return core.Client{}, false, err
	}
	c, ok := st.Client(clientID)
	return c, ok, nil
}

// AddClient validates and stores a new client.
func (s *StudioService) AddClient(ctx context.Context, owner string, c core.Client) (core.Client, error) {
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return core.Client{}, err
	}

	created := st.InsertClient(c)
	if err := s.saveStream(ctx, owner, persist.StreamClients, st.Clients()); err != nil {
		return core.Client{}, err
	}
	s.publish(ctx, owner, persist.StreamClients, "client_added")
	return created, nil
}

// AddAppointment validates and stores a new appointment. When the price is
// unset it is captured from the service catalog at booking time.
func (s *StudioService) AddAppointment(ctx context.Context, owner string, a core.Appointment) (core.Appointment, error) {
	if a.Price.Cents == 0 {
		if svc, ok := s.catalog.Lookup(a.ServiceID); ok {
			a.Price = svc.Price
		}
	}
	if err := a.Validate(); err != nil {
		return core.Appointment{}, err
	}
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return core.Appointment{}, err
	}

	created := st.InsertAppointment(a)
	if err := s.saveStream(ctx, owner, persist.StreamAppointments, st.Appointments()); err != nil {
		return core.Appointment{}, err
	}
	s.publish(ctx, owner, persist.StreamAppointments, "appointment_added")
	return created, nil
}

// AddClientWithAppointment registers a client together with their first
// appointment. Both are validated before either is stored.
func (s *StudioService) AddClientWithAppointment(ctx context.Context, owner string, c core.Client, a core.Appointment) (core.Client, core.Appointment, error) {
	if err := c.Validate(); err != nil {
		return core.Client{}, core.Appointment{}, err
	}
	if a.Price.Cents == 0 {
		if svc, ok := s.catalog.Lookup(a.ServiceID); ok {
			a.Price = svc.Price
		}
	}
	// The client id is assigned on insert, so validate the appointment with
	// a placeholder first.
	probe := a
	probe.ClientID = "pending"
	if err := probe.Validate(); err != nil {
		return core.Client{}, core.Appointment{}, err
	}

	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return core.Client{}, core.Appointment{}, err
	}

	createdClient := st.InsertClient(c)
	a.ClientID = createdClient.ID
	createdAppointment := st.InsertAppointment(a)

	if err := s.saveStream(ctx, owner, persist.StreamClients, st.Clients()); err != nil {
		return core.Client{}, core.Appointment{}, err
	}
	if err := s.saveStream(ctx, owner, persist.StreamAppointments, st.Appointments()); err != nil {
		return core.Client{}, core.Appointment{}, err
	}
	s.publish(ctx, owner, persist.StreamClients, "client_added")
	s.publish(ctx, owner, persist.StreamAppointments, "appointment_added")
	return createdClient, createdAppointment, nil
}

// UpdateAppointmentStatus moves an appointment to the given status. Unknown
// ids are a no-op and report found=false.
func (s *StudioService) UpdateAppointmentStatus(ctx context.Context, owner, appointmentID string, status core.Status) (bool, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return false, err
	}

	found, err := st.UpdateStatus(appointmentID, status)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := s.saveStream(ctx, owner, persist.StreamAppointments, st.Appointments()); err != nil {
		return true, err
	}
	s.publish(ctx, owner, persist.StreamAppointments, "status_updated")
	return true, nil
}

// DeleteClient removes a client and every appointment that references it.
// Unknown ids are a no-op.
func (s *StudioService) DeleteClient(ctx context.Context, owner, clientID string) (bool, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return false, err
	}

	found, removed := st.DeleteClientCascade(clientID)
	if !found {
		return false, nil
	}

	if err := s.saveStream(ctx, owner, persist.StreamClients, st.Clients()); err != nil {
		return true, err
	}
	if err := s.saveStream(ctx, owner, persist.StreamAppointments, st.Appointments()); err != nil {
		return true, err
	}
	slog.InfoContext(ctx, "Client deleted",
		"owner", owner, "client_id", clientID, "appointments_removed", removed)
	s.publish(ctx, owner, persist.StreamClients, "client_deleted")
	return true, nil
}

// Schedule groups the user's appointments into day buckets.
func (s *StudioService) Schedule(ctx context.Context, owner string) ([]schedule.DayGroup, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return schedule.Build(st.Appointments()), nil
}

// TrailingRevenue returns completed revenue for the last six months.
func (s *StudioService) TrailingRevenue(ctx context.Context, owner string) ([]reports.MonthBucket, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return reports.TrailingMonths(st.Appointments(), s.clock), nil
}

// AnnualRevenue returns completed revenue per month of the current year.
func (s *StudioService) AnnualRevenue(ctx context.Context, owner string) ([]reports.MonthBucket, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return reports.AnnualByMonth(st.Appointments(), s.clock), nil
}

// RevenueByService returns lifetime completed revenue per catalog service.
func (s *StudioService) RevenueByService(ctx context.Context, owner string) ([]reports.ServiceRevenue, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return reports.ByService(st.Appointments(), s.catalog), nil
}

// DashboardSummary returns the headline counters for the dashboard.
func (s *StudioService) DashboardSummary(ctx context.Context, owner string) (dashboard.Summary, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return dashboard.Summary{}, err
	}
	clients, appointments := st.Snapshot()
	return dashboard.Summarize(clients, appointments, s.clock), nil
}

// Upcoming returns the next scheduled appointments, soonest first.
func (s *StudioService) Upcoming(ctx context.Context, owner string, limit int) ([]core.Appointment, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return dashboard.Upcoming(st.Appointments(), s.clock, limit), nil
}

// RecentClients returns the newest registered clients.
func (s *StudioService) RecentClients(ctx context.Context, owner string, limit int) ([]core.Client, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return dashboard.RecentClients(st.Clients(), limit), nil
}

// Export produces a JSON snapshot of both streams for backup.
func (s *StudioService) Export(ctx context.Context, owner string) ([]byte, error) {
	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	clients, appointments := st.Snapshot()
	snap := Snapshot{Clients: clients, Appointments: appointments}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return body, nil
}

// Import replaces the user's data with the given snapshot. The whole
// snapshot is decoded and validated before anything is written, so a bad
// backup never overwrites existing data.
func (s *StudioService) Import(ctx context.Context, owner string, data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	for i, c := range snap.Clients {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("snapshot client %d: %w", i, err)
		}
	}
	for i, a := range snap.Appointments {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("snapshot appointment %d: %w", i, err)
		}
		if !a.Status.Valid() {
			return fmt.Errorf("snapshot appointment %d: %w", i, core.ErrInvalidStatus)
		}
	}

	st, err := s.storeFor(ctx, owner)
	if err != nil {
		return err
	}
	st.Replace(snap.Clients, snap.Appointments)

	if err := s.saveStream(ctx, owner, persist.StreamClients, st.Clients()); err != nil {
		return err
	}
	if err := s.saveStream(ctx, owner, persist.StreamAppointments, st.Appointments()); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Snapshot imported",
		"owner", owner,
		"clients", len(snap.Clients),
		"appointments", len(snap.Appointments))
	s.publish(ctx, owner, persist.StreamClients, "snapshot_imported")
	s.publish(ctx, owner, persist.StreamAppointments, "snapshot_imported")
	return nil
}
