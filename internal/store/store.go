// Package store keeps one user's clients and appointments in memory. It owns
// both collections; the schedule, report and dashboard engines only ever see
// copies. The store performs no I/O; the service layer persists snapshots
// after each mutation.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"naildash/internal/core"
)

// Store is safe for concurrent use. A single mutex serializes mutations and
// the snapshot reads used to build reports, so an aggregation never observes
// a half-applied change.
type Store struct {
	mu           sync.Mutex
	clock        core.Clock
	clients      []core.Client     // newest first
	appointments []core.Appointment // ascending by date, always
}

func New(clock core.Clock) *Store {
	if clock == nil {
		clock = core.SystemClock()
	}
	return &Store{clock: clock}
}

// Load builds a store from previously persisted records. The appointment
// ordering invariant is re-established here rather than trusted, so a
// hand-edited or imported snapshot cannot break it.
func Load(clock core.Clock, clients []core.Client, appointments []core.Appointment) *Store {
	s := New(clock)
	s.clients = append(s.clients, clients...)
	s.appointments = append(s.appointments, appointments...)
	sortByDate(s.appointments)
	return s
}

// InsertClient stores a new client, assigning id, creation timestamp and
// avatar URL when absent. Clients are kept newest-first.
func (s *Store) InsertClient(c core.Client) core.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock.Now()
	}
	if c.AvatarURL == "" {
		c.AvatarURL = fmt.Sprintf("https://picsum.photos/seed/%s/200/200", c.ID)
	}
	s.clients = append([]core.Client{c}, s.clients...)
	return c
}

// InsertAppointment stores a new appointment, assigning id, creation
// timestamp and the initial scheduled status when absent. The collection
// stays sorted ascending by date.
func (s *Store) InsertAppointment(a core.Appointment) core.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.clock.Now()
	}
	if a.Status == "" {
		a.Status = core.StatusScheduled
	}
	s.appointments = append(s.appointments, a)
	sortByDate(s.appointments)
	return a
}

// UpdateStatus replaces the status of the matching appointment in place.
// There is no transition table: completed and cancelled appointments may move
// back to scheduled (manual correction of human data entry). A missing id is
// a no-op, not an error: the record being absent already satisfies the
// caller's intent. Returns whether a record was updated.
func (s *Store) UpdateStatus(id string, status core.Status) (bool, error) {
	if !status.Valid() {
		return false, core.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

// DeleteClientCascade removes the client and every appointment referencing
// it. Both collections reflect the change before the call returns. Returns
// whether the client existed and how many appointments were removed.
func (s *Store) DeleteClientCascade(clientID string) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.clients[:0]
	for _, c := range s.clients {
		if c.ID == clientID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	s.clients = kept

	removed := 0
	keptAppts := s.appointments[:0]
	for _, a := range s.appointments {
		if a.ClientID == clientID {
			removed++
			continue
		}
		keptAppts = append(keptAppts, a)
	}
	s.appointments = keptAppts

	return found, removed
}

// Clients returns a copy of the client list, newest first.
func (s *Store) Clients() []core.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

// Appointments returns a copy of the appointment list, ascending by date.
func (s *Store) Appointments() []core.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// Client resolves a client by id.
func (s *Store) Client(id string) (core.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			return c, true
		}
	}
	return core.Client{}, false
}

// Appointment resolves an appointment by id.
func (s *Store) Appointment(id string) (core.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.ID == id {
			return a, true
		}
	}
	return core.Appointment{}, false
}

// Snapshot returns copies of both collections taken under a single lock.
func (s *Store) Snapshot() ([]core.Client, []core.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients := make([]core.Client, len(s.clients))
	copy(clients, s.clients)
	appointments := make([]core.Appointment, len(s.appointments))
	copy(appointments, s.appointments)
	return clients, appointments
}

// Replace swaps in a full snapshot, used by backup import after the payload
// has been validated in full.
func (s *Store) Replace(clients []core.Client, appointments []core.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append([]core.Client(nil), clients...)
	s.appointments = append([]core.Appointment(nil), appointments...)
	sortByDate(s.appointments)
}

func sortByDate(appts []core.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].Date.Before(appts[j].Date)
	})
}
