package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type (
	// Status is the lifecycle state of an appointment. Any status may be set
	// from any other; rescheduling a completed or cancelled appointment moves
	// it back to scheduled.
	Status string

	// Service is a catalog entry. The catalog is loaded once and read-only at
	// runtime.
	Service struct {
		ID              string
		Name            string
		Price           Money
		DurationMinutes int
	}

	Client struct {
		ID        string
		Name      string
		Phone     string
		Email     string
		Notes     string
		CreatedAt time.Time
		AvatarURL string
	}

	// Appointment links one client and one service at a specific date/time.
	// Price is captured from the catalog at booking time and never re-derived,
	// so later catalog price changes do not alter historical reports.
	Appointment struct {
		ID        string
		ClientID  string
		ServiceID string
		Date      time.Time
		Price     Money
		Status    Status
		CreatedAt time.Time
		Notes     string
	}
)

var (
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyName      = errors.New("empty name")
	ErrNameTooLong    = errors.New("name too long (max 200 characters)")
	ErrEmptyPhone     = errors.New("empty phone")
	ErrEmptyEmail     = errors.New("empty email")
	ErrEmptyClientID  = errors.New("empty client id")
	ErrEmptyServiceID = errors.New("empty service id")
)

// Valid reports whether s is one of the three representable statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return ErrNameTooLong
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrEmptyPhone
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

func (a Appointment) Validate() error {
	if strings.TrimSpace(a.ClientID) == "" {
		return ErrEmptyClientID
	}
	if strings.TrimSpace(a.ServiceID) == "" {
		return ErrEmptyServiceID
	}
	if a.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := a.Price.Validate(); err != nil {
		return err
	}
	if a.Status != "" && !a.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in its own location. An appointment
// scheduled earlier today still compares as today-or-later against this.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
