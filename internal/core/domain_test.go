package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("%q expected valid", s)
		}
	}
	for _, s := range []Status{"", "done", "SCHEDULED", "canceled"} {
		if s.Valid() {
			t.Fatalf("%q expected invalid", s)
		}
	}
}

func TestClientValidate(t *testing.T) {
	good := Client{Name: "Ana Silva", Phone: "(11) 98765-4321", Email: "ana@example.com"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Client{
		{Name: "", Phone: "1", Email: "a@b"},
		{Name: "Ana", Phone: "", Email: "a@b"},
		{Name: "Ana", Phone: "1", Email: ""},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	long := Client{Name: strings.Repeat("a", 201), Phone: "1", Email: "a@b"}
	if err := long.Validate(); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestAppointmentValidate(t *testing.T) {
	date := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	good := Appointment{ClientID: "c1", ServiceID: "gel_nails", Date: date, Price: Money{Cents: 12000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Appointment{
		{ClientID: "", ServiceID: "s", Date: date, Price: Money{Cents: 1}},
		{ClientID: "c", ServiceID: "", Date: date, Price: Money{Cents: 1}},
		{ClientID: "c", ServiceID: "s", Date: time.Time{}, Price: Money{Cents: 1}},
		{ClientID: "c", ServiceID: "s", Date: date, Price: Money{Cents: 0}},
		{ClientID: "c", ServiceID: "s", Date: date, Price: Money{Cents: 1}, Status: "done"},
	}
	for i, a := range bads {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2025, 3, 5, 18, 45, 12, 999, loc)
	got := StartOfDay(at)
	want := time.Date(2025, 3, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatal("expected same day")
	}
	if SameDay(a, c) {
		t.Fatal("expected different day")
	}
}
