package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"naildash/internal/core"
)

func TestDefaultsOrderAndLookup(t *testing.T) {
	c := New(Defaults())
	if c.Len() != 6 {
		t.Fatalf("expected 6 services, got %d", c.Len())
	}
	if c.Services()[0].ID != "manicure_classic" {
		t.Fatalf("expected manicure_classic first, got %s", c.Services()[0].ID)
	}
	s, ok := c.Lookup("gel_nails")
	if !ok || s.Price.Cents != 12000 {
		t.Fatalf("gel_nails lookup failed: %+v ok=%v", s, ok)
	}
}

func TestServiceNameUnknown(t *testing.T) {
	c := New(Defaults())
	if got := c.ServiceName("gel_nails"); got != "Unhas de Gel" {
		t.Fatalf("got %q", got)
	}
	if got := c.ServiceName("ghost_service"); got != UnknownServiceName {
		t.Fatalf("expected unknown label, got %q", got)
	}
}

func TestNewDeduplicates(t *testing.T) {
	c := New([]core.Service{
		{ID: "a", Name: "First", Price: core.Money{Cents: 100}},
		{ID: "a", Name: "Second", Price: core.Money{Cents: 200}},
		{ID: "", Name: "NoID"},
	})
	if c.Len() != 1 {
		t.Fatalf("expected 1 service, got %d", c.Len())
	}
	if c.ServiceName("a") != "First" {
		t.Fatalf("expected first occurrence kept")
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.txt")
	seed := "# id;name;price;duration\n" +
		"spa;Spa dos Pés;55,50;70\n" +
		"broken;only-two-fields\n" +
		"bad_price;Nome;abc;30\n"
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewFromFile(path)
	if c.Len() != 1 {
		t.Fatalf("expected 1 service from seed, got %d", c.Len())
	}
	s, ok := c.Lookup("spa")
	if !ok || s.Price.Cents != 5550 || s.DurationMinutes != 70 {
		t.Fatalf("unexpected seed parse: %+v ok=%v", s, ok)
	}
}

func TestNewFromFileMissingFallsBack(t *testing.T) {
	c := NewFromFile(filepath.Join(t.TempDir(), "absent.txt"))
	if c.Len() != 6 {
		t.Fatalf("expected defaults, got %d services", c.Len())
	}
}
