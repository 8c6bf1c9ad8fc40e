// Package catalog holds the fixed service list. It is loaded once at startup
// and read-only afterwards; appointments keep their own captured price, so
// editing the seed file never rewrites history.
package catalog

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"naildash/internal/core"
)

// UnknownServiceName is the degraded label used whenever an appointment
// references a service id that is no longer in the catalog.
const UnknownServiceName = "Serviço desconhecido"

type Catalog struct {
	services []core.Service
	byID     map[string]core.Service
}

// New builds a catalog preserving the input order. Duplicate ids keep the
// first occurrence.
func New(services []core.Service) *Catalog {
	c := &Catalog{byID: make(map[string]core.Service, len(services))}
	for _, s := range services {
		if s.ID == "" {
			continue
		}
		if _, ok := c.byID[s.ID]; ok {
			continue
		}
		c.byID[s.ID] = s
		c.services = append(c.services, s)
	}
	return c
}

// NewFromFile reads a seed file with one service per line in the form
// "id;name;price;duration_minutes" (price in reais, comma or dot decimals).
// Blank lines and lines starting with # are skipped, as are malformed lines.
// Falls back to the built-in defaults when the file is missing or empty.
func NewFromFile(path string) *Catalog {
	services := readServices(path)
	if len(services) == 0 {
		services = Defaults()
	}
	return New(services)
}

// Defaults returns the studio's standard price list.
func Defaults() []core.Service {
	return []core.Service{
		{ID: "manicure_classic", Name: "Manicure Clássica", Price: core.Money{Cents: 3000}, DurationMinutes: 45},
		{ID: "pedicure_classic", Name: "Pedicure Clássica", Price: core.Money{Cents: 4000}, DurationMinutes: 60},
		{ID: "gel_nails", Name: "Unhas de Gel", Price: core.Money{Cents: 12000}, DurationMinutes: 120},
		{ID: "nail_art", Name: "Nail Art (por unha)", Price: core.Money{Cents: 1000}, DurationMinutes: 15},
		{ID: "manicure_gel", Name: "Manicure em Gel", Price: core.Money{Cents: 8000}, DurationMinutes: 90},
		{ID: "maintenance", Name: "Manutenção", Price: core.Money{Cents: 9000}, DurationMinutes: 100},
	}
}

// Services returns the catalog entries in display order.
func (c *Catalog) Services() []core.Service {
	out := make([]core.Service, len(c.services))
	copy(out, c.services)
	return out
}

// Lookup resolves a service id.
func (c *Catalog) Lookup(id string) (core.Service, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// ServiceName resolves a service id to its display name, degrading to
// UnknownServiceName for ids no longer in the catalog.
func (c *Catalog) ServiceName(id string) string {
	if s, ok := c.byID[id]; ok {
		return s.Name
	}
	return UnknownServiceName
}

func (c *Catalog) Len() int {
	return len(c.services)
}

func readServices(path string) []core.Service {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []core.Service
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) != 4 {
			continue
		}
		cents, err := core.ParseDecimalToCents(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}
		duration, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil || duration <= 0 {
			continue
		}
		out = append(out, core.Service{
			ID:              strings.TrimSpace(parts[0]),
			Name:            strings.TrimSpace(parts[1]),
			Price:           core.Money{Cents: cents},
			DurationMinutes: duration,
		})
	}
	return out
}
