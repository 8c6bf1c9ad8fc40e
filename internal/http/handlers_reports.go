package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"naildash/internal/core"
	"naildash/internal/reports"
)

// 1 MiB is plenty for a personal studio backup.
const maxImportBytes = 1 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	user, _ := currentUser(r)

	data := struct {
		Username string
		Services []core.Service
	}{
		Username: user.Username,
		Services: s.studio.Catalog().Services(),
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSummary renders the dashboard counters partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	summary, err := s.studio.DashboardSummary(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard summary error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	upcoming, err := s.studio.Upcoming(r.Context(), user.ID, 5)
	if err != nil {
		slog.ErrorContext(r.Context(), "Upcoming appointments error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	recent, err := s.studio.RecentClients(r.Context(), user.ID, 5)
	if err != nil {
		slog.ErrorContext(r.Context(), "Recent clients error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	type upcomingRow struct {
		When    string
		Client  string
		Service string
		Price   string
	}
	data := struct {
		TotalClients       int
		UpcomingScheduled  int
		CompletedThisMonth int
		Upcoming           []upcomingRow
		RecentClients      []core.Client
	}{
		TotalClients:       summary.TotalClients,
		UpcomingScheduled:  summary.UpcomingScheduled,
		CompletedThisMonth: summary.CompletedThisMonth,
		RecentClients:      recent,
	}
	for _, a := range upcoming {
		clientName := ""
		if c, ok, _ := s.studio.Client(r.Context(), user.ID, a.ClientID); ok {
			clientName = c.Name
		}
		data.Upcoming = append(data.Upcoming, upcomingRow{
			When:    a.Date.Format("02/01 15:04"),
			Client:  clientName,
			Service: s.studio.Catalog().ServiceName(a.ServiceID),
			Price:   a.Price.FormatBRL(),
		})
	}

	s.renderPartial(w, r, "summary.html", data)
}

// handleSchedule renders the appointment list grouped by day.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	groups, err := s.studio.Schedule(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Schedule error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	type apptRow struct {
		ID      string
		Time    string
		Client  string
		Service string
		Price   string
		Status  string
	}
	type dayRow struct {
		Label        string
		Appointments []apptRow
	}
	data := struct {
		Days []dayRow
	}{}
	for _, g := range groups {
		day := dayRow{Label: g.Label}
		for _, a := range g.Appointments {
			clientName := ""
			if c, ok, _ := s.studio.Client(r.Context(), user.ID, a.ClientID); ok {
				clientName = c.Name
			}
			day.Appointments = append(day.Appointments, apptRow{
				ID:      a.ID,
				Time:    a.Date.Format("15:04"),
				Client:  clientName,
				Service: s.studio.Catalog().ServiceName(a.ServiceID),
				Price:   a.Price.FormatBRL(),
				Status:  string(a.Status),
			})
		}
		data.Days = append(data.Days, day)
	}

	s.renderPartial(w, r, "schedule.html", data)
}

type monthRow struct {
	Label string
	Total string
}

func monthRows(buckets []reports.MonthBucket) []monthRow {
	rows := make([]monthRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, monthRow{Label: b.Label, Total: b.Total.FormatBRL()})
	}
	return rows
}

func (s *Server) handleTrailingRevenue(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	buckets, err := s.studio.TrailingRevenue(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Trailing revenue error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	s.renderPartial(w, r, "revenue_months.html", struct {
		Title  string
		Months []monthRow
	}{Title: "Últimos 6 meses", Months: monthRows(buckets)})
}

func (s *Server) handleAnnualRevenue(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	buckets, err := s.studio.AnnualRevenue(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Annual revenue error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	s.renderPartial(w, r, "revenue_months.html", struct {
		Title  string
		Months []monthRow
	}{Title: "Faturamento do ano", Months: monthRows(buckets)})
}

func (s *Server) handleRevenueByService(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	rows, err := s.studio.RevenueByService(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Revenue by service error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	type serviceRow struct {
		Name    string
		Count   int
		Revenue string
	}
	data := struct {
		Services []serviceRow
	}{}
	for _, sr := range rows {
		data.Services = append(data.Services, serviceRow{
			Name:    sr.Name,
			Count:   sr.Count,
			Revenue: sr.Revenue.FormatBRL(),
		})
	}

	s.renderPartial(w, r, "revenue_services.html", data)
}

// handleExport streams the user's backup snapshot as a JSON download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	body, err := s.studio.Export(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	filename := "naildash-" + time.Now().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(body)
}

// handleImport replaces the user's data with an uploaded snapshot. Invalid
// snapshots are rejected whole; nothing is overwritten on failure.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, _ := currentUser(r)

	// The UI posts the snapshot as a form field; API clients may send the
	// raw JSON body instead.
	var body []byte
	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`<div class="error">Requisição inválida</div>`))
			return
		}
		body = []byte(r.Form.Get("snapshot"))
	} else {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`<div class="error">Falha ao ler arquivo</div>`))
			return
		}
		body = raw
	}
	if len(body) > maxImportBytes {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`<div class="error">Arquivo muito grande</div>`))
		return
	}

	if err := s.studio.Import(r.Context(), user.ID, body); err != nil {
		slog.WarnContext(r.Context(), "Import rejected", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Backup inválido, nada foi alterado</div>`))
		return
	}

	w.Header().Set("HX-Trigger", "data:imported")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Backup restaurado</div>`))
}

func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", name)
	}
}
