package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"naildash/internal/core"
)

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Requisição inválida</div>`))
		return
	}
	user, _ := currentUser(r)

	date, err := parseDateTime(r.Form.Get("date"), r.Form.Get("time"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Data inválida</div>`))
		return
	}

	appointment := core.Appointment{
		ClientID:  sanitizeInput(r.Form.Get("client_id")),
		ServiceID: sanitizeInput(r.Form.Get("service_id")),
		Date:      date,
		Notes:     sanitizeInput(r.Form.Get("notes")),
	}

	// An explicit price overrides the catalog price.
	if v := r.Form.Get("price"); v != "" {
		cents, perr := core.ParseDecimalToCents(v)
		if perr != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Valor inválido</div>`))
			return
		}
		appointment.Price = core.Money{Cents: cents}
	}

	created, err := s.studio.AddAppointment(r.Context(), user.ID, appointment)
	if err != nil {
		if isValidationError(err) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Dados inválidos: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Create appointment error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erro ao salvar</div>`))
		return
	}

	serviceName := s.studio.Catalog().ServiceName(created.ServiceID)
	w.Header().Set("HX-Trigger", "appointment:created")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Agendamento criado: ` +
		template.HTMLEscapeString(serviceName) + ` — ` +
		template.HTMLEscapeString(created.Price.FormatBRL()) + `</div>`))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user, _ := currentUser(r)

	id := sanitizeInput(r.Form.Get("id"))
	status := core.Status(sanitizeInput(r.Form.Get("status")))

	found, err := s.studio.UpdateAppointmentStatus(r.Context(), user.ID, id, status)
	if err != nil {
		if isValidationError(err) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Status inválido</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Update status error", "error", err, "appointment_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erro ao atualizar</div>`))
		return
	}

	if found {
		w.Header().Set("HX-Trigger", "appointment:updated")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Status atualizado</div>`))
}
