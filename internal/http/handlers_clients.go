package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"naildash/internal/core"
)

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderClientList(w, r)
	case http.MethodPost:
		s.handleCreateClient(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderClientList(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	clients, err := s.studio.Clients(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List clients error", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct {
		Clients []core.Client
	}{Clients: clients}
	if err := s.templates.ExecuteTemplate(w, "clients.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Clients template execution failed", "error", err)
	}
}

// handleCreateClient registers a new client. When the form carries service
// and date fields the first appointment is booked in the same request.
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Requisição inválida</div>`))
		return
	}
	user, _ := currentUser(r)

	client := core.Client{
		Name:  sanitizeInput(r.Form.Get("name")),
		Phone: sanitizeInput(r.Form.Get("phone")),
		Email: sanitizeInput(r.Form.Get("email")),
		Notes: sanitizeInput(r.Form.Get("notes")),
	}

	serviceID := sanitizeInput(r.Form.Get("service_id"))
	dateStr := r.Form.Get("date")

	var err error
	var created core.Client
	if serviceID != "" && dateStr != "" {
		date, perr := parseDateTime(dateStr, r.Form.Get("time"))
		if perr != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Data inválida</div>`))
			return
		}
		appointment := core.Appointment{
			ServiceID: serviceID,
			Date:      date,
			Notes:     sanitizeInput(r.Form.Get("appointment_notes")),
		}
		created, _, err = s.studio.AddClientWithAppointment(r.Context(), user.ID, client, appointment)
	} else {
		created, err = s.studio.AddClient(r.Context(), user.ID, client)
	}
	if err != nil {
		if isValidationError(err) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Dados inválidos: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Create client error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erro ao salvar</div>`))
		return
	}

	w.Header().Set("HX-Trigger", "client:created")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Cliente cadastrada: ` + template.HTMLEscapeString(created.Name) + `</div>`))
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
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
	clientID := sanitizeInput(r.Form.Get("id"))

	found, err := s.studio.DeleteClient(r.Context(), user.ID, clientID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete client error", "error", err, "client_id", clientID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erro ao excluir</div>`))
		return
	}

	// Deleting an already-gone client succeeds quietly.
	if found {
		w.Header().Set("HX-Trigger", "client:deleted")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Cliente removida</div>`))
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrNameTooLong) ||
		errors.Is(err, core.ErrEmptyPhone) ||
		errors.Is(err, core.ErrEmptyEmail) ||
		errors.Is(err, core.ErrEmptyClientID) ||
		errors.Is(err, core.ErrEmptyServiceID) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidStatus)
}
