package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"naildash/internal/auth"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLoginPage(w, r, "")
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		username := sanitizeInput(r.Form.Get("username"))
		password := r.Form.Get("password")

		user, err := s.auth.Login(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				w.WriteHeader(http.StatusUnauthorized)
				s.renderLoginPage(w, r, "Usuário ou senha inválidos")
				return
			}
			slog.ErrorContext(r.Context(), "Login failed", "error", err)
			http.Error(w, "erro interno", http.StatusInternalServerError)
			return
		}

		token := s.sessions.Create(user)
		setSessionCookie(w, token, s.sessions.TTL())
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	user, err := s.auth.Register(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			w.WriteHeader(http.StatusConflict)
			s.renderLoginPage(w, r, "Nome de usuário já em uso")
		case errors.Is(err, auth.ErrEmptyUsername), errors.Is(err, auth.ErrEmptyPassword):
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderLoginPage(w, r, "Preencha usuário e senha")
		default:
			slog.ErrorContext(r.Context(), "Register failed", "error", err)
			http.Error(w, "erro interno", http.StatusInternalServerError)
		}
		return
	}

	token := s.sessions.Create(user)
	setSessionCookie(w, token, s.sessions.TTL())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Destroy(cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) renderLoginPage(w http.ResponseWriter, r *http.Request, errorMsg string) {
	if s.templates == nil {
		_, _ = w.Write([]byte(`<p>` + template.HTMLEscapeString(errorMsg) + `</p>`))
		return
	}
	data := struct{ Error string }{Error: errorMsg}
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
	}
}
