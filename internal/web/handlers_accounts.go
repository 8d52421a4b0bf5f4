package web

import (
	"net/http"
	"net/url"

	"task-manager/internal/service"
)

const (
	appName = "Task Manager"
	// Version is reported by the about page.
	Version = "1.0.0"
)

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

func (s *Server) about(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"name":    appName,
		"version": Version,
		"links": map[string]string{
			"signup":     "/accounts/signup/",
			"login":      loginPath,
			"dashboard":  dashboardPath,
			"categories": "/categories/",
			"archives":   "/archives/",
			"search":     "/search/",
		},
	}
	if id := userID(r); id != 0 {
		if user, err := s.accounts.User(r.Context(), id); err == nil {
			resp["user"] = newUserView(user)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": []string{"username", "first_name", "last_name", "email", "password1", "password2"},
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	err := decodeInput(w, r, &in, func(v url.Values) error {
		in = service.RegisterInput{
			Username:  v.Get("username"),
			FirstName: v.Get("first_name"),
			LastName:  v.Get("last_name"),
			Email:     v.Get("email"),
			Password1: v.Get("password1"),
			Password2: v.Get("password2"),
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.accounts.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.startSession(w, r, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "user registered", "user_id", user.ID, "username", user.Username)
	seeOther(w, dashboardPath, map[string]any{"user": newUserView(user)})
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": []string{"username", "password"},
		"next":   safeNext(r.URL.Query().Get("next")),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	err := decodeInput(w, r, &in, func(v url.Values) error {
		in = loginInput{Username: v.Get("username"), Password: v.Get("password"), Next: v.Get("next")}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.Next == "" {
		in.Next = r.URL.Query().Get("next")
	}

	user, err := s.accounts.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.startSession(w, r, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, safeNext(in.Next), map[string]any{"user": newUserView(user)})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	seeOther(w, "/", detail("Logged out."))
}
