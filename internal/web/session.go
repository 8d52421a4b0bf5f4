package web

import (
	"net/http"
	"strings"

	"task-manager/internal/auth"
)

const (
	sessionCookie = "sessionid"
	loginPath     = "/accounts/login/"
	dashboardPath = "/dashboard/"
)

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, id uint) error {
	token, err := auth.GenerateToken(id, s.secret, s.sessionTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	infoFrom(r.Context()).UserID = id
	return nil
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext accepts only local absolute paths as redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return dashboardPath
	}
	return next
}
