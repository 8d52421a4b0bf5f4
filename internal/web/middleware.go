package web

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"task-manager/internal/auth"
)

type ctxKey string

const requestInfoKey ctxKey = "requestInfo"

// requestInfo is filled in as the request moves through the middleware so the
// access log can report who made it.
type requestInfo struct {
	ID     string
	UserID uint
}

func infoFrom(ctx context.Context) *requestInfo {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		return info
	}
	return &requestInfo{}
}

// userID returns the authenticated user, or 0 for anonymous requests.
func userID(r *http.Request) uint {
	return infoFrom(r.Context()).UserID
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &requestInfo{ID: uuid.NewString()}
		w.Header().Set("X-Request-ID", info.ID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), requestInfoKey, info)
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.Info(ctx, "request",
			"request_id", info.ID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"user_id", info.UserID,
		)
	})
}

// loadSession resolves the session cookie to a user id. A bad or expired
// token leaves the request anonymous and clears the cookie.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil && cookie.Value != "" {
			id, err := auth.GetUserIDFromToken(cookie.Value, s.secret)
			if err != nil {
				s.logger.Debug(r.Context(), "rejecting session", "error", err)
				s.clearSession(w)
			} else {
				infoFrom(r.Context()).UserID = id
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireLogin redirects anonymous requests to the login page, carrying the
// requested location in next.
func (s *Server) requireLogin(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID(r) == 0 {
			target := loginPath + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		h(w, r)
	})
}
