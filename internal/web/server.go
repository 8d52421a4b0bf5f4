// Package web serves the task manager over HTTP with JSON bodies.
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"task-manager/internal/logging"
	"task-manager/internal/service"
)

// Options configures sessions.
type Options struct {
	SecretKey    string
	SessionTTL   time.Duration
	CookieSecure bool
}

// Server aggregates the HTTP routes with services.
type Server struct {
	accounts   *service.AccountService
	categories *service.CategoryService
	tasks      *service.TaskService
	logger     logging.Logger
	secret     []byte
	sessionTTL time.Duration
	secure     bool
}

func NewServer(logger logging.Logger, accounts *service.AccountService, categories *service.CategoryService, tasks *service.TaskService, opts Options) *Server {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Server{
		accounts:   accounts,
		categories: categories,
		tasks:      tasks,
		logger:     logger,
		secret:     []byte(opts.SecretKey),
		sessionTTL: ttl,
		secure:     opts.CookieSecure,
	}
}

// Handler returns the full route table wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.about)

	mux.HandleFunc("GET /accounts/signup/{$}", s.signupForm)
	mux.HandleFunc("POST /accounts/signup/{$}", s.signup)
	mux.HandleFunc("GET /accounts/login/{$}", s.loginForm)
	mux.HandleFunc("POST /accounts/login/{$}", s.login)
	mux.HandleFunc("POST /accounts/logout/{$}", s.logout)

	mux.Handle("GET /dashboard/{$}", s.requireLogin(s.dashboard))

	mux.Handle("GET /categories/{$}", s.requireLogin(s.categoryList))
	mux.Handle("GET /categories/add/{$}", s.requireLogin(s.categoryForm))
	mux.Handle("POST /categories/add/{$}", s.requireLogin(s.categoryCreate))
	mux.Handle("GET /categories/{id}/{$}", s.requireLogin(s.categoryDetail))
	mux.Handle("GET /categories/{id}/edit/{$}", s.requireLogin(s.categoryEditForm))
	mux.Handle("POST /categories/{id}/edit/{$}", s.requireLogin(s.categoryUpdate))
	mux.Handle("POST /categories/{id}/delete/{$}", s.requireLogin(s.categoryDelete))

	mux.Handle("GET /tasks/add/{$}", s.requireLogin(s.taskForm))
	mux.Handle("POST /tasks/add/{$}", s.requireLogin(s.taskCreate))
	mux.Handle("GET /tasks/{id}/edit/{$}", s.requireLogin(s.taskEditForm))
	mux.Handle("POST /tasks/{id}/edit/{$}", s.requireLogin(s.taskUpdate))
	mux.Handle("/tasks/{id}/delete/{$}", s.requireLogin(allow(s.taskDelete, http.MethodGet, http.MethodPost)))
	mux.Handle("/tasks/{id}/complete/{$}", s.requireLogin(allow(s.taskComplete, http.MethodGet, http.MethodPost)))

	mux.Handle("GET /archives/{$}", s.requireLogin(s.archive))
	mux.Handle("/archives/{id}/delete/{$}", s.requireLogin(allow(s.archiveDelete, http.MethodGet, http.MethodPost)))
	mux.Handle("POST /archives/delete-all/{$}", s.requireLogin(s.archiveDeleteAll))

	mux.Handle("GET /search/{$}", s.requireLogin(s.search))

	return s.logRequests(s.loadSession(mux))
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info(shutdownCtx, "http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// allow restricts h to the listed methods. HEAD is not implied by GET: the
// routes using allow change state.
func allow(h http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, m := range methods {
			if r.Method == m {
				h(w, r)
				return
			}
		}
		w.Header().Set("Allow", strings.Join(methods, ", "))
		writeJSON(w, http.StatusMethodNotAllowed, detail("Method not allowed."))
	}
}
