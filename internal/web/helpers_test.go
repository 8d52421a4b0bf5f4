package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/service"
)

var fixedNow = time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)

const testPassword = "correct-horse"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	srv := NewServer(
		logging.Discard(),
		service.NewAccountService(userRepo, 8),
		service.NewCategoryService(categoryRepo, taskRepo),
		service.NewTaskService(taskRepo, categoryRepo, func() time.Time { return fixedNow }),
		Options{SecretKey: "test-secret", SessionTTL: time.Hour},
	)
	return srv.Handler()
}

// rawJSON is sent verbatim with a JSON content type.
type rawJSON string

// client keeps the session cookie between requests like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

// do sends body as JSON unless it is url.Values, which is form-encoded.
func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case rawJSON:
		reader = strings.NewReader(string(b))
		contentType = "application/json"
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) signup(username string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/accounts/signup/", url.Values{
		"username":   {username},
		"first_name": {"Test"},
		"last_name":  {"User"},
		"email":      {username + "@example.com"},
		"password1":  {testPassword},
		"password2":  {testPassword},
	})
	require.Equal(c.t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

func (c *client) createTask(title string, fields map[string]any) uint {
	c.t.Helper()
	body := map[string]any{"title": title, "due_date": "2026-06-20"}
	for k, v := range fields {
		body[k] = v
	}
	rec := c.do(http.MethodPost, "/tasks/add/", body)
	require.Equal(c.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return uint(decode(c.t, rec)["task"].(map[string]any)["id"].(float64))
}

func (c *client) createCategory(name string) uint {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/categories/add/", map[string]any{"name": name})
	require.Equal(c.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return uint(decode(c.t, rec)["category"].(map[string]any)["id"].(float64))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func items(t *testing.T, body map[string]any, key string) []any {
	t.Helper()
	list, ok := body[key].([]any)
	require.True(t, ok, "%s is not a list: %v", key, body[key])
	return list
}
