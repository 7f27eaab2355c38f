package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/therapyplatform/practice-system/internal/api"
	"github.com/therapyplatform/practice-system/internal/api/handler"
	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/service"
	"github.com/therapyplatform/practice-system/internal/infrastructure/directory"
)

type mapKV struct {
	data map[string]string
}

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string]string)}
}

func (m *mapKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) SetAll(_ context.Context, entries map[string]string) error {
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}

func (m *mapKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func newAuthFixture(t *testing.T) (*handler.AuthHandler, *service.SessionStore, *echo.Echo) {
	t.Helper()
	store := service.NewSessionStore(newMapKV(), zerolog.Nop())
	store.Restore(context.Background())

	auth := service.NewAuthService(
		directory.NewMemory(directory.DemoIdentities(), 0),
		store, nil, "test-secret", time.Second, zerolog.Nop(),
	)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return handler.NewAuthHandler(auth, store), store, e
}

func postLogin(e *echo.Echo, h *handler.AuthHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthHandler_Login(t *testing.T) {
	h, store, e := newAuthFixture(t)

	rec := postLogin(e, h, `{"email":"practitioner@therapy.com","password":"password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string          `json:"token"`
		User  domain.Identity `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected token in response")
	}
	if resp.User.Role != domain.RolePractitioner {
		t.Fatalf("expected practitioner role, got %s", resp.User.Role)
	}
	if store.Current() == nil {
		t.Fatalf("login should install the session")
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	h, store, e := newAuthFixture(t)

	rec := postLogin(e, h, `{"email":"admin@therapy.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	// The message must not reveal whether the email or the password was wrong.
	if resp["error"] != domain.ErrInvalidCredentials.Error() {
		t.Fatalf("unexpected error message: %q", resp["error"])
	}
	if store.Current() != nil {
		t.Fatalf("failed login must not install a session")
	}
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	h, _, e := newAuthFixture(t)

	cases := []string{
		`{"email":"","password":"password"}`,
		`{"email":"not-an-email","password":"password"}`,
		`{"email":"admin@therapy.com","password":""}`,
		`{broken`,
	}
	for _, body := range cases {
		if rec := postLogin(e, h, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuthHandler_Session(t *testing.T) {
	h, _, e := newAuthFixture(t)

	// Anonymous: 401.
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Session(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous session lookup should be 401, got %d", rec.Code)
	}

	// After login: the active session comes back.
	if rec := postLogin(e, h, `{"email":"patient@therapy.com","password":"password"}`); rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d", rec.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := h.Session(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_SessionWhileLoading(t *testing.T) {
	store := service.NewSessionStore(newMapKV(), zerolog.Nop()) // Restore not yet run
	auth := service.NewAuthService(
		directory.NewMemory(directory.DemoIdentities(), 0),
		store, nil, "test-secret", time.Second, zerolog.Nop(),
	)
	h := handler.NewAuthHandler(auth, store)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	if err := h.Session(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Session returned error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while loading, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("loading response should carry Retry-After")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h, store, e := newAuthFixture(t)

	if rec := postLogin(e, h, `{"email":"admin@therapy.com","password":"password"}`); rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if store.Current() != nil {
		t.Fatalf("logout should clear the session")
	}

	// Already logged out: still 204.
	rec = httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("repeated Logout returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on repeated logout, got %d", rec.Code)
	}
}

func TestAuthHandler_LoginView(t *testing.T) {
	h, _, e := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/login?from=%2Fadmin", nil)
	rec := httptest.NewRecorder()
	if err := h.LoginView(e.NewContext(req, rec)); err != nil {
		t.Fatalf("LoginView returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["from"] != "/admin" {
		t.Fatalf("origin not echoed, got %q", resp["from"])
	}
}
