package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
	"github.com/therapyplatform/practice-system/internal/core/service"
)

type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) SetAll(_ context.Context, entries map[string]string) error {
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type capturingSink struct {
	events []domain.AuditEvent
}

func (s *capturingSink) Record(event domain.AuditEvent) {
	s.events = append(s.events, event)
}

func restoredStore(t *testing.T) *service.SessionStore {
	t.Helper()
	store := service.NewSessionStore(newMemoryKV(), zerolog.Nop())
	store.Restore(context.Background())
	return store
}

func storeWithSession(t *testing.T, role domain.Role, token string) *service.SessionStore {
	t.Helper()
	store := restoredStore(t)
	identity := domain.Identity{ID: "1", DisplayName: "Dr. Sarah Johnson", Email: "admin@therapy.com", Role: role}
	if err := store.Set(context.Background(), identity, token); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	return store
}

func serveGuarded(t *testing.T, store *service.SessionStore, sink *capturingSink, path string, header http.Header, required ...domain.Role) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// A nil *capturingSink must become a nil interface, not a typed nil.
	var audit ports.AuditSink
	if sink != nil {
		audit = sink
	}

	handler := Guard(service.NewRouteGuard(store), audit, required...)(func(c echo.Context) error {
		identity, ok := c.Get(IdentityContextKey).(domain.Identity)
		if !ok {
			t.Fatalf("identity not injected into context")
		}
		return c.JSON(http.StatusOK, identity)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestGuard_LoadingReturns503(t *testing.T) {
	store := service.NewSessionStore(newMemoryKV(), zerolog.Nop()) // Restore never called

	rec := serveGuarded(t, store, nil, "/admin", nil, domain.RoleAdmin)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while loading, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("loading response should carry Retry-After")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "" {
		t.Fatalf("loading must not redirect, got Location %q", loc)
	}
}

func TestGuard_AnonymousRedirectsToLoginWithOrigin(t *testing.T) {
	sink := &capturingSink{}

	rec := serveGuarded(t, restoredStore(t), sink, "/admin/patients", nil, domain.RoleAdmin)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	if err != nil {
		t.Fatalf("bad Location header: %v", err)
	}
	if loc.Path != service.LoginPath {
		t.Fatalf("expected redirect to %s, got %s", service.LoginPath, loc.Path)
	}
	if from := loc.Query().Get("from"); from != "/admin/patients" {
		t.Fatalf("origin not preserved, got %q", from)
	}

	if len(sink.events) != 1 || sink.events[0].Result != domain.AuditResultDenied {
		t.Fatalf("expected one denied audit event, got %+v", sink.events)
	}
}

func TestGuard_RoleDeniedRedirectsToOwnHome(t *testing.T) {
	sink := &capturingSink{}
	store := storeWithSession(t, domain.RolePatient, "tok")

	rec := serveGuarded(t, store, sink, "/admin", nil, domain.RoleAdmin)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/patient" {
		t.Fatalf("denied patient should land on /patient, got %q", loc)
	}
	if len(sink.events) != 1 || sink.events[0].ActorID != "1" {
		t.Fatalf("denied access should be audited with the actor, got %+v", sink.events)
	}
}

func TestGuard_PermittedRoleRuns(t *testing.T) {
	store := storeWithSession(t, domain.RoleAdmin, "tok")

	rec := serveGuarded(t, store, nil, "/admin", nil, domain.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuard_NoRoleRestriction(t *testing.T) {
	store := storeWithSession(t, domain.RolePatient, "tok")

	rec := serveGuarded(t, store, nil, "/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("any authenticated identity should pass, got %d", rec.Code)
	}
}

func TestGuard_BearerTokenMismatchIsAnonymous(t *testing.T) {
	store := storeWithSession(t, domain.RoleAdmin, "tok")

	header := http.Header{}
	header.Set(echo.HeaderAuthorization, "Bearer other-token")
	rec := serveGuarded(t, store, nil, "/admin", header, domain.RoleAdmin)
	if rec.Code != http.StatusFound {
		t.Fatalf("mismatched token should redirect to login, got %d", rec.Code)
	}

	loc, _ := url.Parse(rec.Header().Get(echo.HeaderLocation))
	if loc.Path != service.LoginPath {
		t.Fatalf("expected redirect to %s, got %s", service.LoginPath, loc.Path)
	}
}

func TestGuard_BearerTokenMatchRuns(t *testing.T) {
	store := storeWithSession(t, domain.RoleAdmin, "tok")

	header := http.Header{}
	header.Set(echo.HeaderAuthorization, "Bearer tok")
	rec := serveGuarded(t, store, nil, "/admin", header, domain.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("matching token should pass, got %d", rec.Code)
	}
}
