package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

func guardWithSession(t *testing.T, role domain.Role, token string) *RouteGuard {
	t.Helper()
	store := NewSessionStore(newFakeKV(), zerolog.Nop())
	store.Restore(context.Background())
	identity := testIdentity()
	identity.Role = role
	if err := store.Set(context.Background(), identity, token); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	return NewRouteGuard(store)
}

func anonymousGuard(t *testing.T) *RouteGuard {
	t.Helper()
	store := NewSessionStore(newFakeKV(), zerolog.Nop())
	store.Restore(context.Background())
	return NewRouteGuard(store)
}

func TestRouteGuard_LoadingMakesNoRedirect(t *testing.T) {
	store := NewSessionStore(newFakeKV(), zerolog.Nop())
	guard := NewRouteGuard(store) // Restore never called: still loading

	decision := guard.Decide("/admin", domain.RoleAdmin)
	if decision.Kind != DecisionLoading {
		t.Fatalf("expected loading, got %s", decision.Kind)
	}
	if decision.Target != "" {
		t.Fatalf("loading decision must not carry a redirect target")
	}
}

func TestRouteGuard_AnonymousRedirectsToLogin(t *testing.T) {
	guard := anonymousGuard(t)

	decision := guard.Decide("/admin/patients", domain.RoleAdmin)
	if decision.Kind != DecisionRedirectLogin {
		t.Fatalf("expected redirect to login, got %s", decision.Kind)
	}
	if decision.Target != LoginPath {
		t.Fatalf("expected target %s, got %s", LoginPath, decision.Target)
	}
	if decision.From != "/admin/patients" {
		t.Fatalf("originally requested path not recorded: %q", decision.From)
	}
}

func TestRouteGuard_AnonymousOnPatientView(t *testing.T) {
	guard := anonymousGuard(t)

	decision := guard.Decide("/patient", domain.RolePatient)
	if decision.Kind != DecisionRedirectLogin {
		t.Fatalf("expected redirect to login, got %s", decision.Kind)
	}
	if decision.From != "/patient" {
		t.Fatalf("originally requested path not recorded: %q", decision.From)
	}
}

func TestRouteGuard_RoleDeniedRedirectsHomeNeverLogin(t *testing.T) {
	cases := []struct {
		role domain.Role
		home string
	}{
		{domain.RolePatient, "/patient"},
		{domain.RolePractitioner, "/practitioner"},
	}

	for _, tc := range cases {
		guard := guardWithSession(t, tc.role, "tok")

		decision := guard.Decide("/admin", domain.RoleAdmin)
		if decision.Kind != DecisionRedirectHome {
			t.Fatalf("%s: expected redirect home, got %s", tc.role, decision.Kind)
		}
		if decision.Target != tc.home {
			t.Fatalf("%s: expected target %s, got %s", tc.role, tc.home, decision.Target)
		}
	}
}

func TestRouteGuard_PermittedRoleRenders(t *testing.T) {
	guard := guardWithSession(t, domain.RoleAdmin, "tok")

	decision := guard.Decide("/admin", domain.RoleAdmin)
	if decision.Kind != DecisionRender {
		t.Fatalf("expected render, got %s", decision.Kind)
	}
	if decision.Session == nil || decision.Session.Identity.Role != domain.RoleAdmin {
		t.Fatalf("render decision must carry the session")
	}
}

func TestRouteGuard_NoRoleRestrictionNeedsOnlyAuthentication(t *testing.T) {
	guard := guardWithSession(t, domain.RolePatient, "tok")

	decision := guard.Decide("/settings")
	if decision.Kind != DecisionRender {
		t.Fatalf("expected render for unrestricted view, got %s", decision.Kind)
	}
}

func TestRouteGuard_MismatchedTokenIsAnonymous(t *testing.T) {
	guard := guardWithSession(t, domain.RoleAdmin, "tok")

	decision := guard.DecideToken("other-token", "/admin", domain.RoleAdmin)
	if decision.Kind != DecisionRedirectLogin {
		t.Fatalf("mismatched token must be treated as anonymous, got %s", decision.Kind)
	}
}

func TestRouteGuard_MatchingTokenRenders(t *testing.T) {
	guard := guardWithSession(t, domain.RoleAdmin, "tok")

	decision := guard.DecideToken("tok", "/admin", domain.RoleAdmin)
	if decision.Kind != DecisionRender {
		t.Fatalf("expected render for matching token, got %s", decision.Kind)
	}
}
