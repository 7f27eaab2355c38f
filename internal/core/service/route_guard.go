package service

import (
	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// DecisionKind enumerates the per-navigation states of the route guard.
type DecisionKind string

const (
	// DecisionLoading: the session store has not finished restoring. Render a
	// loading affordance, make no redirect decision.
	DecisionLoading DecisionKind = "loading"
	// DecisionRender: the requested view may be served.
	DecisionRender DecisionKind = "render"
	// DecisionRedirectLogin: anonymous request for a protected view. Target
	// is the login path; From records the originally requested path so login
	// can return there afterward.
	DecisionRedirectLogin DecisionKind = "redirect_login"
	// DecisionRedirectHome: authenticated but the view's role set excludes
	// the session role. Target is the role's own home, never login.
	DecisionRedirectHome DecisionKind = "redirect_home"
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Kind    DecisionKind
	Target  string
	From    string
	Session *domain.Session
}

// LoginPath is where anonymous requests for protected views are sent.
const LoginPath = "/login"

// RouteGuard decides, per requested path and required-role set, whether to
// render or redirect. It owns no state beyond a reference to the session
// store, which is injected at startup.
type RouteGuard struct {
	store ports.SessionStore
}

func NewRouteGuard(store ports.SessionStore) *RouteGuard {
	return &RouteGuard{store: store}
}

// Decide evaluates a navigation for the current session. An empty required
// set means the view only needs authentication.
func (g *RouteGuard) Decide(path string, required ...domain.Role) Decision {
	return g.decide(g.currentIfLoaded(), path, required)
}

// DecideToken evaluates a navigation for a request that presented a bearer
// token. A token that does not match the active session is treated as
// anonymous.
func (g *RouteGuard) DecideToken(token, path string, required ...domain.Role) Decision {
	if g.store.Loading() {
		return Decision{Kind: DecisionLoading}
	}
	session := g.store.Current()
	if session != nil && token != session.Token {
		session = nil
	}
	return g.decide(session, path, required)
}

func (g *RouteGuard) currentIfLoaded() *domain.Session {
	if g.store.Loading() {
		return nil
	}
	return g.store.Current()
}

func (g *RouteGuard) decide(session *domain.Session, path string, required []domain.Role) Decision {
	if g.store.Loading() {
		return Decision{Kind: DecisionLoading}
	}

	if session == nil {
		return Decision{Kind: DecisionRedirectLogin, Target: LoginPath, From: path}
	}

	if len(required) == 0 || roleAllowed(session.Identity.Role, required) {
		return Decision{Kind: DecisionRender, Session: session}
	}

	return Decision{
		Kind:    DecisionRedirectHome,
		Target:  session.Identity.Role.HomePath(),
		Session: session,
	}
}

func roleAllowed(role domain.Role, required []domain.Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
