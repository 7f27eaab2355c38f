package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/therapyplatform/practice-system/internal/api/metrics"
	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
	"github.com/therapyplatform/practice-system/internal/core/service"
)

// IdentityContextKey is where the guard stashes the authenticated identity
// for downstream handlers.
const IdentityContextKey = "identity"

// Guard applies the route guard to a view. required lists the roles allowed
// to reach it; empty means any authenticated identity.
//
// Decision mapping:
//   - loading        → 503 with Retry-After, no redirect
//   - anonymous      → 302 to /login?from=<requested path>
//   - role denied    → 302 to the session role's own home, never login
//   - permitted      → identity injected into context, next handler runs
func Guard(guard *service.RouteGuard, audit ports.AuditSink, required ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			var decision service.Decision
			if token, ok := bearerToken(c.Request()); ok {
				decision = guard.DecideToken(token, path, required...)
			} else {
				decision = guard.Decide(path, required...)
			}
			metrics.GuardDecisionsTotal.WithLabelValues(string(decision.Kind)).Inc()

			switch decision.Kind {
			case service.DecisionLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})

			case service.DecisionRedirectLogin:
				recordDenied(audit, "anonymous", "", path)
				target := decision.Target + "?" + url.Values{"from": {decision.From}}.Encode()
				return c.Redirect(http.StatusFound, target)

			case service.DecisionRedirectHome:
				recordDenied(audit, decision.Session.Identity.ID, decision.Session.Identity.Role, path)
				return c.Redirect(http.StatusFound, decision.Target)
			}

			c.Set(IdentityContextKey, decision.Session.Identity)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func recordDenied(audit ports.AuditSink, actorID string, role domain.Role, path string) {
	if audit == nil {
		return
	}
	audit.Record(domain.AuditEvent{
		ActorID:   actorID,
		ActorRole: role,
		Action:    domain.AuditActionAccess,
		Path:      path,
		Result:    domain.AuditResultDenied,
	})
}
