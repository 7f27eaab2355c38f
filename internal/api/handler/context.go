package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyplatform/practice-system/internal/api/middleware"
	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the guard middleware. Its
// presence proves the guard ran; a handler reached without it is a wiring bug
// surfaced as 401 rather than a panic.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityContextKey).(domain.Identity)
	if !ok || !identity.Role.Valid() {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated identity")
	}
	return identity, nil
}
