package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	store       ports.SessionStore
}

func NewAuthHandler(authService ports.AuthService, store ports.SessionStore) *AuthHandler {
	return &AuthHandler{authService: authService, store: store}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.Identity `json:"user,omitempty"`
}

// Login authenticates a credential pair and installs the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: session.Token, User: &session.Identity})
}

// LoginView is the public login view the guard redirects anonymous users to.
// It echoes the recorded origin so the client can navigate back after a
// successful login.
func (h *AuthHandler) LoginView(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "login_required",
		"from":   c.QueryParam("from"),
	})
}

// Logout destroys the active session. Safe to call when already logged out.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports the active session for the presentation layer.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	if h.store.Loading() {
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}

	session := h.store.Current()
	if session == nil {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, authResponse{Token: session.Token, User: &session.Identity})
}
