package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/platform-api/internal/api/metrics"
	"github.com/talentbridge/platform-api/internal/api/middleware"
	"github.com/talentbridge/platform-api/internal/auth"
	"github.com/talentbridge/platform-api/internal/core/domain"
	"github.com/talentbridge/platform-api/internal/core/ports"
)

// AuditSink receives auth events for the asynchronous audit trail.
type AuditSink interface {
	Enqueue(event ports.AuthEventInput)
}

type AuthHandler struct {
	authService   ports.AuthService
	audit         AuditSink
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, audit AuditSink, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit, secureCookies: secureCookies}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=admin client developer"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Success bool               `json:"success"`
	Token   string             `json:"token,omitempty"`
	User    *domain.PublicUser `json:"user,omitempty"`
}

type failResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  failResponse
// @Failure      409   {object}  failResponse
// @Failure      500   {object}  failResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failResponse{Error: err.Error()})
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrUserExists):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrInvalidCredentials):
			status = http.StatusBadRequest
		}
		return c.JSON(status, failResponse{Error: err.Error()})
	}

	metrics.UsersRegisteredTotal.WithLabelValues(user.Role).Inc()
	return c.JSON(http.StatusCreated, authResponse{Success: true, User: user.Public()})
}

// Login authenticates a user and returns a session token.
//
// Unknown email and wrong password produce byte-identical responses so
// callers cannot enumerate accounts.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  failResponse
// @Failure      401   {object}  failResponse
// @Failure      429   {object}  failResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failResponse{Error: err.Error()})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.loginFailure(c, req.Email, err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.record(domain.AuthEventLoginSuccess, user.Email, user.Role, c.Path(), "")

	c.SetCookie(middleware.NewSessionCookie(token, h.secureCookies))
	return c.JSON(http.StatusOK, authResponse{Success: true, Token: token, User: user.Public()})
}

func (h *AuthHandler) loginFailure(c echo.Context, email string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTooManyAttempts):
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		h.record(domain.AuthEventLoginFailure, email, "", c.Path(), "rate_limited")
		return c.JSON(http.StatusTooManyRequests, failResponse{Error: "Too many login attempts"})
	case errors.Is(err, domain.ErrAccountDeactivated):
		metrics.LoginsTotal.WithLabelValues("deactivated").Inc()
		h.record(domain.AuthEventLoginFailure, email, "", c.Path(), "account_deactivated")
		return c.JSON(http.StatusUnauthorized, failResponse{Error: "Account deactivated"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		h.record(domain.AuthEventLoginFailure, email, "", c.Path(), "invalid_credentials")
		return c.JSON(http.StatusUnauthorized, failResponse{Error: "Invalid credentials"})
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
}

// Verify validates a bearer token and returns the current user record.
//
// The user is re-loaded from the store, so a token that stayed
// cryptographically valid after the account was deactivated is rejected
// here. On success the session cookie is re-issued with a fresh window.
//
// @Summary      Verify the current session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  failResponse
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, failResponse{Error: "Authentication required"})
	}

	user, err := h.authService.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return h.verifyFailure(c, err)
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	h.record(domain.AuthEventVerify, user.Email, user.Role, c.Path(), "")

	c.SetCookie(middleware.NewSessionCookie(token, h.secureCookies))
	return c.JSON(http.StatusOK, authResponse{Success: true, User: user.Public()})
}

func (h *AuthHandler) verifyFailure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrAccountDeactivated):
		metrics.TokenVerificationsTotal.WithLabelValues("inactive_user").Inc()
		return c.JSON(http.StatusUnauthorized, failResponse{Error: "Invalid or inactive user"})
	case errors.Is(err, auth.ErrTokenExpired):
		metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
	case errors.Is(err, auth.ErrTokenSignatureInvalid):
		metrics.TokenVerificationsTotal.WithLabelValues("bad_signature").Inc()
	case errors.Is(err, auth.ErrTokenMalformed):
		metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
	default:
		metrics.TokenVerificationsTotal.WithLabelValues("error").Inc()
	}
	return c.JSON(http.StatusUnauthorized, failResponse{Error: "Invalid or expired token"})
}

func (h *AuthHandler) record(kind domain.AuthEventKind, email, role, path, reason string) {
	if h.audit == nil {
		return
	}
	h.audit.Enqueue(ports.AuthEventInput{
		Kind:      kind,
		Email:     domain.NormalizeEmail(email),
		Role:      role,
		Path:      path,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}

// bearerToken extracts the token from the Authorization header, or ""
// when the header is absent or not a bearer scheme.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
