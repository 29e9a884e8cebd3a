package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/talentbridge/platform-api/internal/api/metrics"
	"github.com/talentbridge/platform-api/internal/auth"
	"github.com/talentbridge/platform-api/internal/core/domain"
	"github.com/talentbridge/platform-api/internal/core/ports"
	"github.com/talentbridge/platform-api/internal/core/rbac"
)

const (
	// SessionCookie is the name of the sliding-session cookie.
	SessionCookie = "auth_token"

	// Identity headers set on the forwarded request. Downstream handlers
	// read these instead of re-verifying the credential.
	HeaderUserID    = "user-id"
	HeaderUserEmail = "user-email"
	HeaderUserRole  = "user-role"

	sessionMaxAge = 7 * 24 * time.Hour
	apiPrefix     = "/api"
	loginPath     = "/login"
)

// UserLoader is the external user-store collaborator the gate re-checks
// every credential against.
type UserLoader interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuditSink receives gate decisions for the asynchronous audit trail.
type AuditSink interface {
	Enqueue(event ports.AuthEventInput)
}

// GateConfig carries the gate's immutable collaborators, loaded once at
// process start.
type GateConfig struct {
	Codec *auth.TokenCodec
	Users UserLoader
	Audit AuditSink
	// SecureCookies marks the session cookie Secure; set in production.
	SecureCookies bool
	Log           zerolog.Logger
}

// Gate authenticates and authorizes every request to a protected path.
//
// Public paths and static assets pass through untouched. For protected
// paths the gate extracts a credential (bearer header first, then the
// session cookie), verifies it, re-loads the user, checks the route's
// role requirement, and forwards the request with identity headers and a
// refreshed session cookie. Every failure collapses to a uniform deny:
// 401 JSON under the API prefix, otherwise a redirect to the login page
// carrying the original path. The internal failure class is only logged.
func Gate(cfg GateConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			policy := rbac.Classify(path)
			if policy.Public {
				metrics.GateDecisionsTotal.WithLabelValues("bypassed").Inc()
				return next(c)
			}

			token := extractToken(c)
			if token == "" {
				return deny(c, cfg, path, "", "no_credential")
			}

			claims, err := cfg.Codec.Verify(token)
			if err != nil {
				reason := verifyFailureReason(err)
				metrics.TokenVerificationsTotal.WithLabelValues(reason).Inc()
				if errors.Is(err, auth.ErrNoSigningSecret) {
					// Deployment fault: deny rather than crash, so a bad
					// rollout looks like "all requests unauthorized"
					// instead of an outage.
					cfg.Log.Error().Str("path", path).Msg("signing secret missing, denying request")
				}
				return deny(c, cfg, path, "", reason)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			user, err := cfg.Users.FindByEmail(c.Request().Context(), domain.NormalizeEmail(claims.Email))
			if err != nil || !user.IsActive {
				return deny(c, cfg, path, claims.Email, "unknown_or_inactive_user")
			}

			if !rbac.CanAccessRoute(user, path) {
				return deny(c, cfg, path, user.Email, "insufficient_permission")
			}

			h := c.Request().Header
			h.Set(HeaderUserID, user.ID)
			h.Set(HeaderUserEmail, user.Email)
			h.Set(HeaderUserRole, user.Role)

			// Sliding session: same token, fresh window.
			c.SetCookie(NewSessionCookie(token, cfg.SecureCookies))

			metrics.GateDecisionsTotal.WithLabelValues("forwarded").Inc()
			return next(c)
		}
	}
}

// extractToken reads the bearer header first and falls back to the
// session cookie. The header wins when both are present.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, auth.ErrNoSigningSecret):
		return "error"
	default:
		return "malformed"
	}
}

// deny terminates the request with the uniform deny outcome. The reason
// stays in logs and the audit trail; callers only ever see a generic 401
// or a login redirect.
func deny(c echo.Context, cfg GateConfig, path, email, reason string) error {
	cfg.Log.Warn().
		Str("path", path).
		Str("reason", reason).
		Msg("request denied")
	metrics.GateDecisionsTotal.WithLabelValues("denied").Inc()

	if cfg.Audit != nil {
		cfg.Audit.Enqueue(ports.AuthEventInput{
			Kind:      domain.AuthEventGateDenied,
			Email:     domain.NormalizeEmail(email),
			Path:      path,
			Reason:    reason,
			Timestamp: time.Now().UTC(),
		})
	}

	if strings.HasPrefix(path, apiPrefix) {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "Authentication required",
		})
	}
	return c.Redirect(http.StatusFound, loginPath+"?from="+url.QueryEscape(path))
}

// NewSessionCookie builds the auth_token cookie with a full 7-day window.
// Used by the gate on every forwarded request and by the login/verify
// handlers when a token is minted or revalidated.
func NewSessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
