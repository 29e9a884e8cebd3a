package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/platform-api/internal/api/middleware"
)

// Identity is the caller's identity as propagated by the request gate.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ctxIdentity reads the identity headers set by the gate and performs a
// fast-fail check before any service call: presence of the role header
// proves the gate ran. Handlers behind the gate never re-verify the
// credential themselves.
func ctxIdentity(c echo.Context) (Identity, error) {
	h := c.Request().Header
	id := Identity{
		ID:    h.Get(middleware.HeaderUserID),
		Email: h.Get(middleware.HeaderUserEmail),
		Role:  h.Get(middleware.HeaderUserRole),
	}
	if id.Role == "" || id.Email == "" {
		return Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing identity headers")
	}
	return id, nil
}
