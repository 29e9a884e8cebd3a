package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/platform-api/internal/core/domain"
	"github.com/talentbridge/platform-api/internal/core/ports"
	"github.com/talentbridge/platform-api/internal/core/rbac"
)

// DashboardHandler serves the role-gated summary endpoints. All routes
// sit behind the gate, so identity always comes from headers.
type DashboardHandler struct {
	users ports.UserRepository
}

func NewDashboardHandler(users ports.UserRepository) *DashboardHandler {
	return &DashboardHandler{users: users}
}

type summaryResponse struct {
	Success     bool     `json:"success"`
	Dashboard   string   `json:"dashboard"`
	User        Identity `json:"user"`
	Permissions []string `json:"permissions"`
}

type adminSummaryResponse struct {
	summaryResponse
	UsersByRole map[string]int `json:"users_by_role"`
}

type userListResponse struct {
	Success bool                 `json:"success"`
	Users   []*domain.PublicUser `json:"users"`
}

// AdminSummary handles GET /api/admin/summary.
//
// @Summary      Admin dashboard summary
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminSummaryResponse
// @Failure      401  {object}  failResponse
// @Router       /api/admin/summary [get]
func (h *DashboardHandler) AdminSummary(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	byRole := make(map[string]int)
	for _, u := range users {
		byRole[u.Role]++
	}

	return c.JSON(http.StatusOK, adminSummaryResponse{
		summaryResponse: summary("admin", id),
		UsersByRole:     byRole,
	})
}

// ClientSummary handles GET /api/client/summary.
//
// @Summary      Client dashboard summary
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  failResponse
// @Router       /api/client/summary [get]
func (h *DashboardHandler) ClientSummary(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary("client", id))
}

// DeveloperSummary handles GET /api/developer/summary.
//
// @Summary      Developer dashboard summary
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  failResponse
// @Router       /api/developer/summary [get]
func (h *DashboardHandler) DeveloperSummary(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary("developer", id))
}

// Users handles GET /api/admin/users — the full account listing, public
// fields only.
//
// @Summary      List all users
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  failResponse
// @Router       /api/admin/users [get]
func (h *DashboardHandler) Users(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	public := make([]*domain.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return c.JSON(http.StatusOK, userListResponse{Success: true, Users: public})
}

func summary(dashboard string, id Identity) summaryResponse {
	return summaryResponse{
		Success:     true,
		Dashboard:   dashboard,
		User:        id,
		Permissions: rbac.RolePermissions(id.Role),
	}
}
