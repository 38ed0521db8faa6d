package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aegisid/identity-service/internal/core/ports"
)

// AdminHandler exposes the administrative user and role surface. Every route
// sits behind the Auth middleware plus a permission check.
type AdminHandler struct {
	identity ports.IdentityService
	roles    ports.RoleService
}

func NewAdminHandler(identity ports.IdentityService, roles ports.RoleService) *AdminHandler {
	return &AdminHandler{identity: identity, roles: roles}
}

type roleIDsRequest struct {
	RoleIDs []string `json:"role_ids" validate:"required,min=1"`
}

type permissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

type activationRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type passwordResetRequest struct {
	Password string `json:"password" validate:"required"`
}

type createRoleRequest struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

type roleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type userResponse struct {
	ID     string         `json:"id"`
	Email  string         `json:"email"`
	Active bool           `json:"active"`
	Roles  []roleResponse `json:"roles"`
}

func newRoleResponse(r ports.RoleResult) roleResponse {
	return roleResponse{ID: r.ID, Name: r.Name, Permissions: r.Permissions}
}

// GetUser returns the admin view of a user.
func (h *AdminHandler) GetUser(c echo.Context) error {
	detail, err := h.identity.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	res := userResponse{
		ID:     detail.ID,
		Email:  detail.Email,
		Active: detail.Active,
		Roles:  make([]roleResponse, 0, len(detail.Roles)),
	}
	for _, r := range detail.Roles {
		res.Roles = append(res.Roles, newRoleResponse(r))
	}
	return c.JSON(http.StatusOK, res)
}

// AssignRoles adds roles to a user.
func (h *AdminHandler) AssignRoles(c echo.Context) error {
	var req roleIDsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.identity.AssignRoles(c.Request().Context(), c.Param("id"), req.RoleIDs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveRoles removes roles from a user, all-or-nothing.
func (h *AdminHandler) RemoveRoles(c echo.Context) error {
	var req roleIDsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.identity.RemoveRoles(c.Request().Context(), c.Param("id"), req.RoleIDs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetActivation activates or deactivates an account.
func (h *AdminHandler) SetActivation(c echo.Context) error {
	var req activationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.identity.SetActivation(c.Request().Context(), c.Param("id"), *req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword replaces a user's password without old-password verification.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.identity.ResetPassword(c.Request().Context(), c.Param("id"), req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateRole creates a role with a non-empty permission set.
func (h *AdminHandler) CreateRole(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roles.CreateRole(c.Request().Context(), req.Name, req.Permissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newRoleResponse(role))
}

// ListRoles returns every role.
func (h *AdminHandler) ListRoles(c echo.Context) error {
	roles, err := h.roles.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	res := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, newRoleResponse(r))
	}
	return c.JSON(http.StatusOK, res)
}

// AddPermissions grants permissions to a role.
func (h *AdminHandler) AddPermissions(c echo.Context) error {
	var req permissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roles.AddPermissions(c.Request().Context(), c.Param("id"), req.Permissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newRoleResponse(role))
}

// RemovePermissions revokes permissions from a role, all-or-nothing.
func (h *AdminHandler) RemovePermissions(c echo.Context) error {
	var req permissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roles.RemovePermissions(c.Request().Context(), c.Param("id"), req.Permissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newRoleResponse(role))
}
