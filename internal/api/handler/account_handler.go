package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aegisid/identity-service/internal/core/ports"
)

// AccountHandler exposes the self-service surface for the authenticated user.
type AccountHandler struct {
	identity ports.IdentityService
}

func NewAccountHandler(identity ports.IdentityService) *AccountHandler {
	return &AccountHandler{identity: identity}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangePassword replaces the caller's password after verifying the old one.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.identity.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's own account view.
func (h *AccountHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	detail, err := h.identity.GetUser(c.Request().Context(), userID)
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
