package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aegisid/identity-service/internal/core/domain"
	"github.com/aegisid/identity-service/internal/core/policy"
)

// errorResponse is the canonical error envelope for all API errors.
// Violations is only populated for password-policy rejections.
type errorResponse struct {
	Error      string             `json:"error"`
	Violations []policy.Violation `json:"violations,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Password-policy rejections carry the full violation list.
	var ve *policy.ViolationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{
			Error:      "password does not meet the policy",
			Violations: ve.Violations,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, errorResponse{Error: "account is deactivated"}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"}
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		return http.StatusConflict, errorResponse{Error: "email already registered"}
	case errors.Is(err, domain.ErrRoleAlreadyExists):
		return http.StatusConflict, errorResponse{Error: "role name already taken"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound, errorResponse{Error: "role not found"}
	case errors.Is(err, domain.ErrPermissionNotFound):
		return http.StatusNotFound, errorResponse{Error: "permission not found"}
	case errors.Is(err, domain.ErrIncorrectPassword):
		return http.StatusBadRequest, errorResponse{Error: "incorrect password"}
	case errors.Is(err, domain.ErrEmptyRole),
		errors.Is(err, domain.ErrNoRolesAssigned):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidPermission),
		errors.Is(err, domain.ErrInvalidRoleName),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidRoleID):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
