package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// PermissionChecker answers whether a user holds a permission through any of
// their roles. The identity service is the production implementation.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}

// RequirePermission enforces that the authenticated user holds the given
// permission. Must be mounted after Auth, which injects "user_id".
func RequirePermission(checker PermissionChecker, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("user_id").(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			granted, err := checker.HasPermission(c.Request().Context(), userID, permission)
			if err != nil {
				// An unknown user behind a valid token means the account was
				// removed after issuance; treat both as denial.
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			if !granted {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
