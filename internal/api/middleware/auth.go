package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aegisid/identity-service/internal/core/ports"
)

// Auth validates the bearer access token and injects the verified identity
// into the request context under "user_id", "roles" and "token_id".
//
// A token whose jti sits on the blacklist is rejected even when its
// signature and lifetime are valid: logout and rotation must take effect
// immediately.
func Auth(validator ports.JwtValidator, blacklist ports.TokenBlacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := validator.ValidateAccessToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			revoked, err := blacklist.IsBlacklisted(c.Request().Context(), claims.TokenID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "token verification unavailable")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			c.Set("user_id", claims.UserID)
			c.Set("roles", claims.Roles)
			c.Set("token_id", claims.TokenID)

			return next(c)
		}
	}
}
