package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-api/internal/auth"
	"github.com/iliyamo/ecommerce-api/internal/model"
)

// Context keys under which the authenticated identity is stored.
const (
	CtxEmail = "auth_email"
	CtxRole  = "auth_role"
)

// Auth returns an Echo middleware that validates a Bearer access token
// and injects the caller's email and role into the request context.
// Protected routes should be wrapped with it so handlers can read the
// identity via Identity(c).
func Auth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			id, err := tokens.ValidateAccessToken(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(CtxEmail, id.Email)
			c.Set(CtxRole, id.Role)
			return next(c)
		}
	}
}

// Identity reads the authenticated identity placed in the context by
// Auth. Calling it on an unprotected route yields the zero Identity.
func Identity(c echo.Context) auth.Identity {
	id := auth.Identity{}
	if email, ok := c.Get(CtxEmail).(string); ok {
		id.Email = email
	}
	if role, ok := c.Get(CtxRole).(model.Role); ok {
		id.Role = role
	}
	return id
}
