package middleware

import (
	"net/http"
	"strings"

	"hotel-booking-service/internal/model"
	"hotel-booking-service/pkg/jwtutil"
	"hotel-booking-service/pkg/logger"
	"hotel-booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// identityKey is the single context key under which the authenticated
// identity is stored.
const identityKey = "identity"

// Identity is the {id, username, role} triple asserted by a verified token.
type Identity struct {
	ID       uint
	Username string
	Role     string
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// IdentityFrom retrieves the authenticated identity stored by Auth.
func IdentityFrom(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(identityKey).(Identity)
	return identity, ok
}

// SetIdentity stores an identity in the context. Exposed for tests that
// exercise handlers without the full middleware chain.
func SetIdentity(c echo.Context, identity Identity) {
	c.Set(identityKey, identity)
}

// Auth validates the JWT token from the Authorization header and stores
// the resulting identity in the request context. A missing or malformed
// header yields 401; a token that fails verification yields 403.
func Auth(issuer *jwtutil.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Error("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Error("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := issuer.Validate(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			SetIdentity(c, Identity{
				ID:       claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
			})

			// Token is valid, proceed with the request
			return next(c)
		}
	}
}

// RequireAdmin rejects authenticated requests whose identity is not an
// admin. Must run after Auth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		identity, ok := IdentityFrom(c)
		if !ok {
			log.Error("Admin check without authenticated identity")
			prometheus.RecordAuthError("missing_identity")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		if !identity.IsAdmin() {
			log.Warn("Admin-only route denied",
				zap.Uint("user_id", identity.ID),
				zap.String("role", identity.Role))
			prometheus.RecordAuthError("forbidden_role")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden: admins only"})
		}

		return next(c)
	}
}
