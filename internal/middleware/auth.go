package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

// ClaimsKey is the echo.Context key under which the verified session claims
// are stored.
const ClaimsKey = "claims"

// errInvalidToken is the single body every authentication failure maps to.
// The response never says which sub-check failed.
var errInvalidToken = echo.Map{"error": "invalid or expired token"}

// Auth returns a middleware that validates the bearer token from the
// Authorization header and stores the session claims in the request context.
func Auth(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, errInvalidToken)
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, errInvalidToken)
			}

			// Validate the token
			claims, err := jwtUtil.Validate(parts[1])
			if err != nil {
				// The decode kind is for operators only; the client sees
				// the same opaque outcome for every failure.
				var decodeErr *jwtutil.DecodeError
				if errors.As(err, &decodeErr) {
					prometheus.RecordAuthError(string(decodeErr.Kind))
				} else {
					prometheus.RecordAuthError("invalid_token")
				}
				log.Warn("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, errInvalidToken)
			}

			// Store claims in context for handlers
			c.Set(ClaimsKey, claims)

			log.Debug("Request authenticated",
				zap.Uint("user_id", claims.Sub),
				zap.Uint("tenant_id", claims.TenantID),
				zap.String("role", claims.Role))

			return next(c)
		}
	}
}

// ClaimsFromContext returns the session claims stored by Auth, or nil when
// the request was not authenticated.
func ClaimsFromContext(c echo.Context) *jwtutil.SessionClaims {
	claims, _ := c.Get(ClaimsKey).(*jwtutil.SessionClaims)
	return claims
}
