package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/internal/apperr"
	"notes-service/internal/middleware"
	"notes-service/internal/store"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/pkg/password"
	"notes-service/prometheus"
)

// AuthHandler serves login and the current-session view.
type AuthHandler struct {
	users *store.UserStore
	jwt   *jwtutil.JWTUtil
}

func NewAuthHandler(users *store.UserStore, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// Login exchanges an email/password pair for a session token. Unknown email
// and wrong password produce the identical response so accounts cannot be
// enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	// Find user in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		// Burn a hash comparison so this path costs the same as a wrong
		// password.
		password.VerifyDummy(req.Password)
		log.Warn("Login failed", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.ErrInvalidCredentials.Error()})
	}

	// Verify password
	if !password.Verify(req.Password, user.Password) {
		log.Warn("Login failed", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.ErrInvalidCredentials.Error()})
	}

	// Generate session token carrying the tenant context
	token, err := h.jwt.Generate(user.ID, user.Email, user.Role, user.TenantID, user.Tenant.Slug, user.Tenant.Plan)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("tenant_id", user.TenantID),
		zap.String("tenant_slug", user.Tenant.Slug),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"email": user.Email,
			"role":  user.Role,
			"tenant": echo.Map{
				"slug": user.Tenant.Slug,
				"name": user.Tenant.Name,
				"plan": user.Tenant.Plan,
			},
		},
	})
}

// Me returns the identity embedded in the verified session claims. The plan
// and role shown here are the token's snapshot and may lag storage until the
// token is re-issued.
func (h *AuthHandler) Me(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":    claims.Sub,
			"email": claims.Email,
			"role":  claims.Role,
			"tenant": echo.Map{
				"id":   claims.TenantID,
				"slug": claims.TenantSlug,
				"plan": claims.Plan,
			},
		},
	})
}
