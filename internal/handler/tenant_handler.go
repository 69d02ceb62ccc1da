package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"notes-service/internal/apperr"
	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/pkg/password"
	"notes-service/prometheus"
)

// TenantHandler serves tenant-level mutations: plan upgrade and user invite.
// Both are admin-only and both re-check the path slug against the claim
// before anything is attempted.
type TenantHandler struct {
	tenants *store.TenantStore
	users   *store.UserStore
}

func NewTenantHandler(tenants *store.TenantStore, users *store.UserStore) *TenantHandler {
	return &TenantHandler{tenants: tenants, users: users}
}

// Upgrade moves the caller's tenant to the pro plan. Tokens issued before
// the upgrade keep reporting the old plan until re-issued; the quota check
// reads the plan from storage, so creation limits lift immediately.
func (h *TenantHandler) Upgrade(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("upgrade")

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	slug := c.Param("slug")

	decision := policy.Evaluate(claims, policy.ActionUpgradePlan, policy.Resource{
		TenantID:   claims.TenantID,
		TenantSlug: slug,
	})
	if !decision.Allowed {
		prometheus.RecordPolicyDenial(string(decision.Reason))
		log.Warn("Tenant upgrade denied",
			zap.String("slug", slug),
			zap.String("reason", string(decision.Reason)))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "reason": decision.Reason})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	tenant, err := h.tenants.UpdatePlan(c.Request().Context(), claims.TenantID, model.PlanPro)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		log.Error("Failed to upgrade tenant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant upgrade failed"})
	}

	log.Info("Tenant upgraded",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("slug", tenant.Slug),
		zap.String("plan", tenant.Plan))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Tenant upgraded successfully",
		"tenant":  tenant,
	})
}

// Invite creates a new user inside the caller's tenant. Duplicate emails
// surface as 409 via the storage layer's structured duplicate-key error.
func (h *TenantHandler) Invite(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("invite")

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	slug := c.Param("slug")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleMember {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin or member"})
	}

	decision := policy.Evaluate(claims, policy.ActionInviteUser, policy.Resource{
		TenantID:   claims.TenantID,
		TenantSlug: slug,
	})
	if !decision.Allowed {
		prometheus.RecordPolicyDenial(string(decision.Reason))
		log.Warn("User invite denied",
			zap.String("slug", slug),
			zap.String("reason", string(decision.Reason)))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "reason": decision.Reason})
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	user := model.User{
		Email:    req.Email,
		Password: hashed,
		Role:     req.Role,
		TenantID: claims.TenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			log.Warn("Invite rejected, email already registered", zap.String("email", req.Email))
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	log.Info("User invited",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.Uint("tenant_id", user.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User invited successfully",
		"user": echo.Map{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"tenant_id": user.TenantID,
		},
	})
}
