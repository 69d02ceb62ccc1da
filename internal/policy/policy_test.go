package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notes-service/internal/model"
	"notes-service/pkg/jwtutil"
)

func claims(sub uint, role string, tenantID uint, slug string) *jwtutil.SessionClaims {
	return &jwtutil.SessionClaims{
		Sub:        sub,
		Email:      "user@example.test",
		Role:       role,
		TenantID:   tenantID,
		TenantSlug: slug,
		Plan:       model.PlanFree,
	}
}

func TestEvaluate_CrossTenantDeniesEverything(t *testing.T) {
	// Rule 1 has no exceptions: a resource in another tenant is denied for
	// every action and both roles, admin included.
	actions := []Action{
		ActionCreateNote, ActionListNotes, ActionGetNote,
		ActionUpdateNote, ActionDeleteNote, ActionUpgradePlan, ActionInviteUser,
	}
	roles := []string{model.RoleAdmin, model.RoleMember}

	for _, role := range roles {
		for _, action := range actions {
			c := claims(1, role, 10, "acme")
			res := Resource{TenantID: 99, OwnerUserID: 1, TenantSlug: "acme"}

			d := Evaluate(c, action, res)

			assert.False(t, d.Allowed, "role=%s action=%s", role, action)
			assert.Equal(t, ReasonCrossTenant, d.Reason, "role=%s action=%s", role, action)
		}
	}
}

func TestEvaluate_SlugMismatchOnTenantLevelActions(t *testing.T) {
	// The path slug is checked independently of the numeric tenant id, but
	// only for tenant-level mutations.
	c := claims(1, model.RoleAdmin, 10, "acme")

	for _, action := range []Action{ActionUpgradePlan, ActionInviteUser} {
		d := Evaluate(c, action, Resource{TenantID: 10, TenantSlug: "globex"})
		assert.False(t, d.Allowed, "action=%s", action)
		assert.Equal(t, ReasonCrossTenant, d.Reason, "action=%s", action)
	}

	// Note actions ignore the slug entirely.
	d := Evaluate(c, ActionGetNote, Resource{TenantID: 10, OwnerUserID: 1, TenantSlug: "globex"})
	assert.True(t, d.Allowed)
}

func TestEvaluate_RoleGating(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		action  Action
		allowed bool
		reason  Reason
	}{
		{"member cannot upgrade", model.RoleMember, ActionUpgradePlan, false, ReasonInsufficientRole},
		{"member cannot invite", model.RoleMember, ActionInviteUser, false, ReasonInsufficientRole},
		{"admin can upgrade", model.RoleAdmin, ActionUpgradePlan, true, ""},
		{"admin can invite", model.RoleAdmin, ActionInviteUser, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := claims(1, tt.role, 10, "acme")
			d := Evaluate(c, tt.action, Resource{TenantID: 10, TenantSlug: "acme"})

			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestEvaluate_OwnershipGating(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		owner   uint
		action  Action
		allowed bool
		reason  Reason
	}{
		{"member updates own note", model.RoleMember, 1, ActionUpdateNote, true, ""},
		{"member deletes own note", model.RoleMember, 1, ActionDeleteNote, true, ""},
		{"member cannot update another member's note", model.RoleMember, 2, ActionUpdateNote, false, ReasonNotOwner},
		{"member cannot delete another member's note", model.RoleMember, 2, ActionDeleteNote, false, ReasonNotOwner},
		{"admin updates any note in tenant", model.RoleAdmin, 2, ActionUpdateNote, true, ""},
		{"admin deletes any note in tenant", model.RoleAdmin, 2, ActionDeleteNote, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := claims(1, tt.role, 10, "acme")
			d := Evaluate(c, tt.action, Resource{TenantID: 10, OwnerUserID: tt.owner})

			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestEvaluate_ReadsNeedOnlyTenantMatch(t *testing.T) {
	// Role and ownership are irrelevant for reads.
	for _, role := range []string{model.RoleAdmin, model.RoleMember} {
		c := claims(1, role, 10, "acme")

		for _, action := range []Action{ActionListNotes, ActionGetNote} {
			d := Evaluate(c, action, Resource{TenantID: 10, OwnerUserID: 42})
			assert.True(t, d.Allowed, "role=%s action=%s", role, action)
		}
	}
}

func TestCanCreate(t *testing.T) {
	tests := []struct {
		name  string
		plan  string
		count int64
		want  bool
	}{
		{"free below limit", model.PlanFree, 0, true},
		{"free one under limit", model.PlanFree, 2, true},
		{"free at limit", model.PlanFree, 3, false},
		{"free over limit", model.PlanFree, 4, false},
		{"pro at free limit", model.PlanPro, 3, true},
		{"pro far beyond", model.PlanPro, 10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCreate(tt.plan, tt.count, DefaultFreeNoteLimit))
		})
	}
}
