package policy

import (
	"notes-service/internal/model"
	"notes-service/pkg/jwtutil"
)

// Action identifies an operation a caller wants to perform.
type Action string

const (
	ActionCreateNote  Action = "createNote"
	ActionListNotes   Action = "listNotes"
	ActionGetNote     Action = "getNote"
	ActionUpdateNote  Action = "updateNote"
	ActionDeleteNote  Action = "deleteNote"
	ActionUpgradePlan Action = "upgradePlan"
	ActionInviteUser  Action = "inviteUser"
)

// Reason names why an action was denied. It carries no secret and may be
// surfaced to the client.
type Reason string

const (
	ReasonCrossTenant      Reason = "cross_tenant"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotOwner         Reason = "not_owner"
)

// Resource is the minimal descriptor of the target the Dispatcher loads from
// storage before asking for a decision.
type Resource struct {
	TenantID    uint
	OwnerUserID uint
	// TenantSlug is the slug named in the request path. Only tenant-level
	// actions (upgrade, invite) consult it; it is checked independently of
	// the numeric id comparison.
	TenantSlug string
}

// Decision is the outcome of an authorization check. Denial is a normal
// return value, not an error.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allow = Decision{Allowed: true}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// Evaluate decides whether the holder of claims may perform action against
// the described resource. It is a pure function of its three inputs: no
// storage access, no hidden state. Rules run in order and the first match
// wins.
//
// Rule 1, tenant scoping, has no exceptions. Not even admins cross the
// tenant boundary.
func Evaluate(claims *jwtutil.SessionClaims, action Action, res Resource) Decision {
	// Rule 1: tenant scoping.
	if res.TenantID != claims.TenantID {
		return deny(ReasonCrossTenant)
	}
	if isTenantLevel(action) && res.TenantSlug != claims.TenantSlug {
		return deny(ReasonCrossTenant)
	}

	// Rule 2: role gating for tenant-level mutations.
	if isTenantLevel(action) && claims.Role != model.RoleAdmin {
		return deny(ReasonInsufficientRole)
	}

	// Rule 3: ownership gating for note mutations. Admins may mutate any
	// note inside their own tenant.
	if (action == ActionUpdateNote || action == ActionDeleteNote) &&
		claims.Role != model.RoleAdmin &&
		res.OwnerUserID != claims.Sub {
		return deny(ReasonNotOwner)
	}

	// Rule 4: reads and everything else need only the tenant match.
	return allow
}

func isTenantLevel(action Action) bool {
	return action == ActionUpgradePlan || action == ActionInviteUser
}
