package policy

import "notes-service/internal/model"

// DefaultFreeNoteLimit is the number of notes a free-plan tenant may hold.
const DefaultFreeNoteLimit = 3

// CanCreate reports whether a tenant on the given plan may create another
// note when it currently holds currentCount of them. It knows nothing about
// roles or tenants, only a plan and a count; the limit is passed in so quota
// dimensions can grow without touching this function.
func CanCreate(plan string, currentCount int64, freeLimit int64) bool {
	if plan == model.PlanPro {
		return true
	}
	return currentCount < freeLimit
}
