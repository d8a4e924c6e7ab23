package policy

import (
	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/models"
)

// Rule identifies which guard produced a denial
type Rule string

const (
	RuleSelfDeletion           Rule = "self_deletion"
	RuleLastSuperadmin         Rule = "last_superadmin"
	RuleLastSuperadminDemotion Rule = "last_superadmin_demotion"
)

// Denial reasons returned to clients
const (
	ReasonSelfDeletion           = "You cannot delete your own account"
	ReasonLastSuperadmin         = "Cannot delete the last superadmin"
	ReasonLastSuperadminDemotion = "Cannot demote the last superadmin"
)

// Decision represents the result of a policy evaluation
type Decision struct {
	Allowed bool
	Rule    Rule
	Reason  string
}

// Allow is the zero-violation decision
var Allow = Decision{Allowed: true}

func deny(rule Rule, reason string) Decision {
	return Decision{Rule: rule, Reason: reason}
}

// CanDelete decides whether requester may delete target given the
// number of superadmins currently stored. Rules are checked in order:
// self deletion first, then removal of the last superadmin.
func CanDelete(requester auth.Principal, target models.Admin, superadminCount int) Decision {
	if requester.ID == target.ID {
		return deny(RuleSelfDeletion, ReasonSelfDeletion)
	}
	if target.IsSuperadmin() && superadminCount <= 1 {
		return deny(RuleLastSuperadmin, ReasonLastSuperadmin)
	}
	return Allow
}

// CanChangeRole decides whether target may move to newRole without
// leaving the system with no superadmin.
func CanChangeRole(target models.Admin, newRole models.Role, superadminCount int) Decision {
	if target.IsSuperadmin() && newRole != models.RoleSuperadmin && superadminCount <= 1 {
		return deny(RuleLastSuperadminDemotion, ReasonLastSuperadminDemotion)
	}
	return Allow
}
