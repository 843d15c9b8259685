package auth

import (
	"slices"

	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
)

// Permission names a guarded operation.
type Permission string

const (
	PermPromoteAdmin   Permission = "admin.promote"
	PermAdminDashboard Permission = "admin.dashboard"
	PermViewActivity   Permission = "admin.activity"
	PermCreateReport   Permission = "reports.create"
	PermListReports    Permission = "reports.list"
	PermViewProfile    Permission = "user.profile"
	PermRedeemReward   Permission = "user.redeem"
	PermLeaderboard    Permission = "leaderboard.view"
)

var anyRole = []model.Role{model.RoleUser, model.RoleAdmin, model.RoleSuperadmin}

// Policy is the single authorization table: which roles may perform what.
var Policy = map[Permission][]model.Role{
	PermPromoteAdmin:   {model.RoleSuperadmin},
	PermAdminDashboard: {model.RoleAdmin, model.RoleSuperadmin},
	PermViewActivity:   {model.RoleAdmin, model.RoleSuperadmin},
	PermCreateReport:   anyRole,
	PermListReports:    anyRole,
	PermViewProfile:    anyRole,
	PermRedeemReward:   anyRole,
	PermLeaderboard:    anyRole,
}

// RequireRole fails with a forbidden error unless role is among allowed.
func RequireRole(role model.Role, allowed []model.Role) error {
	if !slices.Contains(allowed, role) {
		return apperrors.Forbidden(apperrors.MsgAccessDenied)
	}
	return nil
}

// Authorize checks role against the policy entry for perm. Unknown permissions
// are denied.
func Authorize(role model.Role, perm Permission) error {
	return RequireRole(role, Policy[perm])
}
