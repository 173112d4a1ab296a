package util

import (
	"slices"

	"github.com/RotationHub/CECert/internal/constant"
)

var rolePermissions = map[constant.Role][]constant.Permission{
	constant.RoleAdmin: {
		constant.CePolicyView,
		constant.CePolicyUpdate,
		constant.CeEligibilityView,
		constant.CeCertificateRequest,
		constant.CeCertificateView,
		constant.CeCertificateDownload,
		constant.CeCertificateApprove,
		constant.CeCertificateReject,
		constant.CeCertificateRevoke,
	},
	constant.RoleCoordinator: {
		constant.CePolicyView,
		constant.CePolicyUpdate,
		constant.CeEligibilityView,
		constant.CeCertificateRequest,
		constant.CeCertificateView,
		constant.CeCertificateDownload,
		constant.CeCertificateApprove,
		constant.CeCertificateReject,
		constant.CeCertificateRevoke,
	},
	constant.RolePreceptor: {
		constant.CePolicyView,
		constant.CeEligibilityView,
		constant.CeCertificateRequest,
		constant.CeCertificateView,
		constant.CeCertificateDownload,
	},
	constant.RoleStudent: {
		constant.CePolicyView,
		constant.CeEligibilityView,
		constant.CeCertificateView,
	},
}

// checks if all permissions are granted by at least one of the roles.
func HasPermission(roles []constant.Role, permissions []constant.Permission) bool {
	for _, permission := range permissions {
		hasPermission := false
		for _, role := range roles {
			if slices.Contains(rolePermissions[role], permission) {
				hasPermission = true
				break
			}
		}
		if !hasPermission {
			return false
		}
	}
	return true
}

// PermissionsOf lists what a role is granted, in table order.
func PermissionsOf(role constant.Role) []constant.Permission {
	return slices.Clone(rolePermissions[role])
}
