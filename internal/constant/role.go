package constant

type Role string

const (
	RoleStudent     Role = "student"
	RolePreceptor   Role = "preceptor"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RolePreceptor, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}

type Permission string

const (
	CePolicyView   Permission = "ce:policy:view"
	CePolicyUpdate Permission = "ce:policy:update"

	CeEligibilityView Permission = "ce:eligibility:view"

	CeCertificateRequest  Permission = "ce:certificate:request"
	CeCertificateView     Permission = "ce:certificate:view"
	CeCertificateDownload Permission = "ce:certificate:download"
	CeCertificateApprove  Permission = "ce:certificate:approve"
	CeCertificateReject   Permission = "ce:certificate:reject"
	CeCertificateRevoke   Permission = "ce:certificate:revoke"
)
