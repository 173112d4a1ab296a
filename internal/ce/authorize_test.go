package ce

import (
	"testing"

	"github.com/RotationHub/CECert/internal/constant"
	"github.com/stretchr/testify/assert"
)

func TestRoleAuthorizer(t *testing.T) {
	admin := Actor{ID: "admin-1", Role: constant.RoleAdmin}
	coordinator := Actor{ID: "coord-1", Role: constant.RoleCoordinator, UniversityID: "uni-1"}
	preceptor := Actor{ID: "pre-1", Role: constant.RolePreceptor}
	student := Actor{ID: "stu-1", Role: constant.RoleStudent, UniversityID: "uni-1"}

	ownScope := Scope{UniversityID: "uni-1", PreceptorID: "pre-1", StudentID: "stu-1"}
	otherScope := Scope{UniversityID: "uni-2", PreceptorID: "pre-2", StudentID: "stu-2"}

	tests := []struct {
		name       string
		actor      Actor
		permission constant.Permission
		scope      Scope
		allowed    bool
	}{
		{"admin approves anywhere", admin, constant.CeCertificateApprove, otherScope, true},
		{"coordinator approves own university", coordinator, constant.CeCertificateApprove, ownScope, true},
		{"coordinator cannot approve other university", coordinator, constant.CeCertificateApprove, otherScope, false},
		{"coordinator updates own policy", coordinator, constant.CePolicyUpdate, Scope{UniversityID: "uni-1"}, true},
		{"preceptor cannot approve", preceptor, constant.CeCertificateApprove, ownScope, false},
		{"preceptor requests own", preceptor, constant.CeCertificateRequest, ownScope, true},
		{"preceptor cannot request for others", preceptor, constant.CeCertificateRequest, otherScope, false},
		{"preceptor downloads own", preceptor, constant.CeCertificateDownload, ownScope, true},
		{"preceptor cannot update policy", preceptor, constant.CePolicyUpdate, ownScope, false},
		{"student views own", student, constant.CeCertificateView, ownScope, true},
		{"student cannot download", student, constant.CeCertificateDownload, ownScope, false},
		{"student cannot view others", student, constant.CeEligibilityView, otherScope, false},
		{"unknown role", Actor{ID: "x", Role: constant.Role("site")}, constant.CeCertificateView, ownScope, false},
		{"missing actor id", Actor{Role: constant.RoleAdmin}, constant.CeCertificateView, ownScope, false},
		{"empty scope never matches", coordinator, constant.CeCertificateView, Scope{}, false},
	}

	authorizer := NewRoleAuthorizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizer.Can(tt.actor, tt.permission, tt.scope)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}
