package ce

import (
	"fmt"

	"github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/util"
)

// Actor is the authenticated caller.
type Actor struct {
	ID           string
	Email        string
	Role         constant.Role
	UniversityID string
}

func (a Actor) IsAdmin() bool {
	return a.Role == constant.RoleAdmin
}

// Scope is the resource a permission is checked against. Empty fields don't match anything.
type Scope struct {
	UniversityID string
	PreceptorID  string
	StudentID    string
}

type Authorizer interface {
	Can(actor Actor, permission constant.Permission, scope Scope) error
}

// RoleAuthorizer grants by role then narrows to the resources the actor relates to:
// coordinators to their university, preceptors and students to their own records.
type RoleAuthorizer struct{}

func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

func (RoleAuthorizer) Can(actor Actor, permission constant.Permission, scope Scope) error {
	if err := RequirePermission(actor, permission); err != nil {
		return err
	}

	var owns bool
	switch actor.Role {
	case constant.RoleAdmin:
		owns = true
	case constant.RoleCoordinator:
		owns = actor.UniversityID != "" && scope.UniversityID == actor.UniversityID
	case constant.RolePreceptor:
		owns = scope.PreceptorID != "" && scope.PreceptorID == actor.ID
	case constant.RoleStudent:
		owns = scope.StudentID != "" && scope.StudentID == actor.ID
	}

	if !owns {
		return fmt.Errorf("%w: %s is outside the actor's scope", ErrUnauthorized, permission)
	}

	return nil
}

// RequirePermission checks the role table only, for resources every actor of the role may see.
func RequirePermission(actor Actor, permission constant.Permission) error {
	if actor.ID == "" || !actor.Role.IsValid() {
		return fmt.Errorf("%w: unknown actor", ErrUnauthorized)
	}

	if !util.HasPermission([]constant.Role{actor.Role}, []constant.Permission{permission}) {
		return fmt.Errorf("%w: role %s lacks %s", ErrUnauthorized, actor.Role, permission)
	}

	return nil
}
