package ceworkflow

import (
	"context"
	"fmt"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
)

// GetPolicy returns the current policy of a university, nil when it has none.
func (w *Workflow) GetPolicy(ctx context.Context, actor ce.Actor, universityID string) (*model.UniversityCePolicy, error) {
	if err := ce.RequirePermission(actor, constant.CePolicyView); err != nil {
		return nil, err
	}

	if _, err := w.repo.University.GetById(ctx, nil, universityID); err != nil {
		return nil, notFound(err)
	}

	return w.repo.CePolicy.GetCurrent(ctx, nil, universityID)
}

// UpsertPolicy stores input as a new policy version, earlier versions stay for the certificates that used them.
func (w *Workflow) UpsertPolicy(ctx context.Context, actor ce.Actor, universityID string, input ce.PolicyInput) (*model.UniversityCePolicy, error) {
	if err := w.authorizer.Can(actor, constant.CePolicyUpdate, ce.Scope{UniversityID: universityID}); err != nil {
		return nil, err
	}

	if input.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one policy field is required", ce.ErrValidation)
	}

	if _, err := w.repo.University.GetById(ctx, nil, universityID); err != nil {
		return nil, notFound(err)
	}

	policy, err := w.repo.CePolicy.Upsert(ctx, nil, universityID, &actor.ID, w.now(), input.Apply)
	if err != nil {
		return nil, err
	}

	w.logger.Infow("ce policy updated", "university_id", universityID, "version", policy.Version, "actor_id", actor.ID)
	return policy, nil
}
