package ceworkflow

import (
	"context"
	"errors"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/constant"
)

// Eligibility evaluates an application against its university's current policy. Read only.
// An unknown application is ErrNotFound, except for admins who get has_application=false.
func (w *Workflow) Eligibility(ctx context.Context, actor ce.Actor, applicationID string) (ce.Eligibility, error) {
	app, err := w.repo.Application.GetById(ctx, nil, applicationID)
	if err != nil {
		err = notFound(err)
		// admins see every application, so telling them it does not exist leaks nothing
		if errors.Is(err, ce.ErrNotFound) && actor.IsAdmin() {
			return ce.Evaluate(nil, ce.Evidence{}), nil
		}
		return ce.Eligibility{}, err
	}

	if err := w.authorizer.Can(actor, constant.CeEligibilityView, applicationScope(app)); err != nil {
		return ce.Eligibility{}, err
	}

	policy, err := w.currentPolicy(ctx, nil, app.UniversityID)
	if err != nil {
		return ce.Eligibility{}, err
	}

	evidence, err := w.loadEvidence(ctx, nil, app, "")
	if err != nil {
		return ce.Eligibility{}, err
	}

	return ce.Evaluate(policy, evidence), nil
}
