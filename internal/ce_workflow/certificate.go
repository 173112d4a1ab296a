package ceworkflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/constant"
	filestorage "github.com/RotationHub/CECert/internal/file_storage"
	"github.com/RotationHub/CECert/internal/mailer"
	"github.com/RotationHub/CECert/internal/model"
	"github.com/RotationHub/CECert/internal/repository"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result of a request or an approval. Issued is false when rendering was deferred to the render queue.
type Result struct {
	Certificate *model.CeCertificate
	Issued      bool
}

// Request creates a pending certificate for an eligible application. When the policy needs no
// approval the certificate is approved by the system and issued right away.
func (w *Workflow) Request(ctx context.Context, actor ce.Actor, applicationID string) (*Result, error) {
	app, err := w.repo.Application.GetById(ctx, nil, applicationID)
	if err != nil {
		return nil, notFound(err)
	}

	if err := w.authorizer.Can(actor, constant.CeCertificateRequest, applicationScope(app)); err != nil {
		return nil, err
	}

	policy, err := w.currentPolicy(ctx, nil, app.UniversityID)
	if err != nil {
		return nil, err
	}

	evidence, err := w.loadEvidence(ctx, nil, app, "")
	if err != nil {
		return nil, err
	}

	if evidence.HasCertificate {
		return nil, ce.ErrConflict
	}

	eligibility := ce.Evaluate(policy, evidence)
	if !eligibility.Eligible {
		return nil, &ce.NotEligibleError{Eligibility: eligibility}
	}

	number, err := util.GenerateCertificateNumber()
	if err != nil {
		return nil, err
	}

	cert := &model.CeCertificate{
		CertificateNumber: number,
		ContactHours:      eligibility.ContactHours,
		Status:            constant.CeStatusPending,
		PolicyVersion:     policy.Version,
		VerificationUUID:  uuid.NewString(),
		UniversityID:      app.UniversityID,
		PreceptorID:       app.PreceptorID,
		ApplicationID:     app.ID,
	}

	err = w.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := w.repo.CeCertificate.Create(ctx, tx, cert); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost the race against a concurrent request for the same application
				return ce.ErrConflict
			}
			return err
		}

		return w.audit(ctx, tx, cert.ID, constant.CeAuditRequested, nil, statusPtr(constant.CeStatusPending), &actor.ID, "", map[string]any{
			"policy_version": policy.Version,
			"contact_hours":  cert.ContactHours,
		})
	})
	if err != nil {
		return nil, err
	}

	w.logger.Infow("ce certificate requested", "certificate_id", cert.ID, "application_id", app.ID, "actor_id", actor.ID)

	if !policy.ApprovalRequired {
		return w.approve(ctx, cert.ID, nil)
	}

	cert, err = w.loadCertificate(ctx, cert.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Certificate: cert}, nil
}

// Approve moves a pending certificate to approved, freezes its evidence and renders it.
func (w *Workflow) Approve(ctx context.Context, actor ce.Actor, certificateID string) (*Result, error) {
	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	if err := w.authorizer.Can(actor, constant.CeCertificateApprove, certificateScope(cert)); err != nil {
		return nil, err
	}

	if !cert.Status.CanTransitionTo(constant.CeStatusApproved) {
		return nil, fmt.Errorf("%w: cannot approve a %s certificate", ce.ErrInvalidState, cert.Status)
	}

	return w.approve(ctx, cert.ID, &actor.ID)
}

// approve re-checks the evidence then, in one transaction, marks the certificate approved,
// writes the audit event and the evidence snapshot. A nil actorID means the system approved.
func (w *Workflow) approve(ctx context.Context, certificateID string, actorID *string) (*Result, error) {
	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	app, err := w.repo.Application.GetById(ctx, nil, cert.ApplicationID)
	if err != nil {
		return nil, notFound(err)
	}

	policy, err := w.certificatePolicy(ctx, nil, cert)
	if err != nil {
		return nil, err
	}

	evidence, err := w.loadEvidence(ctx, nil, app, cert.ID)
	if err != nil {
		return nil, err
	}

	eligibility := ce.Evaluate(policy, evidence)
	if !eligibility.Eligible {
		return nil, &ce.NotEligibleError{Eligibility: eligibility}
	}

	credentials, err := w.repo.PreceptorCredential.GetByPreceptorId(ctx, nil, app.PreceptorID)
	if err != nil {
		return nil, err
	}

	now := w.now()
	snapshot, err := ce.BuildSnapshot(cert.ID, policy, eligibility, evidence, credentials, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build evidence snapshot: %w", err)
	}

	err = w.transaction(ctx, func(tx *gorm.DB) error {
		if err := w.repo.CeCertificate.MarkApproved(ctx, tx, cert.ID, actorID, now); err != nil {
			return err
		}

		if err := w.audit(ctx, tx, cert.ID, constant.CeAuditApproved, statusPtr(constant.CeStatusPending), statusPtr(constant.CeStatusApproved), actorID, "", map[string]any{
			"policy_version": policy.Version,
			"payload_hash":   snapshot.PayloadHash,
		}); err != nil {
			return err
		}

		_, err := w.repo.CeEvidenceSnapshot.Create(ctx, tx, snapshot)
		return err
	})
	if err != nil {
		return nil, err
	}

	w.logger.Infow("ce certificate approved", "certificate_id", cert.ID, "payload_hash", snapshot.PayloadHash)

	issued, err := w.issue(ctx, cert.ID, true)
	if err != nil && !errors.Is(err, ErrRenderFailed) {
		return nil, err
	}

	cert, err = w.loadCertificate(ctx, cert.ID)
	if err != nil {
		return nil, err
	}

	return &Result{Certificate: cert, Issued: issued}, nil
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: reason is required", ce.ErrValidation)
	}
	return reason, nil
}

// Reject ends a pending certificate. Rejected certificates never move again.
func (w *Workflow) Reject(ctx context.Context, actor ce.Actor, certificateID string, reason string) (*model.CeCertificate, error) {
	reason, err := normalizeReason(reason)
	if err != nil {
		return nil, err
	}

	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	if err := w.authorizer.Can(actor, constant.CeCertificateReject, certificateScope(cert)); err != nil {
		return nil, err
	}

	if !cert.Status.CanTransitionTo(constant.CeStatusRejected) {
		return nil, fmt.Errorf("%w: cannot reject a %s certificate", ce.ErrInvalidState, cert.Status)
	}

	err = w.transaction(ctx, func(tx *gorm.DB) error {
		if err := w.repo.CeCertificate.MarkRejected(ctx, tx, cert.ID, actor.ID, reason, w.now()); err != nil {
			return err
		}
		return w.audit(ctx, tx, cert.ID, constant.CeAuditRejected, statusPtr(constant.CeStatusPending), statusPtr(constant.CeStatusRejected), &actor.ID, reason, nil)
	})
	if err != nil {
		return nil, err
	}

	w.logger.Infow("ce certificate rejected", "certificate_id", cert.ID, "actor_id", actor.ID)

	cert, err = w.loadCertificate(ctx, cert.ID)
	if err != nil {
		return nil, err
	}
	w.notify(cert, mailer.TemplateCeCertificateRejected, reason)

	return cert, nil
}

// Revoke withdraws an issued certificate, verification reports it as not valid afterwards.
func (w *Workflow) Revoke(ctx context.Context, actor ce.Actor, certificateID string, reason string) (*model.CeCertificate, error) {
	reason, err := normalizeReason(reason)
	if err != nil {
		return nil, err
	}

	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	if err := w.authorizer.Can(actor, constant.CeCertificateRevoke, certificateScope(cert)); err != nil {
		return nil, err
	}

	if !cert.Status.CanTransitionTo(constant.CeStatusRevoked) {
		return nil, fmt.Errorf("%w: cannot revoke a %s certificate", ce.ErrInvalidState, cert.Status)
	}

	err = w.transaction(ctx, func(tx *gorm.DB) error {
		if err := w.repo.CeCertificate.MarkRevoked(ctx, tx, cert.ID, actor.ID, reason, w.now()); err != nil {
			return err
		}
		return w.audit(ctx, tx, cert.ID, constant.CeAuditRevoked, statusPtr(constant.CeStatusIssued), statusPtr(constant.CeStatusRevoked), &actor.ID, reason, nil)
	})
	if err != nil {
		return nil, err
	}

	w.logger.Infow("ce certificate revoked", "certificate_id", cert.ID, "actor_id", actor.ID)

	cert, err = w.loadCertificate(ctx, cert.ID)
	if err != nil {
		return nil, err
	}
	w.notify(cert, mailer.TemplateCeCertificateRevoked, reason)

	return cert, nil
}

type CertificateDetail struct {
	Certificate *model.CeCertificate
	AuditEvents []model.CeAuditEvent
	// Nil until the certificate is approved
	Snapshot *model.CeEvidenceSnapshot
}

func (w *Workflow) Get(ctx context.Context, actor ce.Actor, certificateID string) (*CertificateDetail, error) {
	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	if err := w.authorizer.Can(actor, constant.CeCertificateView, certificateScope(cert)); err != nil {
		return nil, err
	}

	events, err := w.repo.CeAuditEvent.GetByCertificateId(ctx, nil, cert.ID)
	if err != nil {
		return nil, err
	}

	snapshot, err := w.repo.CeEvidenceSnapshot.GetByCertificateId(ctx, nil, cert.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &CertificateDetail{Certificate: cert, AuditEvents: events, Snapshot: snapshot}, nil
}

type ListParams struct {
	Status   string
	Page     uint
	PageSize uint
}

// List returns the certificates the actor may see: everything for admins, the university's for
// coordinators, their own for preceptors and their rotations' for students.
func (w *Workflow) List(ctx context.Context, actor ce.Actor, params ListParams) ([]model.CeCertificate, int64, error) {
	if err := ce.RequirePermission(actor, constant.CeCertificateView); err != nil {
		return nil, 0, err
	}

	filter := repository.CeCertificateFilter{Page: params.Page, PageSize: params.PageSize}
	if params.Status != "" {
		status, ok := constant.ParseCeStatus(params.Status)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown status %q", ce.ErrValidation, params.Status)
		}
		filter.Status = status
	}

	switch actor.Role {
	case constant.RoleAdmin:
	case constant.RoleCoordinator:
		if actor.UniversityID == "" {
			return nil, 0, fmt.Errorf("%w: coordinator has no university", ce.ErrUnauthorized)
		}
		filter.UniversityID = actor.UniversityID
	case constant.RolePreceptor:
		filter.PreceptorID = actor.ID
	case constant.RoleStudent:
		filter.StudentID = actor.ID
	default:
		return nil, 0, ce.ErrUnauthorized
	}

	return w.repo.CeCertificate.List(ctx, nil, filter)
}

// DownloadURL returns a presigned link to the pdf of an issued certificate, valid for expiry.
func (w *Workflow) DownloadURL(ctx context.Context, actor ce.Actor, certificateID string, expiry time.Duration) (string, error) {
	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return "", err
	}

	if err := w.authorizer.Can(actor, constant.CeCertificateDownload, certificateScope(cert)); err != nil {
		return "", err
	}

	if cert.Status != constant.CeStatusIssued || cert.CertificatePath == nil {
		return "", fmt.Errorf("%w: only issued certificates can be downloaded", ce.ErrInvalidState)
	}

	return w.storage.PresignedGetURL(ctx, *cert.CertificatePath, cert.CertificateNumber+".pdf", expiry)
}

// Download opens the rendered pdf of an issued certificate, the caller closes the reader.
func (w *Workflow) Download(ctx context.Context, actor ce.Actor, certificateID string) (io.ReadCloser, filestorage.Object, *model.CeCertificate, error) {
	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return nil, filestorage.Object{}, nil, err
	}

	if err := w.authorizer.Can(actor, constant.CeCertificateDownload, certificateScope(cert)); err != nil {
		return nil, filestorage.Object{}, nil, err
	}

	if cert.Status != constant.CeStatusIssued || cert.CertificatePath == nil {
		return nil, filestorage.Object{}, nil, fmt.Errorf("%w: only issued certificates can be downloaded", ce.ErrInvalidState)
	}

	reader, obj, err := w.storage.GetObject(ctx, *cert.CertificatePath)
	if err != nil {
		return nil, filestorage.Object{}, nil, err
	}

	return reader, obj, cert, nil
}
