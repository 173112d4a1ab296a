// Package ceworkflow runs the CE certificate lifecycle on top of the repositories:
// request, approve, issue, reject, revoke and public verification.
package ceworkflow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/constant"
	filestorage "github.com/RotationHub/CECert/internal/file_storage"
	"github.com/RotationHub/CECert/internal/model"
	"github.com/RotationHub/CECert/internal/queue"
	"github.com/RotationHub/CECert/internal/repository"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/RotationHub/CECert/pkg/cecert"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Renderer interface {
	Render(data cecert.CertificateData, outFile string) error
}

type Options struct {
	Repository *repository.Repository
	Authorizer ce.Authorizer
	Renderer   Renderer
	Storage    filestorage.Storage
	// Optional, without it render retries and mails are not queued
	Publisher queue.Publisher
	Config    config.CEConfig
	Logger    *zap.SugaredLogger
	// Defaults to util.GetTempDir()
	TmpDir string
	// Defaults to time.Now in UTC
	Now func() time.Time
}

type Workflow struct {
	repo       *repository.Repository
	authorizer ce.Authorizer
	renderer   Renderer
	storage    filestorage.Storage
	publisher  queue.Publisher
	cfg        config.CEConfig
	logger     *zap.SugaredLogger
	tmpDir     string
	now        func() time.Time
}

func New(opts Options) *Workflow {
	w := &Workflow{
		repo:       opts.Repository,
		authorizer: opts.Authorizer,
		renderer:   opts.Renderer,
		storage:    opts.Storage,
		publisher:  opts.Publisher,
		cfg:        opts.Config,
		logger:     opts.Logger,
		tmpDir:     opts.TmpDir,
		now:        opts.Now,
	}

	if w.authorizer == nil {
		w.authorizer = ce.NewRoleAuthorizer()
	}
	if w.logger == nil {
		w.logger = util.NewLogger()
	}
	if w.tmpDir == "" {
		w.tmpDir = util.GetTempDir()
	}
	if w.now == nil {
		w.now = func() time.Time { return time.Now().UTC() }
	}

	return w
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ce.ErrNotFound
	}
	return err
}

func applicationScope(app *model.Application) ce.Scope {
	return ce.Scope{
		UniversityID: app.UniversityID,
		PreceptorID:  app.PreceptorID,
		StudentID:    app.StudentID,
	}
}

func certificateScope(cert *model.CeCertificate) ce.Scope {
	scope := ce.Scope{
		UniversityID: cert.UniversityID,
		PreceptorID:  cert.PreceptorID,
	}
	if cert.Application != nil {
		scope.StudentID = cert.Application.StudentID
	}
	return scope
}

func (w *Workflow) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return w.repo.DB.WithContext(ctx).Transaction(fn)
}

func toMetadata(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func statusPtr(s constant.CeStatus) *constant.CeStatus {
	return &s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (w *Workflow) audit(ctx context.Context, tx *gorm.DB, certID string, action constant.CeAuditAction, from, to *constant.CeStatus, actorID *string, reason string, metadata any) error {
	_, err := w.repo.CeAuditEvent.Create(ctx, tx, &model.CeAuditEvent{
		Action:        action,
		FromStatus:    from,
		ToStatus:      to,
		ActorID:       actorID,
		Reason:        strPtr(reason),
		Metadata:      toMetadata(metadata),
		OccurredAt:    w.now(),
		CertificateID: certID,
	})
	return err
}

// loadEvidence gathers what the evaluator needs for app. excludeCertID leaves one
// certificate out of the duplicate and annual cap checks.
func (w *Workflow) loadEvidence(ctx context.Context, tx *gorm.DB, app *model.Application, excludeCertID string) (ce.Evidence, error) {
	hourLogs, err := w.repo.HourLog.GetByApplicationId(ctx, tx, app.ID)
	if err != nil {
		return ce.Evidence{}, err
	}

	evaluations, err := w.repo.Evaluation.GetByApplicationId(ctx, tx, app.ID)
	if err != nil {
		return ce.Evidence{}, err
	}

	hasCertificate, err := w.repo.CeCertificate.ExistsForApplication(ctx, tx, app.ID, excludeCertID)
	if err != nil {
		return ce.Evidence{}, err
	}

	ytd, err := w.repo.CeCertificate.SumContactHoursForYear(ctx, tx, app.PreceptorID, app.UniversityID, w.now(), excludeCertID)
	if err != nil {
		return ce.Evidence{}, err
	}

	return ce.Evidence{
		Application:     app,
		HourLogs:        hourLogs,
		Evaluations:     evaluations,
		HasCertificate:  hasCertificate,
		YearToDateHours: ytd,
	}, nil
}

func (w *Workflow) currentPolicy(ctx context.Context, tx *gorm.DB, universityID string) (*model.UniversityCePolicy, error) {
	stored, err := w.repo.CePolicy.GetCurrent(ctx, tx, universityID)
	if err != nil {
		return nil, err
	}
	return ce.ResolvePolicy(universityID, stored), nil
}

// certificatePolicy is the policy version the certificate was requested under.
func (w *Workflow) certificatePolicy(ctx context.Context, tx *gorm.DB, cert *model.CeCertificate) (*model.UniversityCePolicy, error) {
	policy, err := w.repo.CePolicy.GetByVersion(ctx, tx, cert.UniversityID, cert.PolicyVersion)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return w.currentPolicy(ctx, tx, cert.UniversityID)
		}
		return nil, err
	}
	return policy, nil
}

func (w *Workflow) loadCertificate(ctx context.Context, id string) (*model.CeCertificate, error) {
	cert, err := w.repo.CeCertificate.GetById(ctx, nil, id)
	if err != nil {
		return nil, notFound(err)
	}
	return cert, nil
}
