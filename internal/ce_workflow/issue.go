package ceworkflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/constant"
	filestorage "github.com/RotationHub/CECert/internal/file_storage"
	"github.com/RotationHub/CECert/internal/mailer"
	"github.com/RotationHub/CECert/internal/model"
	"github.com/RotationHub/CECert/internal/queue"
	"github.com/RotationHub/CECert/pkg/cecert"
	"gorm.io/gorm"
)

// ErrRenderFailed means the certificate stayed approved because its pdf could not be produced or stored.
var ErrRenderFailed = errors.New("certificate rendering failed")

func (w *Workflow) certificateData(cert *model.CeCertificate, policy *model.UniversityCePolicy, issuedAt time.Time) cecert.CertificateData {
	data := cecert.CertificateData{
		CertificateNumber: cert.CertificateNumber,
		ContactHours:      cert.ContactHours,
		IssuedAt:          issuedAt,
		SignerName:        policy.SignerName,
		SignerTitle:       policy.SignerTitle,
		VerifyURL:         w.cfg.VerifyURL(cert.VerificationUUID),
	}
	if cert.University != nil {
		data.UniversityName = cert.University.Name
	}
	if cert.Preceptor != nil {
		data.PreceptorName = cert.Preceptor.FullName()
	}
	if cert.Application != nil {
		data.RotationTitle = cert.Application.RotationTitle
		data.StartDate = cert.Application.StartDate
		data.EndDate = cert.Application.EndDate
	}
	return data
}

// renderAndUpload produces the pdf in a private temp dir and stores it under the certificate's key.
func (w *Workflow) renderAndUpload(ctx context.Context, cert *model.CeCertificate, data cecert.CertificateData) (filestorage.Object, error) {
	if err := os.MkdirAll(w.tmpDir, 0755); err != nil {
		return filestorage.Object{}, err
	}

	dir, err := os.MkdirTemp(w.tmpDir, "render_*")
	if err != nil {
		return filestorage.Object{}, err
	}
	defer os.RemoveAll(dir)

	// the object key is built from the base name
	outFile := filepath.Join(dir, cert.CertificateNumber+".pdf")
	if err := w.renderer.Render(data, outFile); err != nil {
		return filestorage.Object{}, fmt.Errorf("render: %w", err)
	}

	obj, err := w.storage.UploadFileByPath(ctx, outFile, &filestorage.FileUploadOptions{
		DirectoryPath: filestorage.GetCeCertificateDirectoryPath(cert.UniversityID),
	})
	if err != nil {
		return filestorage.Object{}, fmt.Errorf("upload: %w", err)
	}

	return obj, nil
}

// issue renders an approved certificate and marks it issued. It reports whether the certificate
// is issued when it returns. Render or upload failures are audited and returned as ErrRenderFailed,
// with queueRetry a render job is published so the render consumer tries again.
func (w *Workflow) issue(ctx context.Context, certificateID string, queueRetry bool) (bool, error) {
	cert, err := w.loadCertificate(ctx, certificateID)
	if err != nil {
		return false, err
	}

	switch cert.Status {
	case constant.CeStatusIssued:
		return true, nil
	case constant.CeStatusApproved:
	default:
		return false, fmt.Errorf("%w: cannot issue a %s certificate", ce.ErrInvalidState, cert.Status)
	}

	policy, err := w.certificatePolicy(ctx, nil, cert)
	if err != nil {
		return false, err
	}

	issuedAt := w.now()
	obj, renderErr := w.renderAndUpload(ctx, cert, w.certificateData(cert, policy, issuedAt))
	if renderErr != nil {
		w.logger.Errorw("ce certificate render failed", "certificate_id", cert.ID, "error", renderErr)

		if err := w.audit(ctx, nil, cert.ID, constant.CeAuditRenderFailed, statusPtr(constant.CeStatusApproved), nil, nil, "", map[string]any{
			"error": renderErr.Error(),
		}); err != nil {
			w.logger.Errorw("failed to audit render failure", "certificate_id", cert.ID, "error", err)
		}

		if queueRetry && w.publisher != nil {
			if err := queue.PublishCeRenderJob(w.publisher, cert.ID); err != nil {
				w.logger.Errorw("failed to queue render job", "certificate_id", cert.ID, "error", err)
			}
		}

		return false, fmt.Errorf("%w: %v", ErrRenderFailed, renderErr)
	}

	err = w.transaction(ctx, func(tx *gorm.DB) error {
		file, err := w.repo.File.Create(ctx, tx, &model.File{
			FileName:       cert.CertificateNumber + ".pdf",
			UniqueFileName: obj.Key,
			BucketName:     obj.Bucket,
			Size:           obj.Size,
			ContentType:    obj.ContentType,
		})
		if err != nil {
			return err
		}

		if err := w.repo.CeCertificate.MarkIssued(ctx, tx, cert.ID, obj.Key, file.ID, issuedAt); err != nil {
			return err
		}

		return w.audit(ctx, tx, cert.ID, constant.CeAuditIssued, statusPtr(constant.CeStatusApproved), statusPtr(constant.CeStatusIssued), nil, "", map[string]any{
			"certificate_path": obj.Key,
			"size":             obj.Size,
		})
	})
	if err != nil {
		// another worker issued it first, the object key is the same so nothing to clean up
		if errors.Is(err, ce.ErrInvalidState) || errors.Is(err, gorm.ErrDuplicatedKey) {
			latest, loadErr := w.loadCertificate(ctx, cert.ID)
			if loadErr == nil && latest.Status == constant.CeStatusIssued {
				return true, nil
			}
		}

		if rmErr := w.storage.RemoveObject(ctx, obj.Key); rmErr != nil {
			w.logger.Errorw("failed to remove uploaded certificate", "certificate_id", cert.ID, "key", obj.Key, "error", rmErr)
		}
		return false, err
	}

	w.logger.Infow("ce certificate issued", "certificate_id", cert.ID, "certificate_path", obj.Key)

	cert, err = w.loadCertificate(ctx, cert.ID)
	if err != nil {
		return true, nil
	}
	w.notify(cert, mailer.TemplateCeCertificateIssued, "")

	return true, nil
}

// RenderJobHandler issues certificates from the render queue. Jobs for certificates that are
// no longer approved are acknowledged, render failures are retried.
func (w *Workflow) RenderJobHandler() queue.CeRenderJobHandler {
	return func(ctx context.Context, jobPayload queue.CeRenderPayload) (bool, error) {
		_, err := w.issue(ctx, jobPayload.CertificateID, false)
		switch {
		case err == nil:
			return false, nil
		case errors.Is(err, ce.ErrInvalidState), errors.Is(err, ce.ErrNotFound):
			w.logger.Infow("skipping render job", "certificate_id", jobPayload.CertificateID, "reason", err.Error())
			return false, nil
		default:
			return true, err
		}
	}
}

// RequeueStaleRenders publishes render jobs for certificates approved longer than gracePeriod ago
// and still not issued. It returns how many jobs were published.
func (w *Workflow) RequeueStaleRenders(ctx context.Context, gracePeriod time.Duration, limit int) (int, error) {
	if w.publisher == nil {
		return 0, errors.New("no publisher configured")
	}

	stale, err := w.repo.CeCertificate.ListStaleApproved(ctx, nil, w.now().Add(-gracePeriod), limit)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, cert := range stale {
		if err := queue.PublishCeRenderJob(w.publisher, cert.ID); err != nil {
			w.logger.Errorw("failed to publish render job", "certificate_id", cert.ID, "error", err)
			continue
		}
		published++
	}

	return published, nil
}

// notify queues a mail to the preceptor, failures are only logged.
func (w *Workflow) notify(cert *model.CeCertificate, template mailer.MailTemplateFile, reason string) {
	if w.publisher == nil || cert.Preceptor == nil || cert.Preceptor.Email == "" {
		return
	}

	data := mailer.CeCertificateMailData{
		PreceptorName:     cert.Preceptor.FullName(),
		CertificateNumber: cert.CertificateNumber,
		ContactHours:      cecert.FormatHours(cert.ContactHours),
		VerifyURL:         w.cfg.VerifyURL(cert.VerificationUUID),
		Reason:            reason,
	}
	if cert.University != nil {
		data.UniversityName = cert.University.Name
	}
	if cert.Application != nil {
		data.RotationTitle = cert.Application.RotationTitle
	}

	if err := queue.PublishCeCertificateMail(w.publisher, cert.Preceptor.Email, template, data); err != nil {
		w.logger.Errorw("failed to queue mail", "certificate_id", cert.ID, "template", template, "error", err)
	}
}
