package ceworkflow

import (
	"context"
	"time"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/constant"
	"github.com/google/uuid"
)

// VerifyResult is the public view of a certificate. Every field but Valid is empty when not found.
type VerifyResult struct {
	Valid             bool              `json:"valid"`
	Status            constant.CeStatus `json:"status"`
	PreceptorName     string            `json:"preceptor_name"`
	ContactHours      float64           `json:"contact_hours"`
	UniversityName    string            `json:"university_name"`
	CertificateNumber string            `json:"certificate_number"`
	IssuedAt          *time.Time        `json:"issued_at"`
	RotationTitle     string            `json:"rotation_title"`
}

// Verify looks a certificate up by its public uuid. Only issued and revoked certificates are
// visible, anything else answers ce.ErrNotFound so callers can't probe for pending requests.
func (w *Workflow) Verify(ctx context.Context, verificationUUID string) (VerifyResult, error) {
	id, err := uuid.Parse(verificationUUID)
	if err != nil {
		return VerifyResult{}, ce.ErrNotFound
	}

	cert, err := w.repo.CeCertificate.GetByVerificationUUID(ctx, nil, id.String())
	if err != nil {
		return VerifyResult{}, notFound(err)
	}

	if cert.Status != constant.CeStatusIssued && cert.Status != constant.CeStatusRevoked {
		return VerifyResult{}, ce.ErrNotFound
	}

	result := VerifyResult{
		Valid:             cert.Status == constant.CeStatusIssued,
		Status:            cert.Status,
		ContactHours:      cert.ContactHours,
		CertificateNumber: cert.CertificateNumber,
		IssuedAt:          cert.IssuedAt,
	}
	if cert.Preceptor != nil {
		result.PreceptorName = cert.Preceptor.FullName()
	}
	if cert.University != nil {
		result.UniversityName = cert.University.Name
	}
	if cert.Application != nil {
		result.RotationTitle = cert.Application.RotationTitle
	}

	return result, nil
}
