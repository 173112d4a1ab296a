package repository

import (
	"context"
	"time"

	"github.com/RotationHub/CECert/internal/ce"
	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"github.com/RotationHub/CECert/internal/util"
	"gorm.io/gorm"
)

type CeCertificateRepository struct {
	*baseRepository
}

// CeCertificateFilter narrows List. Empty fields are ignored.
type CeCertificateFilter struct {
	UniversityID string
	PreceptorID  string
	// matched through the certificate's application
	StudentID string
	Status    constant.CeStatus
	Page      uint
	PageSize  uint
}

func (cr CeCertificateRepository) Create(ctx context.Context, tx *gorm.DB, certificate *model.CeCertificate) (*model.CeCertificate, error) {
	cr.logger.Debugf("Create ce certificate for application: %s", certificate.ApplicationID)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.CeCertificate{}).
		Omit("University", "Preceptor", "Application", "CertificateFile").
		Create(certificate).Error; err != nil {
		return certificate, err
	}

	return certificate, nil
}

func (cr CeCertificateRepository) preloaded(db *gorm.DB) *gorm.DB {
	return db.Preload("University").
		Preload("Preceptor").
		Preload("Application").
		Preload("Application.Student").
		Preload("CertificateFile")
}

func (cr CeCertificateRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.CeCertificate, error) {
	cr.logger.Debugf("Get ce certificate by id: %s", id)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var certificate model.CeCertificate
	if err := cr.preloaded(db.WithContext(ctx).Model(&model.CeCertificate{})).
		Where("id = ?", id).
		First(&certificate).Error; err != nil {
		return nil, err
	}

	return &certificate, nil
}

func (cr CeCertificateRepository) GetByVerificationUUID(ctx context.Context, tx *gorm.DB, verificationUUID string) (*model.CeCertificate, error) {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var certificate model.CeCertificate
	if err := cr.preloaded(db.WithContext(ctx).Model(&model.CeCertificate{})).
		Where("verification_uuid = ?", verificationUUID).
		First(&certificate).Error; err != nil {
		return nil, err
	}

	return &certificate, nil
}

// ExistsForApplication reports whether a non deleted certificate exists for the application.
// excludeId skips one certificate, used when re-evaluating a certificate's own application.
func (cr CeCertificateRepository) ExistsForApplication(ctx context.Context, tx *gorm.DB, applicationId string, excludeId string) (bool, error) {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	query := db.WithContext(ctx).Model(&model.CeCertificate{}).Where("application_id = ?", applicationId)
	if excludeId != "" {
		query = query.Where("id <> ?", excludeId)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// List returns one page of certificates matching filter, newest first, plus the total count.
func (cr CeCertificateRepository) List(ctx context.Context, tx *gorm.DB, filter CeCertificateFilter) ([]model.CeCertificate, int64, error) {
	cr.logger.Debugf("List ce certificates with filter: %+v", filter)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.CeCertificate{})
	if filter.UniversityID != "" {
		query = query.Where("university_id = ?", filter.UniversityID)
	}
	if filter.PreceptorID != "" {
		query = query.Where("preceptor_id = ?", filter.PreceptorID)
	}
	if filter.StudentID != "" {
		query = query.Where("application_id IN (?)",
			db.Model(&model.Application{}).Select("id").Where("student_id = ?", filter.StudentID))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := util.NormalizePage(filter.Page, filter.PageSize)

	var certificates []model.CeCertificate
	if err := cr.preloaded(query).
		Order("created_at desc").Order("id desc").
		Offset(util.PageOffset(page, pageSize)).
		Limit(int(pageSize)).
		Find(&certificates).Error; err != nil {
		return nil, 0, err
	}

	return certificates, total, nil
}

// transition applies updates only while the certificate is still in status from.
// Losing the race returns ce.ErrInvalidState, a missing row ce.ErrNotFound.
func (cr CeCertificateRepository) transition(ctx context.Context, tx *gorm.DB, id string, from constant.CeStatus, updates map[string]any) error {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.CeCertificate{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&model.CeCertificate{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ce.ErrNotFound
		}

		cr.logger.Debugf("Ce certificate %s is no longer %s", id, from)
		return ce.ErrInvalidState
	}

	return nil
}

func (cr CeCertificateRepository) MarkApproved(ctx context.Context, tx *gorm.DB, id string, approvedBy *string, at time.Time) error {
	cr.logger.Debugf("Mark ce certificate %s approved", id)

	return cr.transition(ctx, tx, id, constant.CeStatusPending, map[string]any{
		"status":      constant.CeStatusApproved,
		"approved_by": approvedBy,
		"approved_at": at,
		"issued_at":   at,
	})
}

func (cr CeCertificateRepository) MarkIssued(ctx context.Context, tx *gorm.DB, id string, path string, fileId string, at time.Time) error {
	cr.logger.Debugf("Mark ce certificate %s issued at %s", id, path)

	return cr.transition(ctx, tx, id, constant.CeStatusApproved, map[string]any{
		"status":              constant.CeStatusIssued,
		"issued_at":           at,
		"certificate_path":    path,
		"certificate_file_id": fileId,
	})
}

func (cr CeCertificateRepository) MarkRejected(ctx context.Context, tx *gorm.DB, id string, rejectedBy string, reason string, at time.Time) error {
	cr.logger.Debugf("Mark ce certificate %s rejected", id)

	return cr.transition(ctx, tx, id, constant.CeStatusPending, map[string]any{
		"status":           constant.CeStatusRejected,
		"rejected_by":      rejectedBy,
		"rejection_reason": reason,
		"rejected_at":      at,
	})
}

func (cr CeCertificateRepository) MarkRevoked(ctx context.Context, tx *gorm.DB, id string, revokedBy string, reason string, at time.Time) error {
	cr.logger.Debugf("Mark ce certificate %s revoked", id)

	return cr.transition(ctx, tx, id, constant.CeStatusIssued, map[string]any{
		"status":            constant.CeStatusRevoked,
		"revoked_by":        revokedBy,
		"revocation_reason": reason,
		"revoked_at":        at,
	})
}

// SumContactHoursForYear adds up approved and issued contact hours of a preceptor at a
// university whose approval falls in the calendar year of at.
func (cr CeCertificateRepository) SumContactHoursForYear(ctx context.Context, tx *gorm.DB, preceptorId string, universityId string, at time.Time, excludeId string) (float64, error) {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	at = at.UTC()
	start := time.Date(at.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	query := db.WithContext(ctx).Model(&model.CeCertificate{}).
		Select("COALESCE(SUM(contact_hours), 0)").
		Where("preceptor_id = ? AND university_id = ?", preceptorId, universityId).
		Where("status IN ?", []constant.CeStatus{constant.CeStatusApproved, constant.CeStatusIssued}).
		Where("approved_at >= ? AND approved_at < ?", start, end)
	if excludeId != "" {
		query = query.Where("id <> ?", excludeId)
	}

	var total float64
	if err := query.Scan(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// ListStaleApproved returns certificates stuck in approved since before the given time.
func (cr CeCertificateRepository) ListStaleApproved(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]model.CeCertificate, error) {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var certificates []model.CeCertificate
	if err := db.WithContext(ctx).Model(&model.CeCertificate{}).
		Where("status = ? AND approved_at < ?", constant.CeStatusApproved, before).
		Order("approved_at asc").
		Limit(limit).
		Find(&certificates).Error; err != nil {
		return nil, err
	}

	return certificates, nil
}
