package repository

import (
	"context"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

type CeEvidenceSnapshotRepository struct {
	*baseRepository
}

func (sr CeEvidenceSnapshotRepository) Create(ctx context.Context, tx *gorm.DB, snapshot *model.CeEvidenceSnapshot) (*model.CeEvidenceSnapshot, error) {
	sr.logger.Debugf("Create evidence snapshot for certificate: %s, hash: %s", snapshot.CertificateID, snapshot.PayloadHash)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.CeEvidenceSnapshot{}).Create(snapshot).Error; err != nil {
		return snapshot, err
	}

	return snapshot, nil
}

func (sr CeEvidenceSnapshotRepository) GetByCertificateId(ctx context.Context, tx *gorm.DB, certificateId string) (*model.CeEvidenceSnapshot, error) {
	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var snapshot model.CeEvidenceSnapshot
	if err := db.WithContext(ctx).Model(&model.CeEvidenceSnapshot{}).
		Where("certificate_id = ?", certificateId).
		First(&snapshot).Error; err != nil {
		return nil, err
	}

	return &snapshot, nil
}
