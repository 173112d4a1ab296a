package repository

import (
	"context"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

type CeAuditEventRepository struct {
	*baseRepository
}

func (ar CeAuditEventRepository) Create(ctx context.Context, tx *gorm.DB, event *model.CeAuditEvent) (*model.CeAuditEvent, error) {
	ar.logger.Debugf("Create ce audit event %s for certificate: %s", event.Action, event.CertificateID)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.CeAuditEvent{}).Create(event).Error; err != nil {
		return event, err
	}

	return event, nil
}

func (ar CeAuditEventRepository) GetByCertificateId(ctx context.Context, tx *gorm.DB, certificateId string) ([]model.CeAuditEvent, error) {
	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var events []model.CeAuditEvent
	if err := db.WithContext(ctx).Model(&model.CeAuditEvent{}).
		Where("certificate_id = ?", certificateId).
		Order("occurred_at asc").Order("created_at asc").
		Find(&events).Error; err != nil {
		return events, err
	}

	return events, nil
}
