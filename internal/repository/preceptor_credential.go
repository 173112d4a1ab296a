package repository

import (
	"context"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

type PreceptorCredentialRepository struct {
	*baseRepository
}

func (pcr PreceptorCredentialRepository) GetByPreceptorId(ctx context.Context, tx *gorm.DB, preceptorId string) ([]model.PreceptorCredential, error) {
	pcr.logger.Debugf("Get credentials by preceptor id: %s", preceptorId)

	db := pcr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var credentials []model.PreceptorCredential
	if err := db.WithContext(ctx).Model(&model.PreceptorCredential{}).Where("preceptor_id = ?", preceptorId).
		Order("credential_type asc").Order("id asc").Find(&credentials).Error; err != nil {
		return credentials, err
	}

	return credentials, nil
}

func (pcr PreceptorCredentialRepository) Create(ctx context.Context, tx *gorm.DB, credential *model.PreceptorCredential) error {
	db := pcr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.PreceptorCredential{}).Create(credential).Error
}
