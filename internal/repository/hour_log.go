package repository

import (
	"context"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

type HourLogRepository struct {
	*baseRepository
}

func (hr HourLogRepository) GetByApplicationId(ctx context.Context, tx *gorm.DB, applicationId string) ([]model.HourLog, error) {
	hr.logger.Debugf("Get hour logs by application id: %s", applicationId)

	db := hr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var logs []model.HourLog
	if err := db.WithContext(ctx).Model(&model.HourLog{}).Where("application_id = ?", applicationId).
		Order("work_date asc").Order("id asc").Find(&logs).Error; err != nil {
		return logs, err
	}

	return logs, nil
}

func (hr HourLogRepository) CreateMany(ctx context.Context, tx *gorm.DB, logs []*model.HourLog) error {
	if len(logs) == 0 {
		return nil
	}

	db := hr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.HourLog{}).Create(logs).Error
}
