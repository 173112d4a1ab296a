package repository

import (
	"context"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

type EvaluationRepository struct {
	*baseRepository
}

func (er EvaluationRepository) GetByApplicationId(ctx context.Context, tx *gorm.DB, applicationId string) ([]model.Evaluation, error) {
	er.logger.Debugf("Get evaluations by application id: %s", applicationId)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var evaluations []model.Evaluation
	if err := db.WithContext(ctx).Model(&model.Evaluation{}).Where("application_id = ?", applicationId).
		Order("type asc").Order("id asc").Find(&evaluations).Error; err != nil {
		return evaluations, err
	}

	return evaluations, nil
}

func (er EvaluationRepository) Create(ctx context.Context, tx *gorm.DB, evaluation *model.Evaluation) error {
	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.Evaluation{}).Create(evaluation).Error
}
