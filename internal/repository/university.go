package repository

import (
	"context"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

type UniversityRepository struct {
	*baseRepository
}

func (ur UniversityRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.University, error) {
	ur.logger.Debugf("Get university by id: %s", id)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var university model.University
	if err := db.WithContext(ctx).Model(&model.University{}).Where("id = ?", id).First(&university).Error; err != nil {
		return nil, err
	}

	return &university, nil
}

func (ur UniversityRepository) Create(ctx context.Context, tx *gorm.DB, university *model.University) (*model.University, error) {
	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.University{}).Create(university).Error; err != nil {
		return university, err
	}

	return university, nil
}
