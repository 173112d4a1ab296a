package repository

import (
	"context"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	*baseRepository
}

// GetById loads the application with its student, preceptor and university.
func (ar ApplicationRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.Application, error) {
	ar.logger.Debugf("Get application by id: %s", id)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var application model.Application
	if err := db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).
		Preload("Student").Preload("Preceptor").Preload("University").
		First(&application).Error; err != nil {
		return nil, err
	}

	return &application, nil
}

func (ar ApplicationRepository) Create(ctx context.Context, tx *gorm.DB, application *model.Application) (*model.Application, error) {
	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Application{}).Omit("Student", "Preceptor", "University").Create(application).Error; err != nil {
		return application, err
	}

	return application, nil
}
