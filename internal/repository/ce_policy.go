package repository

import (
	"context"
	"errors"
	"time"

	constant "github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CePolicyRepository struct {
	*baseRepository
}

// GetCurrent returns the policy version with no effective_to, or nil when the university has none.
func (pr CePolicyRepository) GetCurrent(ctx context.Context, tx *gorm.DB, universityId string) (*model.UniversityCePolicy, error) {
	pr.logger.Debugf("Get current ce policy of university: %s", universityId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var policy model.UniversityCePolicy
	err := db.WithContext(ctx).Model(&model.UniversityCePolicy{}).
		Where("university_id = ? AND effective_to IS NULL", universityId).
		Order("version desc").
		First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &policy, nil
}

func (pr CePolicyRepository) GetByVersion(ctx context.Context, tx *gorm.DB, universityId string, version int) (*model.UniversityCePolicy, error) {
	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var policy model.UniversityCePolicy
	if err := db.WithContext(ctx).Model(&model.UniversityCePolicy{}).
		Where("university_id = ? AND version = ?", universityId, version).
		First(&policy).Error; err != nil {
		return nil, err
	}

	return &policy, nil
}

// Upsert stores policy as the next version of the university's policy and closes the
// current one. apply merges the caller's fields onto a copy of the current version, an error aborts the upsert.
func (pr CePolicyRepository) Upsert(ctx context.Context, tx *gorm.DB, universityId string, updatedBy *string, now time.Time, apply func(p *model.UniversityCePolicy) error) (*model.UniversityCePolicy, error) {
	pr.logger.Debugf("Upsert ce policy of university: %s", universityId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var created *model.UniversityCePolicy
	err := pr.withTx(db.WithContext(ctx), func(tx *gorm.DB) error {
		var current model.UniversityCePolicy
		err := tx.Model(&model.UniversityCePolicy{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("university_id = ? AND effective_to IS NULL", universityId).
			Order("version desc").
			First(&current).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		next := model.UniversityCePolicy{
			// same defaults as a university without a policy row
			ApprovalRequired: true,
			Version:          1,
		}
		if err == nil {
			next = current
			next.BaseModel = model.BaseModel{}
			next.Version = current.Version + 1

			if err := tx.Model(&model.UniversityCePolicy{}).
				Where("id = ? AND effective_to IS NULL", current.ID).
				Update("effective_to", now).Error; err != nil {
				return err
			}
		}

		if err := apply(&next); err != nil {
			return err
		}
		next.UniversityID = universityId
		next.University = nil
		next.EffectiveFrom = now
		next.EffectiveTo = nil
		next.UpdatedBy = updatedBy

		if err := tx.Model(&model.UniversityCePolicy{}).Create(&next).Error; err != nil {
			return err
		}

		created = &next
		return nil
	})

	return created, err
}
