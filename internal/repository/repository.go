package repository

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

type Repository struct {
	// DB can be used for transaction. Example usage:
	// err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error { ... })
	// Then pass tx to the repository functions, returning an error rolls everything back.
	DB                  *gorm.DB
	User                *UserRepository
	University          *UniversityRepository
	Application         *ApplicationRepository
	HourLog             *HourLogRepository
	Evaluation          *EvaluationRepository
	PreceptorCredential *PreceptorCredentialRepository
	CePolicy            *CePolicyRepository
	CeCertificate       *CeCertificateRepository
	CeAuditEvent        *CeAuditEventRepository
	CeEvidenceSnapshot  *CeEvidenceSnapshotRepository
	File                *FileRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger) *baseRepository {
	return &baseRepository{db: db, logger: logger}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger) *Repository {
	br := newBaseRepository(db, logger)

	return &Repository{
		DB:                  db,
		User:                &UserRepository{baseRepository: br},
		University:          &UniversityRepository{baseRepository: br},
		Application:         &ApplicationRepository{baseRepository: br},
		HourLog:             &HourLogRepository{baseRepository: br},
		Evaluation:          &EvaluationRepository{baseRepository: br},
		PreceptorCredential: &PreceptorCredentialRepository{baseRepository: br},
		CePolicy:            &CePolicyRepository{baseRepository: br},
		CeCertificate:       &CeCertificateRepository{baseRepository: br},
		CeAuditEvent:        &CeAuditEventRepository{baseRepository: br},
		CeEvidenceSnapshot:  &CeEvidenceSnapshotRepository{baseRepository: br},
		File:                &FileRepository{baseRepository: br},
	}
}

// Runs fn inside a transaction on db (or on tx when already inside one, as a savepoint).
// Docs: https://gorm.io/docs/transactions.html
func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx Transaction error: %v", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}
