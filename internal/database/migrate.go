package database

import (
	"github.com/RotationHub/CECert/internal/model"
	"gorm.io/gorm"
)

// Parents first, postgres creates foreign keys in this order.
var models = []any{
	&model.University{},
	&model.User{},
	&model.Application{},
	&model.HourLog{},
	&model.Evaluation{},
	&model.PreceptorCredential{},
	&model.UniversityCePolicy{},
	&model.File{},
	&model.CeCertificate{},
	&model.CeAuditEvent{},
	&model.CeEvidenceSnapshot{},
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models...)
}
