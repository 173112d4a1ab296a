// Package testutil builds in-memory databases and seeded records for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/database"
	"github.com/RotationHub/CECert/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewDB opens a private in-memory sqlite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cecert_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the memory database alive and serializes transactions
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func NewLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Fixture is a university with one accepted rotation that satisfies DefaultPolicy.
type Fixture struct {
	University   model.University
	Admin        model.User
	Coordinator  model.User
	Preceptor    model.User
	Student      model.User
	Application  model.Application
	Policy       model.UniversityCePolicy
	OtherCoord   model.User
	OtherPrecept model.User
}

var Now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// DefaultPolicy offers 10 contact hours for 80 approved hours and a submitted final evaluation.
func DefaultPolicy(universityID string) model.UniversityCePolicy {
	return model.UniversityCePolicy{
		OffersCe:                true,
		ContactHoursPerRotation: 10,
		MaxHoursPerYear:         0,
		RequiresFinalEvaluation: true,
		RequiresMinimumHours:    true,
		MinimumHoursRequired:    80,
		ApprovalRequired:        true,
		SignerName:              "Dana Whitfield",
		SignerTitle:             "Director of Clinical Education",
		Version:                 1,
		EffectiveFrom:           Now.AddDate(0, -1, 0),
		UniversityID:            universityID,
	}
}

func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{}
	f.University = model.University{Name: "Northfield University"}
	require.NoError(t, db.Create(&f.University).Error)

	otherUniversity := model.University{Name: "Lakeside College"}
	require.NoError(t, db.Create(&otherUniversity).Error)

	f.Admin = model.User{Email: "admin@cecert.test", FirstName: "Ada", LastName: "Admin", Role: constant.RoleAdmin}
	f.Coordinator = model.User{Email: "coord@northfield.test", FirstName: "Cory", LastName: "Coordinator", Role: constant.RoleCoordinator, UniversityID: &f.University.ID}
	f.OtherCoord = model.User{Email: "coord@lakeside.test", FirstName: "Lee", LastName: "Lake", Role: constant.RoleCoordinator, UniversityID: &otherUniversity.ID}
	f.Preceptor = model.User{Email: "preceptor@clinic.test", FirstName: "Pat", LastName: "Preceptor", Role: constant.RolePreceptor}
	f.OtherPrecept = model.User{Email: "other@clinic.test", FirstName: "Owen", LastName: "Other", Role: constant.RolePreceptor}
	f.Student = model.User{Email: "student@northfield.test", FirstName: "Sam", LastName: "Student", Role: constant.RoleStudent, UniversityID: &f.University.ID}
	for _, u := range []*model.User{&f.Admin, &f.Coordinator, &f.OtherCoord, &f.Preceptor, &f.OtherPrecept, &f.Student} {
		require.NoError(t, db.Omit("University").Create(u).Error)
	}

	start := Now.AddDate(0, -2, 0)
	end := Now.AddDate(0, 0, -7)
	f.Application = model.Application{
		Status:        constant.ApplicationStatusCompleted,
		RotationTitle: "Family Medicine Rotation",
		Specialty:     "Family Medicine",
		StartDate:     &start,
		EndDate:       &end,
		StudentID:     f.Student.ID,
		PreceptorID:   f.Preceptor.ID,
		UniversityID:  f.University.ID,
	}
	require.NoError(t, db.Omit("Student", "Preceptor", "University").Create(&f.Application).Error)

	AddHourLog(t, db, f.Application.ID, 40, constant.HourLogStatusApproved)
	AddHourLog(t, db, f.Application.ID, 40, constant.HourLogStatusApproved)
	AddEvaluation(t, db, f.Application.ID, constant.EvaluationTypeFinal, true)

	require.NoError(t, db.Create(&model.PreceptorCredential{
		CredentialType: "MD",
		LicenseNumber:  "MD-448812",
		IssuingState:   "OR",
		PreceptorID:    f.Preceptor.ID,
	}).Error)

	f.Policy = DefaultPolicy(f.University.ID)
	require.NoError(t, db.Omit("University").Create(&f.Policy).Error)

	return f
}

func AddHourLog(t *testing.T, db *gorm.DB, applicationID string, hours float64, status constant.HourLogStatus) model.HourLog {
	t.Helper()

	log := model.HourLog{
		WorkDate:      Now.AddDate(0, 0, -14),
		Hours:         hours,
		Status:        status,
		ApplicationID: applicationID,
	}
	require.NoError(t, db.Create(&log).Error)
	return log
}

func AddEvaluation(t *testing.T, db *gorm.DB, applicationID string, evalType constant.EvaluationType, submitted bool) model.Evaluation {
	t.Helper()

	eval := model.Evaluation{Type: evalType, OverallRating: 4, ApplicationID: applicationID}
	if submitted {
		at := Now.AddDate(0, 0, -3)
		eval.SubmittedAt = &at
	}
	require.NoError(t, db.Create(&eval).Error)
	return eval
}
