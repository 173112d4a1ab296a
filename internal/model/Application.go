package model

import (
	"time"

	"github.com/RotationHub/CECert/internal/constant"
)

// Application is a rotation placement of a student with a preceptor.
type Application struct {
	BaseModel
	Status        constant.ApplicationStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	RotationTitle string                     `gorm:"type:varchar(160);not null" json:"rotation_title"`
	Specialty     string                     `gorm:"type:varchar(80)" json:"specialty"`
	StartDate     *time.Time                 `json:"start_date"`
	EndDate       *time.Time                 `json:"end_date"`

	StudentID    string      `gorm:"type:text;not null;index" json:"student_id"`
	Student      *User       `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	PreceptorID  string      `gorm:"type:text;not null;index" json:"preceptor_id"`
	Preceptor    *User       `gorm:"foreignKey:PreceptorID;constraint:OnDelete:CASCADE" json:"preceptor,omitempty"`
	UniversityID string      `gorm:"type:text;not null;index" json:"university_id"`
	University   *University `gorm:"constraint:OnDelete:CASCADE" json:"university,omitempty"`
}

func (a Application) TableName() string {
	return "applications"
}
