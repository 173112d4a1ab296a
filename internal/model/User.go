package model

import "github.com/RotationHub/CECert/internal/constant"

type User struct {
	BaseModel
	Email     string        `gorm:"unique;not null;type:citext" json:"email" form:"email" binding:"required"`
	FirstName string        `gorm:"type:varchar(60);not null;" json:"first_name" form:"first_name" binding:"required"`
	LastName  string        `gorm:"type:varchar(60);not null;" json:"last_name" form:"last_name" binding:"required"`
	Role      constant.Role `gorm:"type:varchar(16);not null;index" json:"role" form:"role"`

	// Coordinators and students belong to a university, preceptors usually don't.
	UniversityID *string     `gorm:"type:text;index" json:"university_id"`
	University   *University `gorm:"constraint:OnDelete:SET NULL" json:"university,omitempty"`
}

func (u User) TableName() string {
	return "users"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
