package model

import "time"

type PreceptorCredential struct {
	BaseModel
	CredentialType string     `gorm:"type:varchar(40);not null" json:"credential_type"`
	LicenseNumber  string     `gorm:"type:varchar(60);not null" json:"license_number"`
	IssuingState   string     `gorm:"type:varchar(40)" json:"issuing_state"`
	ExpiresAt      *time.Time `json:"expires_at"`

	PreceptorID string `gorm:"type:text;not null;index" json:"preceptor_id"`
}

func (pc PreceptorCredential) TableName() string {
	return "preceptor_credentials"
}
