package model

import (
	"time"

	"github.com/RotationHub/CECert/internal/constant"
	"gorm.io/gorm"
)

type CeCertificate struct {
	BaseModel
	CertificateNumber string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"certificate_number"`
	ContactHours      float64           `gorm:"type:decimal(6,2);not null" json:"contact_hours"`
	Status            constant.CeStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	PolicyVersion     int               `gorm:"type:int;not null" json:"policy_version"`
	VerificationUUID  string            `gorm:"type:text;not null;uniqueIndex" json:"verification_uuid"`

	ApprovedAt *time.Time `json:"approved_at"`
	ApprovedBy *string    `gorm:"type:text" json:"approved_by"`
	IssuedAt   *time.Time `json:"issued_at"`

	CertificatePath   *string `gorm:"type:text" json:"certificate_path"`
	CertificateFileID *string `gorm:"type:text" json:"-"`
	CertificateFile   *File   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	RejectedBy      *string    `gorm:"type:text" json:"rejected_by"`
	RejectedAt      *time.Time `json:"rejected_at"`

	RevocationReason *string    `gorm:"type:text" json:"revocation_reason"`
	RevokedBy        *string    `gorm:"type:text" json:"revoked_by"`
	RevokedAt        *time.Time `json:"revoked_at"`

	UniversityID  string       `gorm:"type:text;not null;index" json:"university_id"`
	University    *University  `gorm:"constraint:OnDelete:CASCADE" json:"university,omitempty"`
	PreceptorID   string       `gorm:"type:text;not null;index" json:"preceptor_id"`
	Preceptor     *User        `gorm:"foreignKey:PreceptorID;constraint:OnDelete:CASCADE" json:"preceptor,omitempty"`
	ApplicationID string       `gorm:"type:text;not null;uniqueIndex:idx_ce_certificates_application,where:deleted_at IS NULL" json:"application_id"`
	Application   *Application `gorm:"constraint:OnDelete:CASCADE" json:"application,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c CeCertificate) TableName() string {
	return "ce_certificates"
}
