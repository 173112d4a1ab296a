package model

import (
	"time"

	"gorm.io/datatypes"
)

// CeEvidenceSnapshot freezes the evidence a certificate was approved on.
type CeEvidenceSnapshot struct {
	BaseModel
	Payload       datatypes.JSON `gorm:"type:json;not null" json:"payload"`
	PayloadHash   string         `gorm:"type:varchar(80);not null" json:"payload_hash"`
	PolicyVersion int            `gorm:"type:int;not null" json:"policy_version"`
	CapturedAt    time.Time      `gorm:"not null" json:"captured_at"`

	CertificateID string `gorm:"type:text;not null;uniqueIndex" json:"certificate_id"`
}

func (s CeEvidenceSnapshot) TableName() string {
	return "ce_evidence_snapshots"
}
