package model

import (
	"time"

	"github.com/RotationHub/CECert/internal/constant"
	"gorm.io/datatypes"
)

// CeAuditEvent rows are only ever inserted.
type CeAuditEvent struct {
	BaseModel
	Action     constant.CeAuditAction `gorm:"type:varchar(24);not null" json:"action"`
	FromStatus *constant.CeStatus     `gorm:"type:varchar(16)" json:"from_status"`
	ToStatus   *constant.CeStatus     `gorm:"type:varchar(16)" json:"to_status"`
	// Nil when the system acted, e.g. auto approval or the render consumer.
	ActorID    *string        `gorm:"type:text" json:"actor_id"`
	Reason     *string        `gorm:"type:text" json:"reason"`
	Metadata   datatypes.JSON `json:"metadata"`
	OccurredAt time.Time      `gorm:"not null;index" json:"occurred_at"`

	CertificateID string `gorm:"type:text;not null;index" json:"certificate_id"`
}

func (e CeAuditEvent) TableName() string {
	return "ce_audit_events"
}
