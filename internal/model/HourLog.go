package model

import (
	"time"

	"github.com/RotationHub/CECert/internal/constant"
)

type HourLog struct {
	BaseModel
	WorkDate    time.Time              `gorm:"not null" json:"work_date"`
	Hours       float64                `gorm:"type:decimal(6,2);not null" json:"hours"`
	Status      constant.HourLogStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Description string                 `gorm:"type:text" json:"description"`

	ApplicationID string `gorm:"type:text;not null;index" json:"application_id"`
}

func (h HourLog) TableName() string {
	return "hour_logs"
}
