package model

import (
	"time"

	"github.com/RotationHub/CECert/internal/constant"
)

type Evaluation struct {
	BaseModel
	Type          constant.EvaluationType `gorm:"type:varchar(16);not null" json:"type"`
	OverallRating int                     `gorm:"type:int" json:"overall_rating"`
	Comments      string                  `gorm:"type:text" json:"comments"`
	// Nil while the evaluation is a draft.
	SubmittedAt *time.Time `json:"submitted_at"`

	ApplicationID string `gorm:"type:text;not null;index" json:"application_id"`
}

func (e Evaluation) TableName() string {
	return "evaluations"
}

func (e Evaluation) IsSubmitted() bool {
	return e.SubmittedAt != nil
}
