package model

import "time"

// UniversityCePolicy is one version of a university's CE rules.
// The current version is the one with a nil EffectiveTo.
type UniversityCePolicy struct {
	BaseModel
	OffersCe                  bool    `gorm:"type:boolean;default:false;not null" json:"offers_ce"`
	ContactHoursPerRotation   float64 `gorm:"type:decimal(6,2);default:0;not null" json:"contact_hours_per_rotation"`
	MaxHoursPerYear           float64 `gorm:"type:decimal(6,2);default:0;not null" json:"max_hours_per_year"`
	RequiresFinalEvaluation   bool    `gorm:"type:boolean;default:false;not null" json:"requires_final_evaluation"`
	RequiresMidtermEvaluation bool    `gorm:"type:boolean;default:false;not null" json:"requires_midterm_evaluation"`
	RequiresMinimumHours      bool    `gorm:"type:boolean;default:false;not null" json:"requires_minimum_hours"`
	MinimumHoursRequired      float64 `gorm:"type:decimal(6,2);default:0;not null" json:"minimum_hours_required"`
	ApprovalRequired          bool    `gorm:"type:boolean;not null" json:"approval_required"`
	SignerName                string  `gorm:"type:varchar(120)" json:"signer_name"`
	SignerTitle               string  `gorm:"type:varchar(120)" json:"signer_title"`

	Version       int        `gorm:"type:int;not null;uniqueIndex:idx_ce_policy_university_version" json:"version"`
	EffectiveFrom time.Time  `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
	UpdatedBy     *string    `gorm:"type:text" json:"updated_by"`

	UniversityID string      `gorm:"type:text;not null;uniqueIndex:idx_ce_policy_university_version" json:"university_id"`
	University   *University `gorm:"constraint:OnDelete:CASCADE" json:"university,omitempty"`
}

func (p UniversityCePolicy) TableName() string {
	return "university_ce_policies"
}
