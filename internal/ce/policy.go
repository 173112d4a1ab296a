package ce

import "github.com/RotationHub/CECert/internal/model"

// ResolvePolicy returns the stored policy or, when the university never configured one,
// a policy that does not offer CE so every evaluation against it fails.
func ResolvePolicy(universityID string, stored *model.UniversityCePolicy) *model.UniversityCePolicy {
	if stored != nil {
		return stored
	}

	return &model.UniversityCePolicy{
		UniversityID:     universityID,
		OffersCe:         false,
		ApprovalRequired: true,
	}
}

// PolicyInput is the editable part of a policy. Nil fields keep the value of the current version.
type PolicyInput struct {
	OffersCe                  *bool    `json:"offers_ce" form:"offers_ce"`
	ContactHoursPerRotation   *float64 `json:"contact_hours_per_rotation" form:"contact_hours_per_rotation" binding:"omitempty,gte=0,lte=1000"`
	MaxHoursPerYear           *float64 `json:"max_hours_per_year" form:"max_hours_per_year" binding:"omitempty,gte=0,lte=10000"`
	RequiresFinalEvaluation   *bool    `json:"requires_final_evaluation" form:"requires_final_evaluation"`
	RequiresMidtermEvaluation *bool    `json:"requires_midterm_evaluation" form:"requires_midterm_evaluation"`
	RequiresMinimumHours      *bool    `json:"requires_minimum_hours" form:"requires_minimum_hours"`
	MinimumHoursRequired      *float64 `json:"minimum_hours_required" form:"minimum_hours_required" binding:"omitempty,gte=0,lte=10000"`
	ApprovalRequired          *bool    `json:"approval_required" form:"approval_required"`
	SignerName                *string  `json:"signer_name" form:"signer_name" binding:"omitempty,max=120"`
	SignerTitle               *string  `json:"signer_title" form:"signer_title" binding:"omitempty,max=120"`
}

func (in PolicyInput) IsEmpty() bool {
	return in == PolicyInput{}
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Apply merges the set fields onto p, which starts as a copy of the current version,
// then validates the merged policy.
func (in PolicyInput) Apply(p *model.UniversityCePolicy) error {
	setIfPresent(&p.OffersCe, in.OffersCe)
	setIfPresent(&p.ContactHoursPerRotation, in.ContactHoursPerRotation)
	setIfPresent(&p.MaxHoursPerYear, in.MaxHoursPerYear)
	setIfPresent(&p.RequiresFinalEvaluation, in.RequiresFinalEvaluation)
	setIfPresent(&p.RequiresMidtermEvaluation, in.RequiresMidtermEvaluation)
	setIfPresent(&p.RequiresMinimumHours, in.RequiresMinimumHours)
	setIfPresent(&p.MinimumHoursRequired, in.MinimumHoursRequired)
	setIfPresent(&p.ApprovalRequired, in.ApprovalRequired)
	setIfPresent(&p.SignerName, in.SignerName)
	setIfPresent(&p.SignerTitle, in.SignerTitle)

	return ValidatePolicy(p)
}

// ValidatePolicy checks the rules binding tags can't express.
func ValidatePolicy(p *model.UniversityCePolicy) error {
	if p.RequiresMinimumHours && p.MinimumHoursRequired <= 0 {
		return fmtValidation("minimum_hours_required must be greater than 0 when requires_minimum_hours is set")
	}
	if p.OffersCe && p.ContactHoursPerRotation <= 0 {
		return fmtValidation("contact_hours_per_rotation must be greater than 0 when offers_ce is set")
	}
	if p.MaxHoursPerYear > 0 && p.ContactHoursPerRotation > p.MaxHoursPerYear {
		return fmtValidation("contact_hours_per_rotation cannot exceed max_hours_per_year")
	}
	return nil
}
