package ce

import (
	"fmt"
	"math"

	"github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
)

const (
	CheckPolicyOffersCe        = "policy_offers_ce"
	CheckApplicationStatus     = "application_status"
	CheckFinalEvaluation       = "final_evaluation"
	CheckMidtermEvaluation     = "midterm_evaluation"
	CheckMinimumHours          = "minimum_hours"
	CheckNoExistingCertificate = "no_existing_certificate"
	CheckAnnualCap             = "annual_cap"
)

// Evidence is everything the evaluator looks at for one application.
type Evidence struct {
	// Nil when the application does not exist.
	Application *model.Application
	HourLogs    []model.HourLog
	Evaluations []model.Evaluation
	// A non-deleted certificate other than the one being decided exists for the application.
	HasCertificate bool
	// CE hours already approved or issued to the preceptor by the university this calendar year.
	YearToDateHours float64
}

type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

type Eligibility struct {
	Eligible           bool    `json:"eligible"`
	HasApplication     bool    `json:"has_application"`
	TotalApprovedHours float64 `json:"total_approved_hours"`
	PendingHours       float64 `json:"pending_hours"`
	HasEvaluation      bool    `json:"has_evaluation"`
	HasCertificate     bool    `json:"has_certificate"`
	ContactHours       float64 `json:"contact_hours"`
	PolicyVersion      int     `json:"policy_version"`
	Checks             []Check `json:"checks"`
}

// FailedChecks lists the names of the checks that did not pass.
func (e Eligibility) FailedChecks() []string {
	var failed []string
	for _, c := range e.Checks {
		if !c.Passed {
			failed = append(failed, c.Name)
		}
	}
	return failed
}

// hours are stored with two decimals, sums are rounded the same way so 79.99999 never shows up
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func sumHours(logs []model.HourLog) (approved float64, pending float64) {
	for _, l := range logs {
		switch l.Status {
		case constant.HourLogStatusApproved:
			approved += l.Hours
		case constant.HourLogStatusPending:
			pending += l.Hours
		}
	}
	return roundHours(approved), roundHours(pending)
}

func hasSubmitted(evals []model.Evaluation, t constant.EvaluationType) bool {
	for _, e := range evals {
		if e.Type == t && e.IsSubmitted() {
			return true
		}
	}
	return false
}

func submittedDetail(kind string, submitted bool) string {
	if submitted {
		return kind + " evaluation submitted"
	}
	return kind + " evaluation not submitted"
}

// Evaluate checks the evidence against the policy. It has no side effects:
// the same policy and evidence always give the same result.
func Evaluate(policy *model.UniversityCePolicy, ev Evidence) Eligibility {
	if policy == nil {
		universityID := ""
		if ev.Application != nil {
			universityID = ev.Application.UniversityID
		}
		policy = ResolvePolicy(universityID, nil)
	}

	approved, pending := sumHours(ev.HourLogs)
	result := Eligibility{
		HasApplication:     ev.Application != nil,
		TotalApprovedHours: approved,
		PendingHours:       pending,
		HasEvaluation:      hasSubmitted(ev.Evaluations, constant.EvaluationTypeFinal),
		HasCertificate:     ev.HasCertificate,
		ContactHours:       roundHours(policy.ContactHoursPerRotation),
		PolicyVersion:      policy.Version,
	}

	add := func(name string, passed bool, detail string) {
		result.Checks = append(result.Checks, Check{Name: name, Passed: passed, Detail: detail})
	}

	if policy.OffersCe {
		add(CheckPolicyOffersCe, true, "university offers CE")
	} else {
		add(CheckPolicyOffersCe, false, "university does not offer CE")
	}

	switch {
	case ev.Application == nil:
		add(CheckApplicationStatus, false, "application not found")
	case ev.Application.Status.IsCertifiable():
		add(CheckApplicationStatus, true, fmt.Sprintf("application is %s", ev.Application.Status))
	default:
		add(CheckApplicationStatus, false, fmt.Sprintf("application is %s, must be accepted or completed", ev.Application.Status))
	}

	if policy.RequiresFinalEvaluation {
		ok := hasSubmitted(ev.Evaluations, constant.EvaluationTypeFinal)
		add(CheckFinalEvaluation, ok, submittedDetail("final", ok))
	}

	if policy.RequiresMidtermEvaluation {
		ok := hasSubmitted(ev.Evaluations, constant.EvaluationTypeMidterm)
		add(CheckMidtermEvaluation, ok, submittedDetail("midterm", ok))
	}

	if policy.RequiresMinimumHours {
		minimum := roundHours(policy.MinimumHoursRequired)
		add(CheckMinimumHours, approved >= minimum, fmt.Sprintf("%.2f of %.2f approved hours", approved, minimum))
	}

	if ev.HasCertificate {
		add(CheckNoExistingCertificate, false, "a certificate already exists for this application")
	} else {
		add(CheckNoExistingCertificate, true, "no certificate exists for this application")
	}

	if policy.MaxHoursPerYear > 0 {
		total := roundHours(ev.YearToDateHours + policy.ContactHoursPerRotation)
		limit := roundHours(policy.MaxHoursPerYear)
		add(CheckAnnualCap, total <= limit, fmt.Sprintf("%.2f of %.2f CE hours this year", total, limit))
	}

	result.Eligible = true
	for _, c := range result.Checks {
		if !c.Passed {
			result.Eligible = false
			break
		}
	}

	return result
}
