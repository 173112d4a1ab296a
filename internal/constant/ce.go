package constant

import "slices"

type CeStatus string

const (
	CeStatusPending  CeStatus = "pending"
	CeStatusApproved CeStatus = "approved"
	CeStatusIssued   CeStatus = "issued"
	CeStatusRejected CeStatus = "rejected"
	CeStatusRevoked  CeStatus = "revoked"
)

// Every legal move of a CE certificate. Statuses missing as a key are terminal.
var ceTransitions = map[CeStatus][]CeStatus{
	CeStatusPending:  {CeStatusApproved, CeStatusRejected},
	CeStatusApproved: {CeStatusIssued},
	CeStatusIssued:   {CeStatusRevoked},
}

func ParseCeStatus(s string) (CeStatus, bool) {
	status := CeStatus(s)
	return status, status.IsValid()
}

func (s CeStatus) IsValid() bool {
	switch s {
	case CeStatusPending, CeStatusApproved, CeStatusIssued, CeStatusRejected, CeStatusRevoked:
		return true
	}
	return false
}

func (s CeStatus) CanTransitionTo(next CeStatus) bool {
	return slices.Contains(ceTransitions[s], next)
}

func (s CeStatus) IsTerminal() bool {
	return len(ceTransitions[s]) == 0
}

type CeAuditAction string

const (
	CeAuditRequested    CeAuditAction = "requested"
	CeAuditApproved     CeAuditAction = "approved"
	CeAuditIssued       CeAuditAction = "issued"
	CeAuditRejected     CeAuditAction = "rejected"
	CeAuditRevoked      CeAuditAction = "revoked"
	CeAuditRenderFailed CeAuditAction = "render_failed"
)

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusDeclined  ApplicationStatus = "declined"
	ApplicationStatusCompleted ApplicationStatus = "completed"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// Accepted or completed placements are the only ones CE can be credited for.
func (s ApplicationStatus) IsCertifiable() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusCompleted
}

type HourLogStatus string

const (
	HourLogStatusPending  HourLogStatus = "pending"
	HourLogStatusApproved HourLogStatus = "approved"
	HourLogStatusRejected HourLogStatus = "rejected"
)

type EvaluationType string

const (
	EvaluationTypeMidterm EvaluationType = "midterm"
	EvaluationTypeFinal   EvaluationType = "final"
)
