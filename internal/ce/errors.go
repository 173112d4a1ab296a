// Package ce holds the continuing education rules: policy resolution, eligibility
// evaluation, authorization and evidence snapshots. It has no storage or transport concerns.
package ce

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// 403, role or ownership mismatch
	ErrUnauthorized = errors.New("not allowed to perform this action")
	// 422, wrong status for the requested transition
	ErrInvalidState = errors.New("certificate is not in a valid state for this action")
	// 404
	ErrNotFound = errors.New("record not found")
	// 422, missing or invalid input
	ErrValidation = errors.New("validation failed")
	// 409, a certificate already exists for the application
	ErrConflict = errors.New("certificate already exists for this application")
	// 422, evidence does not satisfy the policy
	ErrNotEligible = errors.New("application is not eligible for a CE certificate")
)

func fmtValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NotEligibleError carries the breakdown that made a request or approval fail.
type NotEligibleError struct {
	Eligibility Eligibility
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("%s: failed %s", ErrNotEligible.Error(), strings.Join(e.Eligibility.FailedChecks(), ", "))
}

func (e *NotEligibleError) Unwrap() error {
	return ErrNotEligible
}
