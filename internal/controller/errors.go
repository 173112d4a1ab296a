package controller

import (
	"errors"
	"net/http"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

const (
	ErrIdRequired            = "id is required"
	ErrUniversityIdRequired  = "university ID is required"
	ErrApplicationIdRequired = "application ID is required"
)

// statusOf maps ce errors to http status codes, anything unknown is a 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ce.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ce.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ce.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ce.ErrInvalidState),
		errors.Is(err, ce.ErrValidation),
		errors.Is(err, ce.ErrNotEligible):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// responseCeError renders a workflow error. Not eligible answers carry the check breakdown in data.
func (b *baseController) responseCeError(ctx *gin.Context, message string, field string, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		b.app.Logger.Errorf("%s: %v", message, err)
	}

	var notEligible *ce.NotEligibleError
	if errors.As(err, &notEligible) {
		util.ResponseFailed(ctx, code, message, util.GenerateErrorMessages(err, field), notEligible.Eligibility)
		return
	}

	util.ResponseFailed(ctx, code, message, util.GenerateErrorMessages(err, field), nil)
}
