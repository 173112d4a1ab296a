package controller

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// bindStatus answers 422 for failed validation tags and 400 for bodies that don't parse.
func bindStatus(err error) int {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
