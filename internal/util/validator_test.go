package util

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type reasonBody struct {
	Reason string `validate:"required,strNotEmpty,cmin=3,cmax=10"`
	Status string `validate:"omitempty,oneof=pending issued"`
}

func newTestValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		t.Fatalf("failed to register validators: %v", err)
	}
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		body    reasonBody
		wantTag string
	}{
		{"valid", reasonBody{Reason: "  late  "}, ""},
		{"whitespace only", reasonBody{Reason: "     "}, "strNotEmpty"},
		{"too short after trim", reasonBody{Reason: " ab "}, "cmin"},
		{"too long after trim", reasonBody{Reason: "hours were disputed"}, "cmax"},
		{"bad status", reasonBody{Reason: "late", Status: "revoked"}, "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.body)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var ve validator.ValidationErrors
			if !errors.As(err, &ve) || len(ve) != 1 {
				t.Fatalf("expected one validation error, got %v", err)
			}
			if ve[0].Tag() != tt.wantTag {
				t.Errorf("expected tag %s, got %s", tt.wantTag, ve[0].Tag())
			}
		})
	}
}

func TestGenerateErrorMessages(t *testing.T) {
	v := newTestValidator(t)

	err := v.Struct(reasonBody{Reason: "   "})
	msgs := GenerateErrorMessages(err, map[string]string{"Reason": "rejection_reason"})
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Field != "rejection_reason" {
		t.Errorf("expected custom field name, got %s", msgs[0].Field)
	}
	if msgs[0].Message != "rejection_reason must not be empty or contain only whitespace charaters" {
		t.Errorf("unexpected message: %s", msgs[0].Message)
	}

	msgs = GenerateErrorMessages(gorm.ErrRecordNotFound)
	if msgs[0].Message != "Record not found" {
		t.Errorf("unexpected message: %s", msgs[0].Message)
	}

	msgs = GenerateErrorMessages(errors.New("boom"), "application_id")
	if msgs[0].Field != "application_id" || msgs[0].Message != "boom" {
		t.Errorf("unexpected message: %+v", msgs[0])
	}
}
