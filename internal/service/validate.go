package service

import (
	"strings"

	"github.com/msomdec/skill-connect/internal/domain"
)

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// ValidateProfileInput checks that every field of a new profile is present.
// The store accepts anything; this is the form's submit guard.
func ValidateProfileInput(in domain.ProfileInput) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(in.Name) == "" {
		errs.Add("name", "Name is required")
	}
	if len(ParseSkills(in.Skills)) == 0 {
		errs.Add("skills", "At least one skill is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		errs.Add("email", "Email is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		errs.Add("phone", "Phone is required")
	}

	return errs
}
