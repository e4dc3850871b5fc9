package usecase

import (
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

func ValidateLeadInput(input entity.LeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if utf8.RuneCountInString(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Company) == "" {
		errors = append(errors, ValidationError{"company", "is required"})
	}

	if input.Email != "" && !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	errors = append(errors, validateValue(input.Value)...)

	return errors
}

func ValidateLeadPatch(patch entity.LeadPatch) []ValidationError {
	var errors []ValidationError

	if patch.IsEmpty() {
		errors = append(errors, ValidationError{"patch", "has no fields"})
	}
	if patch.Stage != nil {
		errors = append(errors, ValidationError{"stage", "must be changed through a stage transition"})
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		errors = append(errors, ValidationError{"name", "must not be blank"})
	}
	if patch.Email != nil && *patch.Email != "" && !isValidEmail(*patch.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if patch.Phone != nil && *patch.Phone != "" && !isValidPhoneNumber(*patch.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	if patch.Value != nil {
		errors = append(errors, validateValue(*patch.Value)...)
	}

	return errors
}

func validateValue(v float64) []ValidationError {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []ValidationError{{"value", "must be a finite number"}}
	}
	if v < 0 {
		return []ValidationError{{"value", "must not be negative"}}
	}
	return nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}
