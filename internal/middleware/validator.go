package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Input validation for request bodies

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank rejects whitespace-only strings, which "required" lets through
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidationError is a request that failed validation. It maps to HTTP 400.
type ValidationError struct {
	Field string
	Tag   string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Tag)
}

// ValidateStruct checks v against its `validate` tags and returns the first failure.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		msg := fmt.Sprintf("validation error: %s - %s", field, fe.Tag())
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			msg = field + " is required"
		}
		return &ValidationError{Field: field, Tag: fe.Tag(), Msg: msg}
	}
	return &ValidationError{Msg: "validation error: invalid request"}
}

// BadRequest wraps a malformed body or query value as a ValidationError.
func BadRequest(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// SanitizeString removes control characters (except tab and newline) and trims.
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
