package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ValidationError is one failed rule on one input field.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q %s", e.Field, e.Value, e.Message)
}

// ValidationErrors is the error returned by a failed Validator. It unwraps to ErrValidation.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrValidation }

// Status renders the failures as InvalidArgument with one BadRequest violation per failure.
func (e ValidationErrors) Status() *status.Status {
	st := status.New(codes.InvalidArgument, e.Error())
	br := &errdetails.BadRequest{}
	for _, ve := range e {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       ve.Field,
			Description: ve.Message,
		})
	}
	if detailed, err := st.WithDetails(br); err == nil {
		return detailed
	}
	return st
}

// Validator collects failures across input fields.
type Validator struct {
	errors ValidationErrors
}

func NewValidator() *Validator {
	return &Validator{}
}

// Field runs every rule against value and records each failure.
func (v *Validator) Field(fieldName, value string, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// Check records a cross-field failure when ok is false.
func (v *Validator) Check(ok bool, fieldName, message string) *Validator {
	if !ok {
		v.errors = append(v.errors, ValidationError{Field: fieldName, Message: message})
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []ValidationError {
	return append([]ValidationError(nil), v.errors...)
}

// Error returns the collected failures as ValidationErrors, or nil.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return append(ValidationErrors(nil), v.errors...)
}

// ErrorMessage joins every failure into one line.
func (v *Validator) ErrorMessage() string {
	return v.errors.Error()
}

// ValidationRule checks one field value.
type ValidationRule func(fieldName, value string) *ValidationError

func Required(fieldName, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: fieldName, Message: "is required"}
	}
	return nil
}

// MaxLength returns a rule bounding the rune length of a value.
func MaxLength(max int) ValidationRule {
	return func(fieldName, value string) *ValidationError {
		if n := utf8.RuneCountInString(value); n > max {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("is %d characters, at most %d allowed", n, max),
			}
		}
		return nil
	}
}

// UUID accepts an empty value; pair it with Required when the id is mandatory.
func UUID(fieldName, value string) *ValidationError {
	if value == "" {
		return nil
	}
	if _, err := uuid.Parse(value); err != nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a valid UUID"}
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email accepts an empty value or something shaped like local@domain.tld.
func Email(fieldName, value string) *ValidationError {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if !emailRegex.MatchString(value) {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a valid email address"}
	}
	return nil
}

// ValidateAndReturnError returns the validator's failures as a gRPC InvalidArgument status, or nil.
func ValidateAndReturnError(validator *Validator) error {
	if !validator.HasErrors() {
		return nil
	}
	return validator.errors.Status().Err()
}
