package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

// Error implements error, summarizing the violated fields.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	return "validation failed: " + strings.Join(names, ", ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmailShape(email string) bool {
	return emailShapeRegex.MatchString(email)
}

func validFullName(fullName string) bool {
	length := len([]rune(strings.TrimSpace(fullName)))
	return length >= 2 && length <= 100
}
