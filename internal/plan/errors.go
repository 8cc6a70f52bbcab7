package plan

import (
	"errors"
	"fmt"
)

// ErrInvalidPlanJSON indicates the sanitized model reply is not a JSON object.
var ErrInvalidPlanJSON = errors.New("AI response was not valid JSON, even after cleanup")

// ParseError carries the untouched model reply so callers can surface it
// for diagnosis.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return ErrInvalidPlanJSON.Error()
	}
	return fmt.Sprintf("%s: %v", ErrInvalidPlanJSON, e.Cause)
}

// Unwrap lets errors.Is match ErrInvalidPlanJSON.
func (e *ParseError) Unwrap() error {
	return ErrInvalidPlanJSON
}
