// Package sight implements sextant sight reduction: altitude corrections,
// intercept calculation, practice problem generation, and multi-sight
// position fixes.
package sight

import (
	"errors"
	"fmt"
)

// ValidationError reports a scalar input outside its physical range, or
// an unsupported enumeration value. Validation always happens before any
// computation; out-of-range values are never silently clamped.
type ValidationError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
	Msg   string // Set for non-numeric violations (body name, limb, mode)
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s %.4g is not in valid range [%.4g, %.4g]", e.Field, e.Value, e.Min, e.Max)
}

// rangeErr builds a ValidationError for a numeric field.
func rangeErr(field string, value, min, max float64) error {
	return &ValidationError{Field: field, Value: value, Min: min, Max: max}
}

// checkRange validates value against [min, max].
func checkRange(field string, value, min, max float64) error {
	if value < min || value > max {
		return rangeErr(field, value, min, max)
	}
	return nil
}

// ExhaustedError reports that the problem generator failed to produce a
// valid observation within its retry budget.
type ExhaustedError struct {
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed to generate a valid sight after %d attempts", e.Attempts)
}

// ErrUnderdetermined is returned when a position fix is requested with
// fewer than two sights.
var ErrUnderdetermined = errors.New("at least 2 sights are required for a position fix")
