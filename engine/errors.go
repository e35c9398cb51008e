/*
errors.go - Error types for shift validation

PURPOSE:
  All engine error types in one place. Callers use errors.Is against the
  sentinels; ShiftValidationError carries the offending interval for
  diagnostics and unwraps to the matching sentinel.

ERROR CATEGORIES:
  1. Validation errors - malformed shift intervals (caller-visible, not retried)
  2. Configuration errors - unusable rate configuration

The engine never partially mutates external state, so these are the only
failure modes: a rejected shift or a rejected configuration.

SEE ALSO:
  - validate.go: Produces validation errors
  - calc.go: Skips (rather than aborts on) per-shift validation errors
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTime is returned when a shift start or end is missing
	// or unparseable (zero instant).
	ErrInvalidTime = errors.New("invalid shift time")

	// ErrShiftOrder is returned when a shift ends at or before it starts.
	ErrShiftOrder = errors.New("shift end not after start")

	// ErrShiftTooLong is returned when a shift exceeds the maximum
	// 24-hour duration.
	ErrShiftTooLong = errors.New("shift exceeds 24 hours")

	// ErrBadRateConfig is returned when the rate matrix is missing the
	// normal-tier fallback row or the hourly rate is negative.
	ErrBadRateConfig = errors.New("unusable rate configuration")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ShiftValidationError describes why a shift interval was rejected.
type ShiftValidationError struct {
	ShiftID string
	Start   time.Time
	End     time.Time
	Reason  error
}

func (e *ShiftValidationError) Error() string {
	return fmt.Sprintf("shift %q [%s, %s): %v",
		e.ShiftID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Reason)
}

func (e *ShiftValidationError) Unwrap() error { return e.Reason }

// IsValidationError returns true if the error is a shift validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrShiftOrder) ||
		errors.Is(err, ErrShiftTooLong)
}
