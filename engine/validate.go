/*
validate.go - Shift interval validation

PURPOSE:
  Rejects malformed shift intervals before any computation happens.
  Validation is the only caller-visible failure mode of the engine:
  everything downstream (segmentation, overlap, aggregation) operates
  on intervals this gate has already accepted.

RULES:
  - Both instants must be set (non-zero)     -> ErrInvalidTime
  - End must be strictly after start         -> ErrShiftOrder
  - Duration must not exceed 24 hours        -> ErrShiftTooLong

A valid interval produces no side effects; the validator holds no state.
*/
package engine

import "time"

// MaxShiftDuration is the longest interval a single shift may span.
// Anything longer is assumed to be a data-entry error.
const MaxShiftDuration = 24 * time.Hour

// ValidateInterval checks a resolved start/end pair against the shift
// rules. Returns nil when the interval is usable.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidTime
	}
	if !end.After(start) {
		return ErrShiftOrder
	}
	if end.Sub(start) > MaxShiftDuration {
		return ErrShiftTooLong
	}
	return nil
}

// ValidateShift resolves the shift's effective interval and validates
// it, wrapping failures with the shift's identity for diagnostics.
func ValidateShift(s Shift) error {
	start, end := s.EffectiveInterval()
	if err := ValidateInterval(start, end); err != nil {
		return &ShiftValidationError{ShiftID: s.ID, Start: start, End: end, Reason: err}
	}
	return nil
}
