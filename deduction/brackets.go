/*
Package deduction provides the statutory-contribution bracket engine.

PURPOSE:
  Computes the employee-side statutory deductions from a monthly basic
  salary against injected bracket tables. The engine knows four bracket
  shapes, not four agencies:

  - Fixed-amount lookup:      salary bracket -> fixed contribution (SSS)
  - Clamped percentage:       clamp salary to [floor, ceiling] x rate (PhilHealth)
  - Capped percentage:        salary x rate, capped at a maximum (Pag-IBIG)
  - Cumulative progressive:   bracket-walk income tax (withholding tax)

KEY CONCEPTS IN THIS FILE (brackets.go):
  - Bracket: One salary band with its rate or fixed amount
  - Table: A validated, ascending, non-overlapping set of brackets
  - Toggles: Independent on/off switch per deduction

DESIGN PRINCIPLES:
  1. Configuration over constants: bracket tables are data, so new
     contribution schedules ship without code changes.
  2. Degradation over failure: a salary no bracket covers yields a zero
     contribution and a reported gap, never an error.
  3. Precision: decimal.Decimal throughout, rounded to cents once.

SEE ALSO:
  - engine.go: The four computations
  - philippines/: Concrete statutory tables
*/
package deduction

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BRACKET TYPES
// =============================================================================

// Type identifies which statutory deduction a bracket belongs to.
type Type string

const (
	TypeSSS        Type = "sss"
	TypePhilHealth Type = "philhealth"
	TypePagIbig    Type = "pagibig"
	TypeTax        Type = "tax"
)

// Bracket is one salary band of a deduction table.
type Bracket struct {
	Type      Type
	MinSalary decimal.Decimal

	// MaxSalary is the inclusive upper bound; nil means unbounded.
	// Only the last bracket of a table may be unbounded.
	MaxSalary *decimal.Decimal

	// Rate is a percentage (5 means 5%). Used by percentage and
	// progressive brackets.
	Rate decimal.Decimal

	// EmployeeContribution is the fixed amount for fixed-amount
	// brackets.
	EmployeeContribution decimal.Decimal

	// MaxContribution caps the computed contribution; nil means no cap.
	MaxContribution *decimal.Decimal

	Active bool
}

// Contains reports whether the salary falls in [MinSalary, MaxSalary].
func (b Bracket) Contains(salary decimal.Decimal) bool {
	if salary.LessThan(b.MinSalary) {
		return false
	}
	return b.MaxSalary == nil || salary.LessThanOrEqual(*b.MaxSalary)
}

// =============================================================================
// TABLE - Validated bracket set
// =============================================================================

var (
	// ErrOverlappingBrackets is returned when two brackets of a table
	// cover the same salary.
	ErrOverlappingBrackets = errors.New("overlapping brackets")

	// ErrUnboundedBracket is returned when a non-final bracket has no
	// upper bound.
	ErrUnboundedBracket = errors.New("unbounded bracket before last")

	// ErrNonContiguousTax is returned when a progressive tax table has
	// gaps between brackets; the cumulative walk requires each bracket
	// to start where the previous one ends.
	ErrNonContiguousTax = errors.New("tax brackets not contiguous")
)

// Table is a sorted, validated set of active brackets of one type.
type Table struct {
	Type     Type
	Brackets []Bracket
}

// NewTable filters inactive brackets, sorts ascending by MinSalary, and
// validates the non-overlap invariant. Tax tables are additionally
// required to be contiguous so the cumulative bracket-walk is valid.
func NewTable(t Type, brackets []Bracket) (Table, error) {
	var active []Bracket
	for _, b := range brackets {
		if b.Active {
			active = append(active, b)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].MinSalary.LessThan(active[j].MinSalary)
	})

	for i := 0; i < len(active)-1; i++ {
		cur, next := active[i], active[i+1]
		if cur.MaxSalary == nil {
			return Table{}, fmt.Errorf("bracket %d: %w", i, ErrUnboundedBracket)
		}
		if next.MinSalary.LessThan(*cur.MaxSalary) {
			return Table{}, fmt.Errorf("brackets %d/%d: %w", i, i+1, ErrOverlappingBrackets)
		}
		if t == TypeTax && !next.MinSalary.Equal(*cur.MaxSalary) {
			return Table{}, fmt.Errorf("brackets %d/%d: %w", i, i+1, ErrNonContiguousTax)
		}
	}

	return Table{Type: t, Brackets: active}, nil
}

// Find returns the bracket containing the salary, or false when no
// bracket covers it (a configuration gap, not an error).
func (t Table) Find(salary decimal.Decimal) (Bracket, bool) {
	for _, b := range t.Brackets {
		if b.Contains(salary) {
			return b, true
		}
	}
	return Bracket{}, false
}

// Empty reports whether the table has no active brackets.
func (t Table) Empty() bool { return len(t.Brackets) == 0 }
