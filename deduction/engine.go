/*
engine.go - Statutory deduction computations

PURPOSE:
  Applies the four bracket shapes to a monthly basic salary and returns
  the employee-side contribution breakdown. Each deduction has an
  independent toggle and returns zero when disabled, regardless of the
  bracket data supplied.

PROGRESSIVE TAX:
  The withholding tax annualizes the monthly salary (x12) and walks the
  tax table cumulatively: every bracket fully below the annual salary
  contributes width x rate, the containing bracket contributes
  (annual - bracketMin) x rate, and the sum is the annual tax. This
  reproduces the fixed statutory bases (0 / 22500 / 102500 / 402500 /
  2202500 for the six-bracket table) without baking the bracket count
  into branch indices. The annual tax divides back to monthly and is
  rounded to cents.

LOOKUP MISSES:
  A salary no bracket covers degrades to a zero contribution; the gap
  is reported in the breakdown so the caller can log the configuration
  hole. Nothing here ever raises for missing data.
*/
package deduction

import "github.com/shopspring/decimal"

// =============================================================================
// TOGGLES AND RESULT
// =============================================================================

// Toggles switches each statutory deduction on or off independently.
type Toggles struct {
	SSS        bool
	PhilHealth bool
	PagIbig    bool
	Tax        bool
}

// Breakdown is the employee-side deduction result, each field rounded
// to cents and independently zero when its toggle is off.
type Breakdown struct {
	SSS            decimal.Decimal
	PhilHealth     decimal.Decimal
	PagIbig        decimal.Decimal
	WithholdingTax decimal.Decimal
	Total          decimal.Decimal

	// Gaps lists deduction types whose enabled table had no bracket
	// covering the salary. A gap is a configuration hole to log, not
	// an error.
	Gaps []Type
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes deductions against fixed bracket tables. It holds no
// mutable state and is safe for concurrent use; callers must not
// mutate the tables mid-computation.
type Engine struct {
	SSS        Table
	PhilHealth Table
	PagIbig    Table
	Tax        Table
	Toggles    Toggles
}

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Compute returns the full deduction breakdown for a monthly basic
// salary. Identical inputs always produce identical cent-rounded output.
func (e *Engine) Compute(monthlyBasic decimal.Decimal) Breakdown {
	var b Breakdown

	b.SSS = e.sss(monthlyBasic, &b)
	b.PhilHealth = e.philHealth(monthlyBasic, &b)
	b.PagIbig = e.pagIbig(monthlyBasic, &b)
	b.WithholdingTax = e.withholdingTax(monthlyBasic, &b)
	b.Total = b.SSS.Add(b.PhilHealth).Add(b.PagIbig).Add(b.WithholdingTax)

	return b
}

// sss is a fixed-amount bracket lookup on the monthly salary.
func (e *Engine) sss(salary decimal.Decimal, b *Breakdown) decimal.Decimal {
	if !e.Toggles.SSS {
		return decimal.Zero
	}
	bracket, ok := e.SSS.Find(salary)
	if !ok {
		b.Gaps = append(b.Gaps, TypeSSS)
		return decimal.Zero
	}
	return bracket.EmployeeContribution.Round(2)
}

// philHealth clamps the salary to the single active bracket's
// floor/ceiling and applies its percentage rate.
func (e *Engine) philHealth(salary decimal.Decimal, b *Breakdown) decimal.Decimal {
	if !e.Toggles.PhilHealth {
		return decimal.Zero
	}
	if e.PhilHealth.Empty() {
		b.Gaps = append(b.Gaps, TypePhilHealth)
		return decimal.Zero
	}

	bracket := e.PhilHealth.Brackets[0]
	clamped := salary
	if clamped.LessThan(bracket.MinSalary) {
		clamped = bracket.MinSalary
	}
	if bracket.MaxSalary != nil && clamped.GreaterThan(*bracket.MaxSalary) {
		clamped = *bracket.MaxSalary
	}

	return clamped.Mul(bracket.Rate).Div(hundred).Round(2)
}

// pagIbig applies the matching bracket's percentage rate to the salary,
// capped at the bracket's maximum employee contribution.
func (e *Engine) pagIbig(salary decimal.Decimal, b *Breakdown) decimal.Decimal {
	if !e.Toggles.PagIbig {
		return decimal.Zero
	}
	bracket, ok := e.PagIbig.Find(salary)
	if !ok {
		b.Gaps = append(b.Gaps, TypePagIbig)
		return decimal.Zero
	}

	contribution := salary.Mul(bracket.Rate).Div(hundred)
	if bracket.MaxContribution != nil && contribution.GreaterThan(*bracket.MaxContribution) {
		contribution = *bracket.MaxContribution
	}
	return contribution.Round(2)
}

// withholdingTax annualizes the monthly salary and walks the
// progressive table cumulatively.
func (e *Engine) withholdingTax(salary decimal.Decimal, b *Breakdown) decimal.Decimal {
	if !e.Toggles.Tax {
		return decimal.Zero
	}

	annual := salary.Mul(twelve)
	if _, ok := e.Tax.Find(annual); !ok {
		b.Gaps = append(b.Gaps, TypeTax)
		return decimal.Zero
	}

	annualTax := decimal.Zero
	for _, bracket := range e.Tax.Brackets {
		if annual.LessThan(bracket.MinSalary) {
			break
		}
		upper := annual
		if bracket.MaxSalary != nil && upper.GreaterThan(*bracket.MaxSalary) {
			upper = *bracket.MaxSalary
		}
		annualTax = annualTax.Add(upper.Sub(bracket.MinSalary).Mul(bracket.Rate).Div(hundred))
		if bracket.MaxSalary == nil || annual.LessThanOrEqual(*bracket.MaxSalary) {
			break
		}
	}

	return annualTax.Div(twelve).Round(2)
}
