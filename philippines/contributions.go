/*
contributions.go - Philippine statutory contribution tables

PURPOSE:
  The employee-side bracket tables the deduction engine consumes:

  SSS:        Fixed contribution per monthly salary credit (MSC). MSC
              runs 4,000 to 30,000 in 500-peso steps; the employee share
              is 4.5% of the MSC, so e.g. a salary around 8,000 maps to
              MSC 8,000 and a 360.00 contribution. The table is
              generated from the MSC schedule rather than hand-typed.

  PhilHealth: 5% of the monthly basic salary, clamped to the
              10,000 floor and 100,000 ceiling.

  Pag-IBIG:   1% up to 1,500 monthly, 2% above, capped at a 100-peso
              maximum employee contribution.

  Tax:        The six TRAIN-law annual brackets (0% to 35%). The
              cumulative bracket-walk over these rates reproduces the
              statutory fixed bases 22,500 / 102,500 / 402,500 /
              2,202,500 exactly.

These are data, not behavior: a new contribution schedule is a new
table, not a code change.
*/
package philippines

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/deduction"
)

// =============================================================================
// SSS
// =============================================================================

const (
	sssMinMSC      = 4000
	sssMaxMSC      = 30000
	sssMSCStep     = 500
	sssEmployeePct = "4.5"
)

// SSSBrackets generates the fixed-amount table from the MSC schedule.
// Each salary band [msc-250, msc+250) maps to its MSC; the first and
// last bands are open at the bottom and top respectively.
func SSSBrackets() []deduction.Bracket {
	var brackets []deduction.Bracket
	rate := d(sssEmployeePct)

	for msc := sssMinMSC; msc <= sssMaxMSC; msc += sssMSCStep {
		b := deduction.Bracket{
			Type:                 deduction.TypeSSS,
			EmployeeContribution: decimal.NewFromInt(int64(msc)).Mul(rate).Div(decimal.NewFromInt(100)),
			Active:               true,
		}

		switch msc {
		case sssMinMSC:
			b.MinSalary = decimal.Zero
		default:
			b.MinSalary = decimal.NewFromInt(int64(msc - sssMSCStep/2))
		}
		if msc < sssMaxMSC {
			max := decimal.NewFromInt(int64(msc + sssMSCStep/2)).Sub(d("0.01"))
			b.MaxSalary = &max
		}

		brackets = append(brackets, b)
	}
	return brackets
}

// =============================================================================
// PHILHEALTH
// =============================================================================

// PhilHealthBrackets returns the single premium bracket: 5% of salary
// clamped to the 10,000 floor and 100,000 ceiling.
func PhilHealthBrackets() []deduction.Bracket {
	ceiling := d("100000")
	return []deduction.Bracket{{
		Type:      deduction.TypePhilHealth,
		MinSalary: d("10000"),
		MaxSalary: &ceiling,
		Rate:      d("5"),
		Active:    true,
	}}
}

// =============================================================================
// PAG-IBIG
// =============================================================================

// PagIbigBrackets returns the two-band percentage table with the
// 100-peso employee cap.
func PagIbigBrackets() []deduction.Bracket {
	maxEE := d("100")
	lowMax := d("1500")
	return []deduction.Bracket{
		{
			Type:            deduction.TypePagIbig,
			MinSalary:       decimal.Zero,
			MaxSalary:       &lowMax,
			Rate:            d("1"),
			MaxContribution: &maxEE,
			Active:          true,
		},
		{
			Type:            deduction.TypePagIbig,
			MinSalary:       d("1500.01"),
			Rate:            d("2"),
			MaxContribution: &maxEE,
			Active:          true,
		},
	}
}

// =============================================================================
// WITHHOLDING TAX (TRAIN law, 2023 onward)
// =============================================================================

// TaxBrackets returns the six annual progressive brackets.
func TaxBrackets() []deduction.Bracket {
	bounds := []struct {
		min, max string // max "" = unbounded
		rate     string
	}{
		{"0", "250000", "0"},
		{"250000", "400000", "15"},
		{"400000", "800000", "20"},
		{"800000", "2000000", "25"},
		{"2000000", "8000000", "30"},
		{"8000000", "", "35"},
	}

	brackets := make([]deduction.Bracket, 0, len(bounds))
	for _, b := range bounds {
		bracket := deduction.Bracket{
			Type:      deduction.TypeTax,
			MinSalary: d(b.min),
			Rate:      d(b.rate),
			Active:    true,
		}
		if b.max != "" {
			max := d(b.max)
			bracket.MaxSalary = &max
		}
		brackets = append(brackets, bracket)
	}
	return brackets
}

// =============================================================================
// ENGINE ASSEMBLY
// =============================================================================

// NewDeductionEngine assembles a deduction engine from the statutory
// tables with the given toggles. The tables are preset data, so table
// validation cannot fail here.
func NewDeductionEngine(toggles deduction.Toggles) *deduction.Engine {
	sss, _ := deduction.NewTable(deduction.TypeSSS, SSSBrackets())
	philHealth, _ := deduction.NewTable(deduction.TypePhilHealth, PhilHealthBrackets())
	pagIbig, _ := deduction.NewTable(deduction.TypePagIbig, PagIbigBrackets())
	tax, _ := deduction.NewTable(deduction.TypeTax, TaxBrackets())

	return &deduction.Engine{
		SSS:        sss,
		PhilHealth: philHealth,
		PagIbig:    pagIbig,
		Tax:        tax,
		Toggles:    toggles,
	}
}

// AllToggles enables every statutory deduction.
func AllToggles() deduction.Toggles {
	return deduction.Toggles{SSS: true, PhilHealth: true, PagIbig: true, Tax: true}
}
