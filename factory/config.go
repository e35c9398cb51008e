/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts JSON rate and bracket definitions into engine.Config and
  deduction tables. This enables payroll configuration without code
  changes - an administrator can adjust the rate matrix or upload a new
  contribution schedule, and the factory creates the proper Go structs.

WHY JSON?
  - Non-developers can modify rates and brackets
  - Easy integration with an admin UI
  - Version control for statutory schedules
  - Database storage of configuration

JSON SCHEMA (engine config):
  {
    "timezone": "Asia/Manila",
    "night_window": {"start_hour": 22, "end_hour": 6},
    "night_diff_rate": "0.10",
    "rest_day_weekday": 0,
    "rates": {
      "regular":  {"not_worked": "1.0", "worked": "2.0", "worked_rest_day": "2.6"},
      "normal":   {"not_worked": "0",   "worked": "1.0", "worked_rest_day": "1.3"}
    }
  }

JSON SCHEMA (bracket table):
  {
    "type": "tax",
    "brackets": [
      {"min_salary": "0",      "max_salary": "250000", "rate": "0",  "active": true},
      {"min_salary": "250000", "max_salary": "400000", "rate": "15", "active": true}
    ]
  }

Amounts and rates are JSON strings, parsed with shopspring/decimal, so
no precision is lost in transit.

SEE ALSO:
  - engine/types.go: Config and RateMatrix definitions
  - deduction/brackets.go: Bracket and Table definitions
  - philippines/: Go-native preset equivalents
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/deduction"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of an engine configuration.
type ConfigJSON struct {
	Timezone       string             `json:"timezone,omitempty"`
	NightWindow    *NightWindowJSON   `json:"night_window,omitempty"`
	NightDiffRate  string             `json:"night_diff_rate,omitempty"`
	RestDayWeekday *int               `json:"rest_day_weekday,omitempty"`
	Rates          map[string]RateRow `json:"rates"`
}

// NightWindowJSON represents the night-premium clock window.
type NightWindowJSON struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// RateRow represents one tier's multipliers.
type RateRow struct {
	NotWorked     string `json:"not_worked"`
	Worked        string `json:"worked"`
	WorkedRestDay string `json:"worked_rest_day"`
}

// BracketTableJSON is the JSON representation of one deduction table.
type BracketTableJSON struct {
	Type     string        `json:"type"`
	Brackets []BracketJSON `json:"brackets"`
}

// BracketJSON represents a single salary bracket.
type BracketJSON struct {
	MinSalary            string  `json:"min_salary"`
	MaxSalary            *string `json:"max_salary,omitempty"`
	Rate                 string  `json:"rate,omitempty"`
	EmployeeContribution string  `json:"employee_contribution,omitempty"`
	MaxContribution      *string `json:"max_contribution,omitempty"`
	Active               bool    `json:"active"`
}

// =============================================================================
// ENGINE CONFIG PARSING
// =============================================================================

// ParseEngineConfig parses a JSON string into an engine.Config.
func ParseEngineConfig(jsonStr string) (engine.Config, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return engine.Config{}, fmt.Errorf("failed to parse engine config JSON: %w", err)
	}
	return FromConfigJSON(cj)
}

// FromConfigJSON converts ConfigJSON to engine.Config.
func FromConfigJSON(cj ConfigJSON) (engine.Config, error) {
	cfg := engine.Config{Location: time.UTC}

	if cj.Timezone != "" {
		loc, err := time.LoadLocation(cj.Timezone)
		if err != nil {
			return engine.Config{}, fmt.Errorf("unknown timezone %q: %w", cj.Timezone, err)
		}
		cfg.Location = loc
	}

	if cj.NightWindow != nil {
		cfg.NightWindow = engine.NightWindow{
			StartHour: cj.NightWindow.StartHour,
			EndHour:   cj.NightWindow.EndHour,
		}
	}

	if cj.NightDiffRate != "" {
		rate, err := decimal.NewFromString(cj.NightDiffRate)
		if err != nil {
			return engine.Config{}, fmt.Errorf("invalid night_diff_rate: %w", err)
		}
		cfg.NightDiffRate = rate
	}

	if cj.RestDayWeekday != nil {
		if *cj.RestDayWeekday < 0 || *cj.RestDayWeekday > 6 {
			return engine.Config{}, fmt.Errorf("rest_day_weekday must be 0-6, got %d", *cj.RestDayWeekday)
		}
		cfg.RestDayWeekday = time.Weekday(*cj.RestDayWeekday)
	}

	cfg.Rates = make(engine.RateMatrix, len(cj.Rates))
	for tier, row := range cj.Rates {
		parsed, err := parseRateRow(row)
		if err != nil {
			return engine.Config{}, fmt.Errorf("tier %q: %w", tier, err)
		}
		cfg.Rates[engine.HolidayTier(tier)] = parsed
	}
	if _, ok := cfg.Rates[engine.TierNormal]; !ok {
		return engine.Config{}, fmt.Errorf("rates must include the %q tier", engine.TierNormal)
	}

	return cfg, nil
}

func parseRateRow(row RateRow) (engine.RateRow, error) {
	notWorked, err := decimal.NewFromString(orZero(row.NotWorked))
	if err != nil {
		return engine.RateRow{}, fmt.Errorf("invalid not_worked: %w", err)
	}
	worked, err := decimal.NewFromString(orZero(row.Worked))
	if err != nil {
		return engine.RateRow{}, fmt.Errorf("invalid worked: %w", err)
	}
	restDay, err := decimal.NewFromString(orZero(row.WorkedRestDay))
	if err != nil {
		return engine.RateRow{}, fmt.Errorf("invalid worked_rest_day: %w", err)
	}
	return engine.RateRow{NotWorked: notWorked, Worked: worked, WorkedRestDay: restDay}, nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// =============================================================================
// BRACKET TABLE PARSING
// =============================================================================

// ParseBracketTable parses a JSON string into a validated deduction
// table. Validation failures (overlap, gaps in a tax table) surface
// here rather than at computation time.
func ParseBracketTable(jsonStr string) (deduction.Table, error) {
	var tj BracketTableJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return deduction.Table{}, fmt.Errorf("failed to parse bracket table JSON: %w", err)
	}
	return FromBracketTableJSON(tj)
}

// FromBracketTableJSON converts BracketTableJSON to a validated Table.
func FromBracketTableJSON(tj BracketTableJSON) (deduction.Table, error) {
	dtype, err := parseBracketType(tj.Type)
	if err != nil {
		return deduction.Table{}, err
	}

	brackets := make([]deduction.Bracket, 0, len(tj.Brackets))
	for i, bj := range tj.Brackets {
		b, err := parseBracket(dtype, bj)
		if err != nil {
			return deduction.Table{}, fmt.Errorf("bracket %d: %w", i, err)
		}
		brackets = append(brackets, b)
	}

	return deduction.NewTable(dtype, brackets)
}

func parseBracketType(s string) (deduction.Type, error) {
	switch deduction.Type(s) {
	case deduction.TypeSSS, deduction.TypePhilHealth, deduction.TypePagIbig, deduction.TypeTax:
		return deduction.Type(s), nil
	default:
		return "", fmt.Errorf("unknown bracket type %q", s)
	}
}

func parseBracket(dtype deduction.Type, bj BracketJSON) (deduction.Bracket, error) {
	b := deduction.Bracket{Type: dtype, Active: bj.Active}

	var err error
	if b.MinSalary, err = decimal.NewFromString(orZero(bj.MinSalary)); err != nil {
		return deduction.Bracket{}, fmt.Errorf("invalid min_salary: %w", err)
	}
	if bj.MaxSalary != nil {
		max, err := decimal.NewFromString(*bj.MaxSalary)
		if err != nil {
			return deduction.Bracket{}, fmt.Errorf("invalid max_salary: %w", err)
		}
		b.MaxSalary = &max
	}
	if b.Rate, err = decimal.NewFromString(orZero(bj.Rate)); err != nil {
		return deduction.Bracket{}, fmt.Errorf("invalid rate: %w", err)
	}
	if b.EmployeeContribution, err = decimal.NewFromString(orZero(bj.EmployeeContribution)); err != nil {
		return deduction.Bracket{}, fmt.Errorf("invalid employee_contribution: %w", err)
	}
	if bj.MaxContribution != nil {
		maxC, err := decimal.NewFromString(*bj.MaxContribution)
		if err != nil {
			return deduction.Bracket{}, fmt.Errorf("invalid max_contribution: %w", err)
		}
		b.MaxContribution = &maxC
	}

	return b, nil
}

// =============================================================================
// SERIALIZATION (for persistence and the admin API)
// =============================================================================

// ToBracketTableJSON converts a validated table back to its JSON form.
func ToBracketTableJSON(t deduction.Table) BracketTableJSON {
	tj := BracketTableJSON{Type: string(t.Type)}
	for _, b := range t.Brackets {
		bj := BracketJSON{
			MinSalary:            b.MinSalary.String(),
			Rate:                 b.Rate.String(),
			EmployeeContribution: b.EmployeeContribution.String(),
			Active:               b.Active,
		}
		if b.MaxSalary != nil {
			v := b.MaxSalary.String()
			bj.MaxSalary = &v
		}
		if b.MaxContribution != nil {
			v := b.MaxContribution.String()
			bj.MaxContribution = &v
		}
		tj.Brackets = append(tj.Brackets, bj)
	}
	return tj
}
