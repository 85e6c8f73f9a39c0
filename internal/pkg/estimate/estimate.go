// Package estimate implements the three-point (PERT) day estimate and the
// fixed-precision decimal rules shared by estimates, rates and involvement.
package estimate

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// IntegerDigits and FractionDigits bound every stored quantity: 12 digits
	// before the point, 2 after.
	IntegerDigits  = 12
	FractionDigits = 2

	// DivisionPrecision is the scale used for the intermediate PERT quotient,
	// well past FractionDigits so truncation sees the exact digits.
	DivisionPrecision = 16
)

var six = decimal.NewFromInt(6)
var four = decimal.NewFromInt(4)

var (
	ErrNegative  = errors.New("value must not be negative")
	ErrPrecision = fmt.Errorf("value must have at most %d integer and %d fraction digits", IntegerDigits, FractionDigits)
	ErrOrdering  = errors.New("estimates must satisfy best <= most likely <= worst case")
)

// FieldError attributes a validation failure to one input field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// Round applies the estimate rounding rule: truncation to FractionDigits
// decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(FractionDigits)
}

// FitsPrecision reports whether d has at most IntegerDigits integer digits
// and FractionDigits significant fraction digits. Trailing zeros are ignored,
// so "4.300" fits.
func FitsPrecision(d decimal.Decimal) bool {
	if !d.Equal(d.Truncate(FractionDigits)) {
		return false
	}
	intPart := d.Abs().Truncate(0)
	if intPart.IsZero() {
		return true
	}
	return len(intPart.String()) <= IntegerDigits
}

// Triple holds the three raw estimates of a feature, in days.
type Triple struct {
	Best       decimal.Decimal
	MostLikely decimal.Decimal
	WorstCase  decimal.Decimal
}

// Validate checks sign, precision and ordering. Errors are *FieldError with
// the offending field; ordering failures are attributed to the first value
// that breaks the chain.
func (t Triple) Validate() error {
	fields := []struct {
		name string
		v    decimal.Decimal
	}{
		{"best_case_estimate_in_days", t.Best},
		{"most_likely_estimate_in_days", t.MostLikely},
		{"worst_case_estimate_in_days", t.WorstCase},
	}
	for _, f := range fields {
		if f.v.IsNegative() {
			return &FieldError{Field: f.name, Err: ErrNegative}
		}
		if !FitsPrecision(f.v) {
			return &FieldError{Field: f.name, Err: ErrPrecision}
		}
	}
	if t.MostLikely.LessThan(t.Best) {
		return &FieldError{Field: "most_likely_estimate_in_days", Err: ErrOrdering}
	}
	if t.WorstCase.LessThan(t.MostLikely) {
		return &FieldError{Field: "worst_case_estimate_in_days", Err: ErrOrdering}
	}
	return nil
}

// PERT returns (best + 4*mostLikely + worst) / 6 rounded with Round. It does
// not validate its inputs.
func PERT(best, mostLikely, worst decimal.Decimal) decimal.Decimal {
	sum := best.Add(mostLikely.Mul(four)).Add(worst)
	return Round(sum.DivRound(six, DivisionPrecision))
}

// Days validates t and returns its PERT estimate.
func (t Triple) Days() (decimal.Decimal, error) {
	if err := t.Validate(); err != nil {
		return decimal.Zero, err
	}
	return PERT(t.Best, t.MostLikely, t.WorstCase), nil
}
