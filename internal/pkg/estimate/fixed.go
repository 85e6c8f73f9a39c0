package estimate

import "github.com/shopspring/decimal"

// Fixed is a decimal rendered with exactly FractionDigits fraction digits
// in JSON, e.g. "55424.00".
type Fixed struct {
	decimal.Decimal
}

func NewFixed(d decimal.Decimal) Fixed { return Fixed{Decimal: d} }

func (f Fixed) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.StringFixed(FractionDigits) + `"`), nil
}

func (f *Fixed) UnmarshalJSON(b []byte) error {
	return f.Decimal.UnmarshalJSON(b)
}

func (f Fixed) String() string { return f.StringFixed(FractionDigits) }
