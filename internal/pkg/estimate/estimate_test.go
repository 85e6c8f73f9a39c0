package estimate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPERT(t *testing.T) {
	tests := []struct {
		name        string
		best, ml, w string
		want        string
	}{
		{"exact", "1", "1", "1", "1"},
		{"scenario", "2", "4", "8", "4.33"},
		{"truncates", "0", "0", "1", "0.16"},
		{"zeros", "0", "0", "0", "0"},
		{"fractional inputs", "0.5", "1.25", "3.75", "1.54"},
		{"large stays in decimal places", "100", "200", "900", "300"},
		{"large with fraction", "100", "150", "301", "166.83"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PERT(d(tt.best), d(tt.ml), d(tt.w))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestPERT_MatchesFormulaGrid(t *testing.T) {
	values := []string{"0", "0.01", "0.5", "1", "2.33", "7", "13.99", "250"}
	for i, a := range values {
		for j := i; j < len(values); j++ {
			for k := j; k < len(values); k++ {
				best, ml, worst := d(a), d(values[j]), d(values[k])
				exact := best.Add(ml.Mul(decimal.NewFromInt(4))).Add(worst).DivRound(decimal.NewFromInt(6), 20)
				got := PERT(best, ml, worst)
				assert.True(t, got.Equal(exact.Truncate(2)))
				assert.True(t, got.LessThanOrEqual(exact))
				assert.True(t, exact.Sub(got).LessThan(d("0.01")))
			}
		}
	}
}

func TestTriple_Validate(t *testing.T) {
	tests := []struct {
		name      string
		triple    Triple
		wantField string
		wantErr   error
	}{
		{"valid", Triple{d("1"), d("2"), d("3")}, "", nil},
		{"equal values", Triple{d("2"), d("2"), d("2")}, "", nil},
		{"best above most likely", Triple{d("3"), d("2"), d("4")}, "most_likely_estimate_in_days", ErrOrdering},
		{"worst below most likely", Triple{d("1"), d("5"), d("4")}, "worst_case_estimate_in_days", ErrOrdering},
		{"negative best", Triple{d("-1"), d("2"), d("3")}, "best_case_estimate_in_days", ErrNegative},
		{"too many fraction digits", Triple{d("1.001"), d("2"), d("3")}, "best_case_estimate_in_days", ErrPrecision},
		{"too many integer digits", Triple{d("1"), d("2"), d("1000000000000")}, "worst_case_estimate_in_days", ErrPrecision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.triple.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantField, fe.Field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTriple_Days(t *testing.T) {
	days, err := Triple{d("2"), d("4"), d("8")}.Days()
	require.NoError(t, err)
	assert.Equal(t, "4.33", days.StringFixed(2))

	_, err = Triple{d("5"), d("4"), d("8")}.Days()
	assert.ErrorIs(t, err, ErrOrdering)
}

func TestFitsPrecision(t *testing.T) {
	assert.True(t, FitsPrecision(d("999999999999.99")))
	assert.True(t, FitsPrecision(d("4.300")))
	assert.True(t, FitsPrecision(d("0.01")))
	assert.False(t, FitsPrecision(d("1000000000000")))
	assert.False(t, FitsPrecision(d("0.001")))
	assert.True(t, FitsPrecision(d("-12.5")))
}

func TestFixed_JSON(t *testing.T) {
	b, err := NewFixed(d("55424")).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"55424.00"`, string(b))

	b, err = NewFixed(d("4.3")).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"4.30"`, string(b))

	var f Fixed
	require.NoError(t, f.UnmarshalJSON([]byte(`"12.5"`)))
	assert.Equal(t, "12.50", f.String())
}
