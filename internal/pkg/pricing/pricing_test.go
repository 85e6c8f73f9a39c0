package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func defaultRates(c *Catalog) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal)
	for _, p := range c.Positions {
		rates[p.Name] = p.DefaultRate
	}
	return rates
}

func TestCalculator_Price_RegularDeveloperOnly(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	snap := Snapshot{
		Rates:       defaultRates(calc.Catalog()),
		Involvement: map[string]decimal.Decimal{"REGULAR_DEVELOPER": d("1")},
	}

	price, err := calc.Price(snap, d("4.33"))
	require.NoError(t, err)
	assert.Equal(t, "55424.00", price.StringFixed(2))
}

func TestCalculator_Price_DefaultTeam(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	snap := Snapshot{
		Rates: defaultRates(calc.Catalog()),
		Involvement: map[string]decimal.Decimal{
			"REGULAR_DEVELOPER": d("1"),
			"QA_ENGINEER":       d("0.25"),
			"PROJECT_MANAGER":   d("0.25"),
		},
	}

	// (1600 + 500 + 440) * 8 = 20320 per day
	daily, err := calc.TeamDailyCost(snap)
	require.NoError(t, err)
	assert.Equal(t, "20320.00", daily.StringFixed(2))

	price, err := calc.Price(snap, d("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "30480.00", price.StringFixed(2))
}

func TestCalculator_Price_Linear(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	snap := Snapshot{
		Rates: defaultRates(calc.Catalog()),
		Involvement: map[string]decimal.Decimal{
			"SENIOR_DEVELOPER": d("0.33"),
			"ARCHITECT":        d("0.17"),
		},
	}

	for _, e := range []string{"0", "0.01", "4.33", "17.5", "999.99"} {
		x := d(e)
		one, err := calc.Price(snap, x)
		require.NoError(t, err)
		two, err := calc.Price(snap, x.Mul(decimal.NewFromInt(2)))
		require.NoError(t, err)
		assert.True(t, two.Equal(one.Mul(decimal.NewFromInt(2))), "estimate %s", e)
	}
}

func TestCalculator_Price_NoTeamIsZero(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	price, err := calc.Price(Snapshot{Rates: defaultRates(calc.Catalog())}, d("10"))
	require.NoError(t, err)
	assert.True(t, price.IsZero())
}

func TestCalculator_Price_RateMissing(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	rates := defaultRates(calc.Catalog())
	delete(rates, "DEVOPS_ENGINEER")

	_, err := calc.Price(Snapshot{Rates: rates}, d("1"))
	assert.ErrorIs(t, err, ErrRateMissing)
	assert.Contains(t, err.Error(), "DEVOPS_ENGINEER")
}
