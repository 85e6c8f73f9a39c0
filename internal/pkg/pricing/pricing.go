package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// HoursPerWorkDay converts day estimates into billable hours.
const HoursPerWorkDay = 8

var hoursPerDay = decimal.NewFromInt(HoursPerWorkDay)

// ErrRateMissing means a project has no rate for a catalog position. Rates
// are seeded with the project, so this is a broken invariant, not user error.
var ErrRateMissing = errors.New("rate missing for position")

// Snapshot is everything the price of one project depends on: hourly rate
// per position and involvement per staffed position.
type Snapshot struct {
	Rates       map[string]decimal.Decimal
	Involvement map[string]decimal.Decimal
}

// Calculator prices estimates against a catalog.
type Calculator struct {
	catalog *Catalog
}

func NewCalculator(c *Catalog) *Calculator {
	return &Calculator{catalog: c}
}

func (p *Calculator) Catalog() *Catalog { return p.catalog }

// TeamDailyCost is sum(rate * involvement) * HoursPerWorkDay over every
// catalog position. Positions without a team member count as zero
// involvement; a catalog position without a rate is ErrRateMissing.
func (p *Calculator) TeamDailyCost(s Snapshot) (decimal.Decimal, error) {
	hourly := decimal.Zero
	for _, pos := range p.catalog.Positions {
		rate, ok := s.Rates[pos.Name]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrRateMissing, pos.Name)
		}
		inv, staffed := s.Involvement[pos.Name]
		if !staffed {
			continue
		}
		hourly = hourly.Add(rate.Mul(inv))
	}
	return hourly.Mul(hoursPerDay), nil
}

// Price is estimateInDays * TeamDailyCost. The result is exact; callers
// format it with two fraction digits.
func (p *Calculator) Price(s Snapshot, estimateInDays decimal.Decimal) (decimal.Decimal, error) {
	daily, err := p.TeamDailyCost(s)
	if err != nil {
		return decimal.Zero, err
	}
	return estimateInDays.Mul(daily), nil
}
