package pricing

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/projcalc/estimator/internal/pkg/estimate"
)

// Position is one entry of the closed position catalog. DefaultRate seeds the
// project's Rate when a project is created and is never read afterwards.
type Position struct {
	Name        string          `yaml:"name" json:"name"`
	DefaultRate decimal.Decimal `yaml:"default_rate" json:"-"`
}

// TeamSeat is a default team-member allocation applied on project creation.
type TeamSeat struct {
	Position    string          `yaml:"position"`
	Involvement decimal.Decimal `yaml:"involvement"`
}

// Catalog is the static position table plus the default team. Order is
// preserved so listings are stable.
type Catalog struct {
	Positions   []Position `yaml:"positions"`
	DefaultTeam []TeamSeat `yaml:"default_team"`

	index map[string]int
}

var (
	ErrEmptyCatalog      = errors.New("position catalog is empty")
	ErrDuplicatePosition = errors.New("duplicate position in catalog")
	ErrUnknownPosition   = errors.New("unknown position")
)

// DefaultCatalog returns the built-in positions and default team.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Positions: []Position{
			{Name: "REGULAR_DEVELOPER", DefaultRate: decimal.NewFromInt(1600)},
			{Name: "SENIOR_DEVELOPER", DefaultRate: decimal.NewFromInt(2400)},
			{Name: "PROJECT_MANAGER", DefaultRate: decimal.NewFromInt(1760)},
			{Name: "QA_ENGINEER", DefaultRate: decimal.NewFromInt(2000)},
			{Name: "ARCHITECT", DefaultRate: decimal.NewFromInt(2800)},
			{Name: "DEVOPS_ENGINEER", DefaultRate: decimal.NewFromInt(1600)},
		},
		DefaultTeam: []TeamSeat{
			{Position: "REGULAR_DEVELOPER", Involvement: decimal.NewFromInt(1)},
			{Position: "QA_ENGINEER", Involvement: decimal.RequireFromString("0.25")},
			{Position: "PROJECT_MANAGER", Involvement: decimal.RequireFromString("0.25")},
		},
	}
	// built-in table is known good
	_ = c.build()
	return c
}

// LoadCatalog reads a YAML catalog file. An empty path yields DefaultCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read position catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode position catalog: %w", err)
	}
	if err := c.build(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) build() error {
	if len(c.Positions) == 0 {
		return ErrEmptyCatalog
	}
	c.index = make(map[string]int, len(c.Positions))
	for i, p := range c.Positions {
		if p.Name == "" {
			return fmt.Errorf("position %d has no name", i)
		}
		if _, dup := c.index[p.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePosition, p.Name)
		}
		if !p.DefaultRate.IsPositive() || !estimate.FitsPrecision(p.DefaultRate) {
			return fmt.Errorf("position %s: default rate must be a positive fixed-precision amount", p.Name)
		}
		c.index[p.Name] = i
	}
	seen := make(map[string]struct{}, len(c.DefaultTeam))
	for _, s := range c.DefaultTeam {
		if _, ok := c.index[s.Position]; !ok {
			return fmt.Errorf("default team: %w: %s", ErrUnknownPosition, s.Position)
		}
		if _, dup := seen[s.Position]; dup {
			return fmt.Errorf("default team: %w: %s", ErrDuplicatePosition, s.Position)
		}
		if !s.Involvement.IsPositive() || !estimate.FitsPrecision(s.Involvement) {
			return fmt.Errorf("default team %s: involvement must be a positive fixed-precision amount", s.Position)
		}
		seen[s.Position] = struct{}{}
	}
	return nil
}

// Has reports whether name is a catalog position.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Names lists position names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Positions))
	for i, p := range c.Positions {
		out[i] = p.Name
	}
	return out
}
