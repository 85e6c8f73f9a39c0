package service

import "github.com/projcalc/estimator/internal/pkg/pricing"

type PositionService interface {
	List() []string
}

type positionService struct {
	catalog *pricing.Catalog
}

func NewPositionService(catalog *pricing.Catalog) PositionService {
	return &positionService{catalog: catalog}
}

// List returns the catalog position names in declaration order.
func (s *positionService) List() []string {
	return s.catalog.Names()
}
