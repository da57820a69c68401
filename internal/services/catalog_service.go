package services

import (
	"database/sql"
	"errors"
	"fmt"

	"mathiphone/internal/catalog"
	"mathiphone/internal/domain"
	"mathiphone/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// Browse loads the whole catalog and filters it in memory.
func (s *CatalogService) Browse(st catalog.FilterState) ([]domain.Product, error) {
	all, err := s.Prods.List("")
	if err != nil {
		return nil, err
	}
	return catalog.Filter(all, st), nil
}

// Search serves the JSON listing: the category narrows the load, the rest is
// applied in memory.
func (s *CatalogService) Search(q catalog.Query) ([]domain.Product, error) {
	cat := ""
	if catalog.ValidCategory(q.Category) {
		cat = q.Category
	}
	all, err := s.Prods.List(cat)
	if err != nil {
		return nil, err
	}
	return q.Apply(all), nil
}

func (s *CatalogService) ListCategory(category string) ([]domain.Product, error) {
	return s.Prods.List(category)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return p, err
}
