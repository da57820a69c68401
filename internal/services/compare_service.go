package services

import (
	"mathiphone/internal/compare"
	"mathiphone/internal/domain"
	"mathiphone/internal/repos"
)

// CompareService owns the per-session compare selections.
type CompareService struct {
	Repo    *repos.CompareRepo
	Catalog *CatalogService
}

func NewCompareService(r *repos.CompareRepo, c *CatalogService) *CompareService {
	return &CompareService{Repo: r, Catalog: c}
}

func (s *CompareService) load(sessionID string) (*compare.Set, error) {
	ids, err := s.Repo.Load(sessionID)
	if err != nil {
		return nil, err
	}
	return compare.NewSet(ids...), nil
}

// Products returns the selected products in selection order.
func (s *CompareService) Products(sessionID string) ([]domain.Product, error) {
	set, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Catalog.Prods.GetMany(set.IDs())
}

// Add puts a product into the session's selection. A rejection comes back as
// (false, compare.ErrFull or compare.ErrDuplicate); an unknown product as ErrNotFound.
func (s *CompareService) Add(sessionID, productID string) (bool, error) {
	set, err := s.load(sessionID)
	if err != nil {
		return false, err
	}
	if _, err := s.Catalog.GetProduct(productID); err != nil {
		return false, err
	}
	ok, err := set.Add(productID)
	if !ok {
		return false, err
	}
	return true, s.Repo.Replace(sessionID, set.IDs())
}

func (s *CompareService) Remove(sessionID, productID string) error {
	set, err := s.load(sessionID)
	if err != nil {
		return err
	}
	set.Remove(productID)
	return s.Repo.Replace(sessionID, set.IDs())
}

func (s *CompareService) Clear(sessionID string) error {
	return s.Repo.Replace(sessionID, nil)
}

// Move carries a selection over when the session id changes, e.g. on login.
func (s *CompareService) Move(from, to string) error {
	if from == "" || from == to {
		return nil
	}
	return s.Repo.Move(from, to)
}

// Count is the size of the session's selection.
func (s *CompareService) Count(sessionID string) (int, error) {
	set, err := s.load(sessionID)
	if err != nil {
		return 0, err
	}
	return set.Len(), nil
}
