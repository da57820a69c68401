package services

import (
	"fmt"
	"math"

	"mathiphone/internal/domain"
	"mathiphone/internal/repos"
)

type RateService struct {
	Repo *repos.RateRepo
}

func NewRateService(r *repos.RateRepo) *RateService { return &RateService{Repo: r} }

func (s *RateService) Current() (domain.ExchangeRates, error) {
	return s.Repo.Get()
}

// Update validates and stores a full rate table. Every rate must be finite and
// positive; USD is pinned to 1.
func (s *RateService) Update(r domain.ExchangeRates) (domain.ExchangeRates, error) {
	r.USD = 1
	for code, v := range map[string]float64{"ars": r.ARS, "usdt": r.USDT, "btc": r.BTC, "eth": r.ETH} {
		if !(v > 0) || math.IsInf(v, 0) {
			return r, fmt.Errorf("%s must be a positive number: %w", code, ErrInvalidRates)
		}
	}
	if err := s.Repo.Save(&r); err != nil {
		return r, err
	}
	return r, nil
}
