package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"mathiphone/internal/domain"
)

type RateRepo struct{ db *sqlx.DB }

func NewRateRepo(db *sqlx.DB) *RateRepo { return &RateRepo{db: db} }

func (r *RateRepo) Get() (domain.ExchangeRates, error) {
	var out domain.ExchangeRates
	err := r.db.Get(&out, `
	  SELECT usd, ars, usdt, btc, eth, COALESCE(updated_at,'') AS updated_at
	  FROM exchange_rates WHERE id = 1
	`)
	return out, err
}

// Save replaces the rate row and stamps updated_at.
func (r *RateRepo) Save(rates *domain.ExchangeRates) error {
	rates.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.NamedExec(`
	  INSERT INTO exchange_rates(id, usd, ars, usdt, btc, eth, updated_at)
	  VALUES(1, :usd, :ars, :usdt, :btc, :eth, :updated_at)
	  ON CONFLICT(id) DO UPDATE SET
	    usd=excluded.usd, ars=excluded.ars, usdt=excluded.usdt,
	    btc=excluded.btc, eth=excluded.eth, updated_at=excluded.updated_at
	`, rates)
	return err
}
