// Package ratefeed keeps the exchange-rate table fresh from public price APIs.
package ratefeed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"mathiphone/internal/domain"
	applog "mathiphone/internal/log"
)

const DefaultTimeout = 10 * time.Second

// Fetcher reads crypto prices (USD per coin) and the ARS per USD rate.
type Fetcher struct {
	CryptoURL string
	FiatURL   string
	Timeout   time.Duration
}

type cryptoResponse struct {
	Bitcoin  struct{ USD float64 `json:"usd"` } `json:"bitcoin"`
	Ethereum struct{ USD float64 `json:"usd"` } `json:"ethereum"`
	Tether   struct{ USD float64 `json:"usd"` } `json:"tether"`
}

type fiatResponse struct {
	Rates map[string]float64 `json:"rates"`
}

var ErrBadResponse = errors.New("unexpected rate response")

func (f *Fetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return DefaultTimeout
}

func (f *Fetcher) getJSON(url string, v any) error {
	a := fiber.Get(url).Timeout(f.timeout())
	code, body, errs := a.Struct(v)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("GET %s: status %d (%d bytes): %w", url, code, len(body), ErrBadResponse)
	}
	return nil
}

// Crypto returns the USD price of one BTC, ETH and USDT.
func (f *Fetcher) Crypto(ctx context.Context) (btc, eth, usdt float64, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	var r cryptoResponse
	if err = f.getJSON(f.CryptoURL, &r); err != nil {
		return
	}
	if r.Bitcoin.USD <= 0 || r.Ethereum.USD <= 0 || r.Tether.USD <= 0 {
		err = fmt.Errorf("crypto prices missing: %w", ErrBadResponse)
		return
	}
	return r.Bitcoin.USD, r.Ethereum.USD, r.Tether.USD, nil
}

// ARS returns how many pesos one dollar buys.
func (f *Fetcher) ARS(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var r fiatResponse
	if err := f.getJSON(f.FiatURL, &r); err != nil {
		return 0, err
	}
	ars := r.Rates["ARS"]
	if ars <= 0 {
		return 0, fmt.Errorf("ARS rate missing: %w", ErrBadResponse)
	}
	return ars, nil
}

// Store is where refreshed rates are read from and written to.
type Store interface {
	Current() (domain.ExchangeRates, error)
	Update(domain.ExchangeRates) (domain.ExchangeRates, error)
}

// Refresher periodically merges fetched rates into the store. A source that
// fails leaves its previous values in place.
type Refresher struct {
	fetcher  *Fetcher
	store    Store
	interval time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewRefresher(f *Fetcher, s Store, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{fetcher: f, store: s, interval: interval, stop: make(chan struct{})}
}

// Start refreshes once right away, then every interval until ctx ends or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
}

func (r *Refresher) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}

func (r *Refresher) run(ctx context.Context) {
	applog.Info(nil, "ratefeed.start", map[string]any{"interval": r.interval.String()})
	_, _ = r.Refresh(ctx)

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-t.C:
			_, _ = r.Refresh(ctx)
		}
	}
}

// Refresh runs one fetch-and-merge cycle. It reports whether anything was stored.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	start := time.Now()
	cur, err := r.store.Current()
	if err != nil {
		applog.Error(nil, "ratefeed.load.fail", err, nil)
		return false, err
	}

	next, changed := cur, false
	btc, eth, usdt, cerr := r.fetcher.Crypto(ctx)
	if cerr != nil {
		applog.Error(nil, "ratefeed.fetch.fail", cerr, map[string]any{"source": "crypto"})
	} else {
		next.BTC, next.ETH, next.USDT, changed = btc, eth, usdt, true
	}
	ars, ferr := r.fetcher.ARS(ctx)
	if ferr != nil {
		applog.Error(nil, "ratefeed.fetch.fail", ferr, map[string]any{"source": "fiat"})
	} else {
		next.ARS, changed = ars, true
	}
	if !changed {
		return false, errors.Join(cerr, ferr)
	}

	saved, err := r.store.Update(next)
	if err != nil {
		applog.Error(nil, "ratefeed.save.fail", err, nil)
		return false, err
	}
	applog.Timed(nil, "ratefeed.refresh", start, map[string]any{
		"ars": saved.ARS, "btc": saved.BTC, "eth": saved.ETH, "usdt": saved.USDT,
	})
	return true, errors.Join(cerr, ferr)
}
