package catalog

import (
	"strconv"
	"strings"

	"mathiphone/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Query is a FilterState plus the listing extras the JSON API accepts.
type Query struct {
	FilterState
	MinBattery  *int
	MaxPriceARS *float64
	MaxPriceUSD *float64
	Available   *bool
	Limit       int
	Offset      int
}

// ParseQuery reads a listing query from request parameters. Unknown keys are
// ignored, malformed numbers fall back to "not set".
func ParseQuery(params map[string]string) Query {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(params[k]); v != "" {
				return v
			}
		}
		return ""
	}
	q := Query{
		FilterState: FilterState{
			Category:  get("category"),
			Model:     get("model"),
			Type:      get("type"),
			Condition: get("condition"),
			Battery:   get("battery"),
			Query:     get("q", "search"),
		},
		Limit: DefaultLimit,
	}
	if n, err := strconv.Atoi(get("min_battery")); err == nil && n >= 0 && n <= 100 {
		q.MinBattery = &n
	}
	if f, err := strconv.ParseFloat(get("max_price_ars"), 64); err == nil && f >= 0 {
		q.MaxPriceARS = &f
	}
	if f, err := strconv.ParseFloat(get("max_price_usd"), 64); err == nil && f >= 0 {
		q.MaxPriceUSD = &f
	}
	if b, err := strconv.ParseBool(get("available")); err == nil {
		q.Available = &b
	}
	if n, err := strconv.Atoi(get("limit")); err == nil && n > 0 {
		q.Limit = min(n, MaxLimit)
	}
	if n, err := strconv.Atoi(get("offset")); err == nil && n >= 0 {
		q.Offset = n
	}
	return q
}

// Apply runs the filter engine, the extras and then pagination.
func (q Query) Apply(products []domain.Product) []domain.Product {
	out := Filter(products, q.FilterState)
	kept := out[:0]
	for _, p := range out {
		if q.MinBattery != nil && batteryOrZero(p) < *q.MinBattery {
			continue
		}
		if q.MaxPriceARS != nil && p.PriceARS > *q.MaxPriceARS {
			continue
		}
		if q.MaxPriceUSD != nil && p.PriceUSD > *q.MaxPriceUSD {
			continue
		}
		if q.Available != nil && p.Available != *q.Available {
			continue
		}
		kept = append(kept, p)
	}
	return Page(kept, q.Limit, q.Offset)
}

// batteryOrZero reads a missing battery reading as 0, so min_battery=0 keeps accessories.
func batteryOrZero(p domain.Product) int {
	if p.BatteryHealth == nil {
		return 0
	}
	return *p.BatteryHealth
}

// Page slices products to [offset, offset+limit).
func Page(products []domain.Product, limit, offset int) []domain.Product {
	if offset >= len(products) {
		return []domain.Product{}
	}
	end := len(products)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return products[offset:end]
}
