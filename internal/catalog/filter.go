package catalog

import (
	"strings"

	"mathiphone/internal/domain"
)

// All is the value that disables a facet.
const All = "all"

// Battery buckets.
const (
	Battery90Plus  = "90-100"
	Battery80To89  = "80-89"
	Battery70To79  = "70-79"
	BatteryBelow70 = "below-70"
)

var BatteryBuckets = []string{Battery90Plus, Battery80To89, Battery70To79, BatteryBelow70}

// FilterState is what the catalog page filters by. Zero value filters nothing.
type FilterState struct {
	Category  string
	Model     string
	Type      string
	Condition string
	Battery   string
	Query     string
}

// DefaultFilterState has every facet set to "all".
func DefaultFilterState() FilterState {
	return FilterState{Category: All, Model: All, Type: All, Condition: All, Battery: All}
}

func active(v string) bool { return v != "" && v != All }

// Filter returns the products matching every active facet, in input order.
func Filter(products []domain.Product, st FilterState) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(st.Query))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Match(p, st, q) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether p passes st. q must already be trimmed and lower-cased.
func Match(p domain.Product, st FilterState, q string) bool {
	if active(st.Category) && p.Category != st.Category {
		return false
	}
	if active(st.Model) && p.Model != st.Model {
		return false
	}
	if active(st.Type) && p.Type != st.Type {
		return false
	}
	if active(st.Condition) && p.Condition != st.Condition {
		return false
	}
	if active(st.Battery) && !InBatteryBucket(p.BatteryHealth, st.Battery) {
		return false
	}
	if q != "" && !matchText(p, q) {
		return false
	}
	return true
}

// InBatteryBucket checks a battery reading against a bucket. Products without a
// reading (accessories) are in no bucket; an unknown bucket name matches everything.
func InBatteryBucket(health *int, bucket string) bool {
	switch bucket {
	case Battery90Plus, Battery80To89, Battery70To79, BatteryBelow70:
	default:
		return true
	}
	if health == nil {
		return false
	}
	h := *health
	switch bucket {
	case Battery90Plus:
		return h >= 90
	case Battery80To89:
		return h >= 80 && h < 90
	case Battery70To79:
		return h >= 70 && h < 80
	default:
		return h < 70
	}
}

func matchText(p domain.Product, q string) bool {
	for _, f := range []string{p.Name, p.Model, p.Color, p.Chip, p.Storage, p.Category, p.Description} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
