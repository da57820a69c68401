package domain

import (
	"encoding/json"
	"fmt"
)

// Categories sold by the store. "accesorio" is the historical id for accessories.
const (
	CategoryIPhone    = "iphone"
	CategoryMacBook   = "macbook"
	CategoryWatch     = "watch"
	CategoryAirPods   = "airpods"
	CategoryIPad      = "ipad"
	CategoryAccessory = "accesorio"
)

var Categories = []string{
	CategoryIPhone, CategoryMacBook, CategoryWatch, CategoryAirPods, CategoryIPad, CategoryAccessory,
}

// Refurbished grades, best first.
const (
	ConditionSealed    = "sealed"
	ConditionLikeNew   = "like-new"
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
)

var Conditions = []string{ConditionSealed, ConditionLikeNew, ConditionExcellent, ConditionGood}

type Product struct {
	ID             string   `db:"id" json:"id"`
	Name           string   `db:"name" json:"name"`
	Category       string   `db:"category" json:"category"`
	Model          string   `db:"model" json:"model"`
	Type           string   `db:"type" json:"type"`
	Storage        string   `db:"storage" json:"storage"`
	Color          string   `db:"color" json:"color"`
	Condition      string   `db:"condition" json:"condition"`
	BatteryHealth  *int     `db:"battery_health" json:"battery_health,omitempty"`
	PriceARS       float64  `db:"price_ars" json:"price_ars"`
	PriceUSD       float64  `db:"price_usd" json:"price_usd"`
	ScreenSize     string   `db:"screen_size" json:"screen_size"`
	Chip           string   `db:"chip" json:"chip"`
	Camera         string   `db:"camera" json:"camera"`
	FeaturesJSON   string   `db:"features_json" json:"-"`
	Features       []string `db:"-" json:"features"`
	Available      bool     `db:"available" json:"available"`
	WarrantyMonths int      `db:"warranty_months" json:"warranty_months"`
	Description    string   `db:"description" json:"description"`
	ImageURL       string   `db:"image_url" json:"image_url"`
	CreatedAt      string   `db:"created_at" json:"created_at"`
	UpdatedAt      string   `db:"updated_at" json:"updated_at"`
}

// DecodeFeatures fills Features from the stored JSON column.
func (p *Product) DecodeFeatures() error {
	p.Features = []string{}
	if p.FeaturesJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(p.FeaturesJSON), &p.Features); err != nil {
		return fmt.Errorf("product %s features: %w", p.ID, err)
	}
	return nil
}

// EncodeFeatures serialises Features into the JSON column.
func (p *Product) EncodeFeatures() {
	if p.Features == nil {
		p.Features = []string{}
	}
	b, _ := json.Marshal(p.Features)
	p.FeaturesJSON = string(b)
}

// BatteryLabel is the display form of the battery reading ("" when not tracked).
func (p Product) BatteryLabel() string {
	if p.BatteryHealth == nil {
		return ""
	}
	return fmt.Sprintf("%d%%", *p.BatteryHealth)
}

// ExchangeRates holds ars as ARS per USD and usdt/btc/eth as the USD value of one unit.
type ExchangeRates struct {
	USD       float64 `db:"usd" json:"usd"`
	ARS       float64 `db:"ars" json:"ars"`
	USDT      float64 `db:"usdt" json:"usdt"`
	BTC       float64 `db:"btc" json:"btc"`
	ETH       float64 `db:"eth" json:"eth"`
	UpdatedAt string  `db:"updated_at" json:"timestamp"`
}

// Rate looks a rate up by lowercase currency code.
func (r ExchangeRates) Rate(code string) (float64, bool) {
	switch code {
	case "usd":
		return r.USD, true
	case "ars":
		return r.ARS, true
	case "usdt":
		return r.USDT, true
	case "btc":
		return r.BTC, true
	case "eth":
		return r.ETH, true
	}
	return 0, false
}

// DefaultRates is what a fresh database starts with.
func DefaultRates() ExchangeRates {
	return ExchangeRates{USD: 1, ARS: 1000, USDT: 1, BTC: 50000, ETH: 3000}
}
