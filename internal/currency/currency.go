// Package currency converts ARS prices with the store's rate table and formats
// amounts the way the storefront shows them.
package currency

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"mathiphone/internal/domain"
)

const (
	ARS  = "ARS"
	USD  = "USD"
	USDT = "USDT"
	BTC  = "BTC"
	ETH  = "ETH"
)

type Currency struct {
	Code     string
	Label    string
	Symbol   string
	Decimals int32
}

// Currencies in the order the converter offers them.
var Currencies = []Currency{
	{Code: ARS, Label: "Pesos", Symbol: "$", Decimals: 0},
	{Code: USD, Label: "Dólares", Symbol: "USD $", Decimals: 0},
	{Code: USDT, Label: "USDT", Symbol: "USDT $", Decimals: 2},
	{Code: BTC, Label: "Bitcoin", Symbol: "₿", Decimals: 8},
	{Code: ETH, Label: "Ethereum", Symbol: "Ξ", Decimals: 6},
}

// Lookup finds a currency by code, case-insensitively.
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Convert turns an ARS price into target. ARS (and unknown targets) come back
// unchanged; a missing table, zero price or non-positive rate yields 0.
func Convert(priceARS float64, rates *domain.ExchangeRates, target string) float64 {
	if rates == nil || priceARS == 0 || !finite(priceARS) {
		return 0
	}
	code := strings.ToLower(strings.TrimSpace(target))
	if code == "ars" {
		return priceARS
	}
	rate, ok := rates.Rate(code)
	if !ok {
		return priceARS
	}
	if rates.ARS <= 0 || !finite(rates.ARS) {
		return 0
	}
	usd := decimal.NewFromFloat(priceARS).Div(decimal.NewFromFloat(rates.ARS))
	if code == "usd" {
		return usd.InexactFloat64()
	}
	if rate <= 0 || !finite(rate) {
		return 0
	}
	return usd.Div(decimal.NewFromFloat(rate)).InexactFloat64()
}

// ToARS is the inverse of Convert.
func ToARS(amount float64, rates *domain.ExchangeRates, from string) float64 {
	if rates == nil || !finite(amount) || !finite(rates.ARS) {
		return 0
	}
	code := strings.ToLower(strings.TrimSpace(from))
	if code == "ars" {
		return amount
	}
	rate, ok := rates.Rate(code)
	if !ok {
		return amount
	}
	if !finite(rate) {
		return 0
	}
	usd := decimal.NewFromFloat(amount)
	if code != "usd" {
		usd = usd.Mul(decimal.NewFromFloat(rate))
	}
	return usd.Mul(decimal.NewFromFloat(rates.ARS)).InexactFloat64()
}

// Format renders amount with the currency's symbol, precision and comma
// thousands separators. Unknown codes format as ARS.
func Format(amount float64, code string) string {
	c, ok := Lookup(code)
	if !ok {
		c = Currencies[0]
	}
	if !finite(amount) {
		amount = 0
	}
	s := decimal.NewFromFloat(amount).StringFixed(c.Decimals)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := Group(intPart, ",")
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return c.Symbol + " " + out
}

// Group inserts sep every three digits from the right of a digit string.
func Group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
