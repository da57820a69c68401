// Package pricing normalizes the free-text price fields of the admin forms.
package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"mathiphone/internal/currency"
)

const (
	FieldARS = "price_ars"
	FieldUSD = "price_usd"
)

// Digits keeps only 0-9.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Display strips everything but digits and groups them with dots: "1000000" -> "1.000.000".
func Display(s string) string {
	return currency.Group(Digits(s), ".")
}

// Parse reads a display value back: dots are thousands, a comma is the decimal point.
// Empty or malformed input is 0.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	if f := d.InexactFloat64(); !math.IsInf(f, 0) {
		return f
	}
	return 0
}

// ParseRate reads an exchange rate typed either as "1185.5" or with Argentine
// grouping ("1.185,5"). Several dots with no comma are all grouping. ok is
// false unless the result is a positive number.
func ParseRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, ","):
		s = strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return 0, false
	}
	f := d.InexactFloat64()
	return f, !math.IsInf(f, 0)
}

// Pair is the two price inputs of a product form, in display form.
type Pair struct {
	ARS string `json:"price_ars"`
	USD string `json:"price_usd"`
}

// AutoFill applies a change of one price field and recomputes the other with
// rate (ARS per USD). An empty value, a non-positive rate or an unknown field
// leaves the other side untouched.
func AutoFill(cur Pair, field, value string, rate float64) Pair {
	digits := Digits(value)
	out := cur
	switch field {
	case FieldUSD:
		out.USD = Display(digits)
		if digits != "" && rate > 0 {
			usd, _ := decimal.NewFromString(digits)
			out.ARS = Display(usd.Mul(decimal.NewFromFloat(rate)).Round(0).String())
		}
	case FieldARS:
		out.ARS = Display(digits)
		if digits != "" && rate > 0 {
			ars, _ := decimal.NewFromString(digits)
			out.USD = Display(ars.Div(decimal.NewFromFloat(rate)).Round(0).String())
		}
	}
	return out
}

// Complete fills whichever of ars/usd is zero from the other one.
func Complete(ars, usd, rate float64) (float64, float64) {
	if !finite(rate) || rate <= 0 || !finite(ars) || !finite(usd) {
		return ars, usd
	}
	r := decimal.NewFromFloat(rate)
	switch {
	case ars == 0 && usd > 0:
		ars = decimal.NewFromFloat(usd).Mul(r).Round(0).InexactFloat64()
	case usd == 0 && ars > 0:
		usd = decimal.NewFromFloat(ars).Div(r).Round(0).InexactFloat64()
	}
	return ars, usd
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
