package handlers

import (
	"strconv"
	"strings"

	html "github.com/gofiber/template/html/v2"

	"mathiphone/internal/currency"
	"mathiphone/internal/domain"
	"mathiphone/internal/pricing"
)

// Views builds the template engine with the helpers every page uses.
func Views(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("money", currency.Format)
	engine.AddFunc("convert", func(ars float64, rates *domain.ExchangeRates, code string) string {
		if strings.EqualFold(code, currency.ARS) {
			return currency.Format(ars, currency.ARS)
		}
		return currency.Format(currency.Convert(ars, rates, code), code)
	})
	engine.AddFunc("display", func(v float64) string {
		return pricing.Display(strconv.FormatFloat(v, 'f', 0, 64))
	})
	engine.AddFunc("title", func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	})
	return engine
}
