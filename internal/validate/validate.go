package validate

import (
	"regexp"
	"strconv"
	"strings"

	"mathiphone/internal/catalog"
	"mathiphone/internal/currency"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'".,+\-/]{1,50}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reURL   = regexp.MustCompile(`^(https?://|/)[^\s<>"]*$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length.
// An empty query is valid and means "no text filter".
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if r := []rune(s); len(r) > 50 {
		s = strings.TrimSpace(string(r[:50]))
	}
	return s, reQ.MatchString(s)
}

// ID validates a product identifier (uuid or slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Facet accepts "", "all" or one of allowed. The normalised value is "all" when unset.
func Facet(s string, allowed func(string) bool) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == catalog.All {
		return catalog.All, true
	}
	return s, allowed(s)
}

func Category(s string) (string, bool)  { return Facet(s, catalog.ValidCategory) }
func Condition(s string) (string, bool) { return Facet(s, catalog.ValidCondition) }
func Battery(s string) (string, bool)   { return Facet(s, catalog.ValidBattery) }

// Currency returns the upper-case code of a supported currency, ARS when empty.
func Currency(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return currency.ARS, true
	}
	c, ok := currency.Lookup(s)
	return c.Code, ok
}

// Battery health: 0..100.
func BatteryHealth(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

// ImageURL allows absolute http(s) links and site-relative paths.
func ImageURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, len(s) <= 2048 && reURL.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
