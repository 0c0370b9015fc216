// internal/currency/currency.go
package currency

import "fmt"

// Currency identifies one of the supported Mento stablecoins.
// The set is closed: adding a currency means extending the constants,
// Supported() and the rate table together.
type Currency string

const (
	CUSD  Currency = "cUSD"  // USD-pegged, the canonical accounting currency
	CEUR  Currency = "cEUR"  // EUR-pegged
	CREAL Currency = "cREAL" // BRL-pegged
)

// Canonical is the reference currency all balances are reported in.
const Canonical = CUSD

// Supported returns the closed set of supported currencies.
func Supported() []Currency {
	return []Currency{CUSD, CEUR, CREAL}
}

// IsSupported reports whether c is one of the supported stablecoins.
func (c Currency) IsSupported() bool {
	switch c {
	case CUSD, CEUR, CREAL:
		return true
	}
	return false
}

// String returns the currency code.
func (c Currency) String() string {
	return string(c)
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CUSD:
		return "$"
	case CEUR:
		return "€"
	case CREAL:
		return "R$"
	default:
		return "$"
	}
}

// Parse converts a currency code into a Currency.
// It returns an error for codes outside the supported set.
func Parse(code string) (Currency, error) {
	c := Currency(code)
	if !c.IsSupported() {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}
