// internal/currency/converter.go
package currency

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// RateService resolves an exchange rate between two currencies.
// It never fails: unknown pairs fall back to a 1:1 rate.
type RateService interface {
	// Rate returns the positive multiplier converting one unit of from into to.
	Rate(from, to Currency) decimal.Decimal
}

// Converter normalizes amounts between currencies using a RateService.
type Converter struct {
	rates  RateService
	logger *slog.Logger
}

// NewConverter creates a Converter backed by the given RateService.
func NewConverter(rates RateService, logger *slog.Logger) *Converter {
	return &Converter{rates: rates, logger: logger}
}

// Convert returns amount expressed in the to currency.
func (c *Converter) Convert(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Mul(c.rates.Rate(from, to))
}

// ToCanonical converts amount from the given currency into the canonical currency.
func (c *Converter) ToCanonical(amount decimal.Decimal, from Currency) decimal.Decimal {
	return c.Convert(amount, from, Canonical)
}

// pair keys the static rate table.
type pair struct {
	from, to Currency
}

// Mock exchange rates matching the Mento reference deployment.
// In production these would come from the Mento oracle behind the same
// RateService contract.
var staticRates = map[pair]decimal.Decimal{
	{CUSD, CEUR}:  decimal.NewFromFloat(0.92), // 1 cUSD = 0.92 cEUR
	{CUSD, CREAL}: decimal.NewFromFloat(5.05), // 1 cUSD = 5.05 cREAL
	{CEUR, CREAL}: decimal.NewFromFloat(5.49), // 1 cEUR = 5.49 cREAL
	{CEUR, CUSD}:  decimal.NewFromFloat(1.08), // 1 cEUR = 1.08 cUSD
	{CREAL, CUSD}: decimal.NewFromFloat(0.20), // 1 cREAL = 0.20 cUSD
	{CREAL, CEUR}: decimal.NewFromFloat(0.18), // 1 cREAL = 0.18 cEUR
}

// StaticRateService serves the fixed rate table.
type StaticRateService struct {
	logger *slog.Logger
}

// NewStaticRateService creates a RateService over the fixed rate table.
func NewStaticRateService(logger *slog.Logger) *StaticRateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticRateService{logger: logger}
}

// Rate returns the exchange rate between from and to.
// Resolution order: identity, direct table entry, inverse of the reverse
// entry, a hop through the canonical currency, and finally a 1:1
// fallback with a warning for unknown pairs.
func (s *StaticRateService) Rate(from, to Currency) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if from == to {
		return one
	}

	if rate, ok := staticRates[pair{from, to}]; ok {
		return rate
	}
	if reverse, ok := staticRates[pair{to, from}]; ok {
		return one.Div(reverse)
	}

	// No direct rate: go through the canonical currency as an intermediate hop.
	if from != Canonical && to != Canonical {
		return s.Rate(from, Canonical).Mul(s.Rate(Canonical, to))
	}

	s.logger.Warn("no exchange rate found, using 1:1 rate", "from", from, "to", to)
	return one
}
