package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate converts one unit of FromCurrencyCode into ToCurrencyCode,
// effective from DateEffective until a later rate for the same pair.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}

// Inverse returns the same rate quoted in the opposite direction.
func (r ExchangeRate) Inverse() ExchangeRate {
	inv := r
	inv.FromCurrencyCode, inv.ToCurrencyCode = r.ToCurrencyCode, r.FromCurrencyCode
	inv.Rate = decimal.NewFromInt(1).Div(r.Rate)
	return inv
}
