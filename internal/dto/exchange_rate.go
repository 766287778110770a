package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreateExchangeRateRequest defines the data needed to record a conversion rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,iso4217"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,iso4217"`
	Rate             decimal.Decimal `json:"rate" binding:"decimal_gt0"`
	DateEffective    string          `json:"dateEffective" binding:"required,datetime=2006-01-02"`
}

// ExchangeRateResponse defines the data returned for an exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    string          `json:"dateEffective"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy    string          `json:"lastUpdatedBy"`
}

func ToExchangeRateResponse(r *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   r.ExchangeRateID,
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		DateEffective:    r.DateEffective.Format(DateLayout),
		LastUpdatedAt:    r.LastUpdatedAt,
		LastUpdatedBy:    r.LastUpdatedBy,
	}
}
