package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// ExchangeRateSvcFacade manages the dated rates used to convert foreign-currency lines.
type ExchangeRateSvcFacade interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error)

	// GetExchangeRate returns the rate in effect on asOf.
	GetExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error)
}
