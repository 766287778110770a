package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewExchangeRateService creates the service that records conversion rates.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, options ...ServiceOption) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		BaseService: newBaseService(options...),
		rateRepo:    rateRepo,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func normalizeCurrency(field, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %s must be a 3-letter ISO code", apperrors.ErrValidation, field)
	}
	return code, nil
}

// CreateExchangeRate records a rate. A second rate for the same pair and date replaces the first.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	from, err := normalizeCurrency("fromCurrencyCode", req.FromCurrencyCode)
	if err != nil {
		return nil, err
	}
	to, err := normalizeCurrency("toCurrencyCode", req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currencies must differ", apperrors.ErrValidation)
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	effective, err := dto.ParseDate("dateEffective", req.DateEffective)
	if err != nil {
		return nil, err
	}

	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		DateEffective:    domain.TruncateToDay(effective),
		AuditFields:      domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate", slog.String("from", from), slog.String("to", to))
		return nil, err
	}

	s.LogInfo(ctx, "Exchange rate recorded",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("rate", rate.Rate.String()),
		slog.String("date_effective", effective.Format(dto.DateLayout)))
	return &rate, nil
}

func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	from, err := normalizeCurrency("from", fromCurrencyCode)
	if err != nil {
		return nil, err
	}
	to, err := normalizeCurrency("to", toCurrencyCode)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currencies must differ", apperrors.ErrValidation)
	}
	return s.rateRepo.FindExchangeRate(ctx, from, to, domain.TruncateToDay(asOf))
}
