package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

func TestCreateExchangeRate(t *testing.T) {
	ctx := context.Background()
	clock := services.WithClock(func() time.Time { return fixedNow })

	t.Run("normalizes codes and date", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		repo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
			return r.FromCurrencyCode == "EUR" && r.ToCurrencyCode == "USD" &&
				r.Rate.Equal(dec("1.0825")) &&
				r.DateEffective.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
		})).Return(nil).Once()

		rate, err := services.NewExchangeRateService(repo, clock).CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
			FromCurrencyCode: " eur", ToCurrencyCode: "usd", Rate: dec("1.0825"), DateEffective: "2024-01-02",
		}, "treasury")

		require.NoError(t, err)
		assert.NotEmpty(t, rate.ExchangeRateID)
		assert.Equal(t, "treasury", rate.CreatedBy)
		assert.Equal(t, fixedNow, rate.CreatedAt)
		repo.AssertExpectations(t)
	})

	cases := map[string]dto.CreateExchangeRateRequest{
		"same currency": {FromCurrencyCode: "USD", ToCurrencyCode: "usd", Rate: dec("1"), DateEffective: "2024-01-02"},
		"zero rate":     {FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: dec("0"), DateEffective: "2024-01-02"},
		"negative rate": {FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: dec("-1.1"), DateEffective: "2024-01-02"},
		"bad code":      {FromCurrencyCode: "EURO", ToCurrencyCode: "USD", Rate: dec("1.1"), DateEffective: "2024-01-02"},
		"bad date":      {FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: dec("1.1"), DateEffective: "02/01/2024"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(MockExchangeRateRepository)
			_, err := services.NewExchangeRateService(repo, clock).CreateExchangeRate(ctx, req, "treasury")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			repo.AssertNotCalled(t, "SaveExchangeRate", mock.Anything, mock.Anything)
		})
	}

	t.Run("propagates repository failure", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		repo.On("SaveExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(assert.AnError).Once()
		_, err := services.NewExchangeRateService(repo, clock).CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
			FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: dec("1.1"), DateEffective: "2024-01-02",
		}, "treasury")
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestGetExchangeRate(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2024, 1, 15, 18, 45, 0, 0, time.UTC)
	midnight := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	repo := new(MockExchangeRateRepository)
	repo.On("FindExchangeRate", ctx, "GBP", "USD", midnight).Return(nil, apperrors.ErrNotFound).Once()

	rate, err := services.NewExchangeRateService(repo).GetExchangeRate(ctx, "gbp", "USD", asOf)

	assert.Nil(t, rate)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)

	_, err = services.NewExchangeRateService(repo).GetExchangeRate(ctx, "USD", "USD", asOf)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
