package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

// exchangeRateHandler handles HTTP requests related to exchange rates
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
	now         func() time.Time
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := &exchangeRateHandler{rateService: rateService, now: time.Now}

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("/:from/:to", h.getExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Record an exchange rate
// @Description Stores the rate converting one unit of fromCurrencyCode into toCurrencyCode from dateEffective on. A rate for the same pair and date is replaced.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to record exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	rate, err := h.rateService.CreateExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record exchange rate")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Exchange rate recorded",
		slog.String("from", rate.FromCurrencyCode), slog.String("to", rate.ToCurrencyCode))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// getExchangeRate godoc
// @Summary Get the exchange rate in effect
// @Description Latest rate effective on or before asOfDate. The inverse of the opposite pair is used when only that is stored.
// @Tags exchange-rates
// @Produce json
// @Param from path string true "From currency code"
// @Param to path string true "To currency code"
// @Param asOfDate query string false "Rate date (YYYY-MM-DD)" default(today)
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "No rate on or before the date"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	asOf := domain.TruncateToDay(h.now())
	if value := c.Query("asOfDate"); value != "" {
		parsed, err := dto.ParseDate("asOfDate", value)
		if err != nil {
			respondWithError(c, err, "Failed to get exchange rate")
			return
		}
		asOf = parsed
	}

	rate, err := h.rateService.GetExchangeRate(c.Request.Context(), c.Param("from"), c.Param("to"), asOf)
	if err != nil {
		respondWithError(c, err, "Failed to get exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
