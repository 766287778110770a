package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		now:              time.Now,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
	}
}

// getIncomeStatement godoc
// @Summary Generate an income statement
// @Description Revenue and expense totals for an inclusive date range. Pending entries are included unless approvedOnly is set.
// @Tags reports
// @Produce json
// @Param entityID path string true "Entity ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)" default(first day of endDate's month)
// @Param endDate query string false "End date (YYYY-MM-DD)" default(today)
// @Param approvedOnly query bool false "Only count approved entries"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Entity not found"
// @Security BearerAuth
// @Router /entities/{entityID}/reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	var params dto.ReportQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindingError(c, err)
		return
	}

	end, err := h.dateOrToday("endDate", params.EndDate)
	if err != nil {
		respondWithError(c, err, "Failed to generate income statement")
		return
	}
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	if params.StartDate != "" {
		if start, err = dto.ParseDate("startDate", params.StartDate); err != nil {
			respondWithError(c, err, "Failed to generate income statement")
			return
		}
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), c.Param("entityID"), start, end,
		domain.ReportOptions{ApprovedOnly: params.ApprovedOnly})
	if err != nil {
		respondWithError(c, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate a balance sheet
// @Description Assets, liabilities and equity as of a date. Unclosed net income appears as CURRENT_EARNINGS.
// @Tags reports
// @Produce json
// @Param entityID path string true "Entity ID"
// @Param asOfDate query string false "Report date (YYYY-MM-DD)" default(today)
// @Param approvedOnly query bool false "Only count approved entries"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /entities/{entityID}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	var params dto.ReportQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindingError(c, err)
		return
	}
	asOf, err := h.dateOrToday("asOfDate", params.AsOfDate)
	if err != nil {
		respondWithError(c, err, "Failed to generate balance sheet")
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("entityID"), asOf,
		domain.ReportOptions{ApprovedOnly: params.ApprovedOnly})
	if err != nil {
		respondWithError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Debit and credit totals per account as of a date
// @Tags reports
// @Produce json
// @Param entityID path string true "Entity ID"
// @Param asOfDate query string false "Report date (YYYY-MM-DD)" default(today)
// @Param approvedOnly query bool false "Only count approved entries"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /entities/{entityID}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	var params dto.ReportQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindingError(c, err)
		return
	}
	asOf, err := h.dateOrToday("asOfDate", params.AsOfDate)
	if err != nil {
		respondWithError(c, err, "Failed to generate trial balance")
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("entityID"), asOf,
		domain.ReportOptions{ApprovedOnly: params.ApprovedOnly})
	if err != nil {
		respondWithError(c, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

func (h *reportingHandler) dateOrToday(field, value string) (time.Time, error) {
	if value == "" {
		return domain.TruncateToDay(h.now()), nil
	}
	return dto.ParseDate(field, value)
}
