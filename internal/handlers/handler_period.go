package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
	ledgerService portssvc.LedgerReaderSvc
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade, ledgerService portssvc.LedgerReaderSvc) {
	h := &periodHandler{periodService: periodService, ledgerService: ledgerService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/current", h.currentPeriod)
		periods.GET("/:periodID", h.getPeriod)
		periods.GET("/:periodID/editable", h.isEditable)
		periods.POST("/:periodID/transition", h.transition)
		periods.GET("/:periodID/journal-entries", h.listPeriodEntries)
	}
}

// createPeriod godoc
// @Summary Open a new accounting period
// @Description The entity must have no open period and the new period must start after the latest one ends
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   period body dto.CreatePeriodRequest true "Period window"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid window"
// @Failure 409 {object} dto.ErrorResponse "Another period is still open"
// @Security BearerAuth
// @Router /entities/{entityID}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), c.Param("entityID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List the entity's periods
// @Tags periods
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /entities/{entityID}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondWithError(c, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// currentPeriod godoc
// @Summary Get the entity's open period
// @Tags periods
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} dto.ErrorResponse "No open period"
// @Security BearerAuth
// @Router /entities/{entityID}/periods/current [get]
func (h *periodHandler) currentPeriod(c *gin.Context) {
	period, err := h.periodService.CurrentOpenPeriod(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondWithError(c, err, "Failed to resolve current period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get a period
// @Tags periods
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /entities/{entityID}/periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("entityID"), c.Param("periodID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// isEditable godoc
// @Summary Check whether a period accepts postings
// @Tags periods
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.EditableResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /entities/{entityID}/periods/{periodID}/editable [get]
func (h *periodHandler) isEditable(c *gin.Context) {
	ctx := c.Request.Context()
	periodID := c.Param("periodID")
	if _, err := h.periodService.GetPeriod(ctx, c.Param("entityID"), periodID); err != nil {
		respondWithError(c, err, "Failed to retrieve period")
		return
	}
	editable, err := h.periodService.IsEditable(ctx, periodID)
	if err != nil {
		respondWithError(c, err, "Failed to check period")
		return
	}
	c.JSON(http.StatusOK, dto.EditableResponse{PeriodID: periodID, Editable: editable})
}

// transition godoc
// @Summary Move a period through its lifecycle
// @Description Allowed: OPEN -> CLOSED -> LOCKED. Anything else is rejected.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Param   transition body dto.TransitionPeriodRequest true "Target status"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Router /entities/{entityID}/periods/{periodID}/transition [post]
func (h *periodHandler) transition(c *gin.Context) {
	var req dto.TransitionPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	periodID := c.Param("periodID")
	if _, err := h.periodService.GetPeriod(ctx, c.Param("entityID"), periodID); err != nil {
		respondWithError(c, err, "Failed to retrieve period")
		return
	}

	period, err := h.periodService.Transition(ctx, periodID, req.Status, userID)
	if err != nil {
		respondWithError(c, err, "Failed to transition period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listPeriodEntries godoc
// @Summary List a period's journal entries
// @Tags periods
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {array} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /entities/{entityID}/periods/{periodID}/journal-entries [get]
func (h *periodHandler) listPeriodEntries(c *gin.Context) {
	ctx := c.Request.Context()
	periodID := c.Param("periodID")
	if _, err := h.periodService.GetPeriod(ctx, c.Param("entityID"), periodID); err != nil {
		respondWithError(c, err, "Failed to retrieve period")
		return
	}
	entries, err := h.ledgerService.GetJournalEntriesByPeriod(ctx, periodID)
	if err != nil {
		respondWithError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponses(entries))
}
