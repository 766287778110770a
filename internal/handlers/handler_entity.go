package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

// entityHandler handles HTTP requests related to legal entities.
type entityHandler struct {
	entityService portssvc.EntitySvcFacade
}

func registerEntityRoutes(rg *gin.RouterGroup, entityService portssvc.EntitySvcFacade) {
	h := &entityHandler{entityService: entityService}

	entities := rg.Group("/entities")
	{
		entities.POST("", h.createEntity)
		entities.GET("/:entityID", h.getEntity)
	}
}

// createEntity godoc
// @Summary Register a legal entity
// @Description Creates an entity with its own base currency, chart of accounts and periods
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   entity body dto.CreateEntityRequest true "Entity details"
// @Success 201 {object} dto.EntityResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create entity"
// @Security BearerAuth
// @Router /entities [post]
func (h *entityHandler) createEntity(c *gin.Context) {
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	entity, err := h.entityService.CreateEntity(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create entity")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Entity created", slog.String("entity_id", entity.EntityID))
	c.JSON(http.StatusCreated, dto.ToEntityResponse(entity))
}

// getEntity godoc
// @Summary Get an entity
// @Tags entities
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 200 {object} dto.EntityResponse
// @Failure 404 {object} dto.ErrorResponse "Entity not found"
// @Security BearerAuth
// @Router /entities/{entityID} [get]
func (h *entityHandler) getEntity(c *gin.Context) {
	entity, err := h.entityService.GetEntityByID(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve entity")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}
