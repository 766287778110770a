package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

const (
	idempotencyHeader      = "Idempotency-Key"
	idempotentReplayHeader = "Idempotent-Replayed"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	idempotency    portsrepo.IdempotencyStore
	idempotencyTTL time.Duration
}

func registerJournalRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, idempotency portsrepo.IdempotencyStore, ttl time.Duration) {
	h := &journalHandler{ledgerService: ledgerService, idempotency: idempotency, idempotencyTTL: ttl}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:entryID", h.getJournalEntry)
		entries.POST("/:entryID/approve", h.approveJournalEntry)
		entries.PATCH("/:entryID/annotation", h.annotateJournalEntry)
		entries.POST("/:entryID/reverse", h.reverseJournalEntry)
	}
}

// createJournalEntry godoc
// @Summary Post a journal entry
// @Description Validates and records a balanced entry in the entity's open (or given) period.
// @Description A repeated Idempotency-Key returns the entry created by the first request.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   Idempotency-Key header string false "Client key that dedupes retries"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry and its lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Success 200 {object} dto.JournalEntryResponse "Replay of an earlier request"
// @Failure 400 {object} dto.ErrorResponse "Unbalanced or malformed entry"
// @Failure 404 {object} dto.ErrorResponse "Entity, account or open period not found"
// @Failure 409 {object} dto.ErrorResponse "Period closed, or the key is still in flight"
// @Security BearerAuth
// @Router /entities/{entityID}/journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	creatorID, ok := actingUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	entityID := c.Param("entityID")
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("entity_id", entityID))

	key := c.GetHeader(idempotencyHeader)
	if key == "" {
		entry, err := h.ledgerService.CreateJournalEntry(ctx, entityID, req, creatorID)
		if err != nil {
			respondWithError(c, err, "Failed to create journal entry")
			return
		}
		c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
		return
	}

	scopedKey := entityID + ":" + key
	reserved, existingID, err := h.idempotency.Reserve(ctx, scopedKey, h.idempotencyTTL)
	if err != nil {
		respondWithError(c, err, "Failed to check idempotency key")
		return
	}
	if !reserved {
		if existingID == "" {
			logger.Warn("Idempotency key still in flight", slog.String("idempotency_key", key))
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "a request with this Idempotency-Key is still being processed"})
			return
		}
		entry, err := h.entityEntry(ctx, entityID, existingID)
		if err != nil {
			respondWithError(c, err, "Failed to load replayed journal entry")
			return
		}
		logger.Info("Replayed idempotent request", slog.String("idempotency_key", key), slog.String("entry_id", existingID))
		c.Header(idempotentReplayHeader, "true")
		c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
		return
	}

	entry, err := h.ledgerService.CreateJournalEntry(ctx, entityID, req, creatorID)
	if err != nil {
		if relErr := h.idempotency.Release(context.WithoutCancel(ctx), scopedKey); relErr != nil {
			logger.Error("Failed to release idempotency key", slog.String("idempotency_key", key), slog.String("error", relErr.Error()))
		}
		respondWithError(c, err, "Failed to create journal entry")
		return
	}
	if err := h.idempotency.Complete(context.WithoutCancel(ctx), scopedKey, entry.EntryID, h.idempotencyTTL); err != nil {
		// The entry is committed; a retry with this key will now 409 until the reservation expires.
		logger.Error("Failed to record idempotency result", slog.String("idempotency_key", key), slog.String("error", err.Error()))
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description With sourceModule, returns every entry traced to that source object.
// @Description Otherwise returns a page of entries, newest first.
// @Tags journal-entries
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   sourceModule query string false "Producing module, e.g. sales"
// @Param   sourceId query string false "Source object ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Security BearerAuth
// @Router /entities/{entityID}/journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindingError(c, err)
		return
	}
	resp, err := h.ledgerService.ListJournalEntries(c.Request.Context(), c.Param("entityID"), params)
	if err != nil {
		respondWithError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getJournalEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /entities/{entityID}/journal-entries/{entryID} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	entry, err := h.entityEntry(c.Request.Context(), c.Param("entityID"), c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// approveJournalEntry godoc
// @Summary Approve a pending entry
// @Description Succeeds once; a second approval is rejected.
// @Tags journal-entries
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Already approved or period closed"
// @Security BearerAuth
// @Router /entities/{entityID}/journal-entries/{entryID}/approve [post]
func (h *journalHandler) approveJournalEntry(c *gin.Context) {
	approverID, ok := actingUser(c)
	if !ok {
		return
	}
	h.mutateEntry(c, "Failed to approve journal entry", func(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
		return h.ledgerService.ApproveJournalEntry(ctx, entryID, approverID)
	}, http.StatusOK)
}

// annotateJournalEntry godoc
// @Summary Set the entry's annotation
// @Description Annotations do not touch amounts and are allowed in any state.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   entryID path string true "Entry ID"
// @Param   annotation body dto.AnnotateJournalEntryRequest true "Annotation"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /entities/{entityID}/journal-entries/{entryID}/annotation [patch]
func (h *journalHandler) annotateJournalEntry(c *gin.Context) {
	var req dto.AnnotateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	h.mutateEntry(c, "Failed to annotate journal entry", func(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
		return h.ledgerService.AnnotateJournalEntry(ctx, entryID, req.Annotation, userID)
	}, http.StatusOK)
}

// reverseJournalEntry godoc
// @Summary Reverse an approved entry
// @Description Posts the mirror entry into the current open period. Each entry can be reversed once.
// @Tags journal-entries
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   entryID path string true "Entry ID"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Entry is not approved"
// @Failure 409 {object} dto.ErrorResponse "Already reversed or period closed"
// @Security BearerAuth
// @Router /entities/{entityID}/journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	h.mutateEntry(c, "Failed to reverse journal entry", func(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
		return h.ledgerService.ReverseJournalEntry(ctx, entryID, userID)
	}, http.StatusCreated)
}

// mutateEntry checks the entry belongs to the path entity before applying fn.
func (h *journalHandler) mutateEntry(c *gin.Context, failure string, fn func(ctx context.Context, entryID string) (*domain.JournalEntry, error), status int) {
	ctx := c.Request.Context()
	entryID := c.Param("entryID")
	if _, err := h.entityEntry(ctx, c.Param("entityID"), entryID); err != nil {
		respondWithError(c, err, failure)
		return
	}
	entry, err := fn(ctx, entryID)
	if err != nil {
		respondWithError(c, err, failure)
		return
	}
	c.JSON(status, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) entityEntry(ctx context.Context, entityID, entryID string) (*domain.JournalEntry, error) {
	entry, err := h.ledgerService.GetJournalEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.EntityID != entityID {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return entry, nil
}
