package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers account routes under an entity group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/code/:code", h.getAccountByCode)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deactivateAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the entity's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Entity not found"
// @Failure 409 {object} dto.ErrorResponse "Account code already exists"
// @Security BearerAuth
// @Router /entities/{entityID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	creatorUserID, ok := actingUser(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entity_id", entityID))
	logger.Info("Received request to create account", slog.String("code", req.Code))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), entityID, req, creatorUserID)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /entities/{entityID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("entityID"), c.Param("accountID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /entities/{entityID}/accounts/code/{code} [get]
func (h *accountHandler) getAccountByCode(c *gin.Context) {
	account, err := h.accountService.FindAccountByCode(c.Request.Context(), c.Param("entityID"), c.Param("code"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the entity's accounts
// @Description Optionally filtered by one or more account types
// @Tags accounts
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   type query []string false "Account type filter" collectionFormat(multi)
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown account type"
// @Security BearerAuth
// @Router /entities/{entityID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var types []domain.AccountType
	for _, t := range c.QueryArray("type") {
		types = append(types, domain.AccountType(t))
	}

	accounts, err := h.accountService.FindAccountsByEntity(c.Request.Context(), c.Param("entityID"), types...)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames an account or changes its type; the type is locked once lines have posted
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account type locked"
// @Security BearerAuth
// @Router /entities/{entityID}/accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("entityID"), c.Param("accountID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Inactive accounts keep their history but accept no new lines
// @Tags accounts
// @Param   entityID path string true "Entity ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /entities/{entityID}/accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	if err := h.accountService.DeactivateAccount(c.Request.Context(), c.Param("entityID"), c.Param("accountID"), userID); err != nil {
		respondWithError(c, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}
