package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/dto"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrNoOpenPeriod, http.StatusNotFound},
		{fmt.Errorf("%w: bad date", apperrors.ErrValidation), http.StatusBadRequest},
		{apperrors.ErrInvalidEntryShape, http.StatusBadRequest},
		{apperrors.ErrInvalidLineAmount, http.StatusBadRequest},
		{&apperrors.UnbalancedEntryError{}, http.StatusBadRequest},
		{&apperrors.PeriodClosedError{}, http.StatusConflict},
		{&apperrors.InvalidPeriodTransitionError{}, http.StatusConflict},
		{apperrors.ErrAlreadyApproved, http.StatusConflict},
		{apperrors.ErrDuplicate, http.StatusConflict},
		{apperrors.ErrAccountTypeLocked, http.StatusConflict},
		{apperrors.NewAppError(http.StatusServiceUnavailable, "redis down", nil), http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestRespondWithError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondWithError(c, errors.New("pq: connection reset"), "Failed to list journal entries")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to list journal entries", resp.Error)
	assert.Empty(t, resp.Details)
}

func TestRespondWithError_UnbalancedDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondWithError(c, &apperrors.UnbalancedEntryError{Debit: decimal.RequireFromString("1000"), Credit: decimal.RequireFromString("500")}, "x")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1000", resp.Details["debit"])
	assert.Equal(t, "500", resp.Details["credit"])
}
