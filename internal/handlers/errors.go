package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

// statusForError maps the service error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidEntryShape),
		errors.Is(err, apperrors.ErrInvalidLineAmount),
		errors.Is(err, apperrors.ErrUnbalancedEntry):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrInvalidPeriodTransition),
		errors.Is(err, apperrors.ErrAlreadyApproved),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAccountTypeLocked):
		return http.StatusConflict
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code != 0 {
			return appErr.Code
		}
		return http.StatusInternalServerError
	}
}

// respondWithError writes the error body for err. Server faults are logged at
// ERROR and hidden behind fallback; caller errors are logged at WARN and echoed.
func respondWithError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: fallback})
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	resp := dto.ErrorResponse{Error: err.Error()}

	var unbalanced *apperrors.UnbalancedEntryError
	var closed *apperrors.PeriodClosedError
	switch {
	case errors.As(err, &unbalanced):
		resp.Details = map[string]string{
			"debit":  unbalanced.Debit.String(),
			"credit": unbalanced.Credit.String(),
		}
	case errors.As(err, &closed):
		resp.Details = map[string]string{
			"periodID":     closed.PeriodID,
			"periodStatus": closed.Status,
		}
	}
	c.JSON(status, resp)
}

// respondWithBindingError renders gin binding failures, one detail per invalid field.
func respondWithBindingError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = describeFieldError(fe)
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Details: details})
}

// fieldPath drops the top-level struct name, e.g. "CreateJournalEntryRequest.Lines[0].Debit" -> "Lines[0].Debit".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "iso4217":
		return "must be a 3-letter ISO 4217 currency code"
	case tagAccountCode:
		return "must be 1-32 letters, digits, '.', '-' or '_'"
	case tagDecimalGTE0:
		return "must be a non-negative decimal"
	case tagDecimalGT0:
		return "must be a positive decimal"
	default:
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
}
