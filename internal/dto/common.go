package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
)

// DateLayout is the ISO date format used on the wire.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO date string, wrapping failures as validation errors.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", apperrors.ErrValidation, field)
	}
	return t, nil
}

// ErrorResponse is the body returned for failed requests.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}
