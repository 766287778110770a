package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ReportingRepository aggregates journal lines for financial reports
type ReportingRepository interface {
	// GetAccountTotals sums base-currency debits and credits per account for the
	// entity's lines matching filter. Accounts without matching lines are omitted.
	GetAccountTotals(ctx context.Context, entityID string, filter domain.LineFilter) ([]domain.AccountTotal, error)
}
