package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// IncomeStatement covers entries dated within [start, end].
	IncomeStatement(ctx context.Context, entityID string, start, end time.Time, opts domain.ReportOptions) (*domain.IncomeStatement, error)

	// BalanceSheet covers entries dated on or before asOf.
	BalanceSheet(ctx context.Context, entityID string, asOf time.Time, opts domain.ReportOptions) (*domain.BalanceSheet, error)

	// TrialBalance lists per-account debit and credit totals as of a date.
	TrialBalance(ctx context.Context, entityID string, asOf time.Time, opts domain.ReportOptions) (*domain.TrialBalance, error)
}
