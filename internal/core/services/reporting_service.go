package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	entityRepo    portsrepo.EntityReader
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository, entityRepo portsrepo.EntityReader, options ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBaseService(options...),
		reportingRepo: reportingRepo,
		entityRepo:    entityRepo,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// IncomeStatement generates a profit and loss statement for the given date range
func (s *reportingService) IncomeStatement(ctx context.Context, entityID string, start, end time.Time, opts domain.ReportOptions) (*domain.IncomeStatement, error) {
	start, end = domain.TruncateToDay(start), domain.TruncateToDay(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", apperrors.ErrValidation)
	}
	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, err
	}

	totals, err := s.reportingRepo.GetAccountTotals(ctx, entityID, domain.LineFilter{
		From:         &start,
		To:           end,
		Types:        []domain.AccountType{domain.Revenue, domain.Expense},
		ApprovedOnly: opts.ApprovedOnly,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate income statement lines", slog.String("entity_id", entityID))
		return nil, err
	}

	report := &domain.IncomeStatement{
		EntityID:     entityID,
		StartDate:    start,
		EndDate:      end,
		Revenue:      []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range sortedTotals(totals) {
		item, err := toAccountAmount(t)
		if err != nil {
			return nil, err
		}
		switch t.AccountType {
		case domain.Revenue:
			report.Revenue = append(report.Revenue, item)
			report.TotalRevenue = report.TotalRevenue.Add(item.Amount)
		case domain.Expense:
			report.Expenses = append(report.Expenses, item)
			report.TotalExpense = report.TotalExpense.Add(item.Amount)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)

	s.LogDebug(ctx, "Income statement generated",
		slog.String("entity_id", entityID),
		slog.String("net_income", report.NetIncome.String()))
	return report, nil
}

// BalanceSheet generates a balance sheet as of the given date. Unclosed net
// income is carried in equity under CURRENT_EARNINGS.
func (s *reportingService) BalanceSheet(ctx context.Context, entityID string, asOf time.Time, opts domain.ReportOptions) (*domain.BalanceSheet, error) {
	asOf = domain.TruncateToDay(asOf)
	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, err
	}

	totals, err := s.reportingRepo.GetAccountTotals(ctx, entityID, domain.LineFilter{
		To:           asOf,
		ApprovedOnly: opts.ApprovedOnly,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate balance sheet lines", slog.String("entity_id", entityID))
		return nil, err
	}

	report := &domain.BalanceSheet{
		EntityID:         entityID,
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	earnings := decimal.Zero
	for _, t := range sortedTotals(totals) {
		item, err := toAccountAmount(t)
		if err != nil {
			return nil, err
		}
		switch t.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, item)
			report.TotalAssets = report.TotalAssets.Add(item.Amount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, item)
			report.TotalLiabilities = report.TotalLiabilities.Add(item.Amount)
		case domain.Equity:
			report.Equity = append(report.Equity, item)
			report.TotalEquity = report.TotalEquity.Add(item.Amount)
		case domain.Revenue:
			earnings = earnings.Add(item.Amount)
		case domain.Expense:
			earnings = earnings.Sub(item.Amount)
		}
	}
	if !earnings.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{
			Code:        domain.CurrentEarningsCode,
			Name:        "Current Earnings",
			AccountType: domain.Equity,
			Amount:      earnings,
		})
		report.TotalEquity = report.TotalEquity.Add(earnings)
	}

	report.Difference = report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity))
	report.IsBalanced = accounting.WithinTolerance(report.Difference, decimal.Zero)
	if !report.Difference.IsZero() {
		s.GetLogger(ctx).Error("Balance sheet integrity alert: assets do not equal liabilities plus equity",
			slog.String("entity_id", entityID),
			slog.String("as_of", asOf.Format(time.DateOnly)),
			slog.String("difference", report.Difference.String()),
			slog.Bool("within_tolerance", report.IsBalanced))
	}
	return report, nil
}

// TrialBalance lists every account that has activity up to asOf with its debit and credit totals.
func (s *reportingService) TrialBalance(ctx context.Context, entityID string, asOf time.Time, opts domain.ReportOptions) (*domain.TrialBalance, error) {
	asOf = domain.TruncateToDay(asOf)
	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, err
	}

	totals, err := s.reportingRepo.GetAccountTotals(ctx, entityID, domain.LineFilter{
		To:           asOf,
		ApprovedOnly: opts.ApprovedOnly,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate trial balance lines", slog.String("entity_id", entityID))
		return nil, err
	}

	report := &domain.TrialBalance{
		EntityID:    entityID,
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, t := range sortedTotals(totals) {
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   t.AccountID,
			Code:        t.Code,
			AccountName: t.Name,
			AccountType: t.AccountType,
			Debit:       t.Debit,
			Credit:      t.Credit,
		})
		report.TotalDebit = report.TotalDebit.Add(t.Debit)
		report.TotalCredit = report.TotalCredit.Add(t.Credit)
	}
	report.IsBalanced = accounting.WithinTolerance(report.TotalDebit, report.TotalCredit)
	if !report.IsBalanced {
		s.GetLogger(ctx).Error("Trial balance does not balance",
			slog.String("entity_id", entityID),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
	}
	return report, nil
}

func sortedTotals(totals []domain.AccountTotal) []domain.AccountTotal {
	sorted := make([]domain.AccountTotal, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return sorted
}

func toAccountAmount(t domain.AccountTotal) (domain.AccountAmount, error) {
	amount, err := accounting.NaturalAmount(t.AccountType, t.Debit, t.Credit)
	if err != nil {
		return domain.AccountAmount{}, err
	}
	return domain.AccountAmount{
		AccountID:   t.AccountID,
		Code:        t.Code,
		Name:        t.Name,
		AccountType: t.AccountType,
		Amount:      amount,
	}, nil
}
