package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

const (
	defaultListLimit = 20
	reversalSource   = "ledger"
)

// ledgerService validates and persists balanced journal entries and runs the approval workflow.
type ledgerService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	journalRepo portsrepo.JournalRepositoryFacade
	entityRepo  portsrepo.EntityReader
	rateRepo    portsrepo.ExchangeRateReader
}

// NewLedgerService creates a new ledger engine.
func NewLedgerService(uow portsrepo.UnitOfWork, journalRepo portsrepo.JournalRepositoryFacade, entityRepo portsrepo.EntityReader, rateRepo portsrepo.ExchangeRateReader, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(options...),
		uow:         uow,
		journalRepo: journalRepo,
		entityRepo:  entityRepo,
		rateRepo:    rateRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// buildLines runs the stateless checks in order: shape, balance, then each line.
// Balance is judged on base-currency amounts.
func buildLines(reqLines []dto.CreateJournalLineRequest, baseCurrency string) ([]domain.JournalLine, error) {
	if len(reqLines) < 2 {
		return nil, fmt.Errorf("%w: got %d", apperrors.ErrInvalidEntryShape, len(reqLines))
	}

	debitTotal, creditTotal := decimal.Zero, decimal.Zero
	for _, l := range reqLines {
		rate := decimal.NewFromInt(1)
		if l.ExchangeRate != nil {
			rate = *l.ExchangeRate
		}
		debitTotal = debitTotal.Add(accounting.BaseAmount(l.Debit, rate))
		creditTotal = creditTotal.Add(accounting.BaseAmount(l.Credit, rate))
	}
	if !accounting.WithinTolerance(debitTotal, creditTotal) {
		return nil, &apperrors.UnbalancedEntryError{Debit: debitTotal, Credit: creditTotal}
	}

	lines := make([]domain.JournalLine, len(reqLines))
	for i, l := range reqLines {
		side, amount, err := accounting.ToTaggedAmount(l.Debit, l.Credit)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		rate := decimal.NewFromInt(1)
		if l.ExchangeRate != nil {
			rate = *l.ExchangeRate
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("line %d: %w: exchange rate must be positive", i+1, apperrors.ErrInvalidLineAmount)
		}

		currency := strings.ToUpper(strings.TrimSpace(l.CurrencyCode))
		if currency == "" {
			currency = baseCurrency
		}

		base := accounting.BaseAmount(amount, rate)
		if l.BaseAmount != nil && !accounting.WithinTolerance(*l.BaseAmount, base) {
			return nil, fmt.Errorf("line %d: %w: base amount %s does not match %s x %s",
				i+1, apperrors.ErrInvalidLineAmount, l.BaseAmount.String(), amount.String(), rate.String())
		}

		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			AccountID:    l.AccountID,
			LineNo:       i + 1,
			Side:         side,
			Amount:       amount,
			CurrencyCode: currency,
			ExchangeRate: rate,
			BaseAmount:   base,
			Memo:         l.Memo,
		}
	}
	return lines, nil
}

// fillRates returns a copy of reqLines in which every foreign-currency line without an
// explicit rate carries the stored rate into baseCurrency effective on asOf.
func (s *ledgerService) fillRates(ctx context.Context, reqLines []dto.CreateJournalLineRequest, baseCurrency string, asOf time.Time) ([]dto.CreateJournalLineRequest, error) {
	filled := make([]dto.CreateJournalLineRequest, len(reqLines))
	copy(filled, reqLines)
	for i, l := range filled {
		currency := strings.ToUpper(strings.TrimSpace(l.CurrencyCode))
		if l.ExchangeRate != nil || currency == "" || currency == baseCurrency {
			continue
		}
		rate, err := s.rateRepo.FindExchangeRate(ctx, currency, baseCurrency, asOf)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("line %d: %w: no exchange rate from %s to %s on or before %s",
				i+1, apperrors.ErrInvalidLineAmount, currency, baseCurrency, asOf.Format(dto.DateLayout))
		}
		if err != nil {
			return nil, err
		}
		filled[i].ExchangeRate = &rate.Rate
	}
	return filled, nil
}

// roundingLine books the residue of an entry accepted within tolerance to the entity's
// rounding account so that the stored lines balance exactly.
func (s *ledgerService) roundingLine(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry, baseCurrency string) error {
	side, amount := accounting.Residue(entry.Totals())
	if amount.IsZero() {
		return nil
	}
	acc, err := tx.EnsureAccount(ctx, domain.Account{
		AccountID:   uuid.NewString(),
		EntityID:    entry.EntityID,
		Code:        domain.RoundingAccountCode,
		Name:        "Rounding differences",
		AccountType: domain.Expense,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(entry.CreatedBy, s.Now()),
	})
	if err != nil {
		return err
	}
	entry.Lines = append(entry.Lines, domain.JournalLine{
		LineID:       uuid.NewString(),
		EntryID:      entry.EntryID,
		AccountID:    acc.AccountID,
		LineNo:       len(entry.Lines) + 1,
		Side:         side,
		Amount:       amount,
		CurrencyCode: baseCurrency,
		ExchangeRate: decimal.NewFromInt(1),
		BaseAmount:   amount,
		Memo:         "rounding difference",
	})
	return nil
}

// CreateJournalEntry validates the request and persists the entry and its lines atomically.
// The period status is read inside the same transaction as the inserts.
func (s *ledgerService) CreateJournalEntry(ctx context.Context, entityID string, req dto.CreateJournalEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(slog.String("entity_id", entityID), slog.String("creator_id", creatorID))

	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	entryDate, err := dto.ParseDate("entryDate", req.EntryDate)
	if err != nil {
		return nil, err
	}

	reqLines := req.Lines
	if len(reqLines) >= 2 {
		reqLines, err = s.fillRates(ctx, reqLines, entity.BaseCurrency, entryDate)
		if err != nil {
			if isCallerError(err) {
				logger.Warn("Rejected journal entry", slog.String("error", err.Error()))
			} else {
				logger.Error("Failed to look up exchange rate", slog.String("error", err.Error()))
			}
			return nil, err
		}
	}

	lines, err := buildLines(reqLines, entity.BaseCurrency)
	if err != nil {
		logger.Warn("Rejected journal entry", slog.String("error", err.Error()))
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:      uuid.NewString(),
		EntityID:     entityID,
		EntryDate:    entryDate,
		Description:  req.Description,
		SourceModule: req.SourceModule,
		SourceID:     req.SourceID,
		Status:       domain.EntryPending,
		Lines:        lines,
		AuditFields:  domain.NewAuditFields(creatorID, s.Now()),
	}
	for i := range entry.Lines {
		entry.Lines[i].EntryID = entry.EntryID
	}

	err = s.uow.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := s.roundingLine(ctx, tx, &entry, entity.BaseCurrency); err != nil {
			return err
		}
		return s.postInTx(ctx, tx, &entry, req.PeriodID)
	})
	if err != nil {
		if isCallerError(err) {
			logger.Warn("Rejected journal entry", slog.String("error", err.Error()))
		} else {
			logger.Error("Failed to persist journal entry", slog.String("error", err.Error()))
		}
		return nil, err
	}

	debit, _ := entry.Totals()
	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("period_id", entry.PeriodID),
		slog.String("amount", debit.String()),
		slog.Int("line_count", len(entry.Lines)))
	return &entry, nil
}

// postInTx resolves and checks the period, checks the accounts and inserts the entry.
func (s *ledgerService) postInTx(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry, periodID *string) error {
	var (
		period *domain.Period
		err    error
	)
	if periodID != nil && *periodID != "" {
		period, err = tx.FindPeriodForShare(ctx, *periodID)
	} else {
		period, err = tx.FindOpenPeriodForShare(ctx, entry.EntityID)
		if errors.Is(err, apperrors.ErrNotFound) {
			err = apperrors.ErrNoOpenPeriod
		}
	}
	if err != nil {
		return err
	}
	if period.EntityID != entry.EntityID {
		return fmt.Errorf("%w: period %s belongs to another entity", apperrors.ErrValidation, period.PeriodID)
	}
	if !period.IsEditable() {
		return &apperrors.PeriodClosedError{PeriodID: period.PeriodID, Status: string(period.Status)}
	}
	if !period.Contains(entry.EntryDate) {
		return fmt.Errorf("%w: entry date %s is outside period %s (%s to %s)", apperrors.ErrValidation,
			entry.EntryDate.Format(dto.DateLayout), period.PeriodID,
			period.StartDate.Format(dto.DateLayout), period.EndDate.Format(dto.DateLayout))
	}
	entry.PeriodID = period.PeriodID

	if err := checkAccounts(ctx, tx, entry); err != nil {
		return err
	}
	return tx.InsertJournalEntry(ctx, *entry)
}

func checkAccounts(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry) error {
	ids := make([]string, 0, len(entry.Lines))
	seen := make(map[string]struct{}, len(entry.Lines))
	for _, l := range entry.Lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}
	accounts, err := tx.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok || acc.EntityID != entry.EntityID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
	}
	return nil
}

// ApproveJournalEntry is a PENDING -> APPROVED compare-and-swap; a second call fails with ErrAlreadyApproved.
func (s *ledgerService) ApproveJournalEntry(ctx context.Context, entryID, approverID string) (*domain.JournalEntry, error) {
	var approved *domain.JournalEntry
	err := s.uow.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := tx.FindJournalEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.IsApproved() {
			return apperrors.ErrAlreadyApproved
		}
		period, err := tx.FindPeriodForShare(ctx, entry.PeriodID)
		if err != nil {
			return err
		}
		if !period.IsEditable() {
			return &apperrors.PeriodClosedError{PeriodID: period.PeriodID, Status: string(period.Status)}
		}

		now := s.Now()
		if err := tx.ApproveJournalEntry(ctx, entryID, approverID, now); err != nil {
			return err
		}
		entry.Status = domain.EntryApproved
		entry.ApprovedBy = &approverID
		entry.ApprovedAt = &now
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = approverID
		approved = entry
		return nil
	})
	if err != nil {
		if isCallerError(err) {
			s.LogWarn(ctx, err, "Rejected approval", slog.String("entry_id", entryID), slog.String("approver_id", approverID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry approved", slog.String("entry_id", entryID), slog.String("approver_id", approverID))
	return approved, nil
}

func (s *ledgerService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindJournalEntryByID(ctx, entryID)
}

func (s *ledgerService) GetJournalEntriesBySource(ctx context.Context, entityID, sourceModule, sourceID string) ([]domain.JournalEntry, error) {
	if sourceModule == "" {
		return nil, fmt.Errorf("%w: sourceModule is required", apperrors.ErrValidation)
	}
	return s.journalRepo.ListJournalEntriesBySource(ctx, entityID, sourceModule, sourceID)
}

func (s *ledgerService) GetJournalEntriesByPeriod(ctx context.Context, periodID string) ([]domain.JournalEntry, error) {
	return s.journalRepo.ListJournalEntriesByPeriod(ctx, periodID)
}

func (s *ledgerService) ListJournalEntries(ctx context.Context, entityID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	if params.SourceModule != "" {
		entries, err := s.GetJournalEntriesBySource(ctx, entityID, params.SourceModule, params.SourceID)
		if err != nil {
			return nil, err
		}
		return &dto.ListJournalEntriesResponse{Entries: dto.ToJournalEntryResponses(entries)}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	entries, next, err := s.journalRepo.ListJournalEntriesByEntity(ctx, entityID, limit, token)
	if err != nil {
		return nil, err
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: next,
	}, nil
}

func (s *ledgerService) AnnotateJournalEntry(ctx context.Context, entryID, annotation, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	if err := s.journalRepo.UpdateJournalAnnotation(ctx, entryID, annotation, userID, now); err != nil {
		return nil, err
	}
	entry.Annotation = annotation
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	return entry, nil
}

// ReverseJournalEntry posts a mirror of an approved entry into the entity's current open period.
func (s *ledgerService) ReverseJournalEntry(ctx context.Context, entryID, userID string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !original.IsApproved() {
		return nil, fmt.Errorf("%w: only approved entries can be reversed", apperrors.ErrValidation)
	}

	now := s.Now()
	reversal := domain.JournalEntry{
		EntryID:           uuid.NewString(),
		EntityID:          original.EntityID,
		Description:       "Reversal of " + original.EntryID,
		SourceModule:      reversalSource,
		SourceID:          original.EntryID,
		Status:            domain.EntryPending,
		ReversalOfEntryID: &original.EntryID,
		Lines:             make([]domain.JournalLine, len(original.Lines)),
		AuditFields:       domain.NewAuditFields(userID, now),
	}
	if original.Description != "" {
		reversal.Description += ": " + original.Description
	}
	for i, l := range original.Lines {
		l.LineID = uuid.NewString()
		l.EntryID = reversal.EntryID
		l.Side = l.Side.Opposite()
		reversal.Lines[i] = l
	}

	err = s.uow.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		reversed, err := tx.HasReversal(ctx, original.EntryID)
		if err != nil {
			return err
		}
		if reversed {
			return fmt.Errorf("%w: entry %s is already reversed", apperrors.ErrConflict, original.EntryID)
		}
		period, err := tx.FindOpenPeriodForShare(ctx, original.EntityID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrNoOpenPeriod
			}
			return err
		}
		reversal.EntryDate = clampToPeriod(domain.TruncateToDay(now), period)
		return s.postInTx(ctx, tx, &reversal, &period.PeriodID)
	})
	if err != nil {
		if isCallerError(err) {
			s.LogWarn(ctx, err, "Rejected reversal", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	return &reversal, nil
}

func clampToPeriod(date time.Time, period *domain.Period) time.Time {
	if date.Before(period.StartDate) {
		return period.StartDate
	}
	if date.After(period.EndDate) {
		return period.EndDate
	}
	return date
}

// isCallerError separates rejected input from infrastructure failures for logging.
func isCallerError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrConflict,
		apperrors.ErrUnbalancedEntry, apperrors.ErrInvalidEntryShape, apperrors.ErrInvalidLineAmount,
		apperrors.ErrPeriodClosed, apperrors.ErrInvalidPeriodTransition, apperrors.ErrAlreadyApproved,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
