// Package memory is an in-process implementation of every repository port.
// It backs STORAGE_DRIVER=memory and the service-level property tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
)

type state struct {
	entities map[string]domain.Entity
	accounts map[string]domain.Account
	periods  map[string]domain.Period
	entries  map[string]domain.JournalEntry
	// rates is keyed by rateKey.
	rates map[string]domain.ExchangeRate
	// reversals maps an original entry ID to the ID of its reversal.
	reversals map[string]string
}

func newState() *state {
	return &state{
		entities:  make(map[string]domain.Entity),
		accounts:  make(map[string]domain.Account),
		periods:   make(map[string]domain.Period),
		entries:   make(map[string]domain.JournalEntry),
		rates:     make(map[string]domain.ExchangeRate),
		reversals: make(map[string]string),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.entities {
		c.entities[k] = v
	}
	for k, v := range st.accounts {
		c.accounts[k] = v
	}
	for k, v := range st.periods {
		c.periods[k] = v
	}
	for k, v := range st.entries {
		c.entries[k] = copyEntry(v)
	}
	for k, v := range st.rates {
		c.rates[k] = v
	}
	for k, v := range st.reversals {
		c.reversals[k] = v
	}
	return c
}

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	return e
}

// Store keeps all ledger state in maps guarded by a single RWMutex.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntityRepo:    s,
		AccountRepo:   s,
		PeriodRepo:    s,
		JournalRepo:   s,
		ReportingRepo: s,
		RateRepo:      s,
		UnitOfWork:    s,
	}
}

var (
	_ portsrepo.EntityRepositoryFacade       = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade      = (*Store)(nil)
	_ portsrepo.PeriodRepositoryFacade       = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ReportingRepository          = (*Store)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade = (*Store)(nil)
	_ portsrepo.UnitOfWork                   = (*Store)(nil)
	_ portsrepo.LedgerTx                     = (*tx)(nil)
)

// WithTx runs fn under the write lock. On error the state is restored from a
// snapshot taken before fn ran.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, &tx{st: s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Entity repository

func (s *Store) FindEntityByID(_ context.Context, entityID string) (*domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.st.entities[entityID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (s *Store) SaveEntity(_ context.Context, entity domain.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.st.entities[entity.EntityID]; exists {
		return apperrors.ErrDuplicate
	}
	s.st.entities[entity.EntityID] = entity
	return nil
}

// Account repository

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.st.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *Store) FindAccountByCode(_ context.Context, entityID, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.st.accounts {
		if a.EntityID == entityID && a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindAccountsByEntity(_ context.Context, entityID string, types []domain.AccountType) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Account, 0)
	for _, a := range s.st.accounts {
		if a.EntityID == entityID && typeMatches(a.AccountType, types) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (st *state) hasPostedLines(accountID string) bool {
	for _, e := range st.entries {
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				return true
			}
		}
	}
	return false
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.entities[account.EntityID]; !ok {
		return fmt.Errorf("%w: entity %s", apperrors.ErrNotFound, account.EntityID)
	}
	for _, a := range s.st.accounts {
		if a.AccountID == account.AccountID || (a.EntityID == account.EntityID && a.Code == account.Code) {
			return apperrors.ErrDuplicate
		}
	}
	if account.ParentAccountID != "" {
		if _, ok := s.st.accounts[account.ParentAccountID]; !ok {
			return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, account.ParentAccountID)
		}
	}
	s.st.accounts[account.AccountID] = account
	return nil
}

// UpdateAccount checks for posted lines and writes under the same lock that postings take.
func (s *Store) UpdateAccount(_ context.Context, account domain.Account, retype *domain.AccountType) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.st.accounts[account.AccountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if retype != nil && *retype != current.AccountType {
		if s.st.hasPostedLines(account.AccountID) {
			return nil, apperrors.ErrAccountTypeLocked
		}
		current.AccountType = *retype
	}
	current.Name = account.Name
	current.Description = account.Description
	current.LastUpdatedAt = account.LastUpdatedAt
	current.LastUpdatedBy = account.LastUpdatedBy
	s.st.accounts[account.AccountID] = current
	return &current, nil
}

func (s *Store) DeactivateAccount(_ context.Context, accountID, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.st.accounts[accountID]
	if !ok || !a.IsActive {
		return apperrors.ErrNotFound
	}
	a.IsActive = false
	a.LastUpdatedAt = at
	a.LastUpdatedBy = userID
	s.st.accounts[accountID] = a
	return nil
}

// Period repository

func (s *Store) FindPeriodByID(_ context.Context, periodID string) (*domain.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.findPeriod(periodID)
}

func (s *Store) FindOpenPeriod(_ context.Context, entityID string) (*domain.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.findOpenPeriod(entityID)
}

func (s *Store) FindLatestPeriod(_ context.Context, entityID string) (*domain.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Period
	for _, p := range s.st.periods {
		if p.EntityID != entityID {
			continue
		}
		if latest == nil || p.EndDate.After(latest.EndDate) {
			p := p
			latest = &p
		}
	}
	if latest == nil {
		return nil, apperrors.ErrNotFound
	}
	return latest, nil
}

func (s *Store) ListPeriodsByEntity(_ context.Context, entityID string) ([]domain.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Period, 0)
	for _, p := range s.st.periods {
		if p.EntityID == entityID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (s *Store) SavePeriod(_ context.Context, period domain.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.entities[period.EntityID]; !ok {
		return fmt.Errorf("%w: entity %s", apperrors.ErrNotFound, period.EntityID)
	}
	if _, exists := s.st.periods[period.PeriodID]; exists {
		return apperrors.ErrDuplicate
	}
	if period.Status == domain.PeriodOpen {
		if _, err := s.st.findOpenPeriod(period.EntityID); err == nil {
			return apperrors.ErrDuplicate
		}
	}
	s.st.periods[period.PeriodID] = period
	return nil
}

// Journal repository

func (s *Store) FindJournalEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.findEntry(entryID)
}

func (s *Store) ListJournalEntriesBySource(_ context.Context, entityID, sourceModule, sourceID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st.filterEntries(func(e domain.JournalEntry) bool {
		return e.EntityID == entityID && e.SourceModule == sourceModule && (sourceID == "" || e.SourceID == sourceID)
	}), nil
}

func (s *Store) ListJournalEntriesByPeriod(_ context.Context, periodID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st.filterEntries(func(e domain.JournalEntry) bool { return e.PeriodID == periodID }), nil
}

func (s *Store) ListJournalEntriesByEntity(_ context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.EntryCursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.st.filterEntries(func(e domain.JournalEntry) bool {
		return e.EntityID == entityID && (cursor == nil || cursor.After(e.EntryDate, e.CreatedAt, e.EntryID))
	})
	// newest first
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	if len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.EntryCursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
	return page, &token, nil
}

func (s *Store) UpdateJournalAnnotation(_ context.Context, entryID, annotation, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.st.entries[entryID]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Annotation = annotation
	e.LastUpdatedAt = at
	e.LastUpdatedBy = userID
	s.st.entries[entryID] = e
	return nil
}

// Reporting repository

func (s *Store) GetAccountTotals(_ context.Context, entityID string, filter domain.LineFilter) ([]domain.AccountTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := time.Time{}
	if filter.From != nil {
		from = domain.TruncateToDay(*filter.From)
	}
	to := domain.TruncateToDay(filter.To)

	byAccount := make(map[string]*domain.AccountTotal)
	for _, e := range s.st.entries {
		if e.EntityID != entityID || (filter.ApprovedOnly && !e.IsApproved()) {
			continue
		}
		date := domain.TruncateToDay(e.EntryDate)
		if date.Before(from) || date.After(to) {
			continue
		}
		for _, l := range e.Lines {
			acc, ok := s.st.accounts[l.AccountID]
			if !ok || !typeMatches(acc.AccountType, filter.Types) {
				continue
			}
			total, ok := byAccount[acc.AccountID]
			if !ok {
				total = &domain.AccountTotal{
					AccountID:   acc.AccountID,
					Code:        acc.Code,
					Name:        acc.Name,
					AccountType: acc.AccountType,
					Debit:       decimal.Zero,
					Credit:      decimal.Zero,
				}
				byAccount[acc.AccountID] = total
			}
			total.Debit = total.Debit.Add(l.Debit())
			total.Credit = total.Credit.Add(l.Credit())
		}
	}

	result := make([]domain.AccountTotal, 0, len(byAccount))
	for _, t := range byAccount {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// Exchange rate repository

func rateKey(from, to string, effective time.Time) string {
	return from + "|" + to + "|" + effective.Format(time.DateOnly)
}

func (s *Store) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rateKey(rate.FromCurrencyCode, rate.ToCurrencyCode, rate.DateEffective)
	if existing, ok := s.st.rates[key]; ok {
		existing.Rate = rate.Rate
		existing.LastUpdatedAt = rate.LastUpdatedAt
		existing.LastUpdatedBy = rate.LastUpdatedBy
		rate = existing
	}
	s.st.rates[key] = rate
	return nil
}

func (s *Store) FindExchangeRate(_ context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.st.latestRate(fromCurrencyCode, toCurrencyCode, asOf); ok {
		return &r, nil
	}
	if r, ok := s.st.latestRate(toCurrencyCode, fromCurrencyCode, asOf); ok {
		inv := r.Inverse()
		return &inv, nil
	}
	return nil, fmt.Errorf("%w: no exchange rate from %s to %s on or before %s", apperrors.ErrNotFound,
		fromCurrencyCode, toCurrencyCode, asOf.Format(time.DateOnly))
}

func (st *state) latestRate(from, to string, asOf time.Time) (domain.ExchangeRate, bool) {
	var (
		best  domain.ExchangeRate
		found bool
	)
	for _, r := range st.rates {
		if r.FromCurrencyCode != from || r.ToCurrencyCode != to || r.DateEffective.After(asOf) {
			continue
		}
		if !found || r.DateEffective.After(best.DateEffective) {
			best, found = r, true
		}
	}
	return best, found
}

// tx is the view handed to a unit of work. The store's write lock is held,
// so it touches state directly.
type tx struct {
	st *state
}

func (t *tx) FindPeriodForShare(_ context.Context, periodID string) (*domain.Period, error) {
	return t.st.findPeriod(periodID)
}

func (t *tx) FindOpenPeriodForShare(_ context.Context, entityID string) (*domain.Period, error) {
	return t.st.findOpenPeriod(entityID)
}

func (t *tx) FindPeriodForUpdate(_ context.Context, periodID string) (*domain.Period, error) {
	return t.st.findPeriod(periodID)
}

func (t *tx) UpdatePeriodStatus(_ context.Context, periodID string, status domain.PeriodStatus, userID string, at time.Time) error {
	p, ok := t.st.periods[periodID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Status = status
	p.LastUpdatedAt = at
	p.LastUpdatedBy = userID
	t.st.periods[periodID] = p
	return nil
}

func (t *tx) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := t.st.accounts[id]; ok {
			result[id] = a
		}
	}
	return result, nil
}

func (t *tx) EnsureAccount(_ context.Context, template domain.Account) (domain.Account, error) {
	for _, a := range t.st.accounts {
		if a.EntityID == template.EntityID && a.Code == template.Code {
			return a, nil
		}
	}
	if _, ok := t.st.entities[template.EntityID]; !ok {
		return domain.Account{}, fmt.Errorf("%w: entity %s", apperrors.ErrNotFound, template.EntityID)
	}
	t.st.accounts[template.AccountID] = template
	return template, nil
}

func (t *tx) InsertJournalEntry(_ context.Context, entry domain.JournalEntry) error {
	if _, exists := t.st.entries[entry.EntryID]; exists {
		return apperrors.ErrDuplicate
	}
	if _, ok := t.st.periods[entry.PeriodID]; !ok {
		return fmt.Errorf("%w: period %s", apperrors.ErrNotFound, entry.PeriodID)
	}
	for _, l := range entry.Lines {
		if _, ok := t.st.accounts[l.AccountID]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, l.AccountID)
		}
		if !l.Amount.IsPositive() {
			return fmt.Errorf("%w: line %d amount must be positive", apperrors.ErrInvalidLineAmount, l.LineNo)
		}
	}
	if entry.ReversalOfEntryID != nil {
		if _, taken := t.st.reversals[*entry.ReversalOfEntryID]; taken {
			return fmt.Errorf("%w: entry %s is already reversed", apperrors.ErrConflict, *entry.ReversalOfEntryID)
		}
		t.st.reversals[*entry.ReversalOfEntryID] = entry.EntryID
	}
	t.st.entries[entry.EntryID] = copyEntry(entry)
	return nil
}

func (t *tx) FindJournalEntryForUpdate(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	return t.st.findEntry(entryID)
}

func (t *tx) ApproveJournalEntry(_ context.Context, entryID, approverID string, at time.Time) error {
	e, ok := t.st.entries[entryID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if e.Status != domain.EntryPending {
		return apperrors.ErrAlreadyApproved
	}
	e.Status = domain.EntryApproved
	e.ApprovedBy = &approverID
	e.ApprovedAt = &at
	e.LastUpdatedAt = at
	e.LastUpdatedBy = approverID
	t.st.entries[entryID] = e
	return nil
}

func (t *tx) HasReversal(_ context.Context, entryID string) (bool, error) {
	_, ok := t.st.reversals[entryID]
	return ok, nil
}

// state helpers; callers hold the lock.

func (st *state) findPeriod(periodID string) (*domain.Period, error) {
	p, ok := st.periods[periodID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (st *state) findOpenPeriod(entityID string) (*domain.Period, error) {
	for _, p := range st.periods {
		if p.EntityID == entityID && p.Status == domain.PeriodOpen {
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (st *state) findEntry(entryID string) (*domain.JournalEntry, error) {
	e, ok := st.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := copyEntry(e)
	return &c, nil
}

// filterEntries returns copies of the matching entries ordered by entry date, then creation time.
func (st *state) filterEntries(keep func(domain.JournalEntry) bool) []domain.JournalEntry {
	result := make([]domain.JournalEntry, 0)
	for _, e := range st.entries {
		if keep(e) {
			result = append(result, copyEntry(e))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].EntryDate.Equal(result[j].EntryDate) {
			return result[i].EntryDate.Before(result[j].EntryDate)
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].EntryID < result[j].EntryID
	})
	return result
}

func typeMatches(t domain.AccountType, types []domain.AccountType) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}
