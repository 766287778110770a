package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// MockEntityRepository is a mock type for the EntityRepositoryFacade interface
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, entityID, code string) (*domain.Account, error) {
	args := m.Called(ctx, entityID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByEntity(ctx context.Context, entityID string, types []domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, entityID, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, retype *domain.AccountType) (*domain.Account, error) {
	args := m.Called(ctx, account, retype)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID, userID string, at time.Time) error {
	args := m.Called(ctx, accountID, userID, at)
	return args.Error(0)
}

// MockPeriodRepository is a mock type for the PeriodRepositoryFacade interface
type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindOpenPeriod(ctx context.Context, entityID string) (*domain.Period, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindLatestPeriod(ctx context.Context, entityID string) (*domain.Period, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriodsByEntity(ctx context.Context, entityID string) ([]domain.Period, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalEntriesBySource(ctx context.Context, entityID, sourceModule, sourceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, entityID, sourceModule, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalEntriesByPeriod(ctx context.Context, periodID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalEntriesByEntity(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, entityID, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) UpdateJournalAnnotation(ctx context.Context, entryID, annotation, userID string, at time.Time) error {
	args := m.Called(ctx, entryID, annotation, userID, at)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetAccountTotals(ctx context.Context, entityID string, filter domain.LineFilter) ([]domain.AccountTotal, error) {
	args := m.Called(ctx, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotal), args.Error(1)
}

// MockExchangeRateRepository is a mock type for the ExchangeRateRepositoryFacade interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, from, to string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// MockLedgerTx is a mock type for the LedgerTx interface
type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) FindPeriodForShare(ctx context.Context, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockLedgerTx) FindOpenPeriodForShare(ctx context.Context, entityID string) (*domain.Period, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockLedgerTx) FindPeriodForUpdate(ctx context.Context, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockLedgerTx) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, at time.Time) error {
	args := m.Called(ctx, periodID, status, userID, at)
	return args.Error(0)
}

func (m *MockLedgerTx) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockLedgerTx) EnsureAccount(ctx context.Context, template domain.Account) (domain.Account, error) {
	args := m.Called(ctx, template)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *MockLedgerTx) InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerTx) FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerTx) ApproveJournalEntry(ctx context.Context, entryID, approverID string, at time.Time) error {
	args := m.Called(ctx, entryID, approverID, at)
	return args.Error(0)
}

func (m *MockLedgerTx) HasReversal(ctx context.Context, entryID string) (bool, error) {
	args := m.Called(ctx, entryID)
	return args.Bool(0), args.Error(1)
}

// fakeUnitOfWork hands the mock transaction to fn and records whether it committed.
type fakeUnitOfWork struct {
	tx        *MockLedgerTx
	calls     int
	committed int
}

func (u *fakeUnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	u.calls++
	if err := fn(ctx, u.tx); err != nil {
		return err
	}
	u.committed++
	return nil
}

var (
	_ portsrepo.EntityRepositoryFacade       = (*MockEntityRepository)(nil)
	_ portsrepo.AccountRepositoryFacade      = (*MockAccountRepository)(nil)
	_ portsrepo.PeriodRepositoryFacade       = (*MockPeriodRepository)(nil)
	_ portsrepo.JournalRepositoryFacade      = (*MockJournalRepository)(nil)
	_ portsrepo.ReportingRepository          = (*MockReportingRepository)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)
	_ portsrepo.LedgerTx                     = (*MockLedgerTx)(nil)
	_ portsrepo.UnitOfWork                   = (*fakeUnitOfWork)(nil)
)
