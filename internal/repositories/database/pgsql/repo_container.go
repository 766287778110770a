package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntityRepo:    newPgxEntityRepository(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		PeriodRepo:    newPgxPeriodRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
		RateRepo:      newPgxExchangeRateRepository(dbPool),
		UnitOfWork:    newPgxUnitOfWork(dbPool),
	}
}
