package services

import (
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
)

// NewServiceContainer wires every service against one repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Entity:       NewEntityService(repos.EntityRepo, options...),
		Account:      NewAccountService(repos.AccountRepo, repos.EntityRepo, options...),
		Period:       NewPeriodService(repos.PeriodRepo, repos.EntityRepo, repos.UnitOfWork, options...),
		Ledger:       NewLedgerService(repos.UnitOfWork, repos.JournalRepo, repos.EntityRepo, repos.RateRepo, options...),
		Reporting:    NewReportingService(repos.ReportingRepo, repos.EntityRepo, options...),
		ExchangeRate: NewExchangeRateService(repos.RateRepo, options...),
	}
}
