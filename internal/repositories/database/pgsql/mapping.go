package pgsql

import (
	"database/sql"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

func toModelAudit(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func toDomainAudit(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt.UTC(),
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt.UTC(),
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return nullString(*s)
}

func toDomainEntity(m models.Entity) domain.Entity {
	return domain.Entity{
		EntityID:     m.EntityID,
		Name:         m.Name,
		BaseCurrency: m.BaseCurrency,
		IsActive:     m.IsActive,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		EntityID:        d.EntityID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		ParentAccountID: nullString(d.ParentAccountID),
		Description:     d.Description,
		IsActive:        d.IsActive,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		EntityID:        m.EntityID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID.String,
		Description:     m.Description,
		IsActive:        m.IsActive,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

func toDomainPeriod(m models.Period) domain.Period {
	return domain.Period{
		PeriodID:    m.PeriodID,
		EntityID:    m.EntityID,
		Name:        m.Name,
		StartDate:   domain.TruncateToDay(m.StartDate),
		EndDate:     domain.TruncateToDay(m.EndDate),
		Status:      domain.PeriodStatus(m.Status),
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

func toModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:           d.EntryID,
		EntityID:          d.EntityID,
		PeriodID:          d.PeriodID,
		EntryDate:         d.EntryDate,
		Description:       d.Description,
		SourceModule:      d.SourceModule,
		SourceID:          d.SourceID,
		Status:            string(d.Status),
		ApprovedBy:        nullStringPtr(d.ApprovedBy),
		ReversalOfEntryID: nullStringPtr(d.ReversalOfEntryID),
		Annotation:        d.Annotation,
		AuditFields:       toModelAudit(d.AuditFields),
	}
	if d.ApprovedAt != nil {
		m.ApprovedAt = sql.NullTime{Time: *d.ApprovedAt, Valid: true}
	}
	return m
}

func toDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:      m.EntryID,
		EntityID:     m.EntityID,
		PeriodID:     m.PeriodID,
		EntryDate:    domain.TruncateToDay(m.EntryDate),
		Description:  m.Description,
		SourceModule: m.SourceModule,
		SourceID:     m.SourceID,
		Status:       domain.EntryStatus(m.Status),
		Annotation:   m.Annotation,
		Lines:        []domain.JournalLine{},
		AuditFields:  toDomainAudit(m.AuditFields),
	}
	if m.ApprovedBy.Valid {
		by := m.ApprovedBy.String
		d.ApprovedBy = &by
	}
	if m.ApprovedAt.Valid {
		at := m.ApprovedAt.Time.UTC()
		d.ApprovedAt = &at
	}
	if m.ReversalOfEntryID.Valid {
		id := m.ReversalOfEntryID.String
		d.ReversalOfEntryID = &id
	}
	return d
}

func toModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		LineNo:       d.LineNo,
		Side:         string(d.Side),
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		ExchangeRate: d.ExchangeRate,
		BaseAmount:   d.BaseAmount,
		Memo:         d.Memo,
	}
}

func toDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		LineNo:       m.LineNo,
		Side:         domain.Side(m.Side),
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		ExchangeRate: m.ExchangeRate,
		BaseAmount:   m.BaseAmount,
		Memo:         m.Memo,
	}
}

func toDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:   m.ExchangeRateID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		DateEffective:    m.DateEffective,
		AuditFields:      toDomainAudit(m.AuditFields),
	}
}
