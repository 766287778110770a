package models

import "database/sql"

// Entity is the row shape of the entities table.
type Entity struct {
	EntityID     string `db:"entity_id"`
	Name         string `db:"name"`
	BaseCurrency string `db:"base_currency"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// Account is the row shape of the accounts table.
type Account struct {
	AccountID       string         `db:"account_id"`
	EntityID        string         `db:"entity_id"`
	Code            string         `db:"code"`
	Name            string         `db:"name"`
	AccountType     string         `db:"account_type"`
	ParentAccountID sql.NullString `db:"parent_account_id"`
	Description     string         `db:"description"`
	IsActive        bool           `db:"is_active"`
	AuditFields
}
