package domain

// Entity is a legal entity keeping its own books in a single base currency.
type Entity struct {
	EntityID     string `json:"entityID"`
	Name         string `json:"name"`
	BaseCurrency string `json:"baseCurrency"` // ISO-4217, e.g. "USD"
	IsActive     bool   `json:"isActive"`
	AuditFields
}
