package domain

import "time"

// PeriodStatus is the lifecycle state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// IsValid reports whether s is a known period status.
func (s PeriodStatus) IsValid() bool {
	return s == PeriodOpen || s == PeriodClosed || s == PeriodLocked
}

// CanTransitionTo allows only the forward steps OPEN->CLOSED and CLOSED->LOCKED.
func (s PeriodStatus) CanTransitionTo(target PeriodStatus) bool {
	switch s {
	case PeriodOpen:
		return target == PeriodClosed
	case PeriodClosed:
		return target == PeriodLocked
	default:
		return false
	}
}

// Period is a reporting window for one entity.
type Period struct {
	PeriodID  string       `json:"periodID"`
	EntityID  string       `json:"entityID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"` // inclusive
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// IsEditable is true iff the period accepts postings.
func (p Period) IsEditable() bool {
	return p.Status == PeriodOpen
}

// Contains reports whether date falls within [StartDate, EndDate], compared by calendar day.
func (p Period) Contains(date time.Time) bool {
	d := TruncateToDay(date)
	return !d.Before(TruncateToDay(p.StartDate)) && !d.After(TruncateToDay(p.EndDate))
}

// TruncateToDay drops the time-of-day component in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
