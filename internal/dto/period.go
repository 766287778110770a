package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to open a new accounting period.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"max=100"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// TransitionPeriodRequest asks for a lifecycle move.
type TransitionPeriodRequest struct {
	Status domain.PeriodStatus `json:"status" binding:"required,oneof=OPEN CLOSED LOCKED"`
}

// PeriodResponse defines the data returned for a period.
type PeriodResponse struct {
	PeriodID      string              `json:"periodID"`
	EntityID      string              `json:"entityID"`
	Name          string              `json:"name"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	Status        domain.PeriodStatus `json:"status"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// EditableResponse answers whether a period accepts postings.
type EditableResponse struct {
	PeriodID string `json:"periodID"`
	Editable bool   `json:"editable"`
}

// ToPeriodResponse converts a domain.Period to PeriodResponse DTO
func ToPeriodResponse(p *domain.Period) PeriodResponse {
	return PeriodResponse{
		PeriodID:      p.PeriodID,
		EntityID:      p.EntityID,
		Name:          p.Name,
		StartDate:     p.StartDate.Format(DateLayout),
		EndDate:       p.EndDate.Format(DateLayout),
		Status:        p.Status,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToPeriodResponses converts a slice of domain.Period to []PeriodResponse.
func ToPeriodResponses(periods []domain.Period) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}
