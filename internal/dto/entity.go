package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreateEntityRequest defines the data needed to register a legal entity.
type CreateEntityRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	BaseCurrency string `json:"baseCurrency" binding:"required,iso4217"`
}

// EntityResponse defines the data returned for an entity.
type EntityResponse struct {
	EntityID     string    `json:"entityID"`
	Name         string    `json:"name"`
	BaseCurrency string    `json:"baseCurrency"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToEntityResponse converts a domain.Entity to EntityResponse DTO
func ToEntityResponse(e *domain.Entity) EntityResponse {
	return EntityResponse{
		EntityID:     e.EntityID,
		Name:         e.Name,
		BaseCurrency: e.BaseCurrency,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}
