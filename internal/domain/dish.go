package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is a meal an owner cooks or orders, with its estimated cost.
// Used by the suggestion endpoint to propose meals that fit the
// remaining food budget.
type Dish struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId"`
	Name          string          `json:"name"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	Category      string          `json:"category,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CreateDishRequest is the payload for POST /v1/dishes.
type CreateDishRequest struct {
	Name          string          `json:"name"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	Category      string          `json:"category"`
	Note          string          `json:"note"`
}

// UpdateDishRequest is the payload for PUT /v1/dishes/{id}.
type UpdateDishRequest struct {
	Name          *string          `json:"name"`
	EstimatedCost *decimal.Decimal `json:"estimatedCost"`
	Category      *string          `json:"category"`
	Note          *string          `json:"note"`
}
