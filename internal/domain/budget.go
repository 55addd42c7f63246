package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending for one category in one calendar month.
// Uniqueness: (owner, category, month, year).
//
// The link between a budget and its transactions is the category string
// itself, not a foreign key. Renaming a category on transactions
// silently detaches them from the budget.
type Budget struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Category  string          `json:"category"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetSummaryItem is one row of GET /v1/budgets/summary.
// Percent is capped at 999 for display; spending itself is not limited.
type BudgetSummaryItem struct {
	Budget    Budget          `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percent"`
}

// CreateBudgetRequest is the payload for POST /v1/budgets.
type CreateBudgetRequest struct {
	Category string          `json:"category"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Amount   decimal.Decimal `json:"amount"`
}

// UpdateBudgetRequest is the payload for PUT /v1/budgets/{id}.
type UpdateBudgetRequest struct {
	Category *string          `json:"category"`
	Month    *int             `json:"month"`
	Year     *int             `json:"year"`
	Amount   *decimal.Decimal `json:"amount"`
}
