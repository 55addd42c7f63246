package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is an owner's named money container with a maintained balance.
//
// Invariant: after any committed ledger operation,
//
//	Balance == InitialBalance + sum(INCOME amounts) - sum(EXPENSE amounts)
//
// over all transactions referencing this wallet. Balance is only ever
// written through the ledger service; editing InitialBalance after
// transactions exist does not cascade (statements re-derive from history).
type Wallet struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"ownerId"`
	Name           string          `json:"name"`
	AccountLabel   string          `json:"accountLabel,omitempty"`
	Description    string          `json:"description,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CreateWalletRequest is the payload for POST /v1/wallets.
type CreateWalletRequest struct {
	Name           string          `json:"name"`
	AccountLabel   string          `json:"accountLabel"`
	Description    string          `json:"description"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// UpdateWalletRequest is the payload for PUT /v1/wallets/{id}.
// Nil pointers mean "leave unchanged".
type UpdateWalletRequest struct {
	Name           *string          `json:"name"`
	AccountLabel   *string          `json:"accountLabel"`
	Description    *string          `json:"description"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
}
