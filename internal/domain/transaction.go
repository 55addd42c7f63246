package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is a closed two-value enum.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the persisted transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single dated INCOME or EXPENSE event affecting exactly
// one wallet's balance. Its existence contributes +Amount (INCOME) or
// -Amount (EXPENSE) to the wallet balance, exactly once, for as long as it
// exists unmodified.
type Transaction struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	WalletID  string          `json:"walletId"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SignedAmount returns the transaction's contribution to its wallet balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CreateTransactionRequest is the payload for POST /v1/transactions.
// Date accepts RFC3339 or YYYY-MM-DD; empty defaults to the current time.
type CreateTransactionRequest struct {
	WalletID string          `json:"walletId"`
	Type     TransactionType `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Note     string          `json:"note"`
}

// UpdateTransactionRequest is the payload for PUT /v1/transactions/{id}.
// Nil pointers mean "keep the existing value".
type UpdateTransactionRequest struct {
	WalletID *string          `json:"walletId"`
	Type     *TransactionType `json:"type"`
	Amount   *decimal.Decimal `json:"amount"`
	Category *string          `json:"category"`
	Date     *string          `json:"date"`
	Note     *string          `json:"note"`
}

// TransactionFilter narrows list queries.
type TransactionFilter struct {
	WalletID  string
	Type      TransactionType
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
