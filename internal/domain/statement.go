package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a derived report of balance and totals over a date range
// for one wallet. StartBalance is re-derived from the wallet's initial
// balance plus pre-period history rather than trusting the cached balance,
// so it stays correct even when initialBalance was edited after
// transactions existed.
type Statement struct {
	WalletID     string          `json:"walletId"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	StartBalance decimal.Decimal `json:"startBalance"`
	EndBalance   decimal.Decimal `json:"endBalance"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Transactions []Transaction   `json:"transactions"`
}
