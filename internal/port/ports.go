// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/shopspring/decimal"
)

// TokenVerifier validates a bearer token issued by the external identity
// provider and returns the identity it encodes.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// MediaUploader pushes a binary object to the external object store and
// returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, bucket, objectPath, contentType string, data []byte) (string, error)
}

// LedgerTx exposes the writes available inside one atomic unit.
// All methods operate on the same underlying database transaction;
// nothing is observable until the WithTx callback returns nil.
type LedgerTx interface {
	// GetWallet fetches a wallet filtered by (id, ownerID) in a single
	// query. A wallet owned by someone else reads as absent.
	GetWallet(ctx context.Context, ownerID, walletID string) (*domain.Wallet, error)
	// SetWalletBalance writes the wallet's cached balance.
	SetWalletBalance(ctx context.Context, walletID string, balance decimal.Decimal) error
	// GetTransaction fetches a transaction filtered by (id, ownerID).
	GetTransaction(ctx context.Context, ownerID, txID string) (*domain.Transaction, error)
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error
	UpdateTransaction(ctx context.Context, tx *domain.Transaction) error
	DeleteTransaction(ctx context.Context, txID string) error
}

// LedgerStore is the persistence boundary of the balance engine.
type LedgerStore interface {
	// WithTx runs fn inside one database transaction. If fn returns an
	// error the whole unit is rolled back; otherwise it commits. This is
	// the unit of atomicity for every multi-write ledger operation.
	WithTx(ctx context.Context, fn func(tx LedgerTx) error) error

	GetTransaction(ctx context.Context, ownerID, txID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// ListWalletTransactionsBefore returns the wallet's transactions dated
	// strictly before cutoff (any order; used for balance re-derivation).
	ListWalletTransactionsBefore(ctx context.Context, walletID string, cutoff time.Time) ([]domain.Transaction, error)
	// ListWalletTransactionsBetween returns the wallet's transactions with
	// date in [start, end], ascending by date.
	ListWalletTransactionsBetween(ctx context.Context, walletID string, start, end time.Time) ([]domain.Transaction, error)
	// ListExpensesByCategory returns the owner's EXPENSE transactions with
	// date in [start, end) whose category equals category exactly.
	ListExpensesByCategory(ctx context.Context, ownerID, category string, start, end time.Time) ([]domain.Transaction, error)
	// CountWalletTransactions reports how many transactions reference a wallet.
	CountWalletTransactions(ctx context.Context, walletID string) (int, error)
}

// WalletStore persists wallets. All reads are owner-scoped.
type WalletStore interface {
	CreateWallet(ctx context.Context, w *domain.Wallet) error
	GetWallet(ctx context.Context, ownerID, walletID string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error)
	UpdateWallet(ctx context.Context, w *domain.Wallet) error
	DeleteWallet(ctx context.Context, ownerID, walletID string) error
}

// BudgetStore persists budgets.
type BudgetStore interface {
	CreateBudget(ctx context.Context, b *domain.Budget) error
	GetBudget(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, ownerID string, month, year int) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, b *domain.Budget) error
	DeleteBudget(ctx context.Context, ownerID, budgetID string) error
}

// GoalStore persists goals.
type GoalStore interface {
	CreateGoal(ctx context.Context, g *domain.Goal) error
	GetGoal(ctx context.Context, ownerID, goalID string) (*domain.Goal, error)
	ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, g *domain.Goal) error
	DeleteGoal(ctx context.Context, ownerID, goalID string) error
}

// DishStore persists dishes.
type DishStore interface {
	CreateDish(ctx context.Context, d *domain.Dish) error
	GetDish(ctx context.Context, ownerID, dishID string) (*domain.Dish, error)
	ListDishes(ctx context.Context, ownerID string) ([]domain.Dish, error)
	UpdateDish(ctx context.Context, d *domain.Dish) error
	DeleteDish(ctx context.Context, ownerID, dishID string) error
}

// UserStore persists user profiles keyed by external identity id.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpsertUser(ctx context.Context, u *domain.User) error
}
