package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestWallet(t *testing.T, s *Store, ownerID string, initial string) *domain.Wallet {
	t.Helper()
	now := time.Now().UTC()
	bal := decimal.RequireFromString(initial)
	w := &domain.Wallet{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           "Checking",
		Balance:        bal,
		InitialBalance: bal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, s.CreateWallet(context.Background(), w))
	return w
}

func insertTx(t *testing.T, s *Store, w *domain.Wallet, typ domain.TransactionType, amount, category string, date time.Time) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		ID:        uuid.NewString(),
		OwnerID:   w.OwnerID,
		WalletID:  w.ID,
		Type:      typ,
		Amount:    decimal.RequireFromString(amount),
		Category:  category,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.WithTx(context.Background(), func(ltx port.LedgerTx) error {
		return ltx.InsertTransaction(context.Background(), tx)
	}))
	return tx
}

func TestWalletRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := newTestWallet(t, s, "owner-1", "1000")

	got, err := s.GetWallet(ctx, "owner-1", w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1000")))

	// Another owner must not see it.
	_, err = s.GetWallet(ctx, "owner-2", w.ID)
	var notFound *domain.ErrNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestWithTxCommitIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	w := newTestWallet(t, s, "owner-1", "1000")

	err := s.WithTx(ctx, func(ltx port.LedgerTx) error {
		tx := &domain.Transaction{
			ID: uuid.NewString(), OwnerID: "owner-1", WalletID: w.ID,
			Type: domain.TransactionIncome, Amount: decimal.RequireFromString("250"),
			Date: time.Now().UTC(), CreatedAt: time.Now().UTC(),
		}
		if err := ltx.InsertTransaction(ctx, tx); err != nil {
			return err
		}
		return ltx.SetWalletBalance(ctx, w.ID, decimal.RequireFromString("1250"))
	})
	require.NoError(t, err)

	got, err := s.GetWallet(ctx, "owner-1", w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1250")))

	n, err := s.CountWalletTransactions(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWithTxRollbackLeavesNoTrace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	w := newTestWallet(t, s, "owner-1", "1000")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ltx port.LedgerTx) error {
		tx := &domain.Transaction{
			ID: uuid.NewString(), OwnerID: "owner-1", WalletID: w.ID,
			Type: domain.TransactionExpense, Amount: decimal.RequireFromString("100"),
			Date: time.Now().UTC(), CreatedAt: time.Now().UTC(),
		}
		if err := ltx.InsertTransaction(ctx, tx); err != nil {
			return err
		}
		if err := ltx.SetWalletBalance(ctx, w.ID, decimal.RequireFromString("900")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetWallet(ctx, "owner-1", w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1000")), "balance must be untouched after rollback")

	n, err := s.CountWalletTransactions(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "inserted transaction must be rolled back")
}

func TestListTransactionsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	w := newTestWallet(t, s, "owner-1", "0")

	jan5 := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	insertTx(t, s, w, domain.TransactionIncome, "500", "salary", jan5)
	insertTx(t, s, w, domain.TransactionExpense, "200", "food", jan10)
	insertTx(t, s, w, domain.TransactionExpense, "50", "food", feb1)

	byType, err := s.ListTransactions(ctx, "owner-1", domain.TransactionFilter{Type: domain.TransactionExpense})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	end := jan10
	byRange, err := s.ListTransactions(ctx, "owner-1", domain.TransactionFilter{EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)

	byCategory, err := s.ListTransactions(ctx, "owner-1", domain.TransactionFilter{Category: "salary"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	paged, err := s.ListTransactions(ctx, "owner-1", domain.TransactionFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 2)
	// Newest first.
	assert.True(t, paged[0].Date.After(paged[1].Date))
}

func TestWindowQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	w := newTestWallet(t, s, "owner-1", "0")

	dec20 := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	jan5 := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	insertTx(t, s, w, domain.TransactionExpense, "30", "food", dec20)
	insertTx(t, s, w, domain.TransactionIncome, "500", "salary", jan5)
	insertTx(t, s, w, domain.TransactionExpense, "200", "food", jan10)

	before, err := s.ListWalletTransactionsBefore(ctx, w.ID, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, before, 1)

	between, err := s.ListWalletTransactionsBetween(ctx, w.ID,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.True(t, between[0].Date.Before(between[1].Date), "window listing is ascending")

	expenses, err := s.ListExpensesByCategory(ctx, "owner-1", "food",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

// A memory database must stay visible to every pooled connection, so
// concurrent reads may never land on a connection without the schema.
func TestMemoryStoreServesConcurrentReads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	w := newTestWallet(t, s, "owner-1", "500")
	insertTx(t, s, w, domain.TransactionExpense, "25", "food", time.Now().UTC())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txs, err := s.ListTransactions(ctx, "owner-1", domain.TransactionFilter{})
			if err == nil && len(txs) != 1 {
				err = errors.New("expected one transaction")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestBudgetUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	b := &domain.Budget{
		ID: uuid.NewString(), OwnerID: "owner-1", Category: "food",
		Month: 1, Year: 2025, Amount: decimal.RequireFromString("300"),
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateBudget(ctx, b))

	dup := &domain.Budget{
		ID: uuid.NewString(), OwnerID: "owner-1", Category: "food",
		Month: 1, Year: 2025, Amount: decimal.RequireFromString("400"),
		CreatedAt: now, UpdatedAt: now,
	}
	err := s.CreateBudget(ctx, dup)
	var conflict *domain.ErrConflict
	assert.True(t, errors.As(err, &conflict))

	// Same category in a different month is fine.
	other := &domain.Budget{
		ID: uuid.NewString(), OwnerID: "owner-1", Category: "food",
		Month: 2, Year: 2025, Amount: decimal.RequireFromString("300"),
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateBudget(ctx, other))

	forJan, err := s.ListBudgets(ctx, "owner-1", 1, 2025)
	require.NoError(t, err)
	assert.Len(t, forJan, 1)
}

func TestUserUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u := &domain.User{ID: "owner-1", Email: "ana@example.com", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.UpsertUser(ctx, u))

	u.Name = "Ana"
	u.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, s.UpsertUser(ctx, u))

	got, err := s.GetUser(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@example.com", got.Email)
}

func TestGoalAndDishScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	g := &domain.Goal{
		ID: uuid.NewString(), OwnerID: "owner-1", Name: "Trip",
		TargetAmount: decimal.RequireFromString("2000"), CurrentAmount: decimal.Zero,
		Deadline: now.AddDate(0, 6, 0), Status: domain.GoalActive,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateGoal(ctx, g))

	d := &domain.Dish{
		ID: uuid.NewString(), OwnerID: "owner-1", Name: "Pasta",
		EstimatedCost: decimal.RequireFromString("12.50"), CreatedAt: now,
	}
	require.NoError(t, s.CreateDish(ctx, d))

	var notFound *domain.ErrNotFound
	_, err := s.GetGoal(ctx, "owner-2", g.ID)
	assert.True(t, errors.As(err, &notFound))
	_, err = s.GetDish(ctx, "owner-2", d.ID)
	assert.True(t, errors.As(err, &notFound))

	require.NoError(t, s.DeleteGoal(ctx, "owner-1", g.ID))
	err = s.DeleteGoal(ctx, "owner-1", g.ID)
	assert.True(t, errors.As(err, &notFound))
}
