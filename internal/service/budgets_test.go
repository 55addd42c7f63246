package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBudgetService(env *testEnv) *BudgetService {
	return NewBudgetService(env.store, env.store, zap.NewNop())
}

func TestBudgetCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newBudgetService(env)
	ctx := context.Background()

	cases := []domain.CreateBudgetRequest{
		{Category: "", Month: 1, Year: 2025, Amount: dec("100")},
		{Category: "food", Month: 0, Year: 2025, Amount: dec("100")},
		{Category: "food", Month: 13, Year: 2025, Amount: dec("100")},
		{Category: "food", Month: 1, Year: 1800, Amount: dec("100")},
		{Category: "food", Month: 1, Year: 2025, Amount: dec("0")},
	}
	for _, req := range cases {
		_, err := svc.CreateBudget(ctx, testOwner, req)
		var validation *domain.ErrValidation
		assert.True(t, errors.As(err, &validation))
	}
}

func TestBudgetDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	svc := newBudgetService(env)
	ctx := context.Background()

	req := domain.CreateBudgetRequest{Category: "food", Month: 1, Year: 2025, Amount: dec("300")}
	_, err := svc.CreateBudget(ctx, testOwner, req)
	require.NoError(t, err)

	_, err = svc.CreateBudget(ctx, testOwner, req)
	var conflict *domain.ErrConflict
	assert.True(t, errors.As(err, &conflict))
}

func TestBudgetSummaryMonthBoundaries(t *testing.T) {
	env := newTestEnv(t)
	svc := newBudgetService(env)
	ctx := context.Background()
	w := env.createWallet(t, "10000")

	_, err := svc.CreateBudget(ctx, testOwner, domain.CreateBudgetRequest{Category: "food", Month: 1, Year: 2025, Amount: dec("300")})
	require.NoError(t, err)

	// The last instant of January counts, including fractional seconds.
	env.createTx(t, w.ID, domain.TransactionExpense, "100", "food", "2025-01-31T23:59:59.5Z")
	// Midnight on February 1st belongs to the next month.
	env.createTx(t, w.ID, domain.TransactionExpense, "40", "food", "2025-02-01T00:00:00Z")

	items, err := svc.BudgetSummary(ctx, testOwner, 1, 2025)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Spent.Equal(dec("100")))
}

func TestBudgetSummary(t *testing.T) {
	env := newTestEnv(t)
	svc := newBudgetService(env)
	ctx := context.Background()
	w := env.createWallet(t, "10000")

	_, err := svc.CreateBudget(ctx, testOwner, domain.CreateBudgetRequest{Category: "food", Month: 1, Year: 2025, Amount: dec("300")})
	require.NoError(t, err)
	_, err = svc.CreateBudget(ctx, testOwner, domain.CreateBudgetRequest{Category: "transport", Month: 1, Year: 2025, Amount: dec("100")})
	require.NoError(t, err)

	env.createTx(t, w.ID, domain.TransactionExpense, "120", "food", "2025-01-08")
	env.createTx(t, w.ID, domain.TransactionExpense, "30", "food", "2025-01-20")
	// Different month and different category stay out of the sums.
	env.createTx(t, w.ID, domain.TransactionExpense, "999", "food", "2025-02-01")
	env.createTx(t, w.ID, domain.TransactionIncome, "50", "food", "2025-01-15")

	items, err := svc.BudgetSummary(ctx, testOwner, 1, 2025)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byCategory := map[string]domain.BudgetSummaryItem{}
	for _, it := range items {
		byCategory[it.Budget.Category] = it
	}

	food := byCategory["food"]
	assert.True(t, food.Spent.Equal(dec("150")))
	assert.True(t, food.Remaining.Equal(dec("150")))
	assert.True(t, food.Percent.Equal(dec("50")))

	transport := byCategory["transport"]
	assert.True(t, transport.Spent.Equal(dec("0")))
	assert.True(t, transport.Percent.Equal(dec("0")))
}

func TestBudgetSummaryPercentCapped(t *testing.T) {
	env := newTestEnv(t)
	svc := newBudgetService(env)
	ctx := context.Background()
	w := env.createWallet(t, "100000")

	_, err := svc.CreateBudget(ctx, testOwner, domain.CreateBudgetRequest{Category: "food", Month: 1, Year: 2025, Amount: dec("10")})
	require.NoError(t, err)
	env.createTx(t, w.ID, domain.TransactionExpense, "5000", "food", "2025-01-10")

	items, err := svc.BudgetSummary(ctx, testOwner, 1, 2025)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Percent.Equal(dec("999")), "display percent is capped")
	assert.True(t, items[0].Remaining.Equal(dec("-4990")), "remaining may go negative")
}

func TestSpendPercent(t *testing.T) {
	assert.True(t, spendPercent(dec("50"), dec("200")).Equal(dec("25")))
	assert.True(t, spendPercent(dec("0"), dec("200")).Equal(dec("0")))
	assert.True(t, spendPercent(dec("1"), dec("0")).Equal(dec("999")))
	assert.True(t, spendPercent(dec("0"), dec("0")).Equal(dec("0")))
}
