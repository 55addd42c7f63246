package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStatementService(env *testEnv) *StatementService {
	return NewStatementService(env.store, env.store, zap.NewNop())
}

func TestBuildStatementScenario(t *testing.T) {
	env := newTestEnv(t)
	svc := newStatementService(env)
	w := env.createWallet(t, "1000")

	a := env.createTx(t, w.ID, domain.TransactionIncome, "500", "salary", "2025-01-05")
	b := env.createTx(t, w.ID, domain.TransactionExpense, "200", "food", "2025-01-10")

	st, err := svc.BuildStatement(context.Background(), testOwner, w.ID,
		utcDate(2025, time.January, 1), utcDate(2025, time.January, 31))
	require.NoError(t, err)

	assert.True(t, st.StartBalance.Equal(dec("1000")))
	assert.True(t, st.EndBalance.Equal(dec("1300")))
	assert.True(t, st.TotalIncome.Equal(dec("500")))
	assert.True(t, st.TotalExpense.Equal(dec("200")))
	require.Len(t, st.Transactions, 2)
	assert.Equal(t, a.ID, st.Transactions[0].ID)
	assert.Equal(t, b.ID, st.Transactions[1].ID)
}

func TestBuildStatementPrePeriodRederivation(t *testing.T) {
	env := newTestEnv(t)
	svc := newStatementService(env)
	w := env.createWallet(t, "1000")

	env.createTx(t, w.ID, domain.TransactionExpense, "300", "rent", "2024-12-20")
	env.createTx(t, w.ID, domain.TransactionIncome, "100", "salary", "2025-01-15")

	st, err := svc.BuildStatement(context.Background(), testOwner, w.ID,
		utcDate(2025, time.January, 1), utcDate(2025, time.January, 31))
	require.NoError(t, err)

	// December's expense lands in the pre-period balance, not the window.
	assert.True(t, st.StartBalance.Equal(dec("700")))
	assert.True(t, st.EndBalance.Equal(dec("800")))
	assert.Len(t, st.Transactions, 1)
}

func TestBuildStatementToleratesInitialBalanceDrift(t *testing.T) {
	env := newTestEnv(t)
	svc := newStatementService(env)
	w := env.createWallet(t, "1000")
	env.createTx(t, w.ID, domain.TransactionIncome, "500", "salary", "2025-01-05")

	// Edit initialBalance after the fact; cached balance stays at 1500.
	newInitial := dec("2000")
	_, err := env.wallets.UpdateWallet(context.Background(), testOwner, w.ID,
		domain.UpdateWalletRequest{InitialBalance: &newInitial})
	require.NoError(t, err)

	st, err := svc.BuildStatement(context.Background(), testOwner, w.ID,
		utcDate(2025, time.January, 1), utcDate(2025, time.January, 31))
	require.NoError(t, err)

	// Statement re-derives from the edited initialBalance plus history.
	assert.True(t, st.StartBalance.Equal(dec("2000")))
	assert.True(t, st.EndBalance.Equal(dec("2500")))
	assert.True(t, env.balance(t, w.ID).Equal(dec("1500")), "cached balance is deliberately untouched")
}

func TestBuildStatementIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := newStatementService(env)
	w := env.createWallet(t, "1000")
	env.createTx(t, w.ID, domain.TransactionIncome, "500", "salary", "2025-01-05")

	start, end := utcDate(2025, time.January, 1), utcDate(2025, time.January, 31)
	first, err := svc.BuildStatement(context.Background(), testOwner, w.ID, start, end)
	require.NoError(t, err)
	second, err := svc.BuildStatement(context.Background(), testOwner, w.ID, start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildStatementUnknownWallet(t *testing.T) {
	env := newTestEnv(t)
	svc := newStatementService(env)

	_, err := svc.BuildStatement(context.Background(), testOwner, "missing",
		utcDate(2025, time.January, 1), utcDate(2025, time.January, 31))
	var notFound *domain.ErrNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestBuildStatementInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	svc := newStatementService(env)
	w := env.createWallet(t, "0")

	_, err := svc.BuildStatement(context.Background(), testOwner, w.ID,
		utcDate(2025, time.January, 31), utcDate(2025, time.January, 1))
	var validation *domain.ErrValidation
	assert.True(t, errors.As(err, &validation))
}
