package service

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/infra/observability"
	"github.com/fintrack-app/fintrack-api/internal/infra/sqlite"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testOwner = "owner-1"

type testEnv struct {
	store   *sqlite.Store
	metrics *observability.Metrics
	ledger  *LedgerService
	wallets *WalletService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	return &testEnv{
		store:   store,
		metrics: metrics,
		ledger:  NewLedgerService(store, metrics, logger),
		wallets: NewWalletService(store, store, logger),
	}
}

func (e *testEnv) createWallet(t *testing.T, initial string) *domain.Wallet {
	t.Helper()
	w, err := e.wallets.CreateWallet(context.Background(), testOwner, domain.CreateWalletRequest{
		Name:           "Checking",
		InitialBalance: decimal.RequireFromString(initial),
	})
	require.NoError(t, err)
	return w
}

func (e *testEnv) balance(t *testing.T, walletID string) decimal.Decimal {
	t.Helper()
	w, err := e.store.GetWallet(context.Background(), testOwner, walletID)
	require.NoError(t, err)
	return w.Balance
}

func (e *testEnv) createTx(t *testing.T, walletID string, typ domain.TransactionType, amount, category, date string) *domain.Transaction {
	t.Helper()
	tx, err := e.ledger.CreateTransaction(context.Background(), testOwner, domain.CreateTransactionRequest{
		WalletID: walletID,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	})
	require.NoError(t, err)
	return tx
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
