// Package integration exercises the full stack end to end: router,
// auth middleware, services and the SQLite store, over httptest.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/handler"
	"github.com/fintrack-app/fintrack-api/internal/infra/cache"
	"github.com/fintrack-app/fintrack-api/internal/infra/identity"
	"github.com/fintrack-app/fintrack-api/internal/infra/observability"
	"github.com/fintrack-app/fintrack-api/internal/infra/sqlite"
	"github.com/fintrack-app/fintrack-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	secret = "integration-secret"
	issuer = "fintrack-idp"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	server *httptest.Server
	token  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	users := service.NewUserService(store, cache.New[*domain.User](time.Minute), nil, "avatars", metrics, logger)
	budgets := service.NewBudgetService(store, store, logger)

	router := handler.NewRouter(handler.Services{
		Ledger:     service.NewLedgerService(store, metrics, logger),
		Statements: service.NewStatementService(store, store, logger),
		Wallets:    service.NewWalletService(store, store, logger),
		Budgets:    budgets,
		Goals:      service.NewGoalService(store, logger),
		Dishes:     service.NewDishService(store, budgets, logger),
		Users:      users,
		Health:     service.NewHealthService(store, metrics),
		Verifier:   identity.NewVerifier(secret, issuer),
	}, metrics, []string{"*"}, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	token, err := identity.MintToken(secret, issuer, "owner-1", "ana@example.com", time.Hour)
	require.NoError(t, err)

	return &env{server: server, token: token}
}

func (e *env) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
		}
	}
	return resp.StatusCode
}

func (e *env) createWallet(t *testing.T, initial string) domain.Wallet {
	t.Helper()
	var w domain.Wallet
	code := e.do(t, http.MethodPost, "/v1/wallets", map[string]any{
		"name":           "Checking",
		"initialBalance": initial,
	}, &w)
	require.Equal(t, http.StatusCreated, code)
	return w
}

func (e *env) getWallet(t *testing.T, id string) domain.Wallet {
	t.Helper()
	var w domain.Wallet
	code := e.do(t, http.MethodGet, "/v1/wallets/"+id, nil, &w)
	require.Equal(t, http.StatusOK, code)
	return w
}

func (e *env) createTransaction(t *testing.T, walletID, typ, amount, category, date string) domain.Transaction {
	t.Helper()
	var tx domain.Transaction
	code := e.do(t, http.MethodPost, "/v1/transactions", map[string]any{
		"walletId": walletID,
		"type":     typ,
		"amount":   amount,
		"category": category,
		"date":     date,
	}, &tx)
	require.Equal(t, http.StatusCreated, code)
	return tx
}

func TestStatementScenario(t *testing.T) {
	e := newEnv(t)
	w := e.createWallet(t, "1000")

	a := e.createTransaction(t, w.ID, "INCOME", "500", "salary", "2025-01-05")
	b := e.createTransaction(t, w.ID, "EXPENSE", "200", "food", "2025-01-10")

	var st domain.Statement
	code := e.do(t, http.MethodGet,
		fmt.Sprintf("/v1/transactions/statement?walletId=%s&startDate=2025-01-01&endDate=2025-01-31", w.ID),
		nil, &st)
	require.Equal(t, http.StatusOK, code)

	assert.True(t, st.StartBalance.Equal(dec("1000")))
	assert.True(t, st.EndBalance.Equal(dec("1300")))
	assert.True(t, st.TotalIncome.Equal(dec("500")))
	assert.True(t, st.TotalExpense.Equal(dec("200")))
	require.Len(t, st.Transactions, 2)
	assert.Equal(t, a.ID, st.Transactions[0].ID)
	assert.Equal(t, b.ID, st.Transactions[1].ID)
}

func TestInsufficientFundsLeavesBalanceUntouched(t *testing.T) {
	e := newEnv(t)
	w := e.createWallet(t, "500")

	var resp map[string]string
	code := e.do(t, http.MethodPost, "/v1/transactions", map[string]any{
		"walletId": w.ID,
		"type":     "EXPENSE",
		"amount":   "600",
		"category": "rent",
	}, &resp)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "insufficient funds")

	after := e.getWallet(t, w.ID)
	assert.True(t, after.Balance.Equal(dec("500")))

	var txs []domain.Transaction
	code = e.do(t, http.MethodGet, "/v1/transactions?walletId="+w.ID, nil, &txs)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, txs)
}

func TestCreateDeleteRoundTrip(t *testing.T) {
	e := newEnv(t)
	w := e.createWallet(t, "250.75")
	tx := e.createTransaction(t, w.ID, "EXPENSE", "100.25", "food", "")

	assert.True(t, e.getWallet(t, w.ID).Balance.Equal(dec("150.50")))

	code := e.do(t, http.MethodDelete, "/v1/transactions/"+tx.ID, nil, nil)
	require.Equal(t, http.StatusOK, code)

	assert.True(t, e.getWallet(t, w.ID).Balance.Equal(dec("250.75")))
}

func TestMoveTransactionBetweenWallets(t *testing.T) {
	e := newEnv(t)
	a := e.createWallet(t, "0")
	b := e.createWallet(t, "0")
	tx := e.createTransaction(t, a.ID, "INCOME", "100", "salary", "")

	var updated domain.Transaction
	code := e.do(t, http.MethodPut, "/v1/transactions/"+tx.ID, map[string]any{
		"walletId": b.ID,
	}, &updated)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, b.ID, updated.WalletID)
	assert.True(t, e.getWallet(t, a.ID).Balance.Equal(dec("0")))
	assert.True(t, e.getWallet(t, b.ID).Balance.Equal(dec("100")))
}

func TestBudgetSummaryOverHTTP(t *testing.T) {
	e := newEnv(t)
	w := e.createWallet(t, "10000")

	code := e.do(t, http.MethodPost, "/v1/budgets", map[string]any{
		"category": "food", "month": 1, "year": 2025, "amount": "300",
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	e.createTransaction(t, w.ID, "EXPENSE", "150", "food", "2025-01-08")

	var items []domain.BudgetSummaryItem
	code = e.do(t, http.MethodGet, "/v1/budgets/summary?month=1&year=2025", nil, &items)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, items, 1)
	assert.True(t, items[0].Spent.Equal(dec("150")))
	assert.True(t, items[0].Percent.Equal(dec("50")))
}

func TestWalletDeletePolicy(t *testing.T) {
	e := newEnv(t)
	w := e.createWallet(t, "100")
	tx := e.createTransaction(t, w.ID, "INCOME", "10", "misc", "")

	code := e.do(t, http.MethodDelete, "/v1/wallets/"+w.ID, nil, nil)
	assert.Equal(t, http.StatusConflict, code)

	code = e.do(t, http.MethodDelete, "/v1/transactions/"+tx.ID, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code = e.do(t, http.MethodDelete, "/v1/wallets/"+w.ID, nil, nil)
	assert.Equal(t, http.StatusOK, code)
}
