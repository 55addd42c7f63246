package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ledgerTx adapts one *sql.Tx to the ledger write port.
type ledgerTx struct {
	tx *sql.Tx
}

func (l *ledgerTx) GetWallet(ctx context.Context, ownerID, walletID string) (*domain.Wallet, error) {
	return getWallet(ctx, l.tx, ownerID, walletID)
}

func (l *ledgerTx) SetWalletBalance(ctx context.Context, walletID string, balance decimal.Decimal) error {
	res, err := l.tx.ExecContext(ctx,
		`UPDATE wallets SET balance = ?, updated_at = ? WHERE id = ?`,
		balance.String(), time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "wallet", ID: walletID}
	}
	return nil
}

func (l *ledgerTx) GetTransaction(ctx context.Context, ownerID, txID string) (*domain.Transaction, error) {
	return getTransaction(ctx, l.tx, ownerID, txID)
}

func (l *ledgerTx) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	_, err := l.tx.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, wallet_id, type, amount, category, date, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.WalletID, string(t.Type), t.Amount.String(),
		t.Category, t.Date.UTC(), t.Note, t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (l *ledgerTx) UpdateTransaction(ctx context.Context, t *domain.Transaction) error {
	res, err := l.tx.ExecContext(ctx,
		`UPDATE transactions SET wallet_id = ?, type = ?, amount = ?, category = ?, date = ?, note = ?
		 WHERE id = ? AND owner_id = ?`,
		t.WalletID, string(t.Type), t.Amount.String(), t.Category, t.Date.UTC(), t.Note,
		t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: t.ID}
	}
	return nil
}

func (l *ledgerTx) DeleteTransaction(ctx context.Context, txID string) error {
	res, err := l.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, txID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: txID}
	}
	return nil
}

const transactionColumns = `id, owner_id, wallet_id, type, amount, category, date, note, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var t domain.Transaction
	var typ, amount string
	if err := row.Scan(&t.ID, &t.OwnerID, &t.WalletID, &typ, &amount,
		&t.Category, &t.Date, &t.Note, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(typ)
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Amount = dec
	return &t, nil
}

func getTransaction(ctx context.Context, q querier, ownerID, txID string) (*domain.Transaction, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND owner_id = ?`,
		txID, ownerID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: txID}
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *Store) GetTransaction(ctx context.Context, ownerID, txID string) (*domain.Transaction, error) {
	return getTransaction(ctx, s.db, ownerID, txID)
}

func (s *Store) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.WalletID != "" {
		query += ` AND wallet_id = ?`
		args = append(args, filter.WalletID)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, filter.EndDate.UTC())
	}

	query += ` ORDER BY date DESC, created_at DESC`

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	return s.queryTransactions(ctx, query, args...)
}

func (s *Store) ListWalletTransactionsBefore(ctx context.Context, walletID string, cutoff time.Time) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE wallet_id = ? AND date < ?`,
		walletID, cutoff.UTC())
}

func (s *Store) ListWalletTransactionsBetween(ctx context.Context, walletID string, start, end time.Time) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE wallet_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, created_at ASC`,
		walletID, start.UTC(), end.UTC())
}

func (s *Store) ListExpensesByCategory(ctx context.Context, ownerID, category string, start, end time.Time) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE owner_id = ? AND category = ? AND type = 'EXPENSE' AND date >= ? AND date < ?`,
		ownerID, category, start.UTC(), end.UTC())
}

func (s *Store) CountWalletTransactions(ctx context.Context, walletID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE wallet_id = ?`, walletID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count wallet transactions: %w", err)
	}
	return n, nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}
