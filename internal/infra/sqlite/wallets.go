package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/shopspring/decimal"
)

const walletColumns = `id, owner_id, name, account_label, description, balance, initial_balance, created_at, updated_at`

func scanWallet(row interface{ Scan(...any) error }) (*domain.Wallet, error) {
	var w domain.Wallet
	var balance, initial string
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.AccountLabel, &w.Description,
		&balance, &initial, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if w.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	if w.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return nil, fmt.Errorf("parse initial balance %q: %w", initial, err)
	}
	return &w, nil
}

func getWallet(ctx context.Context, q querier, ownerID, walletID string) (*domain.Wallet, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = ? AND owner_id = ?`,
		walletID, ownerID)
	w, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "wallet", ID: walletID}
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (s *Store) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wallets (`+walletColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.OwnerID, w.Name, w.AccountLabel, w.Description,
		w.Balance.String(), w.InitialBalance.String(), w.CreatedAt.UTC(), w.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

func (s *Store) GetWallet(ctx context.Context, ownerID, walletID string) (*domain.Wallet, error) {
	return getWallet(ctx, s.db, ownerID, walletID)
}

func (s *Store) ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE owner_id = ? ORDER BY created_at ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]domain.Wallet, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

func (s *Store) UpdateWallet(ctx context.Context, w *domain.Wallet) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE wallets SET name = ?, account_label = ?, description = ?, balance = ?, initial_balance = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		w.Name, w.AccountLabel, w.Description, w.Balance.String(), w.InitialBalance.String(),
		w.UpdatedAt.UTC(), w.ID, w.OwnerID)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "wallet", ID: w.ID}
	}
	return nil
}

func (s *Store) DeleteWallet(ctx context.Context, ownerID, walletID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM wallets WHERE id = ? AND owner_id = ?`, walletID, ownerID)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
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
