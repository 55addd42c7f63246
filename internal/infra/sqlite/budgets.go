package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/shopspring/decimal"
)

const budgetColumns = `id, owner_id, category, month, year, amount, created_at, updated_at`

func scanBudget(row interface{ Scan(...any) error }) (*domain.Budget, error) {
	var b domain.Budget
	var amount string
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Category, &b.Month, &b.Year,
		&amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *domain.Budget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.OwnerID, b.Category, b.Month, b.Year,
		b.Amount.String(), b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ErrConflict{Message: fmt.Sprintf(
				"budget for category %q already exists for %d/%d", b.Category, b.Month, b.Year)}
		}
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (s *Store) GetBudget(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND owner_id = ?`,
		budgetID, ownerID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "budget", ID: budgetID}
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, ownerID string, month, year int) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE owner_id = ?`
	args := []any{ownerID}
	if month > 0 {
		query += ` AND month = ?`
		args = append(args, month)
	}
	if year > 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY year DESC, month DESC, category ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *Store) UpdateBudget(ctx context.Context, b *domain.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, month = ?, year = ?, amount = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		b.Category, b.Month, b.Year, b.Amount.String(), b.UpdatedAt.UTC(), b.ID, b.OwnerID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ErrConflict{Message: fmt.Sprintf(
				"budget for category %q already exists for %d/%d", b.Category, b.Month, b.Year)}
		}
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "budget", ID: b.ID}
	}
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, ownerID, budgetID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND owner_id = ?`, budgetID, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "budget", ID: budgetID}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
