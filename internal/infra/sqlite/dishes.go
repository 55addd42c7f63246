package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/shopspring/decimal"
)

const dishColumns = `id, owner_id, name, estimated_cost, category, note, created_at`

func scanDish(row interface{ Scan(...any) error }) (*domain.Dish, error) {
	var d domain.Dish
	var cost string
	if err := row.Scan(&d.ID, &d.OwnerID, &d.Name, &cost, &d.Category, &d.Note, &d.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if d.EstimatedCost, err = decimal.NewFromString(cost); err != nil {
		return nil, fmt.Errorf("parse estimated cost %q: %w", cost, err)
	}
	return &d, nil
}

func (s *Store) CreateDish(ctx context.Context, d *domain.Dish) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dishes (`+dishColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Name, d.EstimatedCost.String(), d.Category, d.Note, d.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert dish: %w", err)
	}
	return nil
}

func (s *Store) GetDish(ctx context.Context, ownerID, dishID string) (*domain.Dish, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE id = ? AND owner_id = ?`,
		dishID, ownerID)
	d, err := scanDish(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "dish", ID: dishID}
	}
	if err != nil {
		return nil, fmt.Errorf("get dish: %w", err)
	}
	return d, nil
}

func (s *Store) ListDishes(ctx context.Context, ownerID string) ([]domain.Dish, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE owner_id = ? ORDER BY estimated_cost ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	dishes := make([]domain.Dish, 0)
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

func (s *Store) UpdateDish(ctx context.Context, d *domain.Dish) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE dishes SET name = ?, estimated_cost = ?, category = ?, note = ? WHERE id = ? AND owner_id = ?`,
		d.Name, d.EstimatedCost.String(), d.Category, d.Note, d.ID, d.OwnerID)
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "dish", ID: d.ID}
	}
	return nil
}

func (s *Store) DeleteDish(ctx context.Context, ownerID, dishID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM dishes WHERE id = ? AND owner_id = ?`, dishID, ownerID)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "dish", ID: dishID}
	}
	return nil
}
