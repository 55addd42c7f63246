package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/shopspring/decimal"
)

const goalColumns = `id, owner_id, name, target_amount, current_amount, deadline, status, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }) (*domain.Goal, error) {
	var g domain.Goal
	var target, current, status string
	if err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &target, &current,
		&g.Deadline, &status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Status = domain.GoalStatus(status)
	var err error
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return nil, fmt.Errorf("parse target amount %q: %w", target, err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("parse current amount %q: %w", current, err)
	}
	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *domain.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(),
		g.Deadline.UTC(), string(g.Status), g.CreatedAt.UTC(), g.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(ctx context.Context, ownerID, goalID string) (*domain.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND owner_id = ?`,
		goalID, ownerID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE owner_id = ? ORDER BY deadline ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]domain.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoal(ctx context.Context, g *domain.Goal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_amount = ?, current_amount = ?, deadline = ?, status = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.Deadline.UTC(),
		string(g.Status), g.UpdatedAt.UTC(), g.ID, g.OwnerID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "goal", ID: g.ID}
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, ownerID, goalID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND owner_id = ?`, goalID, ownerID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	return nil
}
