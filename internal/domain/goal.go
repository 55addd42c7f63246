package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus is derived, never set directly by the client.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalExpired   GoalStatus = "expired"
)

// Goal is a savings target with a derived status.
type Goal struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	Status        GoalStatus      `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// RecomputeStatus derives the goal status from its amounts and deadline.
// Completed wins over expired: a goal reached after its deadline still
// counts as completed.
func (g *Goal) RecomputeStatus(now time.Time) {
	switch {
	case g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount):
		g.Status = GoalCompleted
	case !g.Deadline.IsZero() && g.Deadline.Before(now):
		g.Status = GoalExpired
	default:
		g.Status = GoalActive
	}
}

// CreateGoalRequest is the payload for POST /v1/goals.
type CreateGoalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      string          `json:"deadline"`
}

// UpdateGoalRequest is the payload for PUT /v1/goals/{id}.
type UpdateGoalRequest struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	Deadline      *string          `json:"deadline"`
}
