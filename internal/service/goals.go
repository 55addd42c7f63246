package service

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var goalTracer = otel.Tracer("service/goals")

// GoalService manages savings goals. Status is derived, recomputed on
// every write and refreshed on reads so an expired deadline shows up
// without waiting for the next edit.
type GoalService struct {
	goals  port.GoalStore
	logger *zap.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(goals port.GoalStore, logger *zap.Logger) *GoalService {
	return &GoalService{goals: goals, logger: logger}
}

func (s *GoalService) CreateGoal(ctx context.Context, ownerID string, req domain.CreateGoalRequest) (*domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.CreateGoal")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if !req.TargetAmount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "targetAmount", Message: "targetAmount must be greater than zero"}
	}
	if req.CurrentAmount.IsNegative() {
		return nil, &domain.ErrValidation{Field: "currentAmount", Message: "currentAmount cannot be negative"}
	}
	if req.Deadline == "" {
		return nil, &domain.ErrValidation{Field: "deadline", Message: "deadline is required"}
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g := &domain.Goal{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      deadline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	g.RecomputeStatus(now)

	if err := s.goals.CreateGoal(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info("goal created", zap.String("goal_id", g.ID), zap.String("status", string(g.Status)))
	return g, nil
}

func (s *GoalService) GetGoal(ctx context.Context, ownerID, goalID string) (*domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.GetGoal")
	defer span.End()

	g, err := s.goals.GetGoal(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}
	g.RecomputeStatus(time.Now().UTC())
	return g, nil
}

func (s *GoalService) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.ListGoals")
	defer span.End()

	goals, err := s.goals.ListGoals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range goals {
		goals[i].RecomputeStatus(now)
	}
	return goals, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, ownerID, goalID string, req domain.UpdateGoalRequest) (*domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.UpdateGoal")
	defer span.End()

	g, err := s.goals.GetGoal(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "name cannot be empty"}
		}
		g.Name = *req.Name
	}
	if req.TargetAmount != nil {
		if !req.TargetAmount.IsPositive() {
			return nil, &domain.ErrValidation{Field: "targetAmount", Message: "targetAmount must be greater than zero"}
		}
		g.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		if req.CurrentAmount.IsNegative() {
			return nil, &domain.ErrValidation{Field: "currentAmount", Message: "currentAmount cannot be negative"}
		}
		g.CurrentAmount = *req.CurrentAmount
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			return nil, &domain.ErrValidation{Field: "deadline", Message: "deadline cannot be empty"}
		}
		deadline, err := parseDate(*req.Deadline)
		if err != nil {
			return nil, err
		}
		g.Deadline = deadline
	}

	now := time.Now().UTC()
	g.UpdatedAt = now
	g.RecomputeStatus(now)

	if err := s.goals.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, ownerID, goalID string) error {
	ctx, span := goalTracer.Start(ctx, "GoalService.DeleteGoal")
	defer span.End()

	return s.goals.DeleteGoal(ctx, ownerID, goalID)
}
