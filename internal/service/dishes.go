package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var dishTracer = otel.Tracer("service/dishes")

const defaultSuggestionCount = 3

// DishService manages meal records and suggests meals that fit a
// spending cap.
type DishService struct {
	dishes  port.DishStore
	budgets *BudgetService
	logger  *zap.Logger
}

// NewDishService creates a new dish service.
func NewDishService(dishes port.DishStore, budgets *BudgetService, logger *zap.Logger) *DishService {
	return &DishService{dishes: dishes, budgets: budgets, logger: logger}
}

func (s *DishService) CreateDish(ctx context.Context, ownerID string, req domain.CreateDishRequest) (*domain.Dish, error) {
	ctx, span := dishTracer.Start(ctx, "DishService.CreateDish")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if req.EstimatedCost.IsNegative() {
		return nil, &domain.ErrValidation{Field: "estimatedCost", Message: "estimatedCost cannot be negative"}
	}

	d := &domain.Dish{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Name:          req.Name,
		EstimatedCost: req.EstimatedCost,
		Category:      req.Category,
		Note:          req.Note,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.dishes.CreateDish(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DishService) GetDish(ctx context.Context, ownerID, dishID string) (*domain.Dish, error) {
	ctx, span := dishTracer.Start(ctx, "DishService.GetDish")
	defer span.End()

	return s.dishes.GetDish(ctx, ownerID, dishID)
}

func (s *DishService) ListDishes(ctx context.Context, ownerID string) ([]domain.Dish, error) {
	ctx, span := dishTracer.Start(ctx, "DishService.ListDishes")
	defer span.End()

	return s.dishes.ListDishes(ctx, ownerID)
}

func (s *DishService) UpdateDish(ctx context.Context, ownerID, dishID string, req domain.UpdateDishRequest) (*domain.Dish, error) {
	ctx, span := dishTracer.Start(ctx, "DishService.UpdateDish")
	defer span.End()

	d, err := s.dishes.GetDish(ctx, ownerID, dishID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "name cannot be empty"}
		}
		d.Name = *req.Name
	}
	if req.EstimatedCost != nil {
		if req.EstimatedCost.IsNegative() {
			return nil, &domain.ErrValidation{Field: "estimatedCost", Message: "estimatedCost cannot be negative"}
		}
		d.EstimatedCost = *req.EstimatedCost
	}
	if req.Category != nil {
		d.Category = *req.Category
	}
	if req.Note != nil {
		d.Note = *req.Note
	}

	if err := s.dishes.UpdateDish(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DishService) DeleteDish(ctx context.Context, ownerID, dishID string) error {
	ctx, span := dishTracer.Start(ctx, "DishService.DeleteDish")
	defer span.End()

	return s.dishes.DeleteDish(ctx, ownerID, dishID)
}

// SuggestDishes draws up to count dishes whose estimated cost fits under
// maxCost. With no explicit cap, the remaining amount of the owner's
// "food" budget for the current month is used; with no food budget
// either, every dish qualifies.
func (s *DishService) SuggestDishes(ctx context.Context, ownerID string, maxCost *decimal.Decimal, count int) ([]domain.Dish, error) {
	ctx, span := dishTracer.Start(ctx, "DishService.SuggestDishes")
	defer span.End()

	if count <= 0 {
		count = defaultSuggestionCount
	}

	limit := maxCost
	if limit == nil {
		now := time.Now().UTC()
		items, err := s.budgets.BudgetSummary(ctx, ownerID, int(now.Month()), now.Year())
		if err != nil {
			return nil, err
		}
		for i := range items {
			if items[i].Budget.Category == "food" {
				remaining := items[i].Remaining
				limit = &remaining
				break
			}
		}
	}

	dishes, err := s.dishes.ListDishes(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	eligible := make([]domain.Dish, 0, len(dishes))
	for i := range dishes {
		if limit == nil || dishes[i].EstimatedCost.LessThanOrEqual(*limit) {
			eligible = append(eligible, dishes[i])
		}
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if len(eligible) > count {
		eligible = eligible[:count]
	}
	return eligible, nil
}
