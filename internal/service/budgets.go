package service

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var budgetTracer = otel.Tracer("service/budgets")

// percent display cap; spending itself is unlimited.
var maxPercent = decimal.NewFromInt(999)

// BudgetService manages monthly category spending caps and their
// spent/remaining aggregation.
type BudgetService struct {
	budgets port.BudgetStore
	ledger  port.LedgerStore
	logger  *zap.Logger
}

// NewBudgetService creates a new budget service.
func NewBudgetService(budgets port.BudgetStore, ledger port.LedgerStore, logger *zap.Logger) *BudgetService {
	return &BudgetService{budgets: budgets, ledger: ledger, logger: logger}
}

func validateBudgetFields(category string, month, year int, amount decimal.Decimal) error {
	if category == "" {
		return &domain.ErrValidation{Field: "category", Message: "category is required"}
	}
	if month < 1 || month > 12 {
		return &domain.ErrValidation{Field: "month", Message: "month must be between 1 and 12"}
	}
	if year < 2000 || year > 2200 {
		return &domain.ErrValidation{Field: "year", Message: "year is out of range"}
	}
	if !amount.IsPositive() {
		return &domain.ErrValidation{Field: "amount", Message: "amount must be greater than zero"}
	}
	return nil
}

func (s *BudgetService) CreateBudget(ctx context.Context, ownerID string, req domain.CreateBudgetRequest) (*domain.Budget, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.CreateBudget")
	defer span.End()

	if err := validateBudgetFields(req.Category, req.Month, req.Year, req.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.Budget{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Category:  req.Category,
		Month:     req.Month,
		Year:      req.Year,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.budgets.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("budget created",
		zap.String("budget_id", b.ID),
		zap.String("category", b.Category),
		zap.Int("month", b.Month), zap.Int("year", b.Year))
	return b, nil
}

func (s *BudgetService) GetBudget(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.GetBudget")
	defer span.End()

	return s.budgets.GetBudget(ctx, ownerID, budgetID)
}

func (s *BudgetService) ListBudgets(ctx context.Context, ownerID string, month, year int) ([]domain.Budget, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.ListBudgets")
	defer span.End()

	return s.budgets.ListBudgets(ctx, ownerID, month, year)
}

func (s *BudgetService) UpdateBudget(ctx context.Context, ownerID, budgetID string, req domain.UpdateBudgetRequest) (*domain.Budget, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.UpdateBudget")
	defer span.End()
	span.SetAttributes(attribute.String("budget.id", budgetID))

	b, err := s.budgets.GetBudget(ctx, ownerID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		b.Category = *req.Category
	}
	if req.Month != nil {
		b.Month = *req.Month
	}
	if req.Year != nil {
		b.Year = *req.Year
	}
	if req.Amount != nil {
		b.Amount = *req.Amount
	}
	if err := validateBudgetFields(b.Category, b.Month, b.Year, b.Amount); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.budgets.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, ownerID, budgetID string) error {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.DeleteBudget")
	defer span.End()

	return s.budgets.DeleteBudget(ctx, ownerID, budgetID)
}

// BudgetSummary reports, for each budget in (month, year), how much of
// it is spent. Spent sums the owner's EXPENSE transactions in the
// calendar month whose category string equals the budget's category;
// the join is by string, not a foreign key.
func (s *BudgetService) BudgetSummary(ctx context.Context, ownerID string, month, year int) ([]domain.BudgetSummaryItem, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.BudgetSummary")
	defer span.End()

	if month < 1 || month > 12 {
		return nil, &domain.ErrValidation{Field: "month", Message: "month must be between 1 and 12"}
	}

	budgets, err := s.budgets.ListBudgets(ctx, ownerID, month, year)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	items := make([]domain.BudgetSummaryItem, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range budgets {
		i := i
		g.Go(func() error {
			expenses, err := s.ledger.ListExpensesByCategory(gctx, ownerID, budgets[i].Category, start, end)
			if err != nil {
				return err
			}
			spent := decimal.Zero
			for j := range expenses {
				spent = spent.Add(expenses[j].Amount)
			}
			items[i] = domain.BudgetSummaryItem{
				Budget:    budgets[i],
				Spent:     spent,
				Remaining: budgets[i].Amount.Sub(spent),
				Percent:   spendPercent(spent, budgets[i].Amount),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func spendPercent(spent, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		if spent.IsPositive() {
			return maxPercent
		}
		return decimal.Zero
	}
	pct := spent.Div(amount).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.GreaterThan(maxPercent) {
		return maxPercent
	}
	return pct
}
