package handler

import (
	"net/http"

	"github.com/fintrack-app/fintrack-api/internal/infra/observability"
	"github.com/fintrack-app/fintrack-api/internal/port"
	"github.com/fintrack-app/fintrack-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router wires into handlers.
type Services struct {
	Ledger     *service.LedgerService
	Statements *service.StatementService
	Wallets    *service.WalletService
	Budgets    *service.BudgetService
	Goals      *service.GoalService
	Dishes     *service.DishService
	Users      *service.UserService
	Health     *service.HealthService
	Verifier   port.TokenVerifier
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, metrics *observability.Metrics, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints (no auth) ---
	r.Get("/healthz", healthzHandler(svcs.Health))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 (bearer auth) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(svcs.Verifier, svcs.Users, logger))

		// Profile
		r.Get("/users/me", getMeHandler(svcs.Users, logger))
		r.Put("/users/me", updateMeHandler(svcs.Users, logger))
		r.Post("/users/me/avatar", uploadAvatarHandler(svcs.Users, logger))

		// Wallets
		r.Post("/wallets", createWalletHandler(svcs.Wallets, logger))
		r.Get("/wallets", listWalletsHandler(svcs.Wallets, logger))
		r.Get("/wallets/{walletId}", getWalletHandler(svcs.Wallets, logger))
		r.Put("/wallets/{walletId}", updateWalletHandler(svcs.Wallets, logger))
		r.Delete("/wallets/{walletId}", deleteWalletHandler(svcs.Wallets, logger))

		// Ledger
		r.Post("/transactions", createTransactionHandler(svcs.Ledger, logger))
		r.Get("/transactions", listTransactionsHandler(svcs.Ledger, logger))
		r.Get("/transactions/statement", statementHandler(svcs.Statements, logger))
		r.Get("/transactions/{transactionId}", getTransactionHandler(svcs.Ledger, logger))
		r.Put("/transactions/{transactionId}", updateTransactionHandler(svcs.Ledger, logger))
		r.Delete("/transactions/{transactionId}", deleteTransactionHandler(svcs.Ledger, logger))

		// Budgets
		r.Post("/budgets", createBudgetHandler(svcs.Budgets, logger))
		r.Get("/budgets", listBudgetsHandler(svcs.Budgets, logger))
		r.Get("/budgets/summary", budgetSummaryHandler(svcs.Budgets, logger))
		r.Get("/budgets/{budgetId}", getBudgetHandler(svcs.Budgets, logger))
		r.Put("/budgets/{budgetId}", updateBudgetHandler(svcs.Budgets, logger))
		r.Delete("/budgets/{budgetId}", deleteBudgetHandler(svcs.Budgets, logger))

		// Goals
		r.Post("/goals", createGoalHandler(svcs.Goals, logger))
		r.Get("/goals", listGoalsHandler(svcs.Goals, logger))
		r.Get("/goals/{goalId}", getGoalHandler(svcs.Goals, logger))
		r.Put("/goals/{goalId}", updateGoalHandler(svcs.Goals, logger))
		r.Delete("/goals/{goalId}", deleteGoalHandler(svcs.Goals, logger))

		// Dishes
		r.Post("/dishes", createDishHandler(svcs.Dishes, logger))
		r.Get("/dishes", listDishesHandler(svcs.Dishes, logger))
		r.Get("/dishes/suggestions", suggestDishesHandler(svcs.Dishes, logger))
		r.Get("/dishes/{dishId}", getDishHandler(svcs.Dishes, logger))
		r.Put("/dishes/{dishId}", updateDishHandler(svcs.Dishes, logger))
		r.Delete("/dishes/{dishId}", deleteDishHandler(svcs.Dishes, logger))

		// Ops snapshot for the dashboard
		r.Get("/metrics/summary", metricsSummaryHandler(svcs.Health, logger))
	})

	return r
}

func healthzHandler(svc *service.HealthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := svc.Check(r.Context())
		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func metricsSummaryHandler(svc *service.HealthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /metrics/summary")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.MetricsSummary())
	}
}
