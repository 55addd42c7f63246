package handler

import (
	"net/http"
	"strconv"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Dish Handlers
// ============================================================

func createDishHandler(svc *service.DishService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /dishes")
		defer span.End()

		var req domain.CreateDishRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		dish, err := svc.CreateDish(ctx, ownerID(r), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, dish)
	}
}

func listDishesHandler(svc *service.DishService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /dishes")
		defer span.End()

		dishes, err := svc.ListDishes(ctx, ownerID(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dishes)
	}
}

func getDishHandler(svc *service.DishService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /dishes/{dishId}")
		defer span.End()

		dish, err := svc.GetDish(ctx, ownerID(r), chi.URLParam(r, "dishId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dish)
	}
}

func updateDishHandler(svc *service.DishService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /dishes/{dishId}")
		defer span.End()

		var req domain.UpdateDishRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		dish, err := svc.UpdateDish(ctx, ownerID(r), chi.URLParam(r, "dishId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dish)
	}
}

func deleteDishHandler(svc *service.DishService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /dishes/{dishId}")
		defer span.End()

		dishID := chi.URLParam(r, "dishId")
		if err := svc.DeleteDish(ctx, ownerID(r), dishID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": dishID})
	}
}

func suggestDishesHandler(svc *service.DishService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /dishes/suggestions")
		defer span.End()

		q := r.URL.Query()
		var maxCost *decimal.Decimal
		if v := q.Get("maxCost"); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				handleServiceError(w, &domain.ErrValidation{Field: "maxCost", Message: "must be a decimal number"}, logger)
				return
			}
			maxCost = &d
		}
		count := 0
		if v := q.Get("count"); v != "" {
			if c, err := strconv.Atoi(v); err == nil {
				count = c
			}
		}

		dishes, err := svc.SuggestDishes(ctx, ownerID(r), maxCost, count)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dishes)
	}
}
