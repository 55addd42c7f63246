package handler

import (
	"net/http"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Transaction (ledger) Handlers
// ============================================================

func createTransactionHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /transactions")
		defer span.End()

		var req domain.CreateTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		tx, err := svc.CreateTransaction(ctx, ownerID(r), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func listTransactionsHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /transactions")
		defer span.End()

		q := r.URL.Query()
		filter := domain.TransactionFilter{
			WalletID: q.Get("walletId"),
			Type:     domain.TransactionType(q.Get("type")),
			Category: q.Get("category"),
		}
		if v := q.Get("startDate"); v != "" {
			t, err := parseDateParam("startDate", v)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			filter.StartDate = &t
		}
		if v := q.Get("endDate"); v != "" {
			t, err := parseDateParam("endDate", v)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			filter.EndDate = &t
		}
		filter.Page, filter.PageSize = parsePagination(r)

		txs, err := svc.ListTransactions(ctx, ownerID(r), filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func getTransactionHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /transactions/{transactionId}")
		defer span.End()

		tx, err := svc.GetTransaction(ctx, ownerID(r), chi.URLParam(r, "transactionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func updateTransactionHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /transactions/{transactionId}")
		defer span.End()

		var req domain.UpdateTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		tx, err := svc.UpdateTransaction(ctx, ownerID(r), chi.URLParam(r, "transactionId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func deleteTransactionHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /transactions/{transactionId}")
		defer span.End()

		txID := chi.URLParam(r, "transactionId")
		if err := svc.DeleteTransaction(ctx, ownerID(r), txID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": txID})
	}
}

func statementHandler(svc *service.StatementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /transactions/statement")
		defer span.End()

		q := r.URL.Query()
		walletID := q.Get("walletId")
		if walletID == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "walletId", Message: "walletId is required"}, logger)
			return
		}
		start, err := parseDateParam("startDate", q.Get("startDate"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		end, err := parseDateParam("endDate", q.Get("endDate"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		st, err := svc.BuildStatement(ctx, ownerID(r), walletID, start, end)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
