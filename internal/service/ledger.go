// Package service provides the business logic layer (use cases).
// LedgerService is the balance invariant engine: it keeps every wallet's
// cached balance equal to initialBalance plus the net of its transactions,
// adjusting both sides inside one database transaction.
package service

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/infra/observability"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ledgerTracer = otel.Tracer("service/ledger")

// LedgerService handles transaction create/update/delete and the wallet
// balance adjustments they imply.
type LedgerService struct {
	store   port.LedgerStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger) *LedgerService {
	return &LedgerService{store: store, metrics: metrics, logger: logger}
}

// CreateTransaction records a new INCOME or EXPENSE event and moves the
// wallet balance accordingly. The insert and the balance write commit as
// one unit or not at all.
func (s *LedgerService) CreateTransaction(ctx context.Context, ownerID string, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.id", req.WalletID))

	if req.WalletID == "" {
		return nil, &domain.ErrValidation{Field: "walletId", Message: "walletId is required"}
	}
	if !req.Type.Valid() {
		return nil, &domain.ErrValidation{Field: "type", Message: "type must be INCOME or EXPENSE"}
	}
	if !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be greater than zero"}
	}
	if req.Category == "" {
		return nil, &domain.ErrValidation{Field: "category", Message: "category is required"}
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		WalletID:  req.WalletID,
		Type:      req.Type,
		Amount:    req.Amount,
		Category:  req.Category,
		Date:      date,
		Note:      req.Note,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.WithTx(ctx, func(tx port.LedgerTx) error {
		wallet, err := tx.GetWallet(ctx, ownerID, req.WalletID)
		if err != nil {
			return err
		}
		if txn.Type == domain.TransactionExpense && wallet.Balance.LessThan(txn.Amount) {
			return &domain.ErrInsufficientFunds{Available: wallet.Balance, Required: txn.Amount}
		}
		if err := tx.InsertTransaction(ctx, txn); err != nil {
			return err
		}
		return tx.SetWalletBalance(ctx, wallet.ID, wallet.Balance.Add(txn.SignedAmount()))
	})
	if err != nil {
		s.metrics.IncrLedgerOp("create", "rolled_back")
		return nil, err
	}

	s.metrics.IncrLedgerOp("create", "committed")
	s.logger.Info("transaction created",
		zap.String("transaction_id", txn.ID),
		zap.String("wallet_id", txn.WalletID),
		zap.String("type", string(txn.Type)),
		zap.String("amount", txn.Amount.String()))
	return txn, nil
}

// UpdateTransaction edits a transaction, reversing its old contribution
// from its old wallet and applying the new contribution to the (possibly
// different) target wallet, all in one atomic unit.
func (s *LedgerService) UpdateTransaction(ctx context.Context, ownerID, txID string, req domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", txID))

	if req.Type != nil && !req.Type.Valid() {
		return nil, &domain.ErrValidation{Field: "type", Message: "type must be INCOME or EXPENSE"}
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be greater than zero"}
	}
	if req.Category != nil && *req.Category == "" {
		return nil, &domain.ErrValidation{Field: "category", Message: "category cannot be empty"}
	}
	var newDate *time.Time
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		newDate = &d
	}

	var updated *domain.Transaction
	err := s.store.WithTx(ctx, func(tx port.LedgerTx) error {
		txn, err := tx.GetTransaction(ctx, ownerID, txID)
		if err != nil {
			return err
		}
		oldWallet, err := tx.GetWallet(ctx, ownerID, txn.WalletID)
		if err != nil {
			return err
		}

		// Reverse the old contribution before anything else; for a
		// same-wallet edit the new-amount check must run against the
		// reversed balance.
		reversed := oldWallet.Balance.Sub(txn.SignedAmount())

		next := *txn
		if req.WalletID != nil {
			next.WalletID = *req.WalletID
		}
		if req.Type != nil {
			next.Type = *req.Type
		}
		if req.Amount != nil {
			next.Amount = *req.Amount
		}
		if req.Category != nil {
			next.Category = *req.Category
		}
		if newDate != nil {
			next.Date = *newDate
		}
		if req.Note != nil {
			next.Note = *req.Note
		}

		targetBalance := reversed
		sameWallet := next.WalletID == txn.WalletID
		var targetWallet *domain.Wallet
		if !sameWallet {
			targetWallet, err = tx.GetWallet(ctx, ownerID, next.WalletID)
			if err != nil {
				return err
			}
			targetBalance = targetWallet.Balance
		}

		if next.Type == domain.TransactionExpense && targetBalance.LessThan(next.Amount) {
			return &domain.ErrInsufficientFunds{Available: targetBalance, Required: next.Amount}
		}

		if sameWallet {
			if err := tx.SetWalletBalance(ctx, oldWallet.ID, reversed.Add(next.SignedAmount())); err != nil {
				return err
			}
		} else {
			if err := tx.SetWalletBalance(ctx, oldWallet.ID, reversed); err != nil {
				return err
			}
			if err := tx.SetWalletBalance(ctx, targetWallet.ID, targetBalance.Add(next.SignedAmount())); err != nil {
				return err
			}
		}
		if err := tx.UpdateTransaction(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		s.metrics.IncrLedgerOp("update", "rolled_back")
		return nil, err
	}

	s.metrics.IncrLedgerOp("update", "committed")
	s.logger.Info("transaction updated",
		zap.String("transaction_id", updated.ID),
		zap.String("wallet_id", updated.WalletID))
	return updated, nil
}

// DeleteTransaction removes a transaction and reverses its contribution
// from its wallet. Reversal of an INCOME may legally drive the balance
// negative.
func (s *LedgerService) DeleteTransaction(ctx context.Context, ownerID, txID string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", txID))

	err := s.store.WithTx(ctx, func(tx port.LedgerTx) error {
		txn, err := tx.GetTransaction(ctx, ownerID, txID)
		if err != nil {
			return err
		}
		wallet, err := tx.GetWallet(ctx, ownerID, txn.WalletID)
		if err != nil {
			return err
		}
		if err := tx.SetWalletBalance(ctx, wallet.ID, wallet.Balance.Sub(txn.SignedAmount())); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, txID)
	})
	if err != nil {
		s.metrics.IncrLedgerOp("delete", "rolled_back")
		return err
	}

	s.metrics.IncrLedgerOp("delete", "committed")
	s.logger.Info("transaction deleted", zap.String("transaction_id", txID))
	return nil
}

// GetTransaction fetches one transaction, owner-scoped.
func (s *LedgerService) GetTransaction(ctx context.Context, ownerID, txID string) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetTransaction")
	defer span.End()

	return s.store.GetTransaction(ctx, ownerID, txID)
}

// ListTransactions returns the owner's transactions, filtered and paginated.
func (s *LedgerService) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListTransactions")
	defer span.End()

	if filter.Type != "" && !filter.Type.Valid() {
		return nil, &domain.ErrValidation{Field: "type", Message: "type must be INCOME or EXPENSE"}
	}
	return s.store.ListTransactions(ctx, ownerID, filter)
}

// parseDate accepts RFC3339 or a bare calendar date; empty means now.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, &domain.ErrValidation{Field: "date", Message: "date must be RFC3339 or YYYY-MM-DD"}
}
