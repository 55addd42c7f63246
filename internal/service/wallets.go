package service

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var walletTracer = otel.Tracer("service/wallets")

// WalletService manages wallet metadata. Balance changes never happen
// here; they go through the ledger service.
type WalletService struct {
	wallets port.WalletStore
	ledger  port.LedgerStore
	logger  *zap.Logger
}

// NewWalletService creates a new wallet service.
func NewWalletService(wallets port.WalletStore, ledger port.LedgerStore, logger *zap.Logger) *WalletService {
	return &WalletService{wallets: wallets, ledger: ledger, logger: logger}
}

func (s *WalletService) CreateWallet(ctx context.Context, ownerID string, req domain.CreateWalletRequest) (*domain.Wallet, error) {
	ctx, span := walletTracer.Start(ctx, "WalletService.CreateWallet")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}

	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           req.Name,
		AccountLabel:   req.AccountLabel,
		Description:    req.Description,
		Balance:        req.InitialBalance,
		InitialBalance: req.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.wallets.CreateWallet(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info("wallet created", zap.String("wallet_id", w.ID), zap.String("owner_id", ownerID))
	return w, nil
}

func (s *WalletService) GetWallet(ctx context.Context, ownerID, walletID string) (*domain.Wallet, error) {
	ctx, span := walletTracer.Start(ctx, "WalletService.GetWallet")
	defer span.End()

	return s.wallets.GetWallet(ctx, ownerID, walletID)
}

func (s *WalletService) ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	ctx, span := walletTracer.Start(ctx, "WalletService.ListWallets")
	defer span.End()

	return s.wallets.ListWallets(ctx, ownerID)
}

// UpdateWallet edits wallet metadata. Editing initialBalance does not
// cascade into the cached balance; the statement builder re-derives from
// history, so the two may legitimately diverge afterwards.
func (s *WalletService) UpdateWallet(ctx context.Context, ownerID, walletID string, req domain.UpdateWalletRequest) (*domain.Wallet, error) {
	ctx, span := walletTracer.Start(ctx, "WalletService.UpdateWallet")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.id", walletID))

	w, err := s.wallets.GetWallet(ctx, ownerID, walletID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "name cannot be empty"}
		}
		w.Name = *req.Name
	}
	if req.AccountLabel != nil {
		w.AccountLabel = *req.AccountLabel
	}
	if req.Description != nil {
		w.Description = *req.Description
	}
	if req.InitialBalance != nil {
		w.InitialBalance = *req.InitialBalance
	}
	w.UpdatedAt = time.Now().UTC()

	if err := s.wallets.UpdateWallet(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWallet removes a wallet. A wallet still referenced by
// transactions is not deleted; the caller must remove or move them
// first. This keeps the transaction table free of orphans.
func (s *WalletService) DeleteWallet(ctx context.Context, ownerID, walletID string) error {
	ctx, span := walletTracer.Start(ctx, "WalletService.DeleteWallet")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.id", walletID))

	if _, err := s.wallets.GetWallet(ctx, ownerID, walletID); err != nil {
		return err
	}

	n, err := s.ledger.CountWalletTransactions(ctx, walletID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.ErrConflict{Message: "wallet has transactions; delete or move them first"}
	}

	if err := s.wallets.DeleteWallet(ctx, ownerID, walletID); err != nil {
		return err
	}
	s.logger.Info("wallet deleted", zap.String("wallet_id", walletID))
	return nil
}
