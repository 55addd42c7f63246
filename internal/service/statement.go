package service

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var statementTracer = otel.Tracer("service/statement")

// StatementService derives point-in-time balances and period totals from
// the transaction history. It never mutates state.
type StatementService struct {
	wallets port.WalletStore
	ledger  port.LedgerStore
	logger  *zap.Logger
}

// NewStatementService creates a new statement service.
func NewStatementService(wallets port.WalletStore, ledger port.LedgerStore, logger *zap.Logger) *StatementService {
	return &StatementService{wallets: wallets, ledger: ledger, logger: logger}
}

// BuildStatement reports the wallet's balance trajectory over [start, end].
//
// The pre-period balance is re-derived from initialBalance plus history
// rather than read from the cached balance field, so a wallet whose
// initialBalance was edited after transactions existed still statements
// correctly.
func (s *StatementService) BuildStatement(ctx context.Context, ownerID, walletID string, start, end time.Time) (*domain.Statement, error) {
	ctx, span := statementTracer.Start(ctx, "StatementService.BuildStatement")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.id", walletID))

	if end.Before(start) {
		return nil, &domain.ErrValidation{Field: "endDate", Message: "endDate must not precede startDate"}
	}

	wallet, err := s.wallets.GetWallet(ctx, ownerID, walletID)
	if err != nil {
		return nil, err
	}

	var prePeriod, window []domain.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prePeriod, err = s.ledger.ListWalletTransactionsBefore(gctx, walletID, start)
		return err
	})
	g.Go(func() error {
		var err error
		window, err = s.ledger.ListWalletTransactionsBetween(gctx, walletID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	startBalance := wallet.InitialBalance
	for i := range prePeriod {
		startBalance = startBalance.Add(prePeriod[i].SignedAmount())
	}

	totalIncome, totalExpense := decimal.Zero, decimal.Zero
	for i := range window {
		if window[i].Type == domain.TransactionIncome {
			totalIncome = totalIncome.Add(window[i].Amount)
		} else {
			totalExpense = totalExpense.Add(window[i].Amount)
		}
	}

	return &domain.Statement{
		WalletID:     walletID,
		StartDate:    start,
		EndDate:      end,
		StartBalance: startBalance,
		EndBalance:   startBalance.Add(totalIncome).Sub(totalExpense),
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Transactions: window,
	}, nil
}
