package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/model"
)

var ErrReasonRequired = errors.New("a reason is required for manual adjustments")

// AdjustDirection selects whether a manual adjustment credits or debits
// the account.
type AdjustDirection string

const (
	AdjustCredit AdjustDirection = "credit"
	AdjustDebit  AdjustDirection = "debit"
)

type LedgerStore interface {
	GetUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	GetTransactions(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, error)
	GetTransactionsByType(ctx context.Context, userID int64, txType model.TransactionType, limit, offset int) ([]model.Transaction, error)
	GetTransactionsByRelated(ctx context.Context, related model.Related) ([]model.Transaction, error)
	AdjustBalance(ctx context.Context, userID int64, amount decimal.Decimal, txType model.TransactionType, description string, related *model.Related) (*model.Transaction, error)
}

type BalanceService struct {
	store LedgerStore
}

func NewBalanceService(store LedgerStore) *BalanceService {
	return &BalanceService{store: store}
}

func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.store.GetUserBalance(ctx, userID)
}

func (s *BalanceService) GetTransactions(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.GetTransactions(ctx, userID, limit, offset)
}

func (s *BalanceService) GetTransactionsByType(ctx context.Context, userID int64, txType model.TransactionType, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.GetTransactionsByType(ctx, userID, txType, limit, offset)
}

// GetRelatedTransactions returns the ledger entries a single entity
// produced, e.g. the debit and profit credit of one investment.
func (s *BalanceService) GetRelatedTransactions(ctx context.Context, related model.Related) ([]model.Transaction, error) {
	return s.store.GetTransactionsByRelated(ctx, related)
}

// Adjust applies a manual correction to a user's balance on behalf of an
// admin. The ledger entry records who did it and why.
func (s *BalanceService) Adjust(ctx context.Context, userID, adminID int64, direction AdjustDirection, amount decimal.Decimal, reason string) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}

	txType := model.TransactionTypeManualCredit
	if direction == AdjustDebit {
		txType = model.TransactionTypeManualDebit
	}

	description := fmt.Sprintf("Manual %s by admin %d: %s", direction, adminID, reason)
	return s.store.AdjustBalance(ctx, userID, model.Signed(txType, amount), txType, description, nil)
}
