package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/model"
	"github.com/primevest/backend/internal/repository"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrCommentRequired = errors.New("a comment is required when declining")
)

type WithdrawalStore interface {
	GetUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	GetLastInvestment(ctx context.Context, userID int64) (*model.Investment, error)
	HasRecommitted(ctx context.Context, userID int64, after time.Time, minAmount decimal.Decimal) (bool, error)
	CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error)
	GetUserWithdrawals(ctx context.Context, userID int64, limit, offset int) ([]model.Withdrawal, error)
	GetPendingWithdrawals(ctx context.Context, limit, offset int) ([]model.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id uuid.UUID, adminID int64, comment string, now time.Time) (*model.Withdrawal, error)
	DeclineWithdrawal(ctx context.Context, id uuid.UUID, adminID int64, comment string, now time.Time) (*model.Withdrawal, error)
}

type WithdrawalService struct {
	store WithdrawalStore
}

func NewWithdrawalService(store WithdrawalStore) *WithdrawalService {
	return &WithdrawalService{store: store}
}

// CanWithdraw reports whether the user may withdraw right now. After making
// an investment, funds stay committed until the user invests again with at
// least the same amount. Users who never invested withdraw freely.
func (s *WithdrawalService) CanWithdraw(ctx context.Context, userID int64) (*model.WithdrawalEligibility, error) {
	last, err := s.store.GetLastInvestment(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrInvestmentNotFound) {
			return &model.WithdrawalEligibility{Allowed: true}, nil
		}
		return nil, err
	}

	recommitted, err := s.store.HasRecommitted(ctx, userID, last.CreatedAt, last.Amount)
	if err != nil {
		return nil, err
	}
	if recommitted {
		return &model.WithdrawalEligibility{Allowed: true}, nil
	}

	amount := last.Amount
	return &model.WithdrawalEligibility{
		Allowed:          false,
		RecommitRequired: true,
		RecommitAmount:   &amount,
	}, nil
}

// RequestWithdrawal records a pending withdrawal request. The balance is
// untouched until an admin approves; the 10% fee and net amount are fixed
// at request time, as is the recommit state for the admin's review.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID int64, amount decimal.Decimal, now time.Time) (*model.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	balance, err := s.store.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amount) {
		return nil, repository.ErrInsufficientBalance
	}

	eligibility, err := s.CanWithdraw(ctx, userID)
	if err != nil {
		return nil, err
	}

	w := &model.Withdrawal{
		ID:               uuid.New(),
		UserID:           userID,
		Amount:           amount,
		Fee:              model.WithdrawalFee(amount),
		NetAmount:        model.NetWithdrawalAmount(amount),
		Status:           model.WithdrawalStatusPending,
		RecommitRequired: eligibility.RecommitRequired,
		RecommitAmount:   eligibility.RecommitAmount,
	}
	if err := s.store.CreateWithdrawal(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WithdrawalService) GetWithdrawal(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	return s.store.GetWithdrawal(ctx, id)
}

func (s *WithdrawalService) GetUserWithdrawals(ctx context.Context, userID int64, limit, offset int) ([]model.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.GetUserWithdrawals(ctx, userID, limit, offset)
}

func (s *WithdrawalService) GetPendingWithdrawals(ctx context.Context, limit, offset int) ([]model.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.GetPendingWithdrawals(ctx, limit, offset)
}

// Approve settles a pending withdrawal: the recommit rule is re-checked
// against live data and the gross amount is debited with a single ledger
// entry tied to the withdrawal.
func (s *WithdrawalService) Approve(ctx context.Context, id uuid.UUID, adminID int64, comment string, now time.Time) (*model.Withdrawal, error) {
	return s.store.ApproveWithdrawal(ctx, id, adminID, comment, now)
}

// Decline rejects a pending withdrawal. The comment is mandatory so the
// user learns why.
func (s *WithdrawalService) Decline(ctx context.Context, id uuid.UUID, adminID int64, comment string, now time.Time) (*model.Withdrawal, error) {
	if comment == "" {
		return nil, ErrCommentRequired
	}
	return s.store.DeclineWithdrawal(ctx, id, adminID, comment, now)
}

// BulkApproveResult reports the outcome of a bulk approval: how many
// settled and why the rest did not.
type BulkApproveResult struct {
	Approved int          `json:"approved"`
	Failures []BatchError `json:"failures"`
}

// BulkApprove approves each withdrawal independently. A rejection of one
// never blocks the others.
func (s *WithdrawalService) BulkApprove(ctx context.Context, ids []uuid.UUID, adminID int64, now time.Time) (*BulkApproveResult, error) {
	result := &BulkApproveResult{}
	for _, id := range ids {
		if _, err := s.store.ApproveWithdrawal(ctx, id, adminID, "", now); err != nil {
			result.Failures = append(result.Failures, BatchError{ID: id, Reason: approveFailureReason(err)})
			continue
		}
		result.Approved++
	}
	return result, nil
}

func approveFailureReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrWithdrawalNotFound):
		return "withdrawal not found"
	case errors.Is(err, repository.ErrWithdrawalNotPending):
		return "withdrawal is not pending"
	case errors.Is(err, repository.ErrRecommitRequired):
		return "recommit required"
	case errors.Is(err, repository.ErrInsufficientBalance):
		return "insufficient balance"
	default:
		return err.Error()
	}
}
