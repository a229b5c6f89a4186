package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/primevest/backend/internal/model"
	"github.com/primevest/backend/internal/repository"
)

type fakeWithdrawalStore struct {
	balance     decimal.Decimal
	lastInv     *model.Investment
	recommitted bool
	created     []*model.Withdrawal
	approveErr  map[uuid.UUID]error
	approved    []uuid.UUID
	withdrawals map[uuid.UUID]*model.Withdrawal
}

func (f *fakeWithdrawalStore) GetUserBalance(context.Context, int64) (decimal.Decimal, error) {
	return f.balance, nil
}

func (f *fakeWithdrawalStore) GetLastInvestment(context.Context, int64) (*model.Investment, error) {
	if f.lastInv == nil {
		return nil, repository.ErrInvestmentNotFound
	}
	return f.lastInv, nil
}

func (f *fakeWithdrawalStore) HasRecommitted(context.Context, int64, time.Time, decimal.Decimal) (bool, error) {
	return f.recommitted, nil
}

func (f *fakeWithdrawalStore) CreateWithdrawal(_ context.Context, w *model.Withdrawal) error {
	w.CreatedAt = time.Now()
	f.created = append(f.created, w)
	return nil
}

func (f *fakeWithdrawalStore) GetWithdrawal(_ context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	w, ok := f.withdrawals[id]
	if !ok {
		return nil, repository.ErrWithdrawalNotFound
	}
	return w, nil
}

func (f *fakeWithdrawalStore) GetUserWithdrawals(context.Context, int64, int, int) ([]model.Withdrawal, error) {
	return nil, nil
}

func (f *fakeWithdrawalStore) GetPendingWithdrawals(context.Context, int, int) ([]model.Withdrawal, error) {
	return nil, nil
}

func (f *fakeWithdrawalStore) ApproveWithdrawal(_ context.Context, id uuid.UUID, _ int64, _ string, _ time.Time) (*model.Withdrawal, error) {
	if err := f.approveErr[id]; err != nil {
		return nil, err
	}
	f.approved = append(f.approved, id)
	return &model.Withdrawal{ID: id, Status: model.WithdrawalStatusApproved}, nil
}

func (f *fakeWithdrawalStore) DeclineWithdrawal(_ context.Context, id uuid.UUID, _ int64, comment string, _ time.Time) (*model.Withdrawal, error) {
	c := comment
	return &model.Withdrawal{ID: id, Status: model.WithdrawalStatusDeclined, AdminComment: &c}, nil
}

func TestCanWithdrawNeverInvested(t *testing.T) {
	svc := NewWithdrawalService(&fakeWithdrawalStore{})

	eligibility, err := svc.CanWithdraw(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, eligibility.Allowed)
	require.False(t, eligibility.RecommitRequired)
}

func TestCanWithdrawRequiresRecommit(t *testing.T) {
	store := &fakeWithdrawalStore{
		lastInv: &model.Investment{Amount: decimal.NewFromInt(1000), CreatedAt: time.Now()},
	}
	svc := NewWithdrawalService(store)

	eligibility, err := svc.CanWithdraw(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, eligibility.Allowed)
	require.True(t, eligibility.RecommitRequired)
	require.NotNil(t, eligibility.RecommitAmount)
	require.True(t, eligibility.RecommitAmount.Equal(decimal.NewFromInt(1000)))
}

func TestCanWithdrawAfterRecommit(t *testing.T) {
	store := &fakeWithdrawalStore{
		lastInv:     &model.Investment{Amount: decimal.NewFromInt(1000), CreatedAt: time.Now()},
		recommitted: true,
	}
	svc := NewWithdrawalService(store)

	eligibility, err := svc.CanWithdraw(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, eligibility.Allowed)
}

func TestCanWithdrawThresholdRollsForward(t *testing.T) {
	// Each new investment becomes the reference point for the standing
	// eligibility check, so investing 1500 after a 1000 investment raises
	// the threshold to 1500 instead of clearing it. Funds unlock through
	// request-then-approval, where the check keys off the withdrawal's
	// creation time.
	store := &fakeWithdrawalStore{
		lastInv: &model.Investment{Amount: decimal.NewFromInt(1500), CreatedAt: time.Now()},
	}
	svc := NewWithdrawalService(store)

	eligibility, err := svc.CanWithdraw(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, eligibility.Allowed)
	require.True(t, eligibility.RecommitRequired)
	require.True(t, eligibility.RecommitAmount.Equal(decimal.NewFromInt(1500)))
}

func TestRequestWithdrawalRejectsNonPositive(t *testing.T) {
	svc := NewWithdrawalService(&fakeWithdrawalStore{})

	_, err := svc.RequestWithdrawal(context.Background(), 1, decimal.Zero, time.Now())
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RequestWithdrawal(context.Background(), 1, decimal.NewFromInt(-5), time.Now())
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	svc := NewWithdrawalService(&fakeWithdrawalStore{balance: decimal.NewFromInt(100)})

	_, err := svc.RequestWithdrawal(context.Background(), 1, decimal.NewFromInt(500), time.Now())
	require.ErrorIs(t, err, repository.ErrInsufficientBalance)
}

func TestRequestWithdrawalSnapshotsFeeAndRecommit(t *testing.T) {
	store := &fakeWithdrawalStore{
		balance: decimal.NewFromInt(2000),
		lastInv: &model.Investment{Amount: decimal.NewFromInt(1500), CreatedAt: time.Now()},
	}
	svc := NewWithdrawalService(store)

	w, err := svc.RequestWithdrawal(context.Background(), 1, decimal.NewFromInt(1000), time.Now())
	require.NoError(t, err)
	require.Equal(t, model.WithdrawalStatusPending, w.Status)
	require.True(t, w.Fee.Equal(decimal.NewFromInt(100)))
	require.True(t, w.NetAmount.Equal(decimal.NewFromInt(900)))
	require.True(t, w.RecommitRequired)
	require.NotNil(t, w.RecommitAmount)
	require.True(t, w.RecommitAmount.Equal(decimal.NewFromInt(1500)))
	require.Len(t, store.created, 1)
}

func TestDeclineRequiresComment(t *testing.T) {
	svc := NewWithdrawalService(&fakeWithdrawalStore{})

	_, err := svc.Decline(context.Background(), uuid.New(), 9, "", time.Now())
	require.ErrorIs(t, err, ErrCommentRequired)
}

func TestBulkApproveCollectsFailures(t *testing.T) {
	ok1, blocked, missing, ok2 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	store := &fakeWithdrawalStore{
		approveErr: map[uuid.UUID]error{
			blocked: repository.ErrRecommitRequired,
			missing: repository.ErrWithdrawalNotFound,
		},
	}
	svc := NewWithdrawalService(store)

	result, err := svc.BulkApprove(context.Background(), []uuid.UUID{ok1, blocked, missing, ok2}, 9, time.Now())
	require.NoError(t, err)
	require.Equal(t, 2, result.Approved)
	require.Len(t, result.Failures, 2)
	require.Equal(t, blocked, result.Failures[0].ID)
	require.Equal(t, "recommit required", result.Failures[0].Reason)
	require.Equal(t, missing, result.Failures[1].ID)
	require.Equal(t, "withdrawal not found", result.Failures[1].Reason)
}
