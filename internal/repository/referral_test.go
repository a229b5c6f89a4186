package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/primevest/backend/internal/model"
)

func TestPayReferralBonusHappyPath(t *testing.T) {
	repo, mock := newMockRepo(t)

	ref := &model.Referral{
		ID:          uuid.New(),
		ReferrerID:  1,
		ReferredID:  2,
		BonusAmount: decimal.NewFromInt(500),
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE referrals").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT balance FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("0.00"))
	mock.ExpectExec("UPDATE users SET balance").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(uuid.NewString(), time.Now()))
	mock.ExpectExec("UPDATE users SET referral_bonus").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	now := time.Now()
	entry, err := repo.PayReferralBonus(context.Background(), ref, now, "Referral bonus for Bob")
	require.NoError(t, err)
	require.True(t, entry.Amount.Equal(decimal.NewFromInt(500)))
	require.True(t, ref.BonusPaid)
	require.NotNil(t, ref.BonusPaidAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayReferralBonusOnlyOnce(t *testing.T) {
	repo, mock := newMockRepo(t)

	ref := &model.Referral{ID: uuid.New(), ReferrerID: 1, BonusAmount: decimal.NewFromInt(500)}

	// Conditional update matches no rows: somebody already paid this one.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE referrals").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.PayReferralBonus(context.Background(), ref, time.Now(), "Referral bonus for Bob")
	require.ErrorIs(t, err, ErrBonusAlreadyPaid)
	require.NoError(t, mock.ExpectationsWereMet())
}
