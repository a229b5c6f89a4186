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

func TestCreditMaturedInvestmentOnlyOnce(t *testing.T) {
	repo, mock := newMockRepo(t)

	inv := &model.Investment{
		ID:          uuid.New(),
		UserID:      1,
		TotalReturn: decimal.NewFromInt(1300),
		Status:      model.InvestmentStatusActive,
	}

	// Status already flipped by a concurrent run, conditional update is a no-op.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE investments").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CreditMaturedInvestment(context.Background(), inv, time.Now(), "Investment return credited")
	require.ErrorIs(t, err, ErrInvestmentNotActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditMaturedInvestmentCreditsTotalReturn(t *testing.T) {
	repo, mock := newMockRepo(t)

	inv := &model.Investment{
		ID:          uuid.New(),
		UserID:      1,
		TotalReturn: decimal.NewFromInt(1300),
		Status:      model.InvestmentStatusActive,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE investments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT balance FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("200.00"))
	mock.ExpectExec("UPDATE users SET balance").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(uuid.NewString(), time.Now()))
	mock.ExpectCommit()

	now := time.Now()
	entry, err := repo.CreditMaturedInvestment(context.Background(), inv, now, "Investment return credited")
	require.NoError(t, err)
	require.True(t, entry.Amount.Equal(decimal.NewFromInt(1300)))
	require.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(1500)))
	require.Equal(t, model.InvestmentStatusMatured, inv.Status)
	require.NotNil(t, inv.CreditedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
