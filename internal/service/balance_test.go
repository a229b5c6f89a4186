package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/primevest/backend/internal/model"
)

type fakeLedgerStore struct {
	adjusted []model.Transaction
}

func (f *fakeLedgerStore) GetUserBalance(context.Context, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeLedgerStore) GetTransactions(context.Context, int64, int, int) ([]model.Transaction, error) {
	return nil, nil
}

func (f *fakeLedgerStore) GetTransactionsByType(context.Context, int64, model.TransactionType, int, int) ([]model.Transaction, error) {
	return nil, nil
}

func (f *fakeLedgerStore) GetTransactionsByRelated(context.Context, model.Related) ([]model.Transaction, error) {
	return nil, nil
}

func (f *fakeLedgerStore) AdjustBalance(_ context.Context, userID int64, amount decimal.Decimal, txType model.TransactionType, description string, _ *model.Related) (*model.Transaction, error) {
	entry := model.Transaction{UserID: userID, Type: txType, Amount: amount, Description: description}
	f.adjusted = append(f.adjusted, entry)
	return &entry, nil
}

func TestAdjustValidation(t *testing.T) {
	svc := NewBalanceService(&fakeLedgerStore{})

	_, err := svc.Adjust(context.Background(), 1, 9, AdjustCredit, decimal.Zero, "fix")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Adjust(context.Background(), 1, 9, AdjustCredit, decimal.NewFromInt(50), "")
	require.ErrorIs(t, err, ErrReasonRequired)
}

func TestAdjustSignsAmountByDirection(t *testing.T) {
	store := &fakeLedgerStore{}
	svc := NewBalanceService(store)

	_, err := svc.Adjust(context.Background(), 1, 9, AdjustCredit, decimal.NewFromInt(50), "promo credit")
	require.NoError(t, err)

	_, err = svc.Adjust(context.Background(), 1, 9, AdjustDebit, decimal.NewFromInt(30), "chargeback")
	require.NoError(t, err)

	require.Len(t, store.adjusted, 2)
	require.Equal(t, model.TransactionTypeManualCredit, store.adjusted[0].Type)
	require.True(t, store.adjusted[0].Amount.Equal(decimal.NewFromInt(50)))
	require.Equal(t, model.TransactionTypeManualDebit, store.adjusted[1].Type)
	require.True(t, store.adjusted[1].Amount.Equal(decimal.NewFromInt(-30)))
	require.Contains(t, store.adjusted[1].Description, "chargeback")
}
