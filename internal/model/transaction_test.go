package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSigned(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	require.True(t, Signed(TransactionTypeProfit, hundred).IsPositive())
	require.True(t, Signed(TransactionTypeReferralBonus, hundred).IsPositive())
	require.True(t, Signed(TransactionTypeManualCredit, hundred).IsPositive())

	require.True(t, Signed(TransactionTypeInvestment, hundred).IsNegative())
	require.True(t, Signed(TransactionTypeWithdrawal, hundred).IsNegative())
	require.True(t, Signed(TransactionTypeManualDebit, hundred).IsNegative())

	// Magnitude sign is irrelevant, the type decides.
	require.True(t, Signed(TransactionTypeWithdrawal, hundred.Neg()).IsNegative())
}

func TestTransactionRelated(t *testing.T) {
	entry := &Transaction{}
	require.Nil(t, entry.Related())

	kind := RelatedWithdrawal
	id := uuid.New()
	entry.RelatedKind = &kind
	entry.RelatedID = &id

	rel := entry.Related()
	require.NotNil(t, rel)
	require.Equal(t, RelatedWithdrawal, rel.Kind)
	require.Equal(t, id, rel.ID)
}
