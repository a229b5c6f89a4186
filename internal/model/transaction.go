package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeInvestment    TransactionType = "investment"
	TransactionTypeProfit        TransactionType = "profit"
	TransactionTypeReferralBonus TransactionType = "referral_bonus"
	TransactionTypeWithdrawal    TransactionType = "withdrawal"
	TransactionTypeManualCredit  TransactionType = "manual_credit"
	TransactionTypeManualDebit   TransactionType = "manual_debit"
)

// IsCredit reports whether entries of this type carry a positive amount.
// Debit types (investment, withdrawal, manual_debit) carry a negative amount.
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionTypeProfit, TransactionTypeReferralBonus, TransactionTypeManualCredit:
		return true
	default:
		return false
	}
}

type RelatedKind string

const (
	RelatedInvestment RelatedKind = "investment"
	RelatedWithdrawal RelatedKind = "withdrawal"
	RelatedReferral   RelatedKind = "referral"
)

// Related is a tagged back-link from a ledger entry to the entity that caused it.
type Related struct {
	Kind RelatedKind
	ID   uuid.UUID
}

// Transaction is an immutable ledger entry. Every balance mutation writes
// exactly one of these in the same database transaction.
type Transaction struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        int64           `json:"user_id" db:"user_id"`
	Type          TransactionType `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"` // signed: credit > 0, debit < 0
	BalanceBefore decimal.Decimal `json:"balance_before" db:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after" db:"balance_after"`
	Description   string          `json:"description" db:"description"`
	Reference     string          `json:"reference" db:"reference"`
	RelatedKind   *RelatedKind    `json:"related_kind,omitempty" db:"related_kind"`
	RelatedID     *uuid.UUID      `json:"related_id,omitempty" db:"related_id"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Related returns the tagged back-link, or nil for unlinked entries.
func (t *Transaction) Related() *Related {
	if t.RelatedKind == nil || t.RelatedID == nil {
		return nil
	}
	return &Related{Kind: *t.RelatedKind, ID: *t.RelatedID}
}

// Signed returns amount with the sign implied by the entry type applied to
// a positive magnitude.
func Signed(txType TransactionType, magnitude decimal.Decimal) decimal.Decimal {
	if txType.IsCredit() {
		return magnitude.Abs()
	}
	return magnitude.Abs().Neg()
}
