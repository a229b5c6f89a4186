package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusDeclined WithdrawalStatus = "declined"
)

// withdrawalFeeRate is the flat platform fee taken from every withdrawal.
var withdrawalFeeRate = decimal.New(10, -2) // 0.10

type Withdrawal struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	UserID           int64            `json:"user_id" db:"user_id"`
	Amount           decimal.Decimal  `json:"amount" db:"amount"`
	Fee              decimal.Decimal  `json:"fee" db:"fee"`
	NetAmount        decimal.Decimal  `json:"net_amount" db:"net_amount"`
	Status           WithdrawalStatus `json:"status" db:"status"`
	AdminComment     *string          `json:"admin_comment,omitempty" db:"admin_comment"`
	ProcessedAt      *time.Time       `json:"processed_at,omitempty" db:"processed_at"`
	ProcessedBy      *int64           `json:"processed_by,omitempty" db:"processed_by"`
	RecommitRequired bool             `json:"recommit_required" db:"recommit_required"`
	RecommitAmount   *decimal.Decimal `json:"recommit_amount,omitempty" db:"recommit_amount"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// WithdrawalFee returns the 10% platform fee for amount, rounded to 2 places.
func WithdrawalFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(withdrawalFeeRate).Round(2)
}

// NetWithdrawalAmount returns amount minus the platform fee.
func NetWithdrawalAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Sub(WithdrawalFee(amount))
}

// WithdrawalEligibility is the outcome of the recommit check.
type WithdrawalEligibility struct {
	Allowed          bool             `json:"allowed"`
	RecommitRequired bool             `json:"recommit_required"`
	RecommitAmount   *decimal.Decimal `json:"recommit_amount,omitempty"`
}
