package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Referral struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ReferrerID  int64           `json:"referrer_id" db:"referrer_id"`
	ReferredID  int64           `json:"referred_id" db:"referred_id"`
	BonusAmount decimal.Decimal `json:"bonus_amount" db:"bonus_amount"`
	BonusPaid   bool            `json:"bonus_paid" db:"bonus_paid"`
	BonusPaidAt *time.Time      `json:"bonus_paid_at,omitempty" db:"bonus_paid_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type ReferralStats struct {
	TotalReferrals int             `json:"total_referrals"`
	PaidReferrals  int             `json:"paid_referrals"`
	BonusEarned    decimal.Decimal `json:"bonus_earned"`
}
