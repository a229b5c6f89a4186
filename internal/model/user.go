package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Email         string          `json:"email" db:"email"`
	Phone         *string         `json:"phone,omitempty" db:"phone"`
	PasswordHash  string          `json:"-" db:"password_hash"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	ReferralBonus decimal.Decimal `json:"referral_bonus" db:"referral_bonus"` // cumulative, informational
	ReferralCode  string          `json:"referral_code" db:"referral_code"`
	ReferredBy    *int64          `json:"referred_by,omitempty" db:"referred_by"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	IsAdmin       bool            `json:"is_admin" db:"is_admin"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// FinancialSummary aggregates a user's money movements for the dashboard.
type FinancialSummary struct {
	Balance             decimal.Decimal `json:"balance"`
	ReferralBonus       decimal.Decimal `json:"referral_bonus"`
	TotalInvested       decimal.Decimal `json:"total_invested"`
	TotalProfits        decimal.Decimal `json:"total_profits"`
	ActiveInvestments   int             `json:"active_investments"`
	MaturedInvestments  int             `json:"matured_investments"`
	TotalWithdrawn      decimal.Decimal `json:"total_withdrawn"`
	PendingWithdrawals  int             `json:"pending_withdrawals"`
	TotalReferrals      int             `json:"total_referrals"`
	ReferralBonusEarned decimal.Decimal `json:"referral_bonus_earned"`
}

// PlatformOverview aggregates platform-wide figures for the admin dashboard.
type PlatformOverview struct {
	TotalUsers         int             `json:"total_users"`
	ActiveUsers        int             `json:"active_users"`
	TotalInvestments   int             `json:"total_investments"`
	ActiveInvestments  int             `json:"active_investments"`
	TotalInvested      decimal.Decimal `json:"total_invested"`
	TotalProfitsPaid   decimal.Decimal `json:"total_profits_paid"`
	TotalUserBalance   decimal.Decimal `json:"total_user_balance"`
	TotalReferralBonus decimal.Decimal `json:"total_referral_bonuses"`
	PendingWithdrawals int             `json:"pending_withdrawals"`
	TotalWithdrawn     decimal.Decimal `json:"total_withdrawn"`
}
