package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusMatured   InvestmentStatus = "matured"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
)

type Investment struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       int64            `json:"user_id" db:"user_id"`
	PlanID       uuid.UUID        `json:"plan_id" db:"plan_id"`
	Amount       decimal.Decimal  `json:"amount" db:"amount"`
	ProfitAmount decimal.Decimal  `json:"profit_amount" db:"profit_amount"`
	TotalReturn  decimal.Decimal  `json:"total_return" db:"total_return"`
	Status       InvestmentStatus `json:"status" db:"status"`
	MaturityAt   time.Time        `json:"maturity_at" db:"maturity_at"`
	CreditedAt   *time.Time       `json:"credited_at,omitempty" db:"credited_at"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// NewInvestment derives the investment figures from a plan. The returned
// investment is not yet persisted and carries no ID.
func NewInvestment(userID int64, plan *InvestmentPlan, amount decimal.Decimal, now time.Time) *Investment {
	profit := plan.ProfitFor(amount)
	return &Investment{
		UserID:       userID,
		PlanID:       plan.ID,
		Amount:       amount,
		ProfitAmount: profit,
		TotalReturn:  amount.Add(profit),
		Status:       InvestmentStatusActive,
		MaturityAt:   plan.MaturityAt(now),
	}
}

// HasMatured reports whether the investment is active and past its maturity date.
func (i *Investment) HasMatured(now time.Time) bool {
	return i.Status == InvestmentStatusActive && !now.Before(i.MaturityAt)
}

// DaysRemaining returns whole days until maturity, zero once matured or closed.
func (i *Investment) DaysRemaining(now time.Time) int {
	if i.Status != InvestmentStatusActive || !now.Before(i.MaturityAt) {
		return 0
	}
	return int(i.MaturityAt.Sub(now).Hours() / 24)
}

// ProgressPercent returns how far through its term the investment is, 0-100.
func (i *Investment) ProgressPercent(now time.Time) float64 {
	if i.Status != InvestmentStatusActive {
		return 100
	}
	total := i.MaturityAt.Sub(i.CreatedAt)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(i.CreatedAt)
	if elapsed >= total {
		return 100
	}
	if elapsed < 0 {
		return 0
	}
	return float64(elapsed) / float64(total) * 100
}
