package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan limits enforced on create/update.
const (
	MaxProfitPercent = 1000
	MaxPlanDuration  = 365
	MinPlanDuration  = 1
)

type InvestmentPlan struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	Description   string           `json:"description" db:"description"`
	MinAmount     decimal.Decimal  `json:"min_amount" db:"min_amount"`
	MaxAmount     *decimal.Decimal `json:"max_amount,omitempty" db:"max_amount"`
	ProfitPercent decimal.Decimal  `json:"profit_percent" db:"profit_percent"`
	DurationDays  int              `json:"duration_days" db:"duration_days"`
	IsActive      bool             `json:"is_active" db:"is_active"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// InRange reports whether amount satisfies the plan's min/max bounds.
func (p *InvestmentPlan) InRange(amount decimal.Decimal) bool {
	if amount.LessThan(p.MinAmount) {
		return false
	}
	if p.MaxAmount != nil && amount.GreaterThan(*p.MaxAmount) {
		return false
	}
	return true
}

// ProfitFor returns amount * profit_percent / 100, rounded to 2 places.
func (p *InvestmentPlan) ProfitFor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.ProfitPercent).Div(decimal.NewFromInt(100)).Round(2)
}

// MaturityAt returns the maturity timestamp for an investment opened at now.
func (p *InvestmentPlan) MaturityAt(now time.Time) time.Time {
	return now.AddDate(0, 0, p.DurationDays)
}
