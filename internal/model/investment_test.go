package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testPlan(percent string, days int) *InvestmentPlan {
	return &InvestmentPlan{
		ID:            uuid.New(),
		Name:          "Starter",
		MinAmount:     decimal.NewFromInt(100),
		ProfitPercent: decimal.RequireFromString(percent),
		DurationDays:  days,
		IsActive:      true,
	}
}

func TestNewInvestment(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	plan := testPlan("30", 5)

	inv := NewInvestment(7, plan, decimal.NewFromInt(1000), now)

	require.Equal(t, int64(7), inv.UserID)
	require.Equal(t, plan.ID, inv.PlanID)
	require.True(t, inv.ProfitAmount.Equal(decimal.NewFromInt(300)), "profit = %s", inv.ProfitAmount)
	require.True(t, inv.TotalReturn.Equal(decimal.NewFromInt(1300)), "total = %s", inv.TotalReturn)
	require.Equal(t, InvestmentStatusActive, inv.Status)
	require.Equal(t, now.AddDate(0, 0, 5), inv.MaturityAt)
}

func TestProfitForRounds(t *testing.T) {
	plan := testPlan("12.5", 30)

	profit := plan.ProfitFor(decimal.RequireFromString("333.33"))

	// 333.33 * 12.5% = 41.66625, rounded to 2 places
	require.True(t, profit.Equal(decimal.RequireFromString("41.67")), "profit = %s", profit)
}

func TestPlanInRange(t *testing.T) {
	max := decimal.NewFromInt(5000)
	plan := testPlan("30", 5)
	plan.MaxAmount = &max

	require.False(t, plan.InRange(decimal.NewFromInt(99)))
	require.True(t, plan.InRange(decimal.NewFromInt(100)))
	require.True(t, plan.InRange(decimal.NewFromInt(5000)))
	require.False(t, plan.InRange(decimal.NewFromInt(5001)))

	plan.MaxAmount = nil
	require.True(t, plan.InRange(decimal.NewFromInt(1000000)))
}

func TestHasMatured(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	inv := &Investment{Status: InvestmentStatusActive, MaturityAt: now}

	require.False(t, inv.HasMatured(now.Add(-time.Second)))
	require.True(t, inv.HasMatured(now))
	require.True(t, inv.HasMatured(now.Add(time.Hour)))

	inv.Status = InvestmentStatusMatured
	require.False(t, inv.HasMatured(now.Add(time.Hour)))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &Investment{Status: InvestmentStatusActive, MaturityAt: now.AddDate(0, 0, 5)}

	require.Equal(t, 5, inv.DaysRemaining(now))
	require.Equal(t, 0, inv.DaysRemaining(now.AddDate(0, 0, 6)))
}
