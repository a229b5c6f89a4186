package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/model"
)

var ErrPlanNotFound = errors.New("plan not found")

func (r *Repository) GetPlan(ctx context.Context, id uuid.UUID) (*model.InvestmentPlan, error) {
	var plan model.InvestmentPlan
	err := r.db.GetContext(ctx, &plan, "SELECT * FROM investment_plans WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) GetActivePlans(ctx context.Context) ([]model.InvestmentPlan, error) {
	var plans []model.InvestmentPlan
	query := "SELECT * FROM investment_plans WHERE is_active = true ORDER BY min_amount ASC"
	err := r.db.SelectContext(ctx, &plans, query)
	return plans, err
}

func (r *Repository) GetAllPlans(ctx context.Context) ([]model.InvestmentPlan, error) {
	var plans []model.InvestmentPlan
	query := "SELECT * FROM investment_plans ORDER BY min_amount ASC"
	err := r.db.SelectContext(ctx, &plans, query)
	return plans, err
}

func (r *Repository) CreatePlan(ctx context.Context, plan *model.InvestmentPlan) error {
	query := `
		INSERT INTO investment_plans (name, description, min_amount, max_amount, profit_percent, duration_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		plan.Name,
		plan.Description,
		plan.MinAmount,
		plan.MaxAmount,
		plan.ProfitPercent,
		plan.DurationDays,
		plan.IsActive,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

// UpdatePlan patches the given fields. Nil means "leave unchanged".
// Edits never touch existing investments; their figures were snapshotted
// at creation time.
func (r *Repository) UpdatePlan(ctx context.Context, id uuid.UUID, name, description *string, minAmount, maxAmount *decimal.Decimal, profitPercent *decimal.Decimal, durationDays *int, isActive *bool) (*model.InvestmentPlan, error) {
	plan, err := r.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		plan.Name = *name
	}
	if description != nil {
		plan.Description = *description
	}
	if minAmount != nil {
		plan.MinAmount = *minAmount
	}
	if maxAmount != nil {
		plan.MaxAmount = maxAmount
	}
	if profitPercent != nil {
		plan.ProfitPercent = *profitPercent
	}
	if durationDays != nil {
		plan.DurationDays = *durationDays
	}
	if isActive != nil {
		plan.IsActive = *isActive
	}

	query := `
		UPDATE investment_plans SET
			name = $2,
			description = $3,
			min_amount = $4,
			max_amount = $5,
			profit_percent = $6,
			duration_days = $7,
			is_active = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query,
		plan.ID, plan.Name, plan.Description, plan.MinAmount, plan.MaxAmount,
		plan.ProfitPercent, plan.DurationDays, plan.IsActive,
	).Scan(&plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// CountPlanInvestments reports how many investments reference a plan.
func (r *Repository) CountPlanInvestments(ctx context.Context, planID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM investments WHERE plan_id = $1", planID)
	return count, err
}

func (r *Repository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM investment_plans WHERE id = $1", id)
	return err
}
