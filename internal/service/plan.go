package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/model"
)

var (
	ErrInvalidPlan = errors.New("invalid plan")
	ErrPlanInUse   = errors.New("plan has investments and cannot be deleted")
)

type PlanStore interface {
	GetPlan(ctx context.Context, id uuid.UUID) (*model.InvestmentPlan, error)
	GetActivePlans(ctx context.Context) ([]model.InvestmentPlan, error)
	GetAllPlans(ctx context.Context) ([]model.InvestmentPlan, error)
	CreatePlan(ctx context.Context, plan *model.InvestmentPlan) error
	UpdatePlan(ctx context.Context, id uuid.UUID, name, description *string, minAmount, maxAmount, profitPercent *decimal.Decimal, durationDays *int, isActive *bool) (*model.InvestmentPlan, error)
	CountPlanInvestments(ctx context.Context, planID uuid.UUID) (int, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
}

type PlanService struct {
	store PlanStore
}

func NewPlanService(store PlanStore) *PlanService {
	return &PlanService{store: store}
}

func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*model.InvestmentPlan, error) {
	return s.store.GetPlan(ctx, id)
}

func (s *PlanService) GetActivePlans(ctx context.Context) ([]model.InvestmentPlan, error) {
	return s.store.GetActivePlans(ctx)
}

func (s *PlanService) GetAllPlans(ctx context.Context) ([]model.InvestmentPlan, error) {
	return s.store.GetAllPlans(ctx)
}

func (s *PlanService) CreatePlan(ctx context.Context, plan *model.InvestmentPlan) (*model.InvestmentPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, id uuid.UUID, name, description *string, minAmount, maxAmount, profitPercent *decimal.Decimal, durationDays *int, isActive *bool) (*model.InvestmentPlan, error) {
	current, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	// Merge the patch and validate the result before anything is written.
	merged := *current
	if name != nil {
		merged.Name = *name
	}
	if description != nil {
		merged.Description = *description
	}
	if minAmount != nil {
		merged.MinAmount = *minAmount
	}
	if maxAmount != nil {
		merged.MaxAmount = maxAmount
	}
	if profitPercent != nil {
		merged.ProfitPercent = *profitPercent
	}
	if durationDays != nil {
		merged.DurationDays = *durationDays
	}
	if isActive != nil {
		merged.IsActive = *isActive
	}
	if err := validatePlan(&merged); err != nil {
		return nil, err
	}

	return s.store.UpdatePlan(ctx, id, name, description, minAmount, maxAmount, profitPercent, durationDays, isActive)
}

// DeletePlan removes a plan that has never been invested in. Plans with
// investments should be deactivated instead.
func (s *PlanService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	count, err := s.store.CountPlanInvestments(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPlanInUse
	}
	return s.store.DeletePlan(ctx, id)
}

func validatePlan(plan *model.InvestmentPlan) error {
	if plan.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	if !plan.MinAmount.IsPositive() {
		return fmt.Errorf("%w: minimum amount must be positive", ErrInvalidPlan)
	}
	if plan.MaxAmount != nil && plan.MaxAmount.LessThanOrEqual(plan.MinAmount) {
		return fmt.Errorf("%w: maximum amount must exceed the minimum", ErrInvalidPlan)
	}
	if !plan.ProfitPercent.IsPositive() || plan.ProfitPercent.GreaterThan(decimal.NewFromInt(model.MaxProfitPercent)) {
		return fmt.Errorf("%w: profit percent must be between 0 and %d", ErrInvalidPlan, model.MaxProfitPercent)
	}
	if plan.DurationDays < model.MinPlanDuration || plan.DurationDays > model.MaxPlanDuration {
		return fmt.Errorf("%w: duration must be between %d and %d days", ErrInvalidPlan, model.MinPlanDuration, model.MaxPlanDuration)
	}
	return nil
}
