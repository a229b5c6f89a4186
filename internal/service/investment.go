package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/model"
	"github.com/primevest/backend/internal/repository"
)

var (
	ErrPlanInactive     = errors.New("investment plan is not active")
	ErrAmountOutOfRange = errors.New("amount is outside the plan's limits")
	ErrActiveInvestment = errors.New("active investments cannot be deleted")
)

// InvestmentStore is the subset of the repository the investment service
// depends on.
type InvestmentStore interface {
	GetPlan(ctx context.Context, id uuid.UUID) (*model.InvestmentPlan, error)
	CreateInvestment(ctx context.Context, inv *model.Investment, description string) (*model.Transaction, error)
	GetInvestment(ctx context.Context, id uuid.UUID) (*model.Investment, error)
	GetUserInvestments(ctx context.Context, userID int64, limit, offset int) ([]model.Investment, error)
	CountUserInvestments(ctx context.Context, userID int64) (int, error)
	GetAllInvestments(ctx context.Context, limit, offset int) ([]model.Investment, error)
	DeleteInvestment(ctx context.Context, id uuid.UUID) error
	GetMaturedInvestments(ctx context.Context, now time.Time) ([]model.Investment, error)
	CreditMaturedInvestment(ctx context.Context, inv *model.Investment, now time.Time, description string) (*model.Transaction, error)
}

type InvestmentService struct {
	store     InvestmentStore
	referrals *ReferralService
	log       zerolog.Logger
}

func NewInvestmentService(store InvestmentStore, referrals *ReferralService, log zerolog.Logger) *InvestmentService {
	return &InvestmentService{
		store:     store,
		referrals: referrals,
		log:       log.With().Str("component", "investments").Logger(),
	}
}

// CreateInvestment validates the plan and amount, debits the user's balance
// and opens a term deposit maturing after the plan's duration. The first
// investment a referred user makes also triggers their referrer's bonus;
// a failure there never rolls back the investment itself.
func (s *InvestmentService) CreateInvestment(ctx context.Context, userID int64, planID uuid.UUID, amount decimal.Decimal, now time.Time) (*model.Investment, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}
	if !plan.InRange(amount) {
		return nil, ErrAmountOutOfRange
	}

	priorCount, err := s.store.CountUserInvestments(ctx, userID)
	if err != nil {
		return nil, err
	}

	inv := model.NewInvestment(userID, plan, amount, now)
	description := fmt.Sprintf("Investment in %s", plan.Name)
	if _, err := s.store.CreateInvestment(ctx, inv, description); err != nil {
		return nil, err
	}

	if priorCount == 0 {
		if err := s.referrals.PayFirstInvestmentBonus(ctx, userID, now); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("first investment referral bonus not paid")
		}
	}

	return inv, nil
}

func (s *InvestmentService) GetInvestment(ctx context.Context, id uuid.UUID) (*model.Investment, error) {
	return s.store.GetInvestment(ctx, id)
}

func (s *InvestmentService) GetUserInvestments(ctx context.Context, userID int64, limit, offset int) ([]model.Investment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.GetUserInvestments(ctx, userID, limit, offset)
}

func (s *InvestmentService) ListInvestments(ctx context.Context, limit, offset int) ([]model.Investment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.GetAllInvestments(ctx, limit, offset)
}

// DeleteInvestment removes a finished investment and its record. Active
// investments carry a pending liability and must be settled first.
func (s *InvestmentService) DeleteInvestment(ctx context.Context, id uuid.UUID) error {
	inv, err := s.store.GetInvestment(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status == model.InvestmentStatusActive {
		return ErrActiveInvestment
	}
	return s.store.DeleteInvestment(ctx, id)
}

// ProcessMaturedInvestments credits every active investment whose maturity
// date has passed. Each investment settles in its own transaction; one
// failure never blocks the rest of the batch.
func (s *InvestmentService) ProcessMaturedInvestments(ctx context.Context, now time.Time) (*BatchResult, error) {
	due, err := s.store.GetMaturedInvestments(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list matured investments: %w", err)
	}

	result := &BatchResult{}
	for i := range due {
		inv := &due[i]
		description := fmt.Sprintf("Investment return credited - %s", inv.ID)
		if _, err := s.store.CreditMaturedInvestment(ctx, inv, now, description); err != nil {
			if errors.Is(err, repository.ErrInvestmentNotActive) {
				// Already settled by a concurrent run.
				continue
			}
			s.log.Error().Err(err).Str("investment_id", inv.ID.String()).Msg("maturity credit failed")
			result.Errors = append(result.Errors, BatchError{ID: inv.ID, Reason: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, inv.ID)
	}
	return result, nil
}
