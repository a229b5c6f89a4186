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
	ErrSelfReferral          = errors.New("users cannot refer themselves")
	ErrReferralAlreadyExists = errors.New("user is already referred")
)

type ReferralStore interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateReferral(ctx context.Context, ref *model.Referral) error
	GetReferralByReferredID(ctx context.Context, referredID int64) (*model.Referral, error)
	GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]model.Referral, error)
	GetUnpaidEligibleReferrals(ctx context.Context) ([]model.Referral, error)
	PayReferralBonus(ctx context.Context, ref *model.Referral, now time.Time, description string) (*model.Transaction, error)
	GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error)
}

type ReferralService struct {
	store       ReferralStore
	bonusAmount decimal.Decimal
	log         zerolog.Logger
}

func NewReferralService(store ReferralStore, bonusAmount decimal.Decimal, log zerolog.Logger) *ReferralService {
	return &ReferralService{
		store:       store,
		bonusAmount: bonusAmount,
		log:         log.With().Str("component", "referrals").Logger(),
	}
}

// CreateReferral links a newly registered user to their referrer. The bonus
// is recorded unpaid and only released once the referred user invests.
func (s *ReferralService) CreateReferral(ctx context.Context, referrerID, referredID int64) (*model.Referral, error) {
	if referrerID == referredID {
		return nil, ErrSelfReferral
	}

	existing, err := s.store.GetReferralByReferredID(ctx, referredID)
	if err != nil && !errors.Is(err, repository.ErrReferralNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReferralAlreadyExists
	}

	ref := &model.Referral{
		ID:          uuid.New(),
		ReferrerID:  referrerID,
		ReferredID:  referredID,
		BonusAmount: s.bonusAmount,
	}
	if err := s.store.CreateReferral(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// PayFirstInvestmentBonus releases the referrer's bonus after the referred
// user's first investment. Users without a referrer and bonuses already
// paid are no-ops.
func (s *ReferralService) PayFirstInvestmentBonus(ctx context.Context, referredID int64, now time.Time) error {
	ref, err := s.store.GetReferralByReferredID(ctx, referredID)
	if err != nil {
		if errors.Is(err, repository.ErrReferralNotFound) {
			return nil
		}
		return err
	}
	if ref.BonusPaid {
		return nil
	}
	return s.payBonus(ctx, ref, now)
}

// ProcessReferralBonuses sweeps all unpaid bonuses whose referred user has
// invested. Covers bonuses missed at investment time.
func (s *ReferralService) ProcessReferralBonuses(ctx context.Context, now time.Time) (*BatchResult, error) {
	unpaid, err := s.store.GetUnpaidEligibleReferrals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unpaid referrals: %w", err)
	}

	result := &BatchResult{}
	for i := range unpaid {
		ref := &unpaid[i]
		if err := s.payBonus(ctx, ref, now); err != nil {
			if errors.Is(err, repository.ErrBonusAlreadyPaid) {
				continue
			}
			s.log.Error().Err(err).Str("referral_id", ref.ID.String()).Msg("referral bonus payout failed")
			result.Errors = append(result.Errors, BatchError{ID: ref.ID, Reason: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, ref.ID)
	}
	return result, nil
}

func (s *ReferralService) payBonus(ctx context.Context, ref *model.Referral, now time.Time) error {
	referred, err := s.store.GetUser(ctx, ref.ReferredID)
	if err != nil {
		return err
	}
	description := fmt.Sprintf("Referral bonus for %s", referred.Name)
	_, err = s.store.PayReferralBonus(ctx, ref, now, description)
	return err
}

func (s *ReferralService) GetReferrals(ctx context.Context, referrerID int64) ([]model.Referral, error) {
	return s.store.GetReferralsByReferrer(ctx, referrerID)
}

func (s *ReferralService) GetStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error) {
	return s.store.GetReferralStats(ctx, referrerID)
}
