package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/primevest/backend/internal/model"
	"github.com/primevest/backend/internal/repository"
)

var (
	ErrInvalidReferralCode = errors.New("referral code does not exist")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	GetUserFinancialSummary(ctx context.Context, userID int64) (*model.FinancialSummary, error)
	GetPlatformOverview(ctx context.Context) (*model.PlatformOverview, error)
}

type UserService struct {
	store     UserStore
	referrals *ReferralService
	log       zerolog.Logger
}

func NewUserService(store UserStore, referrals *ReferralService, log zerolog.Logger) *UserService {
	return &UserService{
		store:     store,
		referrals: referrals,
		log:       log.With().Str("component", "users").Logger(),
	}
}

// Register creates a new account. A valid referral code links the account
// to its referrer with an unpaid bonus that releases on the user's first
// investment.
func (s *UserService) Register(ctx context.Context, name, email, password string, phone, referralCode *string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	var referrer *model.User
	if referralCode != nil && *referralCode != "" {
		ref, err := s.store.GetUserByReferralCode(ctx, *referralCode)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrInvalidReferralCode
			}
			return nil, err
		}
		referrer = ref
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		ReferralCode: newReferralCode(),
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if referrer != nil {
		if _, err := s.referrals.CreateReferral(ctx, referrer.ID, user.ID); err != nil {
			s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("referral record not created")
		}
	}

	return user, nil
}

// Authenticate checks an email and password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) IsAdmin(ctx context.Context, id int64) (bool, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (s *UserService) GetFinancialSummary(ctx context.Context, userID int64) (*model.FinancialSummary, error) {
	return s.store.GetUserFinancialSummary(ctx, userID)
}

func (s *UserService) GetPlatformOverview(ctx context.Context) (*model.PlatformOverview, error) {
	return s.store.GetPlatformOverview(ctx)
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}
