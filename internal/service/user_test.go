package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/primevest/backend/internal/model"
	"github.com/primevest/backend/internal/repository"
)

type fakeUserStore struct {
	byEmail map[string]*model.User
	byCode  map[string]*model.User
	nextID  int64
}

func (f *fakeUserStore) GetUser(context.Context, int64) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByReferralCode(_ context.Context, code string) (*model.User, error) {
	user, ok := f.byCode[code]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	if f.byEmail == nil {
		f.byEmail = map[string]*model.User{}
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetUserFinancialSummary(context.Context, int64) (*model.FinancialSummary, error) {
	return &model.FinancialSummary{}, nil
}

func (f *fakeUserStore) GetPlatformOverview(context.Context) (*model.PlatformOverview, error) {
	return &model.PlatformOverview{}, nil
}

func newTestUserService(store *fakeUserStore, referrals *fakeReferralStore) *UserService {
	log := zerolog.Nop()
	return NewUserService(store, NewReferralService(referrals, decimal.NewFromInt(500), log), log)
}

func TestRegisterAssignsReferralCode(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestUserService(store, &fakeReferralStore{})

	user, err := svc.Register(context.Background(), "Alice", "Alice@Example.com ", "hunter2secret", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Len(t, user.ReferralCode, 10)
	require.Nil(t, user.ReferredBy)
	require.NotEqual(t, "hunter2secret", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*model.User{
		"alice@example.com": {ID: 1, Email: "alice@example.com"},
	}}
	svc := newTestUserService(store, &fakeReferralStore{})

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter2secret", nil, nil)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterWithReferralCode(t *testing.T) {
	referrer := &model.User{ID: 1, Name: "Ref", ReferralCode: "ABCDEF1234"}
	store := &fakeUserStore{byCode: map[string]*model.User{"ABCDEF1234": referrer}, nextID: 1}
	referrals := &fakeReferralStore{byReferred: map[int64]*model.Referral{}}
	svc := newTestUserService(store, referrals)

	code := "ABCDEF1234"
	user, err := svc.Register(context.Background(), "Bob", "bob@example.com", "hunter2secret", nil, &code)
	require.NoError(t, err)
	require.NotNil(t, user.ReferredBy)
	require.Equal(t, int64(1), *user.ReferredBy)
	require.Len(t, referrals.created, 1)
	require.Equal(t, int64(1), referrals.created[0].ReferrerID)
	require.Equal(t, user.ID, referrals.created[0].ReferredID)
}

func TestRegisterUnknownReferralCode(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestUserService(store, &fakeReferralStore{})

	code := "NOPE123456"
	_, err := svc.Register(context.Background(), "Bob", "bob@example.com", "hunter2secret", nil, &code)
	require.ErrorIs(t, err, ErrInvalidReferralCode)
}

func TestAuthenticate(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestUserService(store, &fakeReferralStore{})

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter2secret", nil, nil)
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice@example.com", "hunter2secret")
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "hunter2secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
