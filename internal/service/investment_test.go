package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/primevest/backend/internal/model"
	"github.com/primevest/backend/internal/repository"
)

type fakeInvestmentStore struct {
	plans      map[uuid.UUID]*model.InvestmentPlan
	priorCount int
	created    []*model.Investment
	matured    []model.Investment
	creditErr  map[uuid.UUID]error
	credited   []uuid.UUID
}

func (f *fakeInvestmentStore) GetPlan(_ context.Context, id uuid.UUID) (*model.InvestmentPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrPlanNotFound
	}
	return plan, nil
}

func (f *fakeInvestmentStore) CreateInvestment(_ context.Context, inv *model.Investment, _ string) (*model.Transaction, error) {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	f.created = append(f.created, inv)
	return &model.Transaction{}, nil
}

func (f *fakeInvestmentStore) GetInvestment(_ context.Context, id uuid.UUID) (*model.Investment, error) {
	for _, inv := range f.created {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, repository.ErrInvestmentNotFound
}

func (f *fakeInvestmentStore) GetUserInvestments(context.Context, int64, int, int) ([]model.Investment, error) {
	return nil, nil
}

func (f *fakeInvestmentStore) CountUserInvestments(context.Context, int64) (int, error) {
	return f.priorCount, nil
}

func (f *fakeInvestmentStore) GetAllInvestments(context.Context, int, int) ([]model.Investment, error) {
	out := make([]model.Investment, 0, len(f.created))
	for _, inv := range f.created {
		out = append(out, *inv)
	}
	return out, nil
}

func (f *fakeInvestmentStore) DeleteInvestment(_ context.Context, id uuid.UUID) error {
	for i, inv := range f.created {
		if inv.ID == id {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return repository.ErrInvestmentNotFound
}

func (f *fakeInvestmentStore) GetMaturedInvestments(context.Context, time.Time) ([]model.Investment, error) {
	return f.matured, nil
}

func (f *fakeInvestmentStore) CreditMaturedInvestment(_ context.Context, inv *model.Investment, _ time.Time, _ string) (*model.Transaction, error) {
	if err := f.creditErr[inv.ID]; err != nil {
		return nil, err
	}
	f.credited = append(f.credited, inv.ID)
	return &model.Transaction{}, nil
}

func newTestInvestmentService(store *fakeInvestmentStore, referrals *fakeReferralStore) *InvestmentService {
	log := zerolog.Nop()
	refSvc := NewReferralService(referrals, decimal.NewFromInt(500), log)
	return NewInvestmentService(store, refSvc, log)
}

func activePlan() *model.InvestmentPlan {
	max := decimal.NewFromInt(5000)
	return &model.InvestmentPlan{
		ID:            uuid.New(),
		Name:          "Growth",
		MinAmount:     decimal.NewFromInt(100),
		MaxAmount:     &max,
		ProfitPercent: decimal.NewFromInt(30),
		DurationDays:  5,
		IsActive:      true,
	}
}

func TestCreateInvestmentInactivePlan(t *testing.T) {
	plan := activePlan()
	plan.IsActive = false
	store := &fakeInvestmentStore{plans: map[uuid.UUID]*model.InvestmentPlan{plan.ID: plan}}
	svc := newTestInvestmentService(store, &fakeReferralStore{})

	_, err := svc.CreateInvestment(context.Background(), 1, plan.ID, decimal.NewFromInt(1000), time.Now())
	require.ErrorIs(t, err, ErrPlanInactive)
	require.Empty(t, store.created)
}

func TestCreateInvestmentAmountOutOfRange(t *testing.T) {
	plan := activePlan()
	store := &fakeInvestmentStore{plans: map[uuid.UUID]*model.InvestmentPlan{plan.ID: plan}}
	svc := newTestInvestmentService(store, &fakeReferralStore{})

	_, err := svc.CreateInvestment(context.Background(), 1, plan.ID, decimal.NewFromInt(50), time.Now())
	require.ErrorIs(t, err, ErrAmountOutOfRange)

	_, err = svc.CreateInvestment(context.Background(), 1, plan.ID, decimal.NewFromInt(9999), time.Now())
	require.ErrorIs(t, err, ErrAmountOutOfRange)
}

func TestCreateInvestmentDerivesFigures(t *testing.T) {
	plan := activePlan()
	store := &fakeInvestmentStore{plans: map[uuid.UUID]*model.InvestmentPlan{plan.ID: plan}, priorCount: 3}
	svc := newTestInvestmentService(store, &fakeReferralStore{})

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := svc.CreateInvestment(context.Background(), 1, plan.ID, decimal.NewFromInt(1000), now)
	require.NoError(t, err)
	require.True(t, inv.ProfitAmount.Equal(decimal.NewFromInt(300)))
	require.True(t, inv.TotalReturn.Equal(decimal.NewFromInt(1300)))
	require.Equal(t, now.AddDate(0, 0, 5), inv.MaturityAt)
	require.Len(t, store.created, 1)
}

func TestCreateInvestmentPaysFirstInvestmentBonus(t *testing.T) {
	plan := activePlan()
	store := &fakeInvestmentStore{plans: map[uuid.UUID]*model.InvestmentPlan{plan.ID: plan}, priorCount: 0}

	referrals := &fakeReferralStore{
		users: map[int64]*model.User{2: {ID: 2, Name: "Referred"}},
		byReferred: map[int64]*model.Referral{
			2: {ID: uuid.New(), ReferrerID: 1, ReferredID: 2, BonusAmount: decimal.NewFromInt(500)},
		},
	}
	svc := newTestInvestmentService(store, referrals)

	_, err := svc.CreateInvestment(context.Background(), 2, plan.ID, decimal.NewFromInt(1000), time.Now())
	require.NoError(t, err)
	require.Len(t, referrals.paid, 1)
}

func TestCreateInvestmentBonusFailureDoesNotFail(t *testing.T) {
	plan := activePlan()
	store := &fakeInvestmentStore{plans: map[uuid.UUID]*model.InvestmentPlan{plan.ID: plan}, priorCount: 0}

	referrals := &fakeReferralStore{
		users: map[int64]*model.User{2: {ID: 2, Name: "Referred"}},
		byReferred: map[int64]*model.Referral{
			2: {ID: uuid.New(), ReferrerID: 1, ReferredID: 2, BonusAmount: decimal.NewFromInt(500)},
		},
		payErr: errors.New("db down"),
	}
	svc := newTestInvestmentService(store, referrals)

	_, err := svc.CreateInvestment(context.Background(), 2, plan.ID, decimal.NewFromInt(1000), time.Now())
	require.NoError(t, err)
	require.Len(t, store.created, 1)
}

func TestCreateInvestmentRepeatInvestmentSkipsBonus(t *testing.T) {
	plan := activePlan()
	store := &fakeInvestmentStore{plans: map[uuid.UUID]*model.InvestmentPlan{plan.ID: plan}, priorCount: 2}

	referrals := &fakeReferralStore{
		users: map[int64]*model.User{2: {ID: 2, Name: "Referred"}},
		byReferred: map[int64]*model.Referral{
			2: {ID: uuid.New(), ReferrerID: 1, ReferredID: 2, BonusAmount: decimal.NewFromInt(500)},
		},
	}
	svc := newTestInvestmentService(store, referrals)

	_, err := svc.CreateInvestment(context.Background(), 2, plan.ID, decimal.NewFromInt(1000), time.Now())
	require.NoError(t, err)
	require.Empty(t, referrals.paid)
}

func TestProcessMaturedInvestmentsIsolatesFailures(t *testing.T) {
	good1 := model.Investment{ID: uuid.New(), UserID: 1, TotalReturn: decimal.NewFromInt(1300)}
	bad := model.Investment{ID: uuid.New(), UserID: 2, TotalReturn: decimal.NewFromInt(650)}
	good2 := model.Investment{ID: uuid.New(), UserID: 3, TotalReturn: decimal.NewFromInt(2600)}
	raced := model.Investment{ID: uuid.New(), UserID: 4, TotalReturn: decimal.NewFromInt(100)}

	store := &fakeInvestmentStore{
		matured: []model.Investment{good1, bad, good2, raced},
		creditErr: map[uuid.UUID]error{
			bad.ID:   errors.New("deadlock"),
			raced.ID: repository.ErrInvestmentNotActive,
		},
	}
	svc := newTestInvestmentService(store, &fakeReferralStore{})

	result, err := svc.ProcessMaturedInvestments(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{good1.ID, good2.ID}, result.Processed)
	require.Len(t, result.Errors, 1)
	require.Equal(t, bad.ID, result.Errors[0].ID)
}

func TestDeleteInvestmentRefusesActive(t *testing.T) {
	store := &fakeInvestmentStore{}
	svc := newTestInvestmentService(store, &fakeReferralStore{})

	active := &model.Investment{ID: uuid.New(), Status: model.InvestmentStatusActive}
	matured := &model.Investment{ID: uuid.New(), Status: model.InvestmentStatusMatured}
	store.created = []*model.Investment{active, matured}

	err := svc.DeleteInvestment(context.Background(), active.ID)
	require.ErrorIs(t, err, ErrActiveInvestment)
	require.Len(t, store.created, 2)

	require.NoError(t, svc.DeleteInvestment(context.Background(), matured.ID))
	require.Len(t, store.created, 1)
}
