package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// BatchError records a single item that could not be settled.
type BatchError struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BatchResult summarizes one settlement batch.
type BatchResult struct {
	Processed []uuid.UUID  `json:"processed"`
	Errors    []BatchError `json:"errors"`
}

// SettlementWorker periodically credits matured investments and pays
// outstanding referral bonuses. Runs are serialized: a tick that fires
// while the previous one is still working is skipped.
type SettlementWorker struct {
	investments *InvestmentService
	referrals   *ReferralService
	interval    time.Duration
	log         zerolog.Logger

	cron *cron.Cron
	mu   sync.Mutex
}

func NewSettlementWorker(investments *InvestmentService, referrals *ReferralService, interval time.Duration, log zerolog.Logger) *SettlementWorker {
	return &SettlementWorker{
		investments: investments,
		referrals:   referrals,
		interval:    interval,
		log:         log.With().Str("component", "settlement").Logger(),
	}
}

// Start launches the scheduler and returns. The worker stops when ctx is
// cancelled.
func (w *SettlementWorker) Start(ctx context.Context) error {
	w.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	_, err := w.cron.AddFunc("@every "+w.interval.String(), func() {
		w.RunOnce(ctx, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	w.log.Info().Dur("interval", w.interval).Msg("settlement worker started")

	go func() {
		<-ctx.Done()
		stopCtx := w.cron.Stop()
		<-stopCtx.Done()
		w.log.Info().Msg("settlement worker stopped")
	}()

	return nil
}

// RunOnce executes a single settlement pass: matured investments first,
// then referral bonuses. Safe to call concurrently with the scheduler;
// passes never overlap.
func (w *SettlementWorker) RunOnce(ctx context.Context, now time.Time) (matured, referrals *BatchResult) {
	w.mu.Lock()
	defer w.mu.Unlock()

	started := time.Now()

	matured, err := w.investments.ProcessMaturedInvestments(ctx, now)
	if err != nil {
		w.log.Error().Err(err).Msg("maturity pass failed")
		matured = &BatchResult{}
	}

	referrals, err = w.referrals.ProcessReferralBonuses(ctx, now)
	if err != nil {
		w.log.Error().Err(err).Msg("referral pass failed")
		referrals = &BatchResult{}
	}

	w.log.Info().
		Int("matured", len(matured.Processed)).
		Int("matured_errors", len(matured.Errors)).
		Int("referrals_paid", len(referrals.Processed)).
		Int("referral_errors", len(referrals.Errors)).
		Dur("took", time.Since(started)).
		Msg("settlement pass complete")

	return matured, referrals
}
