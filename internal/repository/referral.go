package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/primevest/backend/internal/model"
)

var (
	ErrReferralNotFound = errors.New("referral not found")
	ErrBonusAlreadyPaid = errors.New("referral bonus already paid")
)

func (r *Repository) GetReferral(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	var referral model.Referral
	err := r.db.GetContext(ctx, &referral, "SELECT * FROM referrals WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

func (r *Repository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, referred_id, bonus_amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		referral.ReferrerID,
		referral.ReferredID,
		referral.BonusAmount,
	).Scan(&referral.ID, &referral.CreatedAt)
}

func (r *Repository) GetReferralByReferredID(ctx context.Context, referredID int64) (*model.Referral, error) {
	var referral model.Referral
	err := r.db.GetContext(ctx, &referral, "SELECT * FROM referrals WHERE referred_id = $1", referredID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

// GetUnpaidEligibleReferrals returns unpaid referrals whose referred user
// has made at least one investment. These are the sweep's work items.
func (r *Repository) GetUnpaidEligibleReferrals(ctx context.Context) ([]model.Referral, error) {
	var referrals []model.Referral
	err := r.db.SelectContext(ctx, &referrals, `
		SELECT r.* FROM referrals r
		WHERE r.bonus_paid = false
		  AND EXISTS (SELECT 1 FROM investments i WHERE i.user_id = r.referred_id)
		ORDER BY r.created_at ASC`)
	return referrals, err
}

func (r *Repository) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]model.Referral, error) {
	var referrals []model.Referral
	err := r.db.SelectContext(ctx, &referrals,
		"SELECT * FROM referrals WHERE referrer_id = $1 ORDER BY created_at DESC", referrerID)
	return referrals, err
}

// PayReferralBonus marks the referral paid and credits the referrer in one
// transaction. The paid flag flip is conditional, so the inline
// first-investment trigger and the settlement sweep can race on the same
// referral and only one of them pays.
func (r *Repository) PayReferralBonus(ctx context.Context, referral *model.Referral, now time.Time, description string) (*model.Transaction, error) {
	var entry *model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE referrals
			SET bonus_paid = true, bonus_paid_at = $2
			WHERE id = $1 AND bonus_paid = false`,
			referral.ID, now)
		if err != nil {
			return fmt.Errorf("failed to mark referral paid: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrBonusAlreadyPaid
		}

		entry, err = applyBalanceChange(ctx, tx, referral.ReferrerID, referral.BonusAmount, model.TransactionTypeReferralBonus,
			description, &model.Related{Kind: model.RelatedReferral, ID: referral.ID})
		if err != nil {
			return err
		}

		// Cumulative counter on the referrer, informational only.
		_, err = tx.ExecContext(ctx,
			"UPDATE users SET referral_bonus = referral_bonus + $1 WHERE id = $2",
			referral.BonusAmount, referral.ReferrerID)
		if err != nil {
			return fmt.Errorf("failed to update referral bonus total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	referral.BonusPaid = true
	referral.BonusPaidAt = &now
	return entry, nil
}

func (r *Repository) GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error) {
	stats := &model.ReferralStats{}

	err := r.db.GetContext(ctx, &stats.TotalReferrals,
		"SELECT COUNT(*) FROM referrals WHERE referrer_id = $1", referrerID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.PaidReferrals,
		"SELECT COUNT(*) FROM referrals WHERE referrer_id = $1 AND bonus_paid = true", referrerID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.BonusEarned,
		"SELECT COALESCE(SUM(bonus_amount), 0) FROM referrals WHERE referrer_id = $1 AND bonus_paid = true",
		referrerID)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
