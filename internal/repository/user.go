package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/primevest/backend/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE referral_code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (name, email, phone, password_hash, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, balance, referral_bonus, is_active, is_admin, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.ReferralCode,
		user.ReferredBy,
	).Scan(&user.ID, &user.Balance, &user.ReferralBonus, &user.IsActive, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserFinancialSummary aggregates a user's balances, investments,
// withdrawals and referrals for the dashboard.
func (r *Repository) GetUserFinancialSummary(ctx context.Context, userID int64) (*model.FinancialSummary, error) {
	var s model.FinancialSummary
	query := `
		SELECT
			u.balance,
			u.referral_bonus,
			COALESCE((SELECT SUM(amount) FROM investments WHERE user_id = u.id), 0)                                    AS total_invested,
			COALESCE((SELECT SUM(profit_amount) FROM investments WHERE user_id = u.id AND status = 'matured'), 0)      AS total_profits,
			(SELECT COUNT(*) FROM investments WHERE user_id = u.id AND status = 'active')                              AS active_investments,
			(SELECT COUNT(*) FROM investments WHERE user_id = u.id AND status = 'matured')                             AS matured_investments,
			COALESCE((SELECT SUM(net_amount) FROM withdrawals WHERE user_id = u.id AND status = 'approved'), 0)        AS total_withdrawn,
			(SELECT COUNT(*) FROM withdrawals WHERE user_id = u.id AND status = 'pending')                             AS pending_withdrawals,
			(SELECT COUNT(*) FROM referrals WHERE referrer_id = u.id)                                                  AS total_referrals,
			COALESCE((SELECT SUM(bonus_amount) FROM referrals WHERE referrer_id = u.id AND bonus_paid = true), 0)      AS referral_bonus_earned
		FROM users u
		WHERE u.id = $1`

	err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&s.Balance, &s.ReferralBonus,
		&s.TotalInvested, &s.TotalProfits, &s.ActiveInvestments, &s.MaturedInvestments,
		&s.TotalWithdrawn, &s.PendingWithdrawals,
		&s.TotalReferrals, &s.ReferralBonusEarned,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetPlatformOverview aggregates platform-wide financial figures.
func (r *Repository) GetPlatformOverview(ctx context.Context) (*model.PlatformOverview, error) {
	var o model.PlatformOverview
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_admin = false)                                                 AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_admin = false AND is_active = true)                            AS active_users,
			(SELECT COUNT(*) FROM investments)                                                                  AS total_investments,
			(SELECT COUNT(*) FROM investments WHERE status = 'active')                                          AS active_investments,
			COALESCE((SELECT SUM(amount) FROM investments), 0)                                                  AS total_invested,
			COALESCE((SELECT SUM(profit_amount) FROM investments WHERE status = 'matured'), 0)                  AS total_profits_paid,
			COALESCE((SELECT SUM(balance) FROM users WHERE is_admin = false), 0)                                AS total_user_balance,
			COALESCE((SELECT SUM(referral_bonus) FROM users WHERE is_admin = false), 0)                         AS total_referral_bonuses,
			(SELECT COUNT(*) FROM withdrawals WHERE status = 'pending')                                         AS pending_withdrawals,
			COALESCE((SELECT SUM(net_amount) FROM withdrawals WHERE status = 'approved'), 0)                    AS total_withdrawn`

	err := r.db.QueryRowxContext(ctx, query).Scan(
		&o.TotalUsers, &o.ActiveUsers,
		&o.TotalInvestments, &o.ActiveInvestments, &o.TotalInvested, &o.TotalProfitsPaid,
		&o.TotalUserBalance, &o.TotalReferralBonus,
		&o.PendingWithdrawals, &o.TotalWithdrawn,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
