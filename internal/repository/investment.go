package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/model"
)

var (
	ErrInvestmentNotFound  = errors.New("investment not found")
	ErrInvestmentNotActive = errors.New("investment is not active")
)

func (r *Repository) GetInvestment(ctx context.Context, id uuid.UUID) (*model.Investment, error) {
	var inv model.Investment
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM investments WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) GetUserInvestments(ctx context.Context, userID int64, limit, offset int) ([]model.Investment, error) {
	var investments []model.Investment
	err := r.db.SelectContext(ctx, &investments, `
		SELECT * FROM investments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	return investments, err
}

func (r *Repository) CountUserInvestments(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM investments WHERE user_id = $1", userID)
	return count, err
}

// GetLastInvestment returns the user's most recent investment by creation
// time, or ErrInvestmentNotFound when the user has never invested.
func (r *Repository) GetLastInvestment(ctx context.Context, userID int64) (*model.Investment, error) {
	var inv model.Investment
	err := r.db.GetContext(ctx, &inv, `
		SELECT * FROM investments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// HasRecommitted reports whether the user invested at least minAmount
// after the given point in time. This is the recommit rule both the
// eligibility check and withdrawal approval rely on.
func (r *Repository) HasRecommitted(ctx context.Context, userID int64, after time.Time, minAmount decimal.Decimal) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM investments
			WHERE user_id = $1 AND created_at > $2 AND amount >= $3
		)`,
		userID, after, minAmount)
	return exists, err
}

// CreateInvestment persists the investment and debits its amount in one
// transaction. The ledger entry back-links the investment id, so the row
// is inserted first and the debit second; both commit or neither does.
func (r *Repository) CreateInvestment(ctx context.Context, inv *model.Investment, description string) (*model.Transaction, error) {
	var entry *model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO investments (user_id, plan_id, amount, profit_amount, total_return, status, maturity_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			inv.UserID, inv.PlanID, inv.Amount, inv.ProfitAmount, inv.TotalReturn, inv.Status, inv.MaturityAt,
		).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create investment: %w", err)
		}

		entry, err = applyBalanceChange(ctx, tx, inv.UserID, inv.Amount.Neg(), model.TransactionTypeInvestment,
			description, &model.Related{Kind: model.RelatedInvestment, ID: inv.ID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetAllInvestments returns investments across all users, newest first.
func (r *Repository) GetAllInvestments(ctx context.Context, limit, offset int) ([]model.Investment, error) {
	var investments []model.Investment
	err := r.db.SelectContext(ctx, &investments, `
		SELECT * FROM investments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	return investments, err
}

// DeleteInvestment removes an investment row. Callers must refuse active
// investments before reaching here.
func (r *Repository) DeleteInvestment(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM investments WHERE id = $1", id)
	return err
}

// GetMaturedInvestments returns active investments whose maturity date has
// passed, oldest first.
func (r *Repository) GetMaturedInvestments(ctx context.Context, now time.Time) ([]model.Investment, error) {
	var investments []model.Investment
	err := r.db.SelectContext(ctx, &investments, `
		SELECT * FROM investments
		WHERE status = 'active' AND maturity_at <= $1
		ORDER BY maturity_at ASC`,
		now)
	return investments, err
}

// CreditMaturedInvestment flips the investment to matured and credits its
// total return in one transaction. The flip is conditional on the row
// still being active, so a concurrent sweep or a rerun cannot credit the
// same investment twice.
func (r *Repository) CreditMaturedInvestment(ctx context.Context, inv *model.Investment, now time.Time, description string) (*model.Transaction, error) {
	var entry *model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE investments
			SET status = 'matured', credited_at = $2, updated_at = NOW()
			WHERE id = $1 AND status = 'active'`,
			inv.ID, now)
		if err != nil {
			return fmt.Errorf("failed to mature investment: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvestmentNotActive
		}

		entry, err = applyBalanceChange(ctx, tx, inv.UserID, inv.TotalReturn, model.TransactionTypeProfit,
			description, &model.Related{Kind: model.RelatedInvestment, ID: inv.ID})
		return err
	})
	if err != nil {
		return nil, err
	}

	inv.Status = model.InvestmentStatusMatured
	inv.CreditedAt = &now
	return entry, nil
}
