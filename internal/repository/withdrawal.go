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
	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
	ErrWithdrawalNotPending = errors.New("withdrawal is not pending")
	ErrRecommitRequired     = errors.New("recommit required before withdrawal")
)

func (r *Repository) GetWithdrawal(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	var w model.Withdrawal
	err := r.db.GetContext(ctx, &w, "SELECT * FROM withdrawals WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *Repository) GetUserWithdrawals(ctx context.Context, userID int64, limit, offset int) ([]model.Withdrawal, error) {
	var withdrawals []model.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	return withdrawals, err
}

func (r *Repository) GetPendingWithdrawals(ctx context.Context, limit, offset int) ([]model.Withdrawal, error) {
	var withdrawals []model.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	return withdrawals, err
}

// CreateWithdrawal persists a pending request. No balance is touched; the
// hold is logical until approval.
func (r *Repository) CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (user_id, amount, fee, net_amount, status, recommit_required, recommit_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		w.UserID, w.Amount, w.Fee, w.NetAmount, w.Status, w.RecommitRequired, w.RecommitAmount,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

// ApproveWithdrawal performs the full approval unit: lock the withdrawal,
// re-check the recommit rule against live investment history, flip
// pending -> approved and debit the amount with its ledger entry. All of
// it commits atomically or none of it does.
func (r *Repository) ApproveWithdrawal(ctx context.Context, id uuid.UUID, adminID int64, comment string, now time.Time) (*model.Withdrawal, error) {
	var w model.Withdrawal
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &w, "SELECT * FROM withdrawals WHERE id = $1 FOR UPDATE", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWithdrawalNotFound
			}
			return err
		}
		if w.Status != model.WithdrawalStatusPending {
			return ErrWithdrawalNotPending
		}

		// Live re-check, not the snapshot taken at request time.
		if w.RecommitRequired && w.RecommitAmount != nil {
			var recommitted bool
			err = tx.GetContext(ctx, &recommitted, `
				SELECT EXISTS (
					SELECT 1 FROM investments
					WHERE user_id = $1 AND created_at > $2 AND amount >= $3
				)`,
				w.UserID, w.CreatedAt, *w.RecommitAmount)
			if err != nil {
				return fmt.Errorf("failed to check recommit: %w", err)
			}
			if !recommitted {
				return ErrRecommitRequired
			}
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE withdrawals
			SET status = 'approved', processed_at = $2, processed_by = $3, admin_comment = $4, updated_at = NOW()
			WHERE id = $1 AND status = 'pending'`,
			w.ID, now, adminID, comment)
		if err != nil {
			return fmt.Errorf("failed to approve withdrawal: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrWithdrawalNotPending
		}

		_, err = applyBalanceChange(ctx, tx, w.UserID, w.Amount.Neg(), model.TransactionTypeWithdrawal,
			fmt.Sprintf("Withdrawal approved - ID: %s", w.ID),
			&model.Related{Kind: model.RelatedWithdrawal, ID: w.ID})
		return err
	})
	if err != nil {
		return nil, err
	}

	w.Status = model.WithdrawalStatusApproved
	w.ProcessedAt = &now
	w.ProcessedBy = &adminID
	if comment != "" {
		w.AdminComment = &comment
	}
	return &w, nil
}

// DeclineWithdrawal flips pending -> declined. No balance effect.
func (r *Repository) DeclineWithdrawal(ctx context.Context, id uuid.UUID, adminID int64, comment string, now time.Time) (*model.Withdrawal, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = 'declined', processed_at = $2, processed_by = $3, admin_comment = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		id, now, adminID, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to decline withdrawal: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Either missing or already resolved; disambiguate for the caller.
		if _, getErr := r.GetWithdrawal(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrWithdrawalNotPending
	}

	return r.GetWithdrawal(ctx, id)
}
