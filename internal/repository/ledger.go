package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/model"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAmountSignMismatch  = errors.New("amount sign does not match transaction type")
)

// lockBalance reads the user's balance under a row lock so concurrent
// mutations against the same account serialize.
func lockBalance(ctx context.Context, tx *sqlx.Tx, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, "SELECT balance FROM users WHERE id = $1 FOR UPDATE", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to lock balance: %w", err)
	}
	return balance, nil
}

// applyBalanceChange is the single path through which a balance moves.
// It locks the user row, rejects debits that would go negative, writes the
// new balance and appends the ledger entry, all inside the caller's
// transaction. Withdrawal entries are updated in place when one already
// references the withdrawal, so a withdrawal never gets a second entry.
func applyBalanceChange(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal, txType model.TransactionType, description string, related *model.Related) (*model.Transaction, error) {
	if txType.IsCredit() != (amount.Sign() > 0) {
		return nil, ErrAmountSignMismatch
	}

	balanceBefore, err := lockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	balanceAfter := balanceBefore.Add(amount)
	if balanceAfter.IsNegative() {
		return nil, ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx, "UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2", balanceAfter, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	entry := &model.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Description:   description,
		Reference:     newReference(txType),
	}
	if related != nil {
		entry.RelatedKind = &related.Kind
		entry.RelatedID = &related.ID
	}

	if related != nil && related.Kind == model.RelatedWithdrawal {
		// A speculative entry may already exist for this withdrawal; at most
		// one ledger entry per withdrawal regardless of entry path.
		var existing model.Transaction
		err := tx.GetContext(ctx, &existing,
			"SELECT * FROM transactions WHERE related_kind = $1 AND related_id = $2",
			related.Kind, related.ID)
		if err == nil {
			_, err = tx.ExecContext(ctx, `
				UPDATE transactions
				SET amount = $2, balance_before = $3, balance_after = $4, description = $5
				WHERE id = $1`,
				existing.ID, amount, balanceBefore, balanceAfter, description)
			if err != nil {
				return nil, fmt.Errorf("failed to update ledger entry: %w", err)
			}
			entry.ID = existing.ID
			entry.Reference = existing.Reference
			entry.CreatedAt = existing.CreatedAt
			return entry, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to look up ledger entry: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, balance_before, balance_after, description, reference, related_kind, related_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		entry.UserID, entry.Type, entry.Amount, entry.BalanceBefore, entry.BalanceAfter,
		entry.Description, entry.Reference, entry.RelatedKind, entry.RelatedID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return entry, nil
}

// AdjustBalance applies a standalone balance change with its ledger entry
// in one transaction. Admin manual credits/debits come through here.
func (r *Repository) AdjustBalance(ctx context.Context, userID int64, amount decimal.Decimal, txType model.TransactionType, description string, related *model.Related) (*model.Transaction, error) {
	var entry *model.Transaction
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		entry, err = applyBalanceChange(ctx, tx, userID, amount, txType, description, related)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetUserBalance returns the current balance of a user.
func (r *Repository) GetUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, "SELECT balance FROM users WHERE id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrUserNotFound
	}
	return balance, err
}

// GetTransactions returns a user's ledger history, newest first.
func (r *Repository) GetTransactions(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	return transactions, err
}

// GetTransactionsByType filters a user's ledger history by entry type.
func (r *Repository) GetTransactionsByType(ctx context.Context, userID int64, txType model.TransactionType, limit, offset int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM transactions
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		userID, txType, limit, offset)
	return transactions, err
}

// GetTransactionsByRelated returns the entries caused by a given entity.
func (r *Repository) GetTransactionsByRelated(ctx context.Context, related model.Related) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM transactions
		WHERE related_kind = $1 AND related_id = $2
		ORDER BY created_at ASC`,
		related.Kind, related.ID)
	return transactions, err
}

// newReference builds a short human-readable token like "INV3F2A9C81B4D0".
func newReference(txType model.TransactionType) string {
	var prefix string
	switch txType {
	case model.TransactionTypeInvestment:
		prefix = "INV"
	case model.TransactionTypeProfit:
		prefix = "MAT"
	case model.TransactionTypeReferralBonus:
		prefix = "REF"
	case model.TransactionTypeWithdrawal:
		prefix = "WDA"
	default:
		prefix = "ADJ"
	}
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + token[:12]
}
