package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/splitease/splitease/internal/models"
	"github.com/splitease/splitease/internal/storage"
)

// CreateExpense persists an expense and all of its shares in one transaction.
// Either everything lands or nothing does, so a failed share write can never
// leave an orphaned expense behind.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := qb.Insert("expenses").
		Columns("id", "group_id", "description", "amount", "paid_by", "split_type", "created_at").
		Values(expense.ID, expense.GroupID, expense.Description, expense.Amount,
			expense.PaidByID, expense.SplitType, expense.CreatedAt)
	if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Shares {
		share := &expense.Shares[i]
		share.ExpenseID = expense.ID

		insertShare := qb.Insert("expense_shares").
			Columns("expense_id", "user_id", "share_amount").
			Values(share.ExpenseID, share.UserID, share.ShareAmount)
		if _, err := insertShare.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID with its shares populated.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	query := qb.Select("id", "group_id", "description", "amount", "paid_by", "split_type", "created_at").
		From("expenses").
		Where(sq.Eq{"id": expenseID})

	expense := &models.Expense{}
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(
		&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.PaidByID, &expense.SplitType, &expense.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense.Shares, err = s.listShares(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses in a group, newest first, with
// shares populated.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	query := qb.Select("id", "group_id", "description", "amount", "paid_by", "split_type", "created_at").
		From("expenses").
		Where(sq.Eq{"group_id": groupID}).
		OrderBy("created_at DESC", "id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
			&expense.PaidByID, &expense.SplitType, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		expense.Shares, err = s.listShares(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// listShares loads the share rows for one expense, ordered by user ID.
func (s *SQLiteStore) listShares(ctx context.Context, expenseID string) ([]models.ExpenseShare, error) {
	query := qb.Select("expense_id", "user_id", "share_amount").
		From("expense_shares").
		Where(sq.Eq{"expense_id": expenseID}).
		OrderBy("user_id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []models.ExpenseShare
	for rows.Next() {
		var share models.ExpenseShare
		if err := rows.Scan(&share.ExpenseID, &share.UserID, &share.ShareAmount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// DeleteExpense removes an expense; the shares go with it via the foreign key
// cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	query := qb.Delete("expenses").Where(sq.Eq{"id": expenseID})

	result, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %w", storage.ErrNotFound)
	}
	return nil
}

// ListSharesByUser retrieves every share row where the user is the
// participant, joined with the owning expense's amount and payer. This is the
// snapshot the balance engine consumes.
func (s *SQLiteStore) ListSharesByUser(ctx context.Context, userID string) ([]models.UserShare, error) {
	query := qb.Select("es.expense_id", "e.group_id", "es.user_id", "es.share_amount", "e.amount", "e.paid_by").
		From("expense_shares es").
		Join("expenses e ON e.id = es.expense_id").
		Where(sq.Eq{"es.user_id": userID}).
		OrderBy("e.created_at", "es.expense_id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by user: %w", err)
	}
	defer rows.Close()

	var shares []models.UserShare
	for rows.Next() {
		var share models.UserShare
		if err := rows.Scan(&share.ExpenseID, &share.GroupID, &share.UserID,
			&share.ShareAmount, &share.ExpenseAmount, &share.PaidByID); err != nil {
			return nil, fmt.Errorf("failed to scan user share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user shares: %w", err)
	}
	return shares, nil
}
