package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spently/spently-backend/internal/domain"
)

// SummaryRepository implements domain.SummaryRepository using PostgreSQL
type SummaryRepository struct {
	pool *pgxpool.Pool
}

// NewSummaryRepository creates a new SummaryRepository
func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{pool: pool}
}

// GetSnapshot reads the user's expenses in [startDate, endDate] and all of the
// user's categories within a single REPEATABLE READ read-only transaction, so
// both result sets come from the same snapshot.
func (r *SummaryRepository) GetSnapshot(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (*domain.ExpenseSnapshot, error) {
	snapshot := &domain.ExpenseSnapshot{
		Expenses:   make([]domain.ExpenseRow, 0),
		Categories: make([]domain.CategoryRef, 0),
	}

	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, category_id, amount, date
			FROM expenses
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY id`, userID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("query expenses: %w", err)
		}
		for rows.Next() {
			var row domain.ExpenseRow
			var amount pgtype.Numeric
			if err := rows.Scan(&row.ID, &row.CategoryID, &amount, &row.Date); err != nil {
				rows.Close()
				return fmt.Errorf("scan expense: %w", err)
			}
			row.Amount = pgNumericToDecimal(amount)
			snapshot.Expenses = append(snapshot.Expenses, row)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("read expenses: %w", err)
		}

		rows, err = tx.Query(ctx, `SELECT id, name, color FROM categories WHERE user_id = $1 ORDER BY id`, userID)
		if err != nil {
			return fmt.Errorf("query categories: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var ref domain.CategoryRef
			if err := rows.Scan(&ref.ID, &ref.Name, &ref.Color); err != nil {
				return fmt.Errorf("scan category: %w", err)
			}
			snapshot.Categories = append(snapshot.Categories, ref)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
