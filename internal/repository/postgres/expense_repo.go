package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/util"
)

const expenseJoinColumns = `e.id, e.user_id, e.category_id, e.date, e.description, e.amount, e.created_at, e.updated_at,
	c.id, c.user_id, c.name, c.color, c.created_at, c.updated_at`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts an expense and returns it joined with its category
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		WITH e AS (
			INSERT INTO expenses (user_id, category_id, date, description, amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT `+expenseJoinColumns+`
		FROM e JOIN categories c ON c.id = e.category_id`,
		expense.UserID, expense.CategoryID, expense.Date, expense.Description, amount)

	created, err := scanExpense(row)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an expense with its category
func (r *ExpenseRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+expenseJoinColumns+`
		FROM expenses e JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1 AND e.id = $2`, userID, id)
	return scanExpense(row)
}

// List returns one page of expenses, newest first, plus the count and sum of the whole filtered set
func (r *ExpenseRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	where, args := expenseFilterClause(userID, filters)

	var total int64
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(e.amount), 0)
		FROM expenses e
		WHERE `+where, args...).Scan(&total, &sum)
	if err != nil {
		return nil, err
	}

	page, perPage := int32(1), int32(domain.DefaultExpensePerPage)
	if filters != nil && filters.Page > 0 {
		page = filters.Page
	}
	if filters != nil && filters.PerPage > 0 {
		perPage = filters.PerPage
	}
	offset := int64(page-1) * int64(perPage)
	pageArgs := append(args, perPage, offset)

	expenses, err := r.query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM expenses e JOIN categories c ON c.id = e.category_id
		WHERE %s
		ORDER BY e.date DESC, e.id DESC
		LIMIT $%d OFFSET $%d`, expenseJoinColumns, where, len(args)+1, len(args)+2), pageArgs...)
	if err != nil {
		return nil, err
	}

	lastPage := int32((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return &domain.PaginatedExpenses{
		Data:     expenses,
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: lastPage,
		TotalSum: pgNumericToDecimal(sum),
	}, nil
}

// ListAll returns every filtered expense, newest first
func (r *ExpenseRepository) ListAll(ctx context.Context, userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	where, args := expenseFilterClause(userID, filters)
	return r.query(ctx, `
		SELECT `+expenseJoinColumns+`
		FROM expenses e JOIN categories c ON c.id = e.category_id
		WHERE `+where+`
		ORDER BY e.date DESC, e.id DESC`, args...)
}

// Update replaces an expense's editable fields
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		WITH e AS (
			UPDATE expenses
			SET category_id = $3, date = $4, description = $5, amount = $6, updated_at = NOW()
			WHERE user_id = $1 AND id = $2
			RETURNING *
		)
		SELECT `+expenseJoinColumns+`
		FROM e JOIN categories c ON c.id = e.category_id`,
		expense.UserID, expense.ID, expense.CategoryID, expense.Date, expense.Description, amount)

	updated, err := scanExpense(row)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, expense)
	}
	return result, rows.Err()
}

// expenseFilterClause builds the WHERE clause (over alias e) and its arguments
func expenseFilterClause(userID uuid.UUID, filters *domain.ExpenseFilters) (string, []any) {
	conditions := []string{"e.user_id = $1"}
	args := []any{userID}

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filters != nil {
		if filters.HasMonth() {
			start, end := util.MonthBounds(*filters.Year, *filters.Month)
			add("e.date >= $%d", start)
			add("e.date <= $%d", end)
		}
		if filters.StartDate != nil {
			add("e.date >= $%d", util.DateOnly(*filters.StartDate))
		}
		if filters.EndDate != nil {
			add("e.date <= $%d", util.DateOnly(*filters.EndDate))
		}
		if filters.CategoryID != nil {
			add("e.category_id = $%d", *filters.CategoryID)
		}
	}

	return strings.Join(conditions, " AND "), args
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var c domain.Category
	var amount pgtype.Numeric
	err := row.Scan(
		&e.ID, &e.UserID, &e.CategoryID, &e.Date, &e.Description, &amount, &e.CreatedAt, &e.UpdatedAt,
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.Category = &c
	return &e, nil
}
