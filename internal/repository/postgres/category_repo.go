package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spently/spently-backend/internal/domain"
)

const categoryColumns = `id, user_id, name, color, created_at, updated_at`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		category.UserID, category.Name, category.Color)

	created, err := scanCategory(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by its ID for a user
func (r *CategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	return scanCategory(row)
}

// GetAllWithStats lists a user's categories with the count and sum of their expenses
func (r *CategoryRepository) GetAllWithStats(ctx context.Context, userID uuid.UUID) ([]*domain.CategoryWithStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.name, c.color, c.created_at, c.updated_at,
		       COUNT(e.id), COALESCE(SUM(e.amount), 0)
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name, c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.CategoryWithStats, 0)
	for rows.Next() {
		var c domain.CategoryWithStats
		var sum pgtype.Numeric
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt, &c.ExpensesCount, &sum); err != nil {
			return nil, err
		}
		c.ExpensesSum = pgNumericToDecimal(sum)
		result = append(result, &c)
	}
	return result, rows.Err()
}

// Update updates a category's name and color
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET name = $3, color = $4, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		category.UserID, category.ID, category.Name, category.Color)

	updated, err := scanCategory(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a category; its expenses go with it through ON DELETE CASCADE
func (r *CategoryRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}
