package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a user-defined spending category
type Category struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryWithStats is a category annotated with its all-time expense count and sum
type CategoryWithStats struct {
	Category
	ExpensesCount int64           `json:"expensesCount"`
	ExpensesSum   decimal.Decimal `json:"expensesSum"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Category, error)
	GetAllWithStats(ctx context.Context, userID uuid.UUID) ([]*CategoryWithStats, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
