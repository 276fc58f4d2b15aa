package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single dated spending record. Date has no time component.
type Expense struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	CategoryID  int32           `json:"categoryId"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ExpenseFilters narrows expense listings. Month and Year only apply together.
type ExpenseFilters struct {
	Month      *int
	Year       *int
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int32
	Page       int32
	PerPage    int32
}

// HasMonth reports whether both month and year are set
func (f *ExpenseFilters) HasMonth() bool {
	return f != nil && f.Month != nil && f.Year != nil
}

const (
	DefaultExpensePerPage = 10
	MaxExpensePerPage     = 100
)

// PaginatedExpenses is one page of expenses plus the sum over the whole filtered set
type PaginatedExpenses struct {
	Data     []*Expense      `json:"data"`
	Page     int32           `json:"page"`
	PerPage  int32           `json:"perPage"`
	Total    int64           `json:"total"`
	LastPage int32           `json:"lastPage"`
	TotalSum decimal.Decimal `json:"totalSum"`
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Expense, error)
	List(ctx context.Context, userID uuid.UUID, filters *ExpenseFilters) (*PaginatedExpenses, error)
	ListAll(ctx context.Context, userID uuid.UUID, filters *ExpenseFilters) ([]*Expense, error)
	Update(ctx context.Context, expense *Expense) (*Expense, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
