package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/util"
	"github.com/spently/spently-backend/internal/websocket"
)

// maxExpenseAmount is the exclusive upper bound of NUMERIC(15,2)
var maxExpenseAmount = decimal.New(1, 13)

// ExpenseInput holds the user-supplied fields of an expense
type ExpenseInput struct {
	CategoryID  int32
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, categoryRepo domain.CategoryRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateExpense records a new expense in one of the user's categories
func (s *ExpenseService) CreateExpense(ctx context.Context, userID uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.buildExpense(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	created, err := s.expenseRepo.Create(ctx, expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.ExpenseCreated(created))
	return created, nil
}

// GetExpenseByID retrieves an expense owned by the user
func (s *ExpenseService) GetExpenseByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ctx, userID, id)
}

// ListExpenses returns one page of the user's expenses, newest first
func (s *ExpenseService) ListExpenses(ctx context.Context, userID uuid.UUID, filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	filters, err := NormalizeExpenseFilters(filters)
	if err != nil {
		return nil, err
	}
	return s.expenseRepo.List(ctx, userID, filters)
}

// UpdateExpense replaces all user-editable fields of an expense
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID uuid.UUID, id int32, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.buildExpense(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	expense.ID = id

	updated, err := s.expenseRepo.Update(ctx, expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense deletes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID uuid.UUID, id int32) error {
	if err := s.expenseRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.ExpenseDeleted(map[string]interface{}{"id": id}))
	return nil
}

func (s *ExpenseService) buildExpense(ctx context.Context, userID uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	if input.Date.IsZero() {
		return nil, domain.ErrDateRequired
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > domain.MaxExpenseDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if err := ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	// Category must exist and belong to the same user
	if _, err := s.categoryRepo.GetByID(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	return &domain.Expense{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Date:        util.DateOnly(input.Date),
		Description: description,
		Amount:      input.Amount,
	}, nil
}

// ValidateAmount checks that an amount is non-negative, has at most two
// decimal places and fits NUMERIC(15,2)
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(2)) {
		return domain.ErrInvalidAmount
	}
	if amount.GreaterThanOrEqual(maxExpenseAmount) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// NormalizeExpenseFilters validates filters and applies paging defaults.
// The returned filters are a copy.
func NormalizeExpenseFilters(filters *domain.ExpenseFilters) (*domain.ExpenseFilters, error) {
	normalized := domain.ExpenseFilters{}
	if filters != nil {
		normalized = *filters
	}

	if (normalized.Month == nil) != (normalized.Year == nil) {
		return nil, fmt.Errorf("%w: month and year must be given together", domain.ErrInvalidArgument)
	}
	if normalized.HasMonth() {
		if err := domain.ValidateSummaryPeriod(*normalized.Month, *normalized.Year); err != nil {
			return nil, err
		}
	}
	if normalized.StartDate != nil && normalized.EndDate != nil && normalized.EndDate.Before(*normalized.StartDate) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrInvalidArgument)
	}

	if normalized.Page < 1 {
		normalized.Page = 1
	}
	if normalized.PerPage < 1 {
		normalized.PerPage = domain.DefaultExpensePerPage
	}
	if normalized.PerPage > domain.MaxExpensePerPage {
		normalized.PerPage = domain.MaxExpensePerPage
	}
	return &normalized, nil
}
