package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_Success(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewCategoryService(repo)
	svc.SetEventPublisher(publisher)
	userID := uuid.New()

	category, err := svc.CreateCategory(context.Background(), userID, "  Makanan ", "#ff8800")
	require.NoError(t, err)

	assert.Equal(t, int32(1), category.ID)
	assert.Equal(t, "Makanan", category.Name)
	assert.Equal(t, "#FF8800", category.Color)
	assert.Equal(t, userID, category.UserID)
	assert.Equal(t, []string{"category.created"}, publisher.Types())
	assert.Equal(t, userID, publisher.Events[0].UserID)
}

func TestCreateCategory_Validation(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	tests := []struct {
		name    string
		catName string
		color   string
		wantErr error
	}{
		{"empty name", "", "#FFFFFF", domain.ErrNameRequired},
		{"whitespace name", "   ", "#FFFFFF", domain.ErrNameRequired},
		{"name too long", strings.Repeat("x", domain.MaxCategoryNameLength+1), "#FFFFFF", domain.ErrNameTooLong},
		{"missing hash", "Food", "FFFFFF", domain.ErrInvalidColor},
		{"short hex", "Food", "#FFF", domain.ErrInvalidColor},
		{"non hex", "Food", "#GGGGGG", domain.ErrInvalidColor},
		{"empty color", "Food", "", domain.ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCategory(context.Background(), uuid.New(), tt.catName, tt.color)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateCategory_NameAtLimitIsAccepted(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	name := strings.Repeat("é", domain.MaxCategoryNameLength)
	_, err := svc.CreateCategory(context.Background(), uuid.New(), name, "#000000")
	assert.NoError(t, err)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewCategoryService(repo)
	svc.SetEventPublisher(publisher)
	userID := uuid.New()

	_, err := svc.CreateCategory(context.Background(), userID, "Food", "#000000")
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), userID, "Food", "#111111")
	assert.ErrorIs(t, err, domain.ErrCategoryAlreadyExists)
	assert.Len(t, publisher.Events, 1)

	// Same name for a different user is fine
	_, err = svc.CreateCategory(context.Background(), uuid.New(), "Food", "#111111")
	assert.NoError(t, err)
}

func TestGetCategories_WithStats(t *testing.T) {
	categories := testutil.NewMockCategoryRepository()
	expenses := testutil.NewMockExpenseRepository()
	categories.Expenses = expenses
	svc := NewCategoryService(categories)
	userID := uuid.New()

	categories.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Transport", Color: "#00FF00"})
	categories.AddCategory(&domain.Category{ID: 2, UserID: userID, Name: "Food", Color: "#FF0000"})
	categories.AddCategory(&domain.Category{ID: 3, UserID: uuid.New(), Name: "Other", Color: "#0000FF"})
	expenses.AddExpense(&domain.Expense{ID: 1, UserID: userID, CategoryID: 2, Amount: decimal.NewFromInt(1500)})
	expenses.AddExpense(&domain.Expense{ID: 2, UserID: userID, CategoryID: 2, Amount: decimal.RequireFromString("250.50")})

	result, err := svc.GetCategories(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "Food", result[0].Name)
	assert.Equal(t, int64(2), result[0].ExpensesCount)
	assert.True(t, result[0].ExpensesSum.Equal(decimal.RequireFromString("1750.50")))
	assert.Equal(t, "Transport", result[1].Name)
	assert.Equal(t, int64(0), result[1].ExpensesCount)
	assert.True(t, result[1].ExpensesSum.IsZero())
}

func TestUpdateCategory(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewCategoryService(repo)
	svc.SetEventPublisher(publisher)
	userID := uuid.New()
	repo.AddCategory(&domain.Category{ID: 5, UserID: userID, Name: "Food", Color: "#000000"})

	updated, err := svc.UpdateCategory(context.Background(), userID, 5, "Groceries", "#abcdef")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", updated.Name)
	assert.Equal(t, "#ABCDEF", updated.Color)
	assert.Equal(t, []string{"category.updated"}, publisher.Types())

	_, err = svc.UpdateCategory(context.Background(), uuid.New(), 5, "Stolen", "#000000")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestDeleteCategory_CascadesExpenses(t *testing.T) {
	categories := testutil.NewMockCategoryRepository()
	expenses := testutil.NewMockExpenseRepository()
	categories.Expenses = expenses
	publisher := testutil.NewMockEventPublisher()
	svc := NewCategoryService(categories)
	svc.SetEventPublisher(publisher)
	userID := uuid.New()

	categories.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food", Color: "#000000"})
	expenses.AddExpense(&domain.Expense{ID: 1, UserID: userID, CategoryID: 1, Amount: decimal.NewFromInt(10)})

	require.NoError(t, svc.DeleteCategory(context.Background(), userID, 1))
	assert.Empty(t, expenses.Expenses)
	assert.Equal(t, []string{"category.deleted"}, publisher.Types())

	err := svc.DeleteCategory(context.Background(), userID, 1)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	assert.Len(t, publisher.Events, 1)
}
