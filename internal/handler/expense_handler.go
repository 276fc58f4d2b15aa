package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/middleware"
	"github.com/spently/spently-backend/internal/service"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest is the create/update expense request body.
// Amount accepts a JSON number or a numeric string.
type ExpenseRequest struct {
	CategoryID  int32       `json:"categoryId"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
}

// ExpenseCategoryResponse is the category embedded in an expense
type ExpenseCategoryResponse struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int32                    `json:"id"`
	CategoryID  int32                    `json:"categoryId"`
	Category    *ExpenseCategoryResponse `json:"category,omitempty"`
	Date        string                   `json:"date"`
	Description string                   `json:"description"`
	Amount      json.Number              `json:"amount"`
	CreatedAt   string                   `json:"createdAt"`
	UpdatedAt   string                   `json:"updatedAt"`
}

// ExpenseListResponse is one page of expenses
type ExpenseListResponse struct {
	Data     []ExpenseResponse `json:"data"`
	Page     int32             `json:"page"`
	PerPage  int32             `json:"perPage"`
	Total    int64             `json:"total"`
	LastPage int32             `json:"lastPage"`
	TotalSum json.Number       `json:"totalSum"`
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	input, fieldErrors, err := bindExpenseInput(c)
	if err != nil {
		return NewBadRequestError(c, "Invalid request body")
	}
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	expense, err := h.expenseService.CreateExpense(c.Request().Context(), userID, input)
	if err != nil {
		return h.handleError(c, userID, err, "Failed to create expense")
	}

	log.Info().Str("user_id", userID.String()).Int32("expense_id", expense.ID).Msg("Expense created")

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/expenses
// Query: month, year, start_date, end_date, category_id, page, per_page
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, err := parseExpenseFilters(c)
	if err != nil {
		return NewUnprocessableError(c, err.Error())
	}

	result, err := h.expenseService.ListExpenses(c.Request().Context(), userID, filters)
	if err != nil {
		return h.handleError(c, userID, err, "Failed to get expenses")
	}

	data := make([]ExpenseResponse, len(result.Data))
	for i, expense := range result.Data {
		data[i] = toExpenseResponse(expense)
	}

	return c.JSON(http.StatusOK, ExpenseListResponse{
		Data:     data,
		Page:     result.Page,
		PerPage:  result.PerPage,
		Total:    result.Total,
		LastPage: result.LastPage,
		TotalSum: money(result.TotalSum),
	})
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewBadRequestError(c, "Invalid expense ID")
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request().Context(), userID, int32(id))
	if err != nil {
		return h.handleError(c, userID, err, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewBadRequestError(c, "Invalid expense ID")
	}

	input, fieldErrors, err := bindExpenseInput(c)
	if err != nil {
		return NewBadRequestError(c, "Invalid request body")
	}
	if len(fieldErrors) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrors)
	}

	expense, err := h.expenseService.UpdateExpense(c.Request().Context(), userID, int32(id), input)
	if err != nil {
		return h.handleError(c, userID, err, "Failed to update expense")
	}

	log.Info().Str("user_id", userID.String()).Int32("expense_id", expense.ID).Msg("Expense updated")

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewBadRequestError(c, "Invalid expense ID")
	}

	if err := h.expenseService.DeleteExpense(c.Request().Context(), userID, int32(id)); err != nil {
		return h.handleError(c, userID, err, "Failed to delete expense")
	}

	log.Info().Str("user_id", userID.String()).Int("expense_id", id).Msg("Expense deleted")

	return c.NoContent(http.StatusNoContent)
}

func (h *ExpenseHandler) handleError(c echo.Context, userID uuid.UUID, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrDateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Date is required"},
		})
	case errors.Is(err, domain.ErrDescriptionRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be zero or positive with at most two decimals"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category not found"},
		})
	case errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, "Expense not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		return NewUnprocessableError(c, err.Error())
	}
	log.Error().Err(err).Str("user_id", userID.String()).Msg(detail)
	return NewInternalError(c, detail)
}

// bindExpenseInput decodes the body. Malformed JSON returns err; unparsable
// fields are reported as field errors.
func bindExpenseInput(c echo.Context) (service.ExpenseInput, []ValidationError, error) {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return service.ExpenseInput{}, nil, err
	}

	input := service.ExpenseInput{
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	var fieldErrors []ValidationError

	if req.CategoryID <= 0 {
		fieldErrors = append(fieldErrors, ValidationError{Field: "categoryId", Message: "Category is required"})
	}

	if strings.TrimSpace(req.Date) == "" {
		fieldErrors = append(fieldErrors, ValidationError{Field: "date", Message: "Date is required"})
	} else if date, err := time.Parse(dateLayout, req.Date); err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format"})
	} else {
		input.Date = date
	}

	if req.Amount == "" {
		fieldErrors = append(fieldErrors, ValidationError{Field: "amount", Message: "Amount is required"})
	} else if amount, err := decimal.NewFromString(req.Amount.String()); err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "amount", Message: "Must be a valid decimal number"})
	} else {
		input.Amount = amount
	}

	return input, fieldErrors, nil
}

// parseExpenseFilters reads listing filters from the query string
func parseExpenseFilters(c echo.Context) (*domain.ExpenseFilters, error) {
	filters := &domain.ExpenseFilters{}

	if v := c.QueryParam("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q", v)
		}
		filters.Month = &month
	}
	if v := c.QueryParam("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", v)
		}
		filters.Year = &year
	}
	if v := c.QueryParam("start_date"); v != "" {
		start, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", v)
		}
		filters.StartDate = &start
	}
	if v := c.QueryParam("end_date"); v != "" {
		end, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", v)
		}
		filters.EndDate = &end
	}
	if v := c.QueryParam("category_id"); v != "" {
		categoryID, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id %q", v)
		}
		id := int32(categoryID)
		filters.CategoryID = &id
	}
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", v)
		}
		filters.Page = int32(page)
	}
	if v := c.QueryParam("per_page"); v != "" {
		perPage, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid per_page %q", v)
		}
		filters.PerPage = int32(perPage)
	}

	return filters, nil
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          expense.ID,
		CategoryID:  expense.CategoryID,
		Date:        expense.Date.Format(dateLayout),
		Description: expense.Description,
		Amount:      money(expense.Amount),
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
	if expense.Category != nil {
		resp.Category = &ExpenseCategoryResponse{
			ID:    expense.Category.ID,
			Name:  expense.Category.Name,
			Color: expense.Category.Color,
		}
	}
	return resp
}
