package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Accepted summary period range
const (
	MinSummaryYear   = 2000
	MaxSummaryYear   = 9999
	TopCategoryCount = 3
)

// ExpenseRow is the minimal expense projection the aggregator reads
type ExpenseRow struct {
	ID         int32
	CategoryID int32
	Amount     decimal.Decimal
	Date       time.Time
}

// CategoryRef is the minimal category projection the aggregator reads
type CategoryRef struct {
	ID    int32
	Name  string
	Color string
}

// ExpenseSnapshot holds expense and category rows read from one consistent snapshot
type ExpenseSnapshot struct {
	Expenses   []ExpenseRow
	Categories []CategoryRef
}

// CategoryBreakdownEntry is the per-category aggregate within a summary window
type CategoryBreakdownEntry struct {
	CategoryID int32           `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	Percentage float64         `json:"percentage"`
}

// MonthlySummary is the aggregated view of one calendar month
type MonthlySummary struct {
	Month       int                      `json:"month"`
	Year        int                      `json:"year"`
	GrandTotal  decimal.Decimal          `json:"grandTotal"`
	Breakdown   []CategoryBreakdownEntry `json:"breakdown"`
	TopN        []CategoryBreakdownEntry `json:"topN"`
	TopCategory *CategoryBreakdownEntry  `json:"topCategory"`
}

// MonthlyBucket is one month of a yearly trend
type MonthlyBucket struct {
	Month     int             `json:"month"`
	MonthName string          `json:"monthName"`
	Total     decimal.Decimal `json:"total"`
}

// YearlySummary is the dense 12-month trend for a calendar year
type YearlySummary struct {
	Year   int             `json:"year"`
	Total  decimal.Decimal `json:"total"`
	Months []MonthlyBucket `json:"months"`
}

// SummaryRepository supplies aggregation input for a user and an inclusive date range
type SummaryRepository interface {
	GetSnapshot(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (*ExpenseSnapshot, error)
}

// ValidateSummaryYear checks the year against the accepted range
func ValidateSummaryYear(year int) error {
	if year < MinSummaryYear || year > MaxSummaryYear {
		return fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidArgument, MinSummaryYear, MaxSummaryYear, year)
	}
	return nil
}

// ValidateSummaryPeriod checks month and year against the accepted range
func ValidateSummaryPeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidArgument, month)
	}
	return ValidateSummaryYear(year)
}
