package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/util"
)

// SummaryService computes spending summaries. It holds no state between calls
// and is safe for concurrent use.
type SummaryService struct {
	summaryRepo domain.SummaryRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(summaryRepo domain.SummaryRepository) *SummaryService {
	return &SummaryService{summaryRepo: summaryRepo}
}

// GetMonthlySummary returns the total, category breakdown and top categories for one month
func (s *SummaryService) GetMonthlySummary(ctx context.Context, userID uuid.UUID, month, year int) (*domain.MonthlySummary, error) {
	if err := domain.ValidateSummaryPeriod(month, year); err != nil {
		return nil, err
	}

	startDate, endDate := util.MonthBounds(year, month)
	snapshot, err := s.summaryRepo.GetSnapshot(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("fetch monthly snapshot: %w", err)
	}

	summary, err := ComputeMonthlySummary(snapshot, month, year)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("month", month).Int("year", year).Msg("Monthly summary aggregation failed")
		return nil, err
	}
	return summary, nil
}

// GetYearlySummary returns the 12-month spending trend for a year
func (s *SummaryService) GetYearlySummary(ctx context.Context, userID uuid.UUID, year int) (*domain.YearlySummary, error) {
	if err := domain.ValidateSummaryYear(year); err != nil {
		return nil, err
	}

	startDate, endDate := util.YearBounds(year)
	snapshot, err := s.summaryRepo.GetSnapshot(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("fetch yearly snapshot: %w", err)
	}

	summary, err := ComputeYearlySummary(snapshot, year)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Msg("Yearly summary aggregation failed")
		return nil, err
	}
	return summary, nil
}

// ComputeMonthlySummary aggregates a snapshot of one month's expenses.
// Every expense must fall inside the month and reference a category present in
// the snapshot; otherwise ErrDataIntegrity is returned and nothing is dropped.
func ComputeMonthlySummary(snapshot *domain.ExpenseSnapshot, month, year int) (*domain.MonthlySummary, error) {
	if err := domain.ValidateSummaryPeriod(month, year); err != nil {
		return nil, err
	}

	categories := indexCategories(snapshot)
	grandTotal := decimal.Zero
	groups := make(map[int32]*domain.CategoryBreakdownEntry)

	for _, row := range snapshotExpenses(snapshot) {
		if row.Date.Year() != year || int(row.Date.Month()) != month {
			return nil, fmt.Errorf("%w: expense %d dated %s is outside %04d-%02d",
				domain.ErrDataIntegrity, row.ID, row.Date.Format(time.DateOnly), year, month)
		}
		category, ok := categories[row.CategoryID]
		if !ok {
			return nil, fmt.Errorf("%w: expense %d references missing category %d",
				domain.ErrDataIntegrity, row.ID, row.CategoryID)
		}

		grandTotal = grandTotal.Add(row.Amount)

		entry, ok := groups[row.CategoryID]
		if !ok {
			entry = &domain.CategoryBreakdownEntry{
				CategoryID: category.ID,
				Name:       category.Name,
				Color:      category.Color,
				Total:      decimal.Zero,
			}
			groups[row.CategoryID] = entry
		}
		entry.Total = entry.Total.Add(row.Amount)
		entry.Count++
	}

	breakdown := make([]domain.CategoryBreakdownEntry, 0, len(groups))
	for _, entry := range groups {
		entry.Percentage = util.PercentageOf(entry.Total, grandTotal)
		breakdown = append(breakdown, *entry)
	}
	RankByTotal(breakdown)

	topCount := min(domain.TopCategoryCount, len(breakdown))
	topN := make([]domain.CategoryBreakdownEntry, topCount)
	copy(topN, breakdown[:topCount])

	var topCategory *domain.CategoryBreakdownEntry
	if len(breakdown) > 0 {
		first := breakdown[0]
		topCategory = &first
	}

	return &domain.MonthlySummary{
		Month:       month,
		Year:        year,
		GrandTotal:  grandTotal,
		Breakdown:   breakdown,
		TopN:        topN,
		TopCategory: topCategory,
	}, nil
}

// ComputeYearlySummary buckets a snapshot of one year's expenses by calendar month.
// The result always holds 12 buckets, January first, zero-filled.
func ComputeYearlySummary(snapshot *domain.ExpenseSnapshot, year int) (*domain.YearlySummary, error) {
	if err := domain.ValidateSummaryYear(year); err != nil {
		return nil, err
	}

	categories := indexCategories(snapshot)
	var totals [12]decimal.Decimal
	yearTotal := decimal.Zero

	for _, row := range snapshotExpenses(snapshot) {
		if row.Date.Year() != year {
			return nil, fmt.Errorf("%w: expense %d dated %s is outside %04d",
				domain.ErrDataIntegrity, row.ID, row.Date.Format(time.DateOnly), year)
		}
		if _, ok := categories[row.CategoryID]; !ok {
			return nil, fmt.Errorf("%w: expense %d references missing category %d",
				domain.ErrDataIntegrity, row.ID, row.CategoryID)
		}
		idx := int(row.Date.Month()) - 1
		totals[idx] = totals[idx].Add(row.Amount)
		yearTotal = yearTotal.Add(row.Amount)
	}

	months := make([]domain.MonthlyBucket, 12)
	for i := range months {
		months[i] = domain.MonthlyBucket{
			Month:     i + 1,
			MonthName: util.MonthName(i + 1),
			Total:     totals[i],
		}
	}

	return &domain.YearlySummary{
		Year:   year,
		Total:  yearTotal,
		Months: months,
	}, nil
}

func indexCategories(snapshot *domain.ExpenseSnapshot) map[int32]domain.CategoryRef {
	if snapshot == nil {
		return map[int32]domain.CategoryRef{}
	}
	index := make(map[int32]domain.CategoryRef, len(snapshot.Categories))
	for _, c := range snapshot.Categories {
		index[c.ID] = c
	}
	return index
}

func snapshotExpenses(snapshot *domain.ExpenseSnapshot) []domain.ExpenseRow {
	if snapshot == nil {
		return nil
	}
	return snapshot.Expenses
}
