package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// seedJanuary2026 loads the reference month: Food 160000, Transport 55000, Shopping 200000
func seedJanuary2026(repo *testutil.MockSummaryRepository, userID uuid.UUID) {
	repo.AddCategory(userID, 1, "Food", "#FF0000")
	repo.AddCategory(userID, 2, "Transport", "#00FF00")
	repo.AddCategory(userID, 3, "Shopping", "#0000FF")

	repo.AddExpense(userID, 1, "50000", day(2026, time.January, 3))
	repo.AddExpense(userID, 1, "75000", day(2026, time.January, 10))
	repo.AddExpense(userID, 1, "35000", day(2026, time.January, 28))
	repo.AddExpense(userID, 2, "25000", day(2026, time.January, 5))
	repo.AddExpense(userID, 2, "30000", day(2026, time.January, 19))
	repo.AddExpense(userID, 3, "200000", day(2026, time.January, 15))
}

func TestGetMonthlySummary_ReferenceMonth(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	seedJanuary2026(repo, userID)
	svc := NewSummaryService(repo)

	summary, err := svc.GetMonthlySummary(context.Background(), userID, 1, 2026)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Month)
	assert.Equal(t, 2026, summary.Year)
	assert.True(t, summary.GrandTotal.Equal(decimal.NewFromInt(415000)), "grand total %s", summary.GrandTotal)

	require.Len(t, summary.Breakdown, 3)
	expected := []struct {
		name       string
		total      int64
		count      int64
		percentage float64
	}{
		{"Shopping", 200000, 1, 48.19},
		{"Food", 160000, 3, 38.55},
		{"Transport", 55000, 2, 13.25},
	}
	for i, want := range expected {
		got := summary.Breakdown[i]
		assert.Equal(t, want.name, got.Name)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(want.total)), "%s total %s", want.name, got.Total)
		assert.Equal(t, want.count, got.Count)
		assert.Equal(t, want.percentage, got.Percentage)
	}

	assert.Equal(t, summary.Breakdown, summary.TopN)
	require.NotNil(t, summary.TopCategory)
	assert.Equal(t, "Shopping", summary.TopCategory.Name)
	assert.Equal(t, "#0000FF", summary.TopCategory.Color)
}

func TestGetMonthlySummary_IgnoresOtherMonthsAndUsers(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	otherUser := uuid.New()
	seedJanuary2026(repo, userID)

	repo.AddExpense(userID, 1, "999", day(2025, time.December, 31))
	repo.AddExpense(userID, 1, "999", day(2026, time.February, 1))
	repo.AddCategory(otherUser, 9, "Food", "#FF0000")
	repo.AddExpense(otherUser, 9, "123456", day(2026, time.January, 10))

	svc := NewSummaryService(repo)
	summary, err := svc.GetMonthlySummary(context.Background(), userID, 1, 2026)
	require.NoError(t, err)
	assert.True(t, summary.GrandTotal.Equal(decimal.NewFromInt(415000)))
}

func TestGetMonthlySummary_NoExpenses(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	repo.AddCategory(userID, 1, "Food", "#FF0000")
	svc := NewSummaryService(repo)

	summary, err := svc.GetMonthlySummary(context.Background(), userID, 2, 2026)
	require.NoError(t, err)

	assert.True(t, summary.GrandTotal.IsZero())
	assert.NotNil(t, summary.Breakdown)
	assert.Empty(t, summary.Breakdown)
	assert.NotNil(t, summary.TopN)
	assert.Empty(t, summary.TopN)
	assert.Nil(t, summary.TopCategory)
}

func TestGetMonthlySummary_ZeroAmountsHaveZeroPercentage(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	repo.AddCategory(userID, 1, "Food", "#FF0000")
	repo.AddExpense(userID, 1, "0", day(2026, time.March, 2))
	repo.AddExpense(userID, 1, "0.00", day(2026, time.March, 3))
	svc := NewSummaryService(repo)

	summary, err := svc.GetMonthlySummary(context.Background(), userID, 3, 2026)
	require.NoError(t, err)

	require.Len(t, summary.Breakdown, 1)
	assert.Equal(t, int64(2), summary.Breakdown[0].Count)
	assert.Equal(t, 0.0, summary.Breakdown[0].Percentage)
	require.NotNil(t, summary.TopCategory)
}

func TestGetMonthlySummary_InvalidPeriod(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	svc := NewSummaryService(repo)

	tests := []struct {
		name  string
		month int
		year  int
	}{
		{"month zero", 0, 2026},
		{"month thirteen", 13, 2026},
		{"negative month", -1, 2026},
		{"year before range", 1, 1999},
		{"year after range", 1, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := svc.GetMonthlySummary(context.Background(), uuid.New(), tt.month, tt.year)
			assert.Nil(t, summary)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
	assert.Equal(t, 0, repo.Calls, "invalid periods must not reach the repository")
}

func TestGetMonthlySummary_MissingCategoryIsIntegrityError(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	repo.AddCategory(userID, 1, "Food", "#FF0000")
	repo.AddExpense(userID, 1, "1000", day(2026, time.January, 2))
	repo.AddExpense(userID, 42, "500", day(2026, time.January, 3))
	svc := NewSummaryService(repo)

	summary, err := svc.GetMonthlySummary(context.Background(), userID, 1, 2026)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestGetMonthlySummary_RepositoryError(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	storeErr := errors.New("connection refused")
	repo.GetSnapshotFn = func(userID uuid.UUID, startDate, endDate time.Time) (*domain.ExpenseSnapshot, error) {
		return nil, storeErr
	}
	svc := NewSummaryService(repo)

	_, err := svc.GetMonthlySummary(context.Background(), uuid.New(), 1, 2026)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestGetMonthlySummary_RequestsMonthBounds(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	var gotStart, gotEnd time.Time
	repo.GetSnapshotFn = func(userID uuid.UUID, startDate, endDate time.Time) (*domain.ExpenseSnapshot, error) {
		gotStart, gotEnd = startDate, endDate
		return &domain.ExpenseSnapshot{}, nil
	}
	svc := NewSummaryService(repo)

	_, err := svc.GetMonthlySummary(context.Background(), uuid.New(), 2, 2028)
	require.NoError(t, err)
	assert.Equal(t, day(2028, time.February, 1), gotStart)
	assert.Equal(t, day(2028, time.February, 29), gotEnd)
}

func TestComputeMonthlySummary_Idempotent(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	seedJanuary2026(repo, userID)
	start, end := day(2026, time.January, 1), day(2026, time.January, 31)
	snapshot, err := repo.GetSnapshot(context.Background(), userID, start, end)
	require.NoError(t, err)

	first, err := ComputeMonthlySummary(snapshot, 1, 2026)
	require.NoError(t, err)
	second, err := ComputeMonthlySummary(snapshot, 1, 2026)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeMonthlySummary_Conservation(t *testing.T) {
	snapshot := &domain.ExpenseSnapshot{
		Categories: []domain.CategoryRef{
			{ID: 1, Name: "A", Color: "#111111"},
			{ID: 2, Name: "B", Color: "#222222"},
			{ID: 3, Name: "C", Color: "#333333"},
			{ID: 4, Name: "D", Color: "#444444"},
		},
	}
	amounts := []string{"0.01", "33.33", "1000000.99", "12.5", "7", "7", "0.10", "99999.99"}
	for i, a := range amounts {
		snapshot.Expenses = append(snapshot.Expenses, domain.ExpenseRow{
			ID:         int32(i + 1),
			CategoryID: int32(i%4 + 1),
			Amount:     decimal.RequireFromString(a),
			Date:       day(2026, time.May, i+1),
		})
	}

	summary, err := ComputeMonthlySummary(snapshot, 5, 2026)
	require.NoError(t, err)

	sum := decimal.Zero
	var count int64
	pct := 0.0
	for _, entry := range summary.Breakdown {
		sum = sum.Add(entry.Total)
		count += entry.Count
		pct += entry.Percentage
		assert.GreaterOrEqual(t, entry.Percentage, 0.0)
		assert.LessOrEqual(t, entry.Percentage, 100.0)
	}
	assert.True(t, sum.Equal(summary.GrandTotal), "breakdown sum %s != grand total %s", sum, summary.GrandTotal)
	assert.Equal(t, int64(len(amounts)), count)
	assert.InDelta(t, 100.0, pct, 0.1)
	assert.Len(t, summary.TopN, 3)
}

func TestComputeMonthlySummary_TiesBreakByCategoryID(t *testing.T) {
	snapshot := &domain.ExpenseSnapshot{
		Categories: []domain.CategoryRef{
			{ID: 7, Name: "Late", Color: "#777777"},
			{ID: 3, Name: "Early", Color: "#333333"},
			{ID: 5, Name: "Middle", Color: "#555555"},
		},
		Expenses: []domain.ExpenseRow{
			{ID: 1, CategoryID: 7, Amount: decimal.NewFromInt(100), Date: day(2026, time.June, 1)},
			{ID: 2, CategoryID: 5, Amount: decimal.NewFromInt(100), Date: day(2026, time.June, 2)},
			{ID: 3, CategoryID: 3, Amount: decimal.NewFromInt(100), Date: day(2026, time.June, 3)},
		},
	}

	summary, err := ComputeMonthlySummary(snapshot, 6, 2026)
	require.NoError(t, err)

	ids := []int32{}
	for _, entry := range summary.Breakdown {
		ids = append(ids, entry.CategoryID)
	}
	assert.Equal(t, []int32{3, 5, 7}, ids)
	assert.Equal(t, int32(3), summary.TopCategory.CategoryID)
	assert.Equal(t, 33.33, summary.Breakdown[0].Percentage)
}

func TestComputeMonthlySummary_TopCategoryIsACopy(t *testing.T) {
	snapshot := &domain.ExpenseSnapshot{
		Categories: []domain.CategoryRef{{ID: 1, Name: "Food", Color: "#FF0000"}},
		Expenses: []domain.ExpenseRow{
			{ID: 1, CategoryID: 1, Amount: decimal.NewFromInt(10), Date: day(2026, time.July, 4)},
		},
	}

	summary, err := ComputeMonthlySummary(snapshot, 7, 2026)
	require.NoError(t, err)

	summary.Breakdown[0].Name = "changed"
	assert.Equal(t, "Food", summary.TopCategory.Name)
	assert.Equal(t, "Food", summary.TopN[0].Name)
}

func TestComputeMonthlySummary_ExpenseOutsideMonth(t *testing.T) {
	snapshot := &domain.ExpenseSnapshot{
		Categories: []domain.CategoryRef{{ID: 1, Name: "Food", Color: "#FF0000"}},
		Expenses: []domain.ExpenseRow{
			{ID: 1, CategoryID: 1, Amount: decimal.NewFromInt(10), Date: day(2026, time.August, 1)},
		},
	}

	_, err := ComputeMonthlySummary(snapshot, 7, 2026)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestComputeMonthlySummary_NilSnapshot(t *testing.T) {
	summary, err := ComputeMonthlySummary(nil, 1, 2026)
	require.NoError(t, err)
	assert.True(t, summary.GrandTotal.IsZero())
	assert.Empty(t, summary.Breakdown)
}

func TestGetYearlySummary_SingleMonth(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	repo.AddCategory(userID, 1, "Food", "#FF0000")
	repo.AddExpense(userID, 1, "20000", day(2026, time.March, 4))
	repo.AddExpense(userID, 1, "30000", day(2026, time.March, 21))
	svc := NewSummaryService(repo)

	summary, err := svc.GetYearlySummary(context.Background(), userID, 2026)
	require.NoError(t, err)

	assert.Equal(t, 2026, summary.Year)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(50000)))
	require.Len(t, summary.Months, 12)

	wantNames := []string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
	for i, bucket := range summary.Months {
		assert.Equal(t, i+1, bucket.Month)
		assert.Equal(t, wantNames[i], bucket.MonthName)
		if bucket.Month == 3 {
			assert.True(t, bucket.Total.Equal(decimal.NewFromInt(50000)))
		} else {
			assert.True(t, bucket.Total.IsZero(), "month %d should be zero, got %s", bucket.Month, bucket.Total)
		}
	}
}

func TestGetYearlySummary_EmptyYearIsDense(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	svc := NewSummaryService(repo)

	summary, err := svc.GetYearlySummary(context.Background(), uuid.New(), 2001)
	require.NoError(t, err)
	require.Len(t, summary.Months, 12)
	assert.True(t, summary.Total.IsZero())
	for _, bucket := range summary.Months {
		assert.True(t, bucket.Total.IsZero())
	}
}

func TestGetYearlySummary_MonthlySumsMatchMonthlySummaries(t *testing.T) {
	repo := testutil.NewMockSummaryRepository()
	userID := uuid.New()
	repo.AddCategory(userID, 1, "Food", "#FF0000")
	repo.AddCategory(userID, 2, "Rent", "#00FF00")
	repo.AddExpense(userID, 1, "12.34", day(2027, time.January, 31))
	repo.AddExpense(userID, 2, "1500000", day(2027, time.February, 1))
	repo.AddExpense(userID, 1, "45.66", day(2027, time.February, 28))
	repo.AddExpense(userID, 2, "1500000", day(2027, time.December, 31))
	svc := NewSummaryService(repo)

	yearly, err := svc.GetYearlySummary(context.Background(), userID, 2027)
	require.NoError(t, err)

	total := decimal.Zero
	for _, bucket := range yearly.Months {
		monthly, err := svc.GetMonthlySummary(context.Background(), userID, bucket.Month, 2027)
		require.NoError(t, err)
		assert.True(t, monthly.GrandTotal.Equal(bucket.Total), "month %d", bucket.Month)
		total = total.Add(bucket.Total)
	}
	assert.True(t, total.Equal(yearly.Total))
}

func TestGetYearlySummary_InvalidYear(t *testing.T) {
	svc := NewSummaryService(testutil.NewMockSummaryRepository())

	for _, year := range []int{0, 1999, 10000} {
		_, err := svc.GetYearlySummary(context.Background(), uuid.New(), year)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "year %d", year)
	}
}

func TestComputeYearlySummary_IntegrityErrors(t *testing.T) {
	categories := []domain.CategoryRef{{ID: 1, Name: "Food", Color: "#FF0000"}}

	t.Run("expense outside year", func(t *testing.T) {
		snapshot := &domain.ExpenseSnapshot{
			Categories: categories,
			Expenses: []domain.ExpenseRow{
				{ID: 1, CategoryID: 1, Amount: decimal.NewFromInt(1), Date: day(2025, time.December, 31)},
			},
		}
		_, err := ComputeYearlySummary(snapshot, 2026)
		assert.ErrorIs(t, err, domain.ErrDataIntegrity)
	})

	t.Run("missing category", func(t *testing.T) {
		snapshot := &domain.ExpenseSnapshot{
			Categories: categories,
			Expenses: []domain.ExpenseRow{
				{ID: 1, CategoryID: 2, Amount: decimal.NewFromInt(1), Date: day(2026, time.April, 1)},
			},
		}
		_, err := ComputeYearlySummary(snapshot, 2026)
		assert.ErrorIs(t, err, domain.ErrDataIntegrity)
	})
}
