package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/middleware"
	"github.com/spently/spently-backend/internal/service"
)

// SummaryHandler serves the monthly and yearly expense summaries
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// BreakdownEntryResponse is one category's share of a month
type BreakdownEntryResponse struct {
	CategoryID int32       `json:"categoryId"`
	Name       string      `json:"name"`
	Color      string      `json:"color"`
	Total      json.Number `json:"total"`
	Count      int64       `json:"count"`
	Percentage float64     `json:"percentage"`
}

// MonthlySummaryResponse represents the monthly summary
type MonthlySummaryResponse struct {
	Month       int                      `json:"month"`
	Year        int                      `json:"year"`
	GrandTotal  json.Number              `json:"grandTotal"`
	Breakdown   []BreakdownEntryResponse `json:"breakdown"`
	TopN        []BreakdownEntryResponse `json:"topN"`
	TopCategory *BreakdownEntryResponse  `json:"topCategory"`
}

// MonthlyBucketResponse is one month of the yearly trend
type MonthlyBucketResponse struct {
	Month     int         `json:"month"`
	MonthName string      `json:"monthName"`
	Total     json.Number `json:"total"`
}

// YearlySummaryResponse represents the yearly trend
type YearlySummaryResponse struct {
	Year   int                     `json:"year"`
	Total  json.Number             `json:"total"`
	Months []MonthlyBucketResponse `json:"months"`
}

// GetMonthlySummary handles GET /api/v1/expenses/summary?month=&year=
func (h *SummaryHandler) GetMonthlySummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, err := requiredIntParam(c, "month")
	if err != nil {
		return NewUnprocessableError(c, err.Error())
	}
	year, err := requiredIntParam(c, "year")
	if err != nil {
		return NewUnprocessableError(c, err.Error())
	}

	summary, err := h.summaryService.GetMonthlySummary(c.Request().Context(), userID, month, year)
	if err != nil {
		return summaryError(c, err, "Failed to compute monthly summary")
	}

	return c.JSON(http.StatusOK, toMonthlySummaryResponse(summary))
}

// GetYearlySummary handles GET /api/v1/expenses/yearly-summary?year=
func (h *SummaryHandler) GetYearlySummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, err := requiredIntParam(c, "year")
	if err != nil {
		return NewUnprocessableError(c, err.Error())
	}

	summary, err := h.summaryService.GetYearlySummary(c.Request().Context(), userID, year)
	if err != nil {
		return summaryError(c, err, "Failed to compute yearly summary")
	}

	months := make([]MonthlyBucketResponse, len(summary.Months))
	for i, bucket := range summary.Months {
		months[i] = MonthlyBucketResponse{
			Month:     bucket.Month,
			MonthName: bucket.MonthName,
			Total:     money(bucket.Total),
		}
	}

	return c.JSON(http.StatusOK, YearlySummaryResponse{
		Year:   summary.Year,
		Total:  money(summary.Total),
		Months: months,
	})
}

// summaryError maps aggregation errors. Integrity failures are logged by the service.
func summaryError(c echo.Context, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return NewUnprocessableError(c, err.Error())
	case errors.Is(err, domain.ErrDataIntegrity):
		return NewDataIntegrityError(c, "Stored expenses reference a missing category")
	}
	log.Error().Err(err).Str("user_id", middleware.GetUserID(c).String()).Msg(detail)
	return NewInternalError(c, detail)
}

func requiredIntParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func toBreakdownEntryResponse(entry domain.CategoryBreakdownEntry) BreakdownEntryResponse {
	return BreakdownEntryResponse{
		CategoryID: entry.CategoryID,
		Name:       entry.Name,
		Color:      entry.Color,
		Total:      money(entry.Total),
		Count:      entry.Count,
		Percentage: entry.Percentage,
	}
}

func toMonthlySummaryResponse(summary *domain.MonthlySummary) MonthlySummaryResponse {
	resp := MonthlySummaryResponse{
		Month:      summary.Month,
		Year:       summary.Year,
		GrandTotal: money(summary.GrandTotal),
		Breakdown:  make([]BreakdownEntryResponse, len(summary.Breakdown)),
		TopN:       make([]BreakdownEntryResponse, len(summary.TopN)),
	}
	for i, entry := range summary.Breakdown {
		resp.Breakdown[i] = toBreakdownEntryResponse(entry)
	}
	for i, entry := range summary.TopN {
		resp.TopN[i] = toBreakdownEntryResponse(entry)
	}
	if summary.TopCategory != nil {
		top := toBreakdownEntryResponse(*summary.TopCategory)
		resp.TopCategory = &top
	}
	return resp
}
