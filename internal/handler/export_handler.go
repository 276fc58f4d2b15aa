package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/middleware"
	"github.com/spently/spently-backend/internal/service"
)

// ExportHandler serves spreadsheet exports
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportExpenses handles GET /api/v1/expenses/export
// Accepts the same filters as the expense list, without paging.
func (h *ExportHandler) ExportExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, err := parseExpenseFilters(c)
	if err != nil {
		return NewUnprocessableError(c, err.Error())
	}

	file, err := h.exportService.ExportExpenses(c.Request().Context(), userID, filters)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			return NewUnprocessableError(c, err.Error())
		case errors.Is(err, domain.ErrDataIntegrity):
			return NewDataIntegrityError(c, "Stored expenses reference a missing category")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to export expenses")
		return NewInternalError(c, "Failed to export expenses")
	}

	log.Info().Str("user_id", userID.String()).Str("filename", file.Filename).Int("bytes", len(file.Content)).Msg("Expenses exported")

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}
