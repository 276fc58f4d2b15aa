package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/util"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const (
	ExpenseSheetName = "Pengeluaran"
	SummarySheetName = "Ringkasan"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var expenseHeaders = []string{"Tanggal", "Kategori", "Deskripsi", "Jumlah"}
var summaryHeaders = []string{"Kategori", "Jumlah Transaksi", "Total", "Persentase"}

// ExportFile is a generated spreadsheet ready to be served
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders expenses as an xlsx workbook
type ExportService struct {
	expenseRepo    domain.ExpenseRepository
	summaryService *SummaryService
}

// NewExportService creates a new ExportService
func NewExportService(expenseRepo domain.ExpenseRepository, summaryService *SummaryService) *ExportService {
	return &ExportService{
		expenseRepo:    expenseRepo,
		summaryService: summaryService,
	}
}

// ExportExpenses builds a workbook of every expense matching the filters. When a
// month is selected the workbook also carries that month's category summary.
func (s *ExportService) ExportExpenses(ctx context.Context, userID uuid.UUID, filters *domain.ExpenseFilters) (*ExportFile, error) {
	filters, err := NormalizeExpenseFilters(filters)
	if err != nil {
		return nil, err
	}

	var expenses []*domain.Expense
	var summary *domain.MonthlySummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.ListAll(gctx, userID, filters)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	if filters.HasMonth() {
		g.Go(func() error {
			var err error
			summary, err = s.summaryService.GetMonthlySummary(gctx, userID, *filters.Month, *filters.Year)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	content, err := buildWorkbook(expenses, summary)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build export workbook")
		return nil, err
	}

	return &ExportFile{
		Filename:    exportFilename(filters),
		ContentType: XLSXContentType,
		Content:     content,
	}, nil
}

func exportFilename(filters *domain.ExpenseFilters) string {
	if filters.HasMonth() {
		return fmt.Sprintf("pengeluaran-%04d-%02d.xlsx", *filters.Year, *filters.Month)
	}
	return "pengeluaran.xlsx"
}

func buildWorkbook(expenses []*domain.Expense, summary *domain.MonthlySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExpenseSheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F46E5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	// Built-in format 4 is "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	if err != nil {
		return nil, err
	}

	if err := writeExpenseSheet(f, expenses, headerStyle, moneyStyle, totalStyle); err != nil {
		return nil, err
	}
	if summary != nil {
		if err := writeSummarySheet(f, summary, headerStyle, moneyStyle, totalStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeExpenseSheet(f *excelize.File, expenses []*domain.Expense, headerStyle, moneyStyle, totalStyle int) error {
	sheet := ExpenseSheetName
	if err := writeHeader(f, sheet, expenseHeaders, headerStyle); err != nil {
		return err
	}

	row := 2
	total := decimal.Zero
	for _, e := range expenses {
		categoryName := ""
		if e.Category != nil {
			categoryName = e.Category.Name
		}
		values := []interface{}{
			e.Date.Format("2006-01-02"),
			categoryName,
			e.Description,
			e.Amount.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		total = total.Add(e.Amount)
		row++
	}

	if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("D%d", row), moneyStyle); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("D%d", row), total.InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("D%d", row), totalStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "D", 18)
}

func writeSummarySheet(f *excelize.File, summary *domain.MonthlySummary, headerStyle, moneyStyle, totalStyle int) error {
	sheet := SummarySheetName
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	title := fmt.Sprintf("%s %d", util.MonthName(summary.Month), summary.Year)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := writeHeaderAt(f, sheet, 2, summaryHeaders, headerStyle); err != nil {
		return err
	}

	// Breakdown is already ranked
	row := 3
	for _, entry := range summary.Breakdown {
		values := []interface{}{entry.Name, entry.Count, entry.Total.InexactFloat64(), entry.Percentage}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	if err := f.SetCellStyle(sheet, "C3", fmt.Sprintf("C%d", row), moneyStyle); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", row), summary.GrandTotal.InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), totalStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "D", 20)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	return writeHeaderAt(f, sheet, 1, headers, style)
}

func writeHeaderAt(f *excelize.File, sheet string, row int, headers []string, style int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), last, style)
}
