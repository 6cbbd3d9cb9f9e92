// Package export produces XLSX bytes for the monthly reconciliation report.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ofer2300/Financial-M2/internal/entity"
	"github.com/ofer2300/Financial-M2/internal/repository"
	"github.com/ofer2300/Financial-M2/internal/stats"
)

// Service is a tiny façade over the store that renders monthly statistics
// into a workbook.
type Service struct {
	store  repository.Store
	logger *slog.Logger
}

func NewService(store repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

const sheet = "Monthly"

var headers = []string{
	"Year",
	"Month",
	"Total Transactions",
	"Matched Transactions",
	"Match Rate %",
	"Total Amount",
	"Matched Amount",
	"Unmatched Amount",
}

// MonthlyReportXLSX returns an XLSX workbook (as bytes) with one row per
// (year, month) present among the bank records.
func (s *Service) MonthlyReportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	bank, err := s.store.ListBankTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("query bank transactions: %w", err)
	}
	matches, err := s.store.MatchDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	monthly := stats.Monthly(bank, matches)

	return s.render(monthly, start)
}

func (s *Service) render(monthly []entity.MonthlyStat, start time.Time) ([]byte, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, m := range monthly {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, m.Year)
		write(2, m.MonthName)
		write(3, m.TotalTransactions)
		write(4, m.MatchedTransactions)
		write(5, fmt.Sprintf("%.1f", m.MatchRate))
		write(6, m.TotalAmount.StringFixed(2))
		write(7, m.MatchedAmount.StringFixed(2))
		write(8, m.UnmatchedAmount.StringFixed(2))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)  // year
	_ = f.SetColWidth(sheet, "B", "B", 12) // month
	_ = f.SetColWidth(sheet, "C", "E", 20) // counts + rate
	_ = f.SetColWidth(sheet, "F", "H", 16) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(monthly),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
