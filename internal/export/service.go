package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/query"
)

const (
	sheetRanking  = "Ranking"
	sheetHistory  = "History"
	sheetContacts = "Contacts"
)

// Report is what the user is looking at when they ask for a download.
type Report struct {
	Source   string
	Province string
	Ranking  []entity.CustomerSummary
	Customer *entity.CustomerCard // nil when no customer is selected
	History  []entity.Transaction
	Contacts []entity.Contact
}

// Service produces XLSX bytes for report downloads.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReportXLSX writes the province ranking and, when a customer is selected, their history and
// contacts on separate sheets.
func (s *Service) ReportXLSX(ctx context.Context, rep Report) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetRanking); err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(rep.Ranking))
	for _, r := range rep.Ranking {
		rows = append(rows, []any{
			r.CustomerID,
			r.Province,
			query.RoundVolume(r.TotalVolume),
			r.PurchaseCount,
			r.LastPurchase.Format(constants.DateLayout),
		})
	}
	if err := writeTable(f, sheetRanking,
		[]string{"Customer", "Province", "Total volume (kW)", "Purchases", "Last purchase"},
		rows); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheetRanking, "A", "B", 20)
	_ = f.SetColWidth(sheetRanking, "C", "E", 16)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if rep.Customer != nil {
		if _, err := f.NewSheet(sheetHistory); err != nil {
			return nil, err
		}
		rows = rows[:0]
		for _, tx := range rep.History {
			rows = append(rows, []any{tx.Date.Format(constants.DateLayout), tx.Province, query.RoundVolume(tx.TotalVolume)})
		}
		if err := writeTable(f, sheetHistory, []string{"Date", "Province", "Volume (kW)"}, rows); err != nil {
			return nil, err
		}
		_ = f.SetColWidth(sheetHistory, "A", "C", 16)

		if _, err := f.NewSheet(sheetContacts); err != nil {
			return nil, err
		}
		rows = rows[:0]
		for _, c := range rep.Contacts {
			rows = append(rows, []any{truncate(c.Name, 120), c.Email, c.Phone})
		}
		if err := writeTable(f, sheetContacts, []string{"Name", "Email", "Phone"}, rows); err != nil {
			return nil, err
		}
		_ = f.SetColWidth(sheetContacts, "A", "B", 32)
		_ = f.SetColWidth(sheetContacts, "C", "C", 18)
	}

	activeIndex, _ := f.GetSheetIndex(sheetRanking)
	f.SetActiveSheet(activeIndex)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	customer := ""
	if rep.Customer != nil {
		customer = rep.Customer.CustomerID
	}
	s.logger.Info("export.xlsx.ok",
		"source", rep.Source,
		"province", rep.Province,
		"customer", customer,
		"rows", len(rep.Ranking),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		write := func(col int, v any) error {
			cell, _ := excelize.CoordinatesToCellName(col, r+2)
			return f.SetCellValue(sheet, cell, v)
		}
		for c, v := range row {
			if err := write(c+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
