// Package export writes display-ready bill lists to spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/billedhq/expense-client/internal/application/service"
)

const sheetName = "Bills"

var headers = []string{"Type", "Name", "Date", "Amount", "VAT", "Pct", "Commentary", "Status"}

// BillsExporter builds spreadsheet exports of the bill list.
type BillsExporter struct {
	logger *zap.Logger
}

// NewBillsExporter creates a BillsExporter.
func NewBillsExporter(logger *zap.Logger) *BillsExporter {
	return &BillsExporter{logger: logger}
}

// Build renders the bills into a new workbook: one header row, one row per
// bill, in the order given.
func (e *BillsExporter) Build(bills []service.DisplayBill) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := file.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}

	for i, bill := range bills {
		row := i + 2
		values := []interface{}{
			bill.Type,
			bill.Name,
			bill.Date,
			amountCell(bill.Amount),
			bill.VAT,
			amountCell(bill.Pct),
			bill.Commentary,
			bill.Status,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("cell name row %d: %w", row, err)
			}
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	e.logger.Info("Bill export built", zap.Int("bills", len(bills)))
	return file, nil
}

// WriteTo builds the workbook and streams it to w.
func (e *BillsExporter) WriteTo(bills []service.DisplayBill, w io.Writer) error {
	file, err := e.Build(bills)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// amountCell keeps uncoerced numeric fields blank rather than zero.
func amountCell(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
