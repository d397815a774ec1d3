// Package export writes invoices to spreadsheet form
package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/internal/money"
)

// SheetName is the single sheet of an exported workbook
const SheetName = "Invoice"

// itemHeaderRow is where the item table starts; rows above hold the invoice header
const itemHeaderRow = 8

type summaryRow struct {
	label  string
	amount decimal.Decimal
}

// XLSXExporter writes an invoice to an excel workbook
type XLSXExporter struct {
	logger *zap.Logger
}

// NewXLSXExporter creates a new exporter
func NewXLSXExporter(logger *zap.Logger) *XLSXExporter {
	return &XLSXExporter{logger: logger}
}

// Export returns the workbook bytes for vm. Empty company fields fall back to
// the built-in profile.
func (e *XLSXExporter) Export(vm invoice.ViewModel, company invoice.CompanyProfile) ([]byte, error) {
	company = company.WithDefaults()
	e.logger.Info("Exporting invoice to XLSX", zap.String("invoice_number", vm.Number))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	// Header block
	e.setCell(f, "A1", company.Name)
	e.setCell(f, "A2", "Invoice No")
	e.setCell(f, "B2", vm.Number)
	e.setCell(f, "A3", "Date")
	e.setCell(f, "B3", money.FormatDate(vm.IssueDate))
	if vm.DueDate != "" {
		e.setCell(f, "A4", "Due Date")
		e.setCell(f, "B4", money.FormatDate(vm.DueDate))
	}
	e.setCell(f, "A5", "Bill To")
	e.setCell(f, "B5", vm.Customer.Name)
	e.setCell(f, "A6", "Currency")
	e.setCell(f, "B6", vm.Currency.String())

	// Item table
	headers := []string{"Item", "Description", "Quantity", "Unit Price", "Amount"}
	for i, h := range headers {
		e.setCell(f, cell(i+1, itemHeaderRow), h)
	}
	e.styleRow(f, itemHeaderRow, len(headers), bold)

	row := itemHeaderRow + 1
	for _, item := range vm.BillableItems() {
		name := item.Name
		if name == "" {
			name = invoice.UnnamedItem
		}
		e.setCell(f, cell(1, row), name)
		e.setCell(f, cell(2, row), item.Description)
		e.setCell(f, cell(3, row), item.Quantity)
		e.setCell(f, cell(4, row), item.Price.InexactFloat64())
		e.setCell(f, cell(5, row), item.Amount().InexactFloat64())
		row++
	}

	// Totals
	totals := vm.Totals()
	row++
	summary := []summaryRow{{"Subtotal", totals.Subtotal}}
	if totals.DiscountAmount.IsPositive() {
		summary = append(summary, summaryRow{fmt.Sprintf("Discount (%s%%)", vm.DiscountPercent.String()), totals.DiscountAmount.Neg()})
	}
	if totals.TaxAmount.IsPositive() {
		summary = append(summary, summaryRow{fmt.Sprintf("Tax (%s%%)", vm.TaxRate.String()), totals.TaxAmount})
	}
	summary = append(summary, summaryRow{"Total", totals.Total})

	for _, s := range summary {
		e.setCell(f, cell(4, row), s.label)
		e.setCell(f, cell(5, row), s.amount.InexactFloat64())
		row++
	}
	e.styleRow(f, row-1, 5, bold)

	e.setCell(f, cell(1, row+1), "Amount in words")
	e.setCell(f, cell(2, row+1), money.AmountInWords(totals.Total, vm.Currency))

	if err := f.SetColWidth(SheetName, "A", "B", 28); err != nil {
		e.logger.Warn("Failed to set column width", zap.Error(err))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Invoice exported",
		zap.String("invoice_number", vm.Number),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// setCell sets a cell value, logging rather than failing on bad references
func (e *XLSXExporter) setCell(f *excelize.File, ref string, value any) {
	if err := f.SetCellValue(SheetName, ref, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", ref),
			zap.Error(err))
	}
}

func (e *XLSXExporter) styleRow(f *excelize.File, row, cols, style int) {
	if err := f.SetCellStyle(SheetName, cell(1, row), cell(cols, row), style); err != nil {
		e.logger.Warn("Failed to style row", zap.Int("row", row), zap.Error(err))
	}
}

func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}
