package pdf

import (
	"fmt"

	"github.com/garyjia/invoice-studio/internal/invoice"
)

// Item table columns, relative to the left margin
const (
	nameColOffset  = 3.0
	nameColWidth   = 50.0
	descColOffset  = 58.0
	descColWidth   = 82.0
	tableHeadRow   = 9.0
	firstRowOffset = 6.0

	nameLineHeight = 5.0
	descLineHeight = 4.5
	specLineHeight = 4.0
)

// items paints the item table and the subtotal/tax/discount rows beneath it.
// Rows advance by the fixed itemRowPitch unless measureRows is set, so long
// descriptions can run into the next row.
func (r *renderer) items(pos Position) Position {
	c := r.canvas
	r.tableHeader(pos)
	y := pos.CurrentY + tableHeadRow + firstRowOffset

	items := r.vm.BillableItems()
	for i, item := range items {
		pitch := itemRowPitch
		if r.measureRows {
			pitch = max(pitch, r.measureItem(item))
		}

		rowTop := pos
		rowTop.CurrentY = y - firstRowOffset
		if next := r.ensureSpace(rowTop, pitch); next.CurrentY != rowTop.CurrentY {
			r.tableHeader(next)
			y = next.CurrentY + tableHeadRow + firstRowOffset
		}

		r.itemRow(pos, item, y)

		if i < len(items)-1 {
			c.SetDrawColor(LightGray)
			c.SetLineWidth(0.2)
			c.Line(pos.Margin, y+pitch-firstRowOffset-1, pos.Right(), y+pitch-firstRowOffset-1)
		}
		y += pitch
	}

	summary := pos
	summary.CurrentY = y
	summary = r.ensureSpace(summary, 3*summaryPitch)
	return r.summaryRows(summary)
}

func (r *renderer) tableHeader(pos Position) {
	c := r.canvas
	y := pos.CurrentY

	c.SetFillColor(r.theme.Accent)
	c.Rect(pos.Margin, y, pos.ContentWidth, tableHeadRow, PaintFill)

	r.font(StyleBold, 10, White)
	c.Text(pos.Margin+nameColOffset, y+6, "Item")
	c.Text(pos.Margin+descColOffset, y+6, "Description")
	textRight(c, pos.Right()-3, y+6, "Amount")
}

func (r *renderer) itemRow(pos Position, item invoice.LineItem, y float64) {
	c := r.canvas
	nameX := pos.Margin + nameColOffset
	descX := pos.Margin + descColOffset

	r.font(StyleBold, 10, r.theme.Dark)
	AddWrappedText(c, itemName(item), nameX, y, nameColWidth, nameLineHeight, AlignLeft)

	r.font(StyleRegular, 9, TextGray)
	specY := AddWrappedText(c, item.Description, descX, y, descColWidth, descLineHeight, AlignLeft)

	r.font(StyleRegular, 8, TextGray)
	for _, spec := range item.Specs {
		specY = AddWrappedText(c, "• "+spec, descX+2, specY, descColWidth-2, specLineHeight, AlignLeft)
	}

	r.font(StyleBold, 10, r.theme.Dark)
	textRight(c, pos.Right()-3, y, r.currency(item.Amount()))
}

// measureItem returns the height a row needs to hold all of its wrapped text
func (r *renderer) measureItem(item invoice.LineItem) float64 {
	c := r.canvas

	r.font(StyleBold, 10, r.theme.Dark)
	nameH := float64(len(WrapLines(c, itemName(item), nameColWidth))) * nameLineHeight

	r.font(StyleRegular, 9, TextGray)
	descH := float64(len(WrapLines(c, item.Description, descColWidth))) * descLineHeight

	r.font(StyleRegular, 8, TextGray)
	for _, spec := range item.Specs {
		descH += float64(len(WrapLines(c, "• "+spec, descColWidth-2))) * specLineHeight
	}

	return max(nameH, descH) + firstRowOffset + itemRowGap
}

func itemName(item invoice.LineItem) string {
	if item.Name == "" {
		return invoice.UnnamedItem
	}
	return item.Name
}

func (r *renderer) summaryRows(pos Position) Position {
	c := r.canvas
	y := pos.CurrentY
	labelX := pos.Right() - 45
	valueX := pos.Right() - 3

	c.SetDrawColor(LightGray)
	c.SetLineWidth(0.3)
	c.Line(labelX-30, y-firstRowOffset+1, pos.Right(), y-firstRowOffset+1)

	row := func(label, value string) {
		r.font(StyleBold, 10, TextGray)
		textRight(c, labelX, y, label)
		r.font(StyleRegular, 10, r.theme.Dark)
		textRight(c, valueX, y, value)
		y += summaryPitch
	}

	row("Subtotal:", r.currency(r.totals.Subtotal))
	if r.totals.TaxAmount.IsPositive() {
		row(fmt.Sprintf("Tax (%s%%):", r.vm.TaxRate.String()), r.currency(r.totals.TaxAmount))
	}
	if r.totals.DiscountAmount.IsPositive() {
		row(fmt.Sprintf("Discount (%s%%):", r.vm.DiscountPercent.String()), "-"+r.currency(r.totals.DiscountAmount))
	}

	pos.CurrentY = y
	return pos
}
