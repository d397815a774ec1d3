package pdf

import (
	"strings"

	"github.com/garyjia/invoice-studio/internal/money"
)

func (r *renderer) header(pos Position) Position {
	c := r.canvas
	y := pos.CurrentY

	c.SetFillColor(r.theme.Accent)
	c.Rect(0, y, pos.PageWidth, 8, PaintFill)

	if r.logo != nil {
		w, h := fitImage(r.logo, 45, 22)
		c.DrawImage(r.logo, pos.Margin, y+12, w, h)
	}

	if r.company.Slogan != "" {
		r.font(StyleItalic, 9, TextGray)
		c.Text(pos.Margin, y+40, r.company.Slogan)
	}

	lineY := y + 16
	for i, line := range r.company.ContactLines() {
		if i == 0 {
			r.font(StyleBold, 12, r.theme.Dark)
		} else {
			r.font(StyleRegular, 9, TextGray)
		}
		textRight(c, pos.Right(), lineY, line)
		if i == 0 {
			lineY += 6
		} else {
			lineY += 4.5
		}
	}

	return pos
}

func (r *renderer) title(pos Position) Position {
	c := r.canvas
	y := pos.CurrentY

	r.font(StyleBold, 24, r.theme.Accent)
	c.Text(pos.Margin, y+12, "INVOICE")

	type pair struct{ label, value string }
	pairs := []pair{
		{"Date:", money.FormatDate(r.vm.IssueDate)},
		{"Invoice No:", r.vm.Number},
	}
	if r.vm.DueDate != "" {
		pairs = append(pairs, pair{"Due Date:", money.FormatDate(r.vm.DueDate)})
	}
	if r.vm.Currency != "" {
		pairs = append(pairs, pair{"Currency:", r.vm.Currency.String()})
	}

	rowY := y + 6
	for _, p := range pairs {
		r.font(StyleRegular, 10, r.theme.Dark)
		valueX := pos.Right() - c.StringWidth(p.value)
		c.Text(valueX, rowY, p.value)

		r.font(StyleBold, 10, TextGray)
		c.Text(valueX-2-c.StringWidth(p.label), rowY, p.label)
		rowY += 6
	}

	return pos
}

func (r *renderer) billTo(pos Position) Position {
	c := r.canvas
	y := pos.CurrentY

	c.SetFillColor(r.theme.Accent)
	c.Rect(pos.Margin, y, 26, 7, PaintFill)
	r.font(StyleBold, 9, White)
	c.Text(pos.Margin+3, y+5, "BILL TO")

	r.font(StyleBold, 12, r.theme.Dark)
	c.Text(pos.Margin, y+15, r.vm.Customer.Name)

	lineY := y + 21
	r.font(StyleRegular, 10, TextGray)
	for _, line := range r.customerLines() {
		c.Text(pos.Margin, lineY, line)
		lineY += 5
	}

	return pos
}

func (r *renderer) customerLines() []string {
	var lines []string
	if r.vm.Customer.Email != "" {
		lines = append(lines, r.vm.Customer.Email)
	}
	if r.vm.Customer.Phone != "" {
		lines = append(lines, r.vm.Customer.Phone)
	}
	for _, part := range strings.Split(r.vm.Customer.Address, ",") {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}
