package pdf

import (
	"github.com/garyjia/invoice-studio/internal/money"
)

// wordsShare is the fraction of the content width taken by the amount-in-words banner
const wordsShare = 0.62

func (r *renderer) totalsBlock(pos Position) Position {
	c := r.canvas
	y := pos.CurrentY + 4
	total := r.totals.Total

	wordsW := pos.ContentWidth * wordsShare
	c.SetFillColor(r.theme.Dark)
	c.Rect(pos.Margin, y, wordsW, bannerHeight, PaintFill)
	r.font(StyleRegular, 8, White)
	c.Text(pos.Margin+3, y+5, "Amount in words")
	r.font(StyleBold, 9, White)
	AddWrappedText(c, money.AmountInWords(total, r.vm.Currency), pos.Margin+3, y+10, wordsW-6, 4, AlignLeft)

	totalX := pos.Margin + wordsW + 2
	totalW := pos.ContentWidth - wordsW - 2
	c.SetFillColor(r.theme.Accent)
	c.Rect(totalX, y, totalW, bannerHeight, PaintFill)
	r.font(StyleBold, 9, White)
	c.Text(totalX+3, y+6, "TOTAL")
	r.font(StyleBold, 14, White)
	textRight(c, totalX+totalW-3, y+14, r.currency(total))

	pos.CurrentY = y + bannerHeight + sectionGap
	return pos
}

func (r *renderer) payment(pos Position) Position {
	c := r.canvas
	y := pos.CurrentY

	r.font(StyleBold, 11, r.theme.Dark)
	c.Text(pos.Margin, y+5, "Payment Details")

	details := r.vm.Payment
	rows := [][2]string{
		{"Account Holder:", details.AccountHolder},
		{"Bank Name:", details.BankName},
		{"Account No:", details.AccountNumber},
		{"IFSC / Routing:", details.RoutingCode},
		{"Branch:", details.Branch},
	}
	rowY := y + 11
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		r.font(StyleBold, 9, TextGray)
		c.Text(pos.Margin, rowY, row[0])
		r.font(StyleRegular, 9, r.theme.Dark)
		c.Text(pos.Margin+30, rowY, row[1])
		rowY += 5
	}

	r.font(StyleBold, 10, r.theme.Dark)
	textRight(c, pos.Right(), y+5, "For "+r.company.Name+",")
	if r.stamp != nil {
		w, h := fitImage(r.stamp, 35, 20)
		c.DrawImage(r.stamp, pos.Right()-w, y+8, w, h)
	}
	r.font(StyleBold, 10, r.theme.Dark)
	textRight(c, pos.Right(), y+33, r.vm.CreatedBy)
	r.font(StyleRegular, 8, TextGray)
	textRight(c, pos.Right(), y+37, "Authorized Signatory")

	pos.CurrentY = max(rowY, y+signatureSpan) + sectionGap
	return pos
}
