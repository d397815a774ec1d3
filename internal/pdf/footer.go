package pdf

import (
	"github.com/garyjia/invoice-studio/internal/invoice"
)

const (
	bandPadding    = 5.0
	footLineHeight = 4.5
)

func (r *renderer) footer(pos Position) Position {
	c := r.canvas

	r.font(StyleBold, 11, r.theme.Accent)
	pos.CurrentY = AddWrappedText(c, r.cfg.ThankYouText, pos.Margin, pos.CurrentY+4, pos.ContentWidth, 6, AlignCenter)

	pos = r.quoteBand(pos)
	return r.notesBand(pos)
}

func (r *renderer) quoteBand(pos Position) Position {
	c := r.canvas
	innerW := pos.ContentWidth - 2*bandPadding

	r.font(StyleItalic, 9, TextGray)
	lines := WrapLines(c, r.cfg.FooterQuote, innerW)
	if len(lines) == 0 {
		return pos
	}
	bandH := float64(len(lines))*footLineHeight + 6
	pos = r.ensureSpace(pos, bandH)
	y := pos.CurrentY

	c.SetFillColor(BandGray)
	c.Rect(pos.Margin, y, pos.ContentWidth, bandH, PaintFill)
	r.font(StyleItalic, 9, TextGray)
	AddWrappedText(c, r.cfg.FooterQuote, pos.Margin+bandPadding, y+5.5, innerW, footLineHeight, AlignCenter)

	pos.CurrentY = y + bandH + 4
	return pos
}

func (r *renderer) notesBand(pos Position) Position {
	c := r.canvas
	innerW := pos.ContentWidth - 2*bandPadding
	notes := invoice.ResolveNotes(r.vm.Notes, r.cfg)

	r.font(StyleRegular, 9, White)
	lineCount := 0
	for _, note := range notes {
		lineCount += len(WrapLines(c, "• "+note, innerW))
	}
	bandH := 11.5 + float64(lineCount)*footLineHeight
	pos = r.ensureSpace(pos, bandH)
	y := pos.CurrentY

	c.SetFillColor(r.theme.Accent)
	c.Rect(pos.Margin, y, pos.ContentWidth, bandH, PaintFill)
	r.font(StyleBold, 10, White)
	c.Text(pos.Margin+bandPadding, y+6, "Notes")

	r.font(StyleRegular, 9, White)
	lineY := y + 11.5
	for _, note := range notes {
		lineY = AddWrappedText(c, "• "+note, pos.Margin+bandPadding, lineY, innerW, footLineHeight, AlignLeft)
	}

	pos.CurrentY = y + bandH
	return pos
}
