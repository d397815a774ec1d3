package pdf

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/internal/money"
)

// Page geometry and spacing, in millimetres
const (
	defaultMargin = 15.0

	headerHeight  = 46.0
	titleHeight   = 32.0
	billToHeight  = 42.0
	itemRowPitch  = 18.0
	itemRowGap    = 4.0
	summaryPitch  = 7.0
	bannerHeight  = 18.0
	sectionGap    = 8.0
	signatureSpan = 40.0
)

// Position is the layout state handed from one section to the next.
// Sections receive it by value and return the updated copy.
type Position struct {
	CurrentY     float64
	PageWidth    float64
	PageHeight   float64
	Margin       float64
	ContentWidth float64
}

// Right returns the x of the right margin
func (p Position) Right() float64 {
	return p.PageWidth - p.Margin
}

// Bottom returns the lowest y content may reach
func (p Position) Bottom() float64 {
	return p.PageHeight - p.Margin
}

// Theme holds the colors of the document
type Theme struct {
	Accent Color
	Dark   Color
}

// DefaultTheme is used for any color not configured
var DefaultTheme = Theme{
	Accent: Color{30, 64, 175},
	Dark:   Color{31, 41, 55},
}

// Input is everything a single render needs
type Input struct {
	Invoice invoice.ViewModel
	Company invoice.CompanyProfile
	Config  invoice.Config
}

// renderer carries the read-only inputs of one render. The cursor is not
// stored here; it travels in Position.
type renderer struct {
	canvas  Canvas
	vm      invoice.ViewModel
	company invoice.CompanyProfile
	cfg     invoice.Config
	totals  money.Totals
	theme   Theme
	logo    *ImageHandle
	stamp   *ImageHandle
	// measureRows sizes item rows by their wrapped content instead of the fixed pitch
	measureRows bool
	logger      *zap.Logger
}

// section paints one region of the invoice. A section with a fixed height is
// laid out optimistically and the pipeline advances the cursor by that
// height; a section with fixedHeight zero reports its own consumed height.
type section struct {
	name        string
	fixedHeight float64
	minHeight   float64
	build       func(r *renderer, pos Position) Position
}

// sections is the fixed order of the invoice layout
var sections = []section{
	{name: "header", fixedHeight: headerHeight, build: (*renderer).header},
	{name: "title", fixedHeight: titleHeight, build: (*renderer).title},
	{name: "bill_to", fixedHeight: billToHeight, build: (*renderer).billTo},
	{name: "items", minHeight: 30, build: (*renderer).items},
	{name: "totals", minHeight: bannerHeight + sectionGap, build: (*renderer).totalsBlock},
	{name: "payment", minHeight: signatureSpan + sectionGap, build: (*renderer).payment},
	{name: "footer", minHeight: 30, build: (*renderer).footer},
}

func (r *renderer) run(pos Position) Position {
	for _, s := range sections {
		need := s.fixedHeight
		if need == 0 {
			need = s.minHeight
		}
		pos = r.ensureSpace(pos, need)

		next := s.build(r, pos)
		if s.fixedHeight > 0 {
			next.CurrentY = pos.CurrentY + s.fixedHeight
		}
		r.logger.Debug("Section laid out",
			zap.String("section", s.name),
			zap.Float64("start_y", pos.CurrentY),
			zap.Float64("end_y", next.CurrentY))
		pos = next
	}
	return pos
}

// ensureSpace starts a new page when height does not fit below the cursor
func (r *renderer) ensureSpace(pos Position, height float64) Position {
	if pos.CurrentY+height <= pos.Bottom() {
		return pos
	}
	r.canvas.AddPage()
	pos.CurrentY = pos.Margin
	return pos
}

func (r *renderer) font(style string, size float64, color Color) {
	r.canvas.SetFont(style, size)
	r.canvas.SetTextColor(color)
}

func (r *renderer) currency(amount decimal.Decimal) string {
	return money.FormatCurrency(amount, r.vm.Currency)
}
