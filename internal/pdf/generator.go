package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/internal/money"
)

// Options configures a Generator
type Options struct {
	PageSize string
	Fonts    FontFiles
	Theme    Theme
	// MeasureItemRows grows item rows to fit wrapped text. Off by default,
	// which keeps the fixed row pitch.
	MeasureItemRows bool
}

// Document is a generated invoice PDF
type Document struct {
	Bytes  []byte
	Pages  int
	Totals money.Totals
}

// DataURI returns the document as an inline-embeddable data URI
func (d *Document) DataURI() string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(d.Bytes)
}

// Generator turns invoice view models into PDF documents. It holds no
// per-render state and may be used from several goroutines at once.
type Generator struct {
	opts      Options
	images    ImageSource
	logger    *zap.Logger
	newCanvas func() (Canvas, error)
}

// NewGenerator creates a Generator. images may be nil, in which case every
// logo and stamp is omitted.
func NewGenerator(opts Options, images ImageSource, logger *zap.Logger) *Generator {
	if images == nil {
		images = noImages
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme
	}
	g := &Generator{
		opts:   opts,
		images: images,
		logger: logger,
	}
	g.newCanvas = func() (Canvas, error) {
		return NewFpdfCanvas(opts.PageSize, opts.Fonts)
	}
	return g
}

// Generate renders the invoice to PDF bytes. On failure no partial document
// is returned.
func (g *Generator) Generate(in Input) (*Document, error) {
	canvas, err := g.newCanvas()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	totals, err := g.Render(canvas, in)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	g.logger.Debug("Invoice document generated",
		zap.String("invoice_number", in.Invoice.Number),
		zap.Int("pages", canvas.PageCount()),
		zap.Int("bytes", buf.Len()))

	return &Document{
		Bytes:  buf.Bytes(),
		Pages:  canvas.PageCount(),
		Totals: totals,
	}, nil
}

// Render lays the invoice out on c and returns the totals it printed
func (g *Generator) Render(c Canvas, in Input) (money.Totals, error) {
	company := in.Company.WithDefaults()
	cfg := in.Config.WithDefaults()

	r := &renderer{
		canvas:      c,
		vm:          in.Invoice,
		company:     company,
		cfg:         cfg,
		totals:      in.Invoice.Totals(),
		theme:       g.opts.Theme,
		measureRows: g.opts.MeasureItemRows,
		logger:      g.logger,
	}
	r.logo = loadImageOrDefault(c, g.images, g.logger, "logo", company.LogoRef, invoice.DefaultLogoRef)
	r.stamp = loadImageOrDefault(c, g.images, g.logger, "stamp", company.StampRef, invoice.DefaultStampRef)

	width, height := c.PageSize()
	r.run(Position{
		CurrentY:     0,
		PageWidth:    width,
		PageHeight:   height,
		Margin:       defaultMargin,
		ContentWidth: width - 2*defaultMargin,
	})

	if err := c.Err(); err != nil {
		return money.Totals{}, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return r.totals, nil
}
