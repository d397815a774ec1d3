// Package preview rasterizes generated invoice PDFs for thumbnails and reads
// their text back for verification.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// DefaultDPI renders an A4 page at roughly 1240 × 1754 pixels
const DefaultDPI = 150.0

// Format is the encoding of a rendered page
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

var (
	ErrEmptyDocument = errors.New("document has no pages")
	ErrPageRange     = errors.New("page out of range")
)

// Options configures a Renderer
type Options struct {
	DPI         float64
	Format      Format
	JPEGQuality int
}

// Image is one rendered page
type Image struct {
	Page        int
	Width       int
	Height      int
	ContentType string
	Data        []byte
}

// Renderer converts PDF bytes to page images using mupdf
type Renderer struct {
	opts   Options
	logger *zap.Logger
}

// NewRenderer creates a Renderer, filling unset options with defaults
func NewRenderer(opts Options, logger *zap.Logger) *Renderer {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 85
	}
	return &Renderer{opts: opts, logger: logger}
}

// Thumbnail renders the first page
func (r *Renderer) Thumbnail(pdf []byte) (*Image, error) {
	return r.Page(pdf, 0)
}

// Page renders a single zero-based page
func (r *Renderer) Page(pdf []byte, page int) (*Image, error) {
	doc, err := open(pdf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, page, doc.NumPage())
	}
	return r.renderPage(doc, page)
}

// Pages renders every page of the document. Pages that fail to render are
// skipped and logged.
func (r *Renderer) Pages(pdf []byte) ([]*Image, error) {
	doc, err := open(pdf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	r.logger.Debug("Rendering PDF pages", zap.Int("total_pages", pageCount))

	images := make([]*Image, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		img, err := r.renderPage(doc, pageNum)
		if err != nil {
			r.logger.Warn("Failed to render page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		images = append(images, img)
	}
	return images, nil
}

// ExtractText returns the text of all pages joined by form feeds
func ExtractText(pdf []byte) (string, error) {
	doc, err := open(pdf)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\f"), nil
}

// PageCount returns the number of pages in the document
func PageCount(pdf []byte) (int, error) {
	doc, err := open(pdf)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

func open(pdf []byte) (*fitz.Document, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	if doc.NumPage() == 0 {
		doc.Close()
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

func (r *Renderer) renderPage(doc *fitz.Document, page int) (*Image, error) {
	img, err := doc.ImageDPI(page, r.opts.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize page %d: %w", page, err)
	}

	data, contentType, err := r.encode(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", page, err)
	}

	bounds := img.Bounds()
	return &Image{
		Page:        page,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (r *Renderer) encode(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	switch r.opts.Format {
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.opts.JPEGQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	}
}
