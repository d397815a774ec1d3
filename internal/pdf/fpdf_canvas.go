package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// coreFontFamily is the built-in font used when no UTF-8 font is configured
const coreFontFamily = "Helvetica"

// rupeeFallback replaces the rupee glyph, which cp1252 core fonts cannot encode
const rupeeFallback = "Rs."

// FontFiles points at TTF files registered as a UTF-8 font family.
// Regular is required; missing bold or italic faces fall back to regular.
type FontFiles struct {
	Family  string
	Regular string
	Bold    string
	Italic  string
}

// FpdfCanvas implements Canvas on top of gofpdf
type FpdfCanvas struct {
	pdf       *gofpdf.Fpdf
	family    string
	styles    map[string]bool
	translate func(string) string
}

// NewFpdfCanvas creates a portrait canvas in millimetres with a first page added.
// pageSize is a gofpdf size name such as "A4" or "Letter".
func NewFpdfCanvas(pageSize string, fonts FontFiles) (*FpdfCanvas, error) {
	if pageSize == "" {
		pageSize = "A4"
	}
	pdf := gofpdf.New("P", "mm", pageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	c := &FpdfCanvas{
		pdf:    pdf,
		family: coreFontFamily,
		styles: map[string]bool{StyleRegular: true, StyleBold: true, StyleItalic: true},
	}

	if fonts.Regular != "" {
		family := fonts.Family
		if family == "" {
			family = "InvoiceSans"
		}
		c.family = family
		c.styles = map[string]bool{StyleRegular: true}
		pdf.AddUTF8Font(family, StyleRegular, fonts.Regular)
		if fonts.Bold != "" {
			pdf.AddUTF8Font(family, StyleBold, fonts.Bold)
			c.styles[StyleBold] = true
		}
		if fonts.Italic != "" {
			pdf.AddUTF8Font(family, StyleItalic, fonts.Italic)
			c.styles[StyleItalic] = true
		}
		c.translate = func(s string) string { return s }
	} else {
		cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
		c.translate = func(s string) string {
			return cp1252(strings.ReplaceAll(s, "₹", rupeeFallback))
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("failed to load fonts: %w", pdf.Error())
	}

	pdf.AddPage()
	c.SetFont(StyleRegular, 10)
	return c, nil
}

func (c *FpdfCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *FpdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *FpdfCanvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *FpdfCanvas) SetFont(style string, size float64) {
	if !c.styles[style] {
		style = StyleRegular
	}
	c.pdf.SetFont(c.family, style, size)
}

func (c *FpdfCanvas) SetTextColor(col Color) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *FpdfCanvas) SetFillColor(col Color) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
}

func (c *FpdfCanvas) SetDrawColor(col Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
}

func (c *FpdfCanvas) SetLineWidth(width float64) {
	c.pdf.SetLineWidth(width)
}

func (c *FpdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.translate(s))
}

func (c *FpdfCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.translate(s))
}

func (c *FpdfCanvas) Rect(x, y, w, h float64, mode string) {
	c.pdf.Rect(x, y, w, h, mode)
}

func (c *FpdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

// RegisterImage embeds PNG, JPEG or GIF data. Images gofpdf cannot embed
// (16-bit or interlaced PNGs, for example) are rejected with the canvas left
// usable, so the caller can fall back. An earlier canvas error is returned as is.
func (c *FpdfCanvas) RegisterImage(name string, data []byte) (*ImageHandle, error) {
	if c.pdf.Err() {
		return nil, c.pdf.Error()
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, name, err)
	}

	var imageType string
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	case "gif":
		imageType = "GIF"
	default:
		return nil, fmt.Errorf("%w: %s: unsupported format %s", ErrImageDecode, name, format)
	}

	c.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if c.pdf.Err() {
		embedErr := c.pdf.Error()
		c.pdf.ClearError()
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, name, embedErr)
	}

	return &ImageHandle{Name: name, Width: cfg.Width, Height: cfg.Height}, nil
}

func (c *FpdfCanvas) DrawImage(img *ImageHandle, x, y, w, h float64) {
	c.pdf.ImageOptions(img.Name, x, y, w, h, false, gofpdf.ImageOptions{}, 0, "")
}

func (c *FpdfCanvas) Err() error {
	if c.pdf.Err() {
		return c.pdf.Error()
	}
	return nil
}

func (c *FpdfCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
