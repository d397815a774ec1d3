package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Align selects where a line of text sits inside its box
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font styles understood by every Canvas
const (
	StyleRegular = ""
	StyleBold    = "B"
	StyleItalic  = "I"
)

// Rect paint modes
const (
	PaintFill   = "F"
	PaintStroke = "D"
	PaintBoth   = "FD"
)

// Color is an RGB triple, 0-255 per channel
type Color struct {
	R, G, B int
}

var (
	White     = Color{255, 255, 255}
	Black     = Color{0, 0, 0}
	TextGray  = Color{90, 90, 90}
	LightGray = Color{225, 225, 225}
	BandGray  = Color{242, 242, 242}
)

// ParseHexColor parses "#RRGGBB" or "RRGGBB"
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// ImageHandle refers to an image registered with a Canvas
type ImageHandle struct {
	Name   string
	Width  int // source pixels
	Height int
}

// Canvas is the page-coordinate drawing surface the layout engine paints on.
// Coordinates are in millimetres from the top-left corner; Text draws with
// its baseline at y.
type Canvas interface {
	PageSize() (width, height float64)
	AddPage()
	PageCount() int
	SetFont(style string, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(width float64)
	Text(x, y float64, s string)
	StringWidth(s string) float64
	Rect(x, y, w, h float64, mode string)
	Line(x1, y1, x2, y2 float64)
	RegisterImage(name string, data []byte) (*ImageHandle, error)
	DrawImage(img *ImageHandle, x, y, w, h float64)
	// Err reports an unrecoverable failure of an earlier drawing call
	Err() error
	Output(w io.Writer) error
}
