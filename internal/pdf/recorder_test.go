package pdf

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

type drawOp struct {
	kind  string
	page  int
	x, y  float64
	w, h  float64
	text  string
	style string
	size  float64
}

// recordingCanvas captures drawing calls. Text is measured at 0.2 mm per
// rune per point of font size, so 10pt text is 2 mm per character.
type recordingCanvas struct {
	width, height float64
	pages         int
	style         string
	size          float64
	ops           []drawOp
	registered    []string
	fatal         error
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{width: 210, height: 297, pages: 1, size: 10}
}

func (r *recordingCanvas) PageSize() (float64, float64) { return r.width, r.height }
func (r *recordingCanvas) AddPage()                     { r.pages++ }
func (r *recordingCanvas) PageCount() int               { return r.pages }
func (r *recordingCanvas) SetFont(style string, size float64) {
	r.style, r.size = style, size
}
func (r *recordingCanvas) SetTextColor(Color)  {}
func (r *recordingCanvas) SetFillColor(Color)  {}
func (r *recordingCanvas) SetDrawColor(Color)  {}
func (r *recordingCanvas) SetLineWidth(float64) {}

func (r *recordingCanvas) Text(x, y float64, s string) {
	r.ops = append(r.ops, drawOp{kind: "text", page: r.pages, x: x, y: y, text: s, style: r.style, size: r.size})
}

func (r *recordingCanvas) StringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.size * 0.2
}

func (r *recordingCanvas) Rect(x, y, w, h float64, mode string) {
	r.ops = append(r.ops, drawOp{kind: "rect", page: r.pages, x: x, y: y, w: w, h: h, text: mode})
}

func (r *recordingCanvas) Line(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, drawOp{kind: "line", page: r.pages, x: x1, y: y1, w: x2 - x1, h: y2 - y1})
}

func (r *recordingCanvas) RegisterImage(name string, data []byte) (*ImageHandle, error) {
	if string(data) == "corrupt" {
		return nil, ErrImageDecode
	}
	r.registered = append(r.registered, name)
	return &ImageHandle{Name: name, Width: 200, Height: 100}, nil
}

func (r *recordingCanvas) DrawImage(img *ImageHandle, x, y, w, h float64) {
	r.ops = append(r.ops, drawOp{kind: "image", page: r.pages, x: x, y: y, w: w, h: h, text: img.Name})
}

func (r *recordingCanvas) Err() error { return r.fatal }

func (r *recordingCanvas) Output(w io.Writer) error {
	if r.fatal != nil {
		return r.fatal
	}
	_, err := io.WriteString(w, "%PDF-recorded")
	return err
}

func (r *recordingCanvas) texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func (r *recordingCanvas) findText(s string) (drawOp, bool) {
	for _, op := range r.ops {
		if op.kind == "text" && op.text == s {
			return op, true
		}
	}
	return drawOp{}, false
}

func (r *recordingCanvas) hasTextPrefix(prefix string) bool {
	for _, s := range r.texts() {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func (r *recordingCanvas) count(kind string) int {
	n := 0
	for _, op := range r.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

var errMissing = errors.New("missing")

// mapImages serves image bytes by reference
type mapImages map[string]string

func (m mapImages) Load(ref string) ([]byte, error) {
	data, ok := m[ref]
	if !ok {
		return nil, errMissing
	}
	return []byte(data), nil
}
