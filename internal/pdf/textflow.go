package pdf

import "strings"

// WrapLines breaks text greedily into lines no wider than maxWidth as measured
// by the canvas in its current font. A single word wider than maxWidth gets a
// line of its own.
func WrapLines(c Canvas, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && c.StringWidth(candidate) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// AddWrappedText draws text word-wrapped into maxWidth starting with the
// first baseline at y and returns the y just below the last drawn line.
// Blank text draws nothing and returns y unchanged. Alignment only moves each
// line horizontally inside [x, x+maxWidth]; it never changes where lines break.
func AddWrappedText(c Canvas, text string, x, y, maxWidth, lineHeight float64, align Align) float64 {
	for _, line := range WrapLines(c, text, maxWidth) {
		c.Text(alignedX(c, line, x, maxWidth, align), y, line)
		y += lineHeight
	}
	return y
}

func alignedX(c Canvas, line string, x, maxWidth float64, align Align) float64 {
	switch align {
	case AlignCenter:
		return x + (maxWidth-c.StringWidth(line))/2
	case AlignRight:
		return x + maxWidth - c.StringWidth(line)
	default:
		return x
	}
}

// textRight draws s so that it ends exactly at rightX
func textRight(c Canvas, rightX, y float64, s string) {
	c.Text(rightX-c.StringWidth(s), y, s)
}
