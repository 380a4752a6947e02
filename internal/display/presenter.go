package display

import (
	"strings"

	"codeberg.org/snonux/babelbox/internal"
	"codeberg.org/snonux/babelbox/internal/language"
)

// DefaultWidth is the per-line character budget of a 128px wide OLED
const DefaultWidth = 16

// Frame is what the screen shows: source, destination and two status lines
type Frame [4]string

// String joins the lines with newlines
func (f Frame) String() string {
	return strings.Join(f[:], "\n")
}

// StatusLines are the two free-form lines under the selection
type StatusLines struct {
	Line1 string
	Line2 string
}

// Status builds status lines
func Status(line1, line2 string) StatusLines {
	return StatusLines{Line1: line1, Line2: line2}
}

// Device shows frames
type Device interface {
	Show(frame Frame) error
	Close() error
}

// Render lays out the selection and status. Every line is cut to width
// characters; a width of zero or less means DefaultWidth.
func Render(source, destination language.Entry, status StatusLines, width int) Frame {
	if width <= 0 {
		width = DefaultWidth
	}

	// Newlines would break the fixed line layout
	clean := func(s string) string {
		return internal.Truncate(strings.Join(strings.Fields(s), " "), width)
	}

	return Frame{
		clean("Src: " + source.Name),
		clean("Dst: " + destination.Name),
		clean(status.Line1),
		clean(status.Line2),
	}
}

// RenderSelection renders the frame for the selection's current languages
func RenderSelection(sel *language.Selection, status StatusLines, width int) Frame {
	return Render(sel.Source(), sel.Destination(), status, width)
}
