package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console draws frames as a framed box on a writer, for benches without an OLED
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	width int
}

// NewConsole creates a console device
func NewConsole(out io.Writer, width int) *Console {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Console{out: out, width: width}
}

// Show draws the frame
func (c *Console) Show(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	border := "+" + strings.Repeat("-", c.width+2) + "+"

	var b strings.Builder
	b.WriteString(border + "\n")
	for _, line := range frame {
		pad := c.width - len([]rune(line))
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "| %s%s |\n", line, strings.Repeat(" ", pad))
	}
	b.WriteString(border + "\n")

	_, err := io.WriteString(c.out, b.String())
	return err
}

// Close does nothing
func (c *Console) Close() error {
	return nil
}
