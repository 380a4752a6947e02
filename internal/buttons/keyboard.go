package buttons

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Keyboard reads button presses from text lines: "s" cycles the source,
// "d" the destination and "g" (or an empty line) starts a run.
type Keyboard struct {
	in io.Reader
}

// NewKeyboard creates a keyboard source
func NewKeyboard(in io.Reader) *Keyboard {
	return &Keyboard{in: in}
}

// Run reads until EOF. Reading cannot be interrupted, so after ctx is
// cancelled the remaining input is discarded.
func (k *Keyboard) Run(ctx context.Context, funnel *Funnel) error {
	scanner := bufio.NewScanner(k.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		ev, ok := ParseKey(scanner.Text())
		if !ok {
			funnel.Fault("unknown key " + strings.TrimSpace(scanner.Text()))
			continue
		}
		funnel.Push(ev)
	}
	return scanner.Err()
}

// ParseKey maps a typed key to an event
func ParseKey(key string) (Event, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "s", "src", "source":
		return SourceCycle, true
	case "d", "dst", "destination":
		return DestinationCycle, true
	case "g", "go", "":
		return GoTriggered, true
	default:
		return 0, false
	}
}
