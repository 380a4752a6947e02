package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestConsoleShow(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 8)

	if err := c.Show(Frame{"Src: En", "Dst: Hi", "Ready", ""}); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected 6 lines (border, 4 rows, border), got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "+----------+" {
		t.Errorf("Unexpected border %q", lines[0])
	}
	if lines[3] != "| Ready    |" {
		t.Errorf("Unexpected row %q", lines[3])
	}
}

type stubDevice struct {
	shown  int
	err    error
	closed bool
}

func (s *stubDevice) Show(Frame) error { s.shown++; return s.err }
func (s *stubDevice) Close() error     { s.closed = true; return nil }

func TestTee(t *testing.T) {
	failing := &stubDevice{err: errors.New("i2c write failed")}
	healthy := &stubDevice{}
	tee := Tee{failing, healthy}

	err := tee.Show(Frame{})
	if err == nil {
		t.Error("Expected the failing device's error")
	}
	if healthy.shown != 1 {
		t.Error("Healthy device should still be shown the frame")
	}

	if err := tee.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !failing.closed || !healthy.closed {
		t.Error("All devices should be closed")
	}
}

func TestEncodeFrame(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	data, err := encodeFrame(Frame{"Src: English", "Dst: Hindi", "Ready", "Press GO"}, at)
	if err != nil {
		t.Fatalf("encodeFrame() error = %v", err)
	}

	var ev FrameEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Payload is not JSON: %v", err)
	}
	if len(ev.Lines) != 4 || ev.Lines[2] != "Ready" {
		t.Errorf("Unexpected lines %v", ev.Lines)
	}
	if ev.Timestamp != 1700000000000 {
		t.Errorf("Timestamp = %d", ev.Timestamp)
	}
}

func TestDrawFrame(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawFrame(img, Frame{"Src: English", "", "", ""})

	lit := func(top, bottom int) int {
		n := 0
		for y := top; y < bottom; y++ {
			for x := 0; x < 128; x++ {
				if img.At(x, y) == image1bit.On {
					n++
				}
			}
		}
		return n
	}

	if lit(0, 16) == 0 {
		t.Error("First row should have lit pixels")
	}
	if n := lit(16, 64); n != 0 {
		t.Errorf("Empty rows should be dark, got %d lit pixels", n)
	}

	// Redrawing clears the previous content
	drawFrame(img, Frame{})
	if n := lit(0, 64); n != 0 {
		t.Errorf("Blank frame should clear the image, got %d lit pixels", n)
	}
}
