package gui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"codeberg.org/snonux/babelbox/internal/buttons"
	"codeberg.org/snonux/babelbox/internal/display"
)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	return newSimulator(test.NewTempApp(t), nil)
}

// attach runs the simulator as a button source and waits until presses are delivered
func attach(t *testing.T, s *Simulator) *buttons.Funnel {
	t.Helper()

	funnel := buttons.NewFunnel(8, 0, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, funnel) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("Run did not return after cancel")
		}
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		ready := s.funnel != nil
		s.mu.Unlock()
		if ready {
			return funnel
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("simulator never attached to the funnel")
	return nil
}

func receive(t *testing.T, funnel *buttons.Funnel) buttons.Event {
	t.Helper()
	select {
	case ev := <-funnel.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return 0
	}
}

func TestShowDrawsFrame(t *testing.T) {
	s := newTestSimulator(t)

	frame := display.Frame{"Src: English", "Dst: German", "Ready", "Press GO"}
	if err := s.Show(frame); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	for i, want := range frame {
		if got := s.lines[i].Text; got != want {
			t.Errorf("line %d = %q, want %q", i, got, want)
		}
	}
}

func TestButtonsPushEvents(t *testing.T) {
	s := newTestSimulator(t)
	funnel := attach(t, s)

	tests := []struct {
		name   string
		button fyne.Tappable
		want   buttons.Event
	}{
		{"source", s.sourceBtn, buttons.SourceCycle},
		{"destination", s.destBtn, buttons.DestinationCycle},
		{"go", s.goBtn, buttons.GoTriggered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.Tap(tt.button)
			if got := receive(t, funnel); got != tt.want {
				t.Errorf("event = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHotkeys(t *testing.T) {
	s := newTestSimulator(t)
	funnel := attach(t, s)

	s.typedRune('s')
	if got := receive(t, funnel); got != buttons.SourceCycle {
		t.Errorf("'s' = %v, want source", got)
	}

	s.typedRune('D')
	if got := receive(t, funnel); got != buttons.DestinationCycle {
		t.Errorf("'D' = %v, want destination", got)
	}

	s.typedKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	if got := receive(t, funnel); got != buttons.GoTriggered {
		t.Errorf("space = %v, want go", got)
	}

	// Neither a space rune nor an unbound letter produces an event
	s.typedRune(' ')
	s.typedRune('x')
	select {
	case ev := <-funnel.Events():
		t.Errorf("unexpected event %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPressWithoutListener(t *testing.T) {
	s := newTestSimulator(t)
	// Must not panic or block
	s.press(buttons.GoTriggered)
}

func TestRunReturnsWhenWindowCloses(t *testing.T) {
	s := newTestSimulator(t)
	funnel := buttons.NewFunnel(1, 0, nil, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), funnel) }()

	s.window.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the window closed")
	}

	select {
	case <-s.Closed():
	default:
		t.Error("Closed() channel still open")
	}
}

func TestLogViewer(t *testing.T) {
	test.NewTempApp(t)
	v := NewLogViewer()

	n, err := v.Write([]byte("first line\n\nsecond line\n"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len("first line\n\nsecond line\n") {
		t.Errorf("Write() = %d bytes", n)
	}

	got := v.Messages()
	want := []string{"second line", "first line"}
	if len(got) != len(want) {
		t.Fatalf("Messages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Messages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	v.maxMessages = 2
	v.AddMessage("third")
	if got := v.Messages(); len(got) != 2 || got[0] != "third" {
		t.Errorf("Messages() after trim = %v", got)
	}

	v.Clear()
	if got := v.Messages(); len(got) != 0 {
		t.Errorf("Messages() after Clear = %v", got)
	}
}
