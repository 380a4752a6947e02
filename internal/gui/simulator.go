package gui

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"unicode"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/babelbox/internal"
	"codeberg.org/snonux/babelbox/internal/buttons"
	"codeberg.org/snonux/babelbox/internal/display"
)

// AppID identifies the simulator to the desktop
const AppID = "org.codeberg.snonux.babelbox"

var (
	screenBackground = color.Black
	screenForeground = color.RGBA{R: 0x9f, G: 0xe8, B: 0xff, A: 0xff}
)

// Simulator is a desktop stand-in for the appliance: a four line screen, the
// three buttons and a log panel. It is both a display.Device and a
// buttons.Source.
type Simulator struct {
	app    fyne.App
	window fyne.Window
	logger *zap.Logger

	lines     [4]*canvas.Text
	sourceBtn *ttwidget.Button
	destBtn   *ttwidget.Button
	goBtn     *ttwidget.Button
	logView   *LogViewer

	mu     sync.Mutex
	funnel *buttons.Funnel
	closed chan struct{}
	once   sync.Once
}

// New creates the simulator window. It must be called on the main goroutine.
func New(logger *zap.Logger) *Simulator {
	a := app.NewWithID(AppID)
	a.SetIcon(theme.VolumeUpIcon())
	return newSimulator(a, logger)
}

func newSimulator(a fyne.App, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Simulator{
		app:    a,
		logger: logger,
		closed: make(chan struct{}),
	}
	s.setupUI()
	return s
}

func (s *Simulator) setupUI() {
	s.window = s.app.NewWindow(fmt.Sprintf("babelbox v%s - Simulator", internal.Version))
	s.window.Resize(fyne.NewSize(520, 520))

	// Screen
	rows := make([]fyne.CanvasObject, 0, len(s.lines))
	for i := range s.lines {
		text := canvas.NewText("", screenForeground)
		text.TextStyle = fyne.TextStyle{Monospace: true}
		text.TextSize = 20
		s.lines[i] = text
		rows = append(rows, text)
	}
	background := canvas.NewRectangle(screenBackground)
	background.SetMinSize(fyne.NewSize(360, 140))
	screen := container.NewStack(background, container.NewPadded(container.NewVBox(rows...)))

	// Buttons
	s.sourceBtn = ttwidget.NewButtonWithIcon("Source", theme.MediaSkipNextIcon(), func() {
		s.press(buttons.SourceCycle)
	})
	s.destBtn = ttwidget.NewButtonWithIcon("Target", theme.MediaSkipNextIcon(), func() {
		s.press(buttons.DestinationCycle)
	})
	s.goBtn = ttwidget.NewButtonWithIcon("GO", theme.MediaRecordIcon(), func() {
		s.press(buttons.GoTriggered)
	})
	s.goBtn.Importance = widget.HighImportance
	helpBtn := ttwidget.NewButtonWithIcon("", theme.HelpIcon(), s.showHotkeys)

	buttonRow := container.NewGridWithColumns(4, s.sourceBtn, s.destBtn, s.goBtn, helpBtn)

	s.logView = NewLogViewer()

	content := container.NewBorder(
		container.NewVBox(screen, widget.NewSeparator(), buttonRow, widget.NewSeparator()),
		nil, nil, nil,
		s.logView,
	)

	s.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, s.window.Canvas()))

	s.sourceBtn.SetToolTip("Cycle source language (s)")
	s.destBtn.SetToolTip("Cycle target language (d)")
	s.goBtn.SetToolTip("Listen and translate (g or space)")
	helpBtn.SetToolTip("Show hotkeys (h)")

	s.window.SetOnClosed(func() {
		s.once.Do(func() { close(s.closed) })
	})

	s.setupKeyboardShortcuts()
}

func (s *Simulator) setupKeyboardShortcuts() {
	s.window.Canvas().SetOnTypedRune(s.typedRune)
	s.window.Canvas().SetOnTypedKey(s.typedKey)
}

func (s *Simulator) typedRune(r rune) {
	switch r {
	case 'h', 'H', '?':
		s.showHotkeys()
	case 'q', 'Q':
		s.window.Close()
	default:
		// Space arrives as a typed key too
		if !unicode.IsLetter(r) {
			return
		}
		if ev, ok := buttons.ParseKey(string(r)); ok {
			s.press(ev)
		}
	}
}

func (s *Simulator) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace, fyne.KeyReturn, fyne.KeyEnter:
		s.press(buttons.GoTriggered)
	}
}

func (s *Simulator) showHotkeys() {
	hotkeys := `## Buttons
**s** Cycle source language
**d** Cycle target language
**g** / **Space** GO: listen and translate

## Window
**h** Show hotkeys
**c** Close dialog
**q** Quit simulator

---
Button presses while a translation runs are ignored, like on the device.`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", container.NewPadded(content), s.window)

	s.window.Canvas().SetOnTypedRune(func(r rune) {
		if r == 'c' || r == 'C' {
			d.Hide()
		}
	})
	d.SetOnClosed(s.setupKeyboardShortcuts)
	d.Show()
}

// press hands a button event to the funnel; without a running source the
// press goes nowhere, like a button on a powered-off board
func (s *Simulator) press(ev buttons.Event) {
	s.mu.Lock()
	funnel := s.funnel
	s.mu.Unlock()

	if funnel == nil {
		s.logger.Debug("Button pressed with no listener", zap.Stringer("event", ev))
		return
	}
	funnel.Push(ev)
}

// Run delivers button presses to funnel until ctx is cancelled or the
// window is closed
func (s *Simulator) Run(ctx context.Context, funnel *buttons.Funnel) error {
	s.mu.Lock()
	s.funnel = funnel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.funnel = nil
		s.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
	case <-s.closed:
	}
	return nil
}

// Show draws frame on the simulated screen
func (s *Simulator) Show(frame display.Frame) error {
	fyne.Do(func() {
		for i, line := range frame {
			s.lines[i].Text = line
			s.lines[i].Refresh()
		}
	})
	return nil
}

// Close is a no-op; the window lives until ShowAndRun returns
func (s *Simulator) Close() error {
	return nil
}

// Closed is closed once the window is gone
func (s *Simulator) Closed() <-chan struct{} {
	return s.closed
}

// LogViewer returns the log panel, which is an io.Writer for log output
func (s *Simulator) LogViewer() *LogViewer {
	return s.logView
}

// ShowAndRun shows the window and blocks until it is closed. It must run on
// the main goroutine.
func (s *Simulator) ShowAndRun() {
	s.window.ShowAndRun()
}

// Quit closes the window from any goroutine
func (s *Simulator) Quit() {
	fyne.Do(func() {
		s.window.Close()
	})
}
