// Package tempaudio owns the temporary files that synthesized speech is
// written to before playback. Every clip is removed when its scope ends,
// and ReleaseAll removes whatever is still around at shutdown.
package tempaudio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/babelbox/internal"
	"codeberg.org/snonux/babelbox/internal/journal"
)

// ErrorLog receives cleanup failures
type ErrorLog interface {
	LogError(category, message string)
}

// Manager creates and tracks temporary audio clips
type Manager struct {
	dir    string
	logger *zap.Logger
	errLog ErrorLog

	mu   sync.Mutex
	live map[string]*Clip
}

// NewManager creates a manager storing clips in dir. An empty dir means the
// system temp directory.
func NewManager(dir string, logger *zap.Logger, errLog ErrorLog) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp audio directory: %w", err)
	}

	return &Manager{
		dir:    dir,
		logger: logger,
		errLog: errLog,
		live:   make(map[string]*Clip),
	}, nil
}

// Clip is a temporary audio file
type Clip struct {
	manager *Manager
	path    string

	once sync.Once
	err  error
}

// Create writes data to a new uniquely named file with the format as its extension
func (m *Manager) Create(data []byte, format string) (*Clip, error) {
	// The format ends up in the file name
	format = internal.SanitizeFilename(strings.TrimPrefix(format, "."))
	if format == "" {
		format = "mp3"
	}

	f, err := os.CreateTemp(m.dir, "babelbox-tts-*."+format)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp audio file: %w", err)
	}

	clip := &Clip{manager: m, path: f.Name()}
	m.track(clip)

	if _, err := f.Write(data); err != nil {
		f.Close()
		clip.Release()
		return nil, fmt.Errorf("failed to write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		clip.Release()
		return nil, fmt.Errorf("failed to close temp audio file: %w", err)
	}

	m.logger.Debug("Created temp audio clip", zap.String("path", clip.path), zap.Int("bytes", len(data)))
	return clip, nil
}

// WithSynthesizedAudio writes data to a clip, hands its path to fn and
// removes the clip afterwards, whatever fn returned or if it panicked.
// Cleanup failures are reported to the error log, never returned.
func (m *Manager) WithSynthesizedAudio(data []byte, format string, fn func(path string) error) error {
	clip, err := m.Create(data, format)
	if err != nil {
		return err
	}
	defer clip.Release()

	return fn(clip.Path())
}

// Path returns the file path of the clip
func (c *Clip) Path() string {
	return c.path
}

// Release removes the clip's file. It is safe to call more than once and a
// file that is already gone is not an error.
func (c *Clip) Release() error {
	c.once.Do(func() {
		c.manager.untrack(c)

		err := os.Remove(c.path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.err = fmt.Errorf("failed to remove temp audio file: %w", err)
			c.manager.logger.Warn("Temp audio cleanup failed", zap.String("path", c.path), zap.Error(err))
			if c.manager.errLog != nil {
				c.manager.errLog.LogError(journal.CategoryCleanup, c.err.Error())
			}
			return
		}
		c.manager.logger.Debug("Released temp audio clip", zap.String("path", c.path))
	})
	return c.err
}

// ReleaseAll removes every clip that has not been released yet
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	clips := make([]*Clip, 0, len(m.live))
	for _, c := range m.live {
		clips = append(clips, c)
	}
	m.mu.Unlock()

	for _, c := range clips {
		_ = c.Release()
	}
}

// Live returns the number of clips not yet released
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Dir returns the directory clips are written to
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) track(c *Clip) {
	m.mu.Lock()
	m.live[c.path] = c
	m.mu.Unlock()
}

func (m *Manager) untrack(c *Clip) {
	m.mu.Lock()
	delete(m.live, c.path)
	m.mu.Unlock()
}
