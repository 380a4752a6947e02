package tempaudio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/babelbox/internal/journal"
	"codeberg.org/snonux/babelbox/internal/testutil"
)

func newTestManager(t *testing.T) (*Manager, *testutil.RecordingErrorLog) {
	t.Helper()

	errLog := &testutil.RecordingErrorLog{}
	m, err := NewManager(filepath.Join(t.TempDir(), "tts"), nil, errLog)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m, errLog
}

func TestCreateAndRelease(t *testing.T) {
	m, _ := newTestManager(t)

	clip, err := m.Create([]byte("mock audio data"), "mp3")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !strings.HasSuffix(clip.Path(), ".mp3") {
		t.Errorf("Clip path %q should end with .mp3", clip.Path())
	}
	if filepath.Dir(clip.Path()) != m.Dir() {
		t.Errorf("Clip created outside manager dir: %s", clip.Path())
	}
	testutil.AssertFileContent(t, clip.Path(), []byte("mock audio data"))

	if m.Live() != 1 {
		t.Errorf("Live() = %d, want 1", m.Live())
	}

	if err := clip.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	testutil.AssertFileNotExists(t, clip.Path())

	if m.Live() != 0 {
		t.Errorf("Live() after release = %d, want 0", m.Live())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	m, errLog := newTestManager(t)

	clip, _ := m.Create([]byte("data"), ".wav")

	// Someone else already removed the file
	os.Remove(clip.Path())

	for i := 0; i < 3; i++ {
		if err := clip.Release(); err != nil {
			t.Errorf("Release() call %d error = %v", i, err)
		}
	}

	if len(errLog.Entries) != 0 {
		t.Errorf("Expected no journal entries, got %v", errLog.Entries)
	}
}

func TestCreateDefaultsToMP3(t *testing.T) {
	m, _ := newTestManager(t)

	clip, err := m.Create([]byte("data"), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer clip.Release()

	if filepath.Ext(clip.Path()) != ".mp3" {
		t.Errorf("Expected .mp3 extension, got %s", filepath.Ext(clip.Path()))
	}
}

func TestCreateSanitizesFormat(t *testing.T) {
	m, _ := newTestManager(t)

	clip, err := m.Create([]byte("data"), "../mp3")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer clip.Release()

	if filepath.Dir(clip.Path()) != m.Dir() {
		t.Errorf("Clip escaped the manager dir: %s", clip.Path())
	}
	if !strings.HasSuffix(clip.Path(), ".__mp3") {
		t.Errorf("Clip path %q should end with .__mp3", clip.Path())
	}
}

func TestWithSynthesizedAudioRemovesOnSuccess(t *testing.T) {
	m, _ := newTestManager(t)

	var seen string
	err := m.WithSynthesizedAudio([]byte("data"), "mp3", func(path string) error {
		seen = path
		testutil.AssertFileExists(t, path)
		return nil
	})
	if err != nil {
		t.Fatalf("WithSynthesizedAudio() error = %v", err)
	}

	testutil.AssertFileNotExists(t, seen)
}

func TestWithSynthesizedAudioRemovesOnError(t *testing.T) {
	m, _ := newTestManager(t)
	playErr := errors.New("player crashed")

	var seen string
	err := m.WithSynthesizedAudio([]byte("data"), "mp3", func(path string) error {
		seen = path
		return playErr
	})
	if !errors.Is(err, playErr) {
		t.Fatalf("Expected callback error, got %v", err)
	}

	testutil.AssertFileNotExists(t, seen)
}

func TestWithSynthesizedAudioRemovesOnPanic(t *testing.T) {
	m, _ := newTestManager(t)

	var seen string
	func() {
		defer func() { _ = recover() }()
		_ = m.WithSynthesizedAudio([]byte("data"), "mp3", func(path string) error {
			seen = path
			panic("boom")
		})
	}()

	testutil.AssertFileNotExists(t, seen)
	if m.Live() != 0 {
		t.Errorf("Live() = %d after panic, want 0", m.Live())
	}
}

func TestReleaseAll(t *testing.T) {
	m, _ := newTestManager(t)

	var paths []string
	for i := 0; i < 3; i++ {
		clip, err := m.Create([]byte("data"), "mp3")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		paths = append(paths, clip.Path())
	}

	m.ReleaseAll()

	for _, p := range paths {
		testutil.AssertFileNotExists(t, p)
	}
	if m.Live() != 0 {
		t.Errorf("Live() = %d, want 0", m.Live())
	}
}

func TestReleaseFailureIsJournaled(t *testing.T) {
	m, errLog := newTestManager(t)

	clip, _ := m.Create([]byte("data"), "mp3")

	// A non-empty directory in place of the file makes removal fail
	os.Remove(clip.Path())
	testutil.CreateTestFile(t, filepath.Join(clip.Path(), "blocker"), []byte("x"))

	if err := clip.Release(); err == nil {
		t.Fatal("Expected Release() to report the failure")
	}

	if len(errLog.Entries) != 1 || errLog.Entries[0].Category != journal.CategoryCleanup {
		t.Errorf("Expected one cleanup journal entry, got %v", errLog.Entries)
	}

	// The failed clip is not retried forever
	if m.Live() != 0 {
		t.Errorf("Live() = %d, want 0", m.Live())
	}
}

func TestWithSynthesizedAudioSwallowsCleanupFailure(t *testing.T) {
	m, errLog := newTestManager(t)

	err := m.WithSynthesizedAudio([]byte("data"), "mp3", func(path string) error {
		os.Remove(path)
		testutil.CreateTestFile(t, filepath.Join(path, "blocker"), []byte("x"))
		return nil
	})
	if err != nil {
		t.Errorf("Cleanup failure must not be returned, got %v", err)
	}
	if len(errLog.Entries) != 1 {
		t.Errorf("Expected one journal entry, got %d", len(errLog.Entries))
	}
}
