// Package session runs the appliance: it owns the language selection,
// reacts to button events and drives one translation run at a time through
// listen, recognize, translate, synthesize and play.
//
// The Controller reads events from a single channel. A GO press starts a
// run in a worker goroutine; until that run has shown its outcome and
// returned to Ready every further event is dropped, so GO presses are never
// queued and the languages of a run cannot change under it.
//
// Each stage returns a tagged result. On a fault the run jumps to the
// matching error state (SttFailed, TranslationFailed or
// TtsOrPlaybackFailed), shows a short message for the dwell time and
// returns to Ready. The synthesized audio lives in a scoped temp file that
// is removed on every path out of the run.
package session
