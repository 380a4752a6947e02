package session

// State is the controller's position in a run
type State int

const (
	Ready State = iota
	Listening
	Recognizing
	Translating
	Synthesizing
	Playing
	ShowingResult
	SttFailed
	TranslationFailed
	TtsOrPlaybackFailed
)

var stateNames = [...]string{
	Ready:               "Ready",
	Listening:           "Listening",
	Recognizing:         "Recognizing",
	Translating:         "Translating",
	Synthesizing:        "Synthesizing",
	Playing:             "Playing",
	ShowingResult:       "ShowingResult",
	SttFailed:           "SttFailed",
	TranslationFailed:   "TranslationFailed",
	TtsOrPlaybackFailed: "TtsOrPlaybackFailed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Busy reports whether events are dropped in this state
func (s State) Busy() bool {
	return s != Ready
}

// Failed reports whether s is one of the error states
func (s State) Failed() bool {
	return s == SttFailed || s == TranslationFailed || s == TtsOrPlaybackFailed
}
