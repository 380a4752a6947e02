package speech

import (
	"math"
	"time"
)

// DetectorConfig tunes phrase detection
type DetectorConfig struct {
	SampleRate int
	// Timeout is how long to wait for speech to start
	Timeout time.Duration
	// MaxPhrase caps the length of a phrase once speech started
	MaxPhrase time.Duration
	// Pause is the trailing silence that ends a phrase
	Pause time.Duration
	// MinThreshold is the lowest energy treated as speech, whatever the calibration said
	MinThreshold float64
	// Ratio scales the calibrated ambient energy into the speech threshold
	Ratio float64
}

// DefaultDetectorConfig matches a quiet room and a 16kHz microphone
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		SampleRate:   16000,
		Timeout:      5 * time.Second,
		MaxPhrase:    10 * time.Second,
		Pause:        800 * time.Millisecond,
		MinThreshold: 300,
		Ratio:        1.5,
	}
}

// Verdict is the detector's answer after each frame
type Verdict int

const (
	// Waiting for speech to start
	Waiting Verdict = iota
	// Recording a phrase
	Recording
	// Done means a phrase is complete
	Done
	// TimedOut means no speech started within the timeout
	TimedOut
)

// Detector decides from frame energies when a phrase starts and ends.
// Feed it frames with Calibrate first, then Push.
type Detector struct {
	cfg       DetectorConfig
	threshold float64

	ambientSum    float64
	ambientFrames int

	waited  int // samples seen while waiting
	phrase  []int16
	silence int // trailing silent samples in the phrase
	started bool
	verdict Verdict
}

// NewDetector creates a detector
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{cfg: cfg, threshold: cfg.MinThreshold}
}

// Energy returns the RMS energy of a frame
func Energy(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// Calibrate folds a frame of ambient noise into the speech threshold
func (d *Detector) Calibrate(frame []int16) {
	d.ambientSum += Energy(frame)
	d.ambientFrames++

	ambient := d.ambientSum / float64(d.ambientFrames)
	d.threshold = math.Max(d.cfg.MinThreshold, ambient*d.cfg.Ratio)
}

// Threshold returns the current speech energy threshold
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Push feeds the next frame and returns the updated verdict.
// Once Done or TimedOut is returned, further frames are ignored.
func (d *Detector) Push(frame []int16) Verdict {
	if d.verdict == Done || d.verdict == TimedOut {
		return d.verdict
	}

	loud := Energy(frame) >= d.threshold

	if !d.started {
		if !loud {
			d.waited += len(frame)
			if d.samples(d.cfg.Timeout) <= d.waited {
				d.verdict = TimedOut
			}
			return d.verdict
		}
		d.started = true
		d.verdict = Recording
	}

	d.phrase = append(d.phrase, frame...)
	if loud {
		d.silence = 0
	} else {
		d.silence += len(frame)
	}

	if d.silence >= d.samples(d.cfg.Pause) || len(d.phrase) >= d.samples(d.cfg.MaxPhrase) {
		d.verdict = Done
	}
	return d.verdict
}

// Phrase returns the captured phrase with the trailing silence trimmed
func (d *Detector) Phrase() *Audio {
	end := len(d.phrase) - d.silence
	if end < 0 {
		end = 0
	}
	pcm := make([]int16, end)
	copy(pcm, d.phrase[:end])
	return &Audio{PCM: pcm, SampleRate: d.cfg.SampleRate}
}

func (d *Detector) samples(dur time.Duration) int {
	return int(dur.Seconds() * float64(d.cfg.SampleRate))
}
