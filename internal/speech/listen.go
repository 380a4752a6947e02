package speech

import (
	"context"
	"fmt"
	"time"
)

// FrameReader delivers consecutive microphone frames
type FrameReader interface {
	ReadFrame() ([]int16, error)
}

// Listen calibrates against ambient noise for the calibration period and
// then records one phrase. It returns ErrNoSpeech if speech does not start
// within cfg.Timeout.
func Listen(ctx context.Context, r FrameReader, cfg DetectorConfig, calibration time.Duration) (*Audio, error) {
	d := NewDetector(cfg)

	calibrationSamples := int(calibration.Seconds() * float64(cfg.SampleRate))
	for seen := 0; seen < calibrationSamples; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := r.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("failed to read calibration frame: %w", err)
		}
		d.Calibrate(frame)
		seen += len(frame)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := r.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}

		switch d.Push(frame) {
		case TimedOut:
			return nil, ErrNoSpeech
		case Done:
			return d.Phrase(), nil
		}
	}
}
