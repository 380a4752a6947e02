// Package speech holds the captured-audio type shared by the microphone and
// the recognizers, the sentinel errors the session controller classifies
// stage failures with, and the energy based phrase detector.
package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

var (
	// ErrNoSpeech means nothing was said before the listen timeout
	ErrNoSpeech = errors.New("no speech detected")
	// ErrUnintelligible means the recognizer got audio but could not make out words
	ErrUnintelligible = errors.New("speech unintelligible")
	// ErrServiceUnavailable means a remote service could not be reached or refused the request
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Audio is a captured phrase as signed 16-bit little endian mono PCM
type Audio struct {
	PCM        []int16
	SampleRate int
}

// Duration returns the length of the captured phrase
func (a *Audio) Duration() time.Duration {
	if a == nil || a.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(a.PCM)) * time.Second / time.Duration(a.SampleRate)
}

// Bytes returns the raw PCM samples as little endian bytes
func (a *Audio) Bytes() []byte {
	buf := make([]byte, 2*len(a.PCM))
	for i, s := range a.PCM {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

// WAV encodes the phrase as a canonical 44-byte-header RIFF/WAVE file
func (a *Audio) WAV() []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	data := a.Bytes()
	byteRate := a.SampleRate * channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + len(data))

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(a.SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels*bitsPerSample/8))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}
