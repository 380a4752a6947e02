package speech

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestAudioDuration(t *testing.T) {
	a := &Audio{PCM: make([]int16, 8000), SampleRate: 16000}
	if got := a.Duration(); got != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", got)
	}

	var nilAudio *Audio
	if nilAudio.Duration() != 0 {
		t.Error("Duration() of nil audio should be 0")
	}
}

func TestAudioBytes(t *testing.T) {
	a := &Audio{PCM: []int16{1, -1, 256}, SampleRate: 16000}
	got := a.Bytes()
	want := []byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x01}

	if string(got) != string(want) {
		t.Errorf("Bytes() = %v, want %v", got, want)
	}
}

func TestAudioWAV(t *testing.T) {
	a := &Audio{PCM: []int16{100, 200, 300, 400}, SampleRate: 16000}
	wav := a.WAV()

	if len(wav) != 44+8 {
		t.Fatalf("WAV length = %d, want 52", len(wav))
	}

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("Missing RIFF/WAVE markers")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Error("Missing fmt/data chunks")
	}

	if size := binary.LittleEndian.Uint32(wav[4:8]); size != 36+8 {
		t.Errorf("RIFF size = %d, want 44", size)
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 16000 {
		t.Errorf("Sample rate = %d, want 16000", rate)
	}
	if byteRate := binary.LittleEndian.Uint32(wav[28:32]); byteRate != 32000 {
		t.Errorf("Byte rate = %d, want 32000", byteRate)
	}
	if dataSize := binary.LittleEndian.Uint32(wav[40:44]); dataSize != 8 {
		t.Errorf("Data size = %d, want 8", dataSize)
	}
}
