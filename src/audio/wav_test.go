package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	expectNoError(t, err)
	expectNoError(t, WriteWAV(f, NewStore(), 8000, 100*time.Millisecond))
	expectNoError(t, f.Close())

	data, err := os.ReadFile(path)
	expectNoError(t, err)
	// 800 frames * 2 channels * 2 bytes plus the header
	if len(data) <= 3200 {
		t.Fatalf("wav is too short: %d bytes", len(data))
	}
	expectEqual(t, string(data[0:4]), "RIFF")
	expectEqual(t, string(data[8:12]), "WAVE")
	nonZero := 0
	for _, b := range data[len(data)-3200:] {
		if b != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Error("expected audible samples")
	}
}

func TestStreamerStopsWithRenderer(t *testing.T) {
	r := newTestRenderer(t, NewStore(), OutputConfig{SampleRate: 8000, Channels: 2, Format: FormatFloat32, BufferFrames: 16}, nil)
	s := NewStreamer(r)
	samples := make([][2]float64, 16)
	n, ok := s.Stream(samples)
	expectEqual(t, n, 16)
	expectEqual(t, ok, true)
	for _, frame := range samples {
		expectEqual(t, frame[0], frame[1])
	}
	r.Stop()
	_, ok = s.Stream(samples)
	expectEqual(t, ok, false)
	expectNoError(t, s.Err())
}
