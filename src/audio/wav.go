package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// ----- Streamer ----- //

// streamer adapts a Renderer to beep. beep always works in stereo
// float64, so the mono sample is written to both sides.
type streamer struct {
	r *Renderer
}

// NewStreamer ...
func NewStreamer(r *Renderer) beep.Streamer {
	return &streamer{r: r}
}

func (s *streamer) Stream(samples [][2]float64) (int, bool) {
	if s.r.stopped() {
		return 0, false
	}
	s.r.Start()
	snapshot := s.r.store.Snapshot()
	for done := 0; done < len(samples); {
		chunk := min(len(samples)-done, len(s.r.mono))
		for i, v := range s.r.renderMono(&snapshot, chunk) {
			samples[done+i][0] = v
			samples[done+i][1] = v
		}
		done += chunk
	}
	return len(samples), true
}

func (s *streamer) Err() error {
	return nil
}

// ----- WAV ----- //

// WriteWAV renders d of the tone described by store as 16-bit stereo WAV.
func WriteWAV(w io.WriteSeeker, store *Store, sampleRate int, d time.Duration) error {
	cfg := OutputConfig{
		SampleRate:   sampleRate,
		Channels:     2,
		Format:       FormatFloat32,
		BufferFrames: defaultBufferFrames,
	}
	r, err := NewRenderer(store, cfg, nil)
	if err != nil {
		return err
	}
	defer r.Stop()
	sr := beep.SampleRate(sampleRate)
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, beep.Take(sr.N(d), NewStreamer(r)), format); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return nil
}
