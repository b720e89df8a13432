package control

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jinjor/tone-synth/src/audio"
)

// refreshInterval matches a 60 Hz display.
const refreshInterval = time.Second / 60

// ----- Status ----- //

// Status is the read-only view a display needs.
type Status struct {
	Preset string             `json:"preset"`
	Params map[string]float64 `json:"params"`
	Aux    bool               `json:"aux"`
	AdTick uint32             `json:"adTick"`
}

// Status ...
func (s *Surface) Status() *Status {
	params := make(map[string]float64)
	for _, p := range audio.Params() {
		params[p.String()] = s.store.Get(p)
	}
	return &Status{
		Preset: s.store.Label(),
		Params: params,
		Aux:    s.store.Aux(),
		AdTick: s.store.AdTick(),
	}
}

// StatusJSON ...
func (s *Surface) StatusJSON() ([]byte, error) {
	return json.Marshal(s.Status())
}

// Refresh is one display frame. It advances the ad tick while aux mode is
// on and reports whether the status differs from the previous refresh.
// The latest status is kept for report streams.
func (s *Surface) Refresh() (*Status, bool) {
	s.store.AdvanceAdTick()
	st := s.Status()
	data, err := json.Marshal(st)
	if err != nil {
		log.Printf("failed to encode status: %v", err)
		return st, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(data, s.last) {
		return st, false
	}
	s.last = data
	s.seq++
	return st, true
}

// latest returns the status encoded by the last changing refresh and its
// sequence number, 0 before the first refresh.
func (s *Surface) latest() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.seq
}

// Run is the display refresh loop.
func (s *Surface) Run(ctx context.Context) error {
	t := time.NewTicker(refreshInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Surface.Run() ended.")
			return nil
		case <-t.C:
			s.Refresh()
		}
	}
}
