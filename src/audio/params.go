package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

const (
	defaultMasterGain = 0.8
	defaultFreq       = 220.0
)

// ----- Param ----- //

// Param identifies one synthesis parameter.
type Param int

const (
	ParamOscMix     Param = iota // 0 ~ 1
	ParamDetune                  // fractional phase offset, scaled by detuneScale
	ParamGain                    // 0 ~ 2
	ParamMasterGain              // 0 ~ 2
	ParamFreq                    // Hz
	numParams
)

var paramNames = [numParams]string{
	ParamOscMix:     "osc_mix",
	ParamDetune:     "detune",
	ParamGain:       "gain",
	ParamMasterGain: "master_gain",
	ParamFreq:       "freq",
}

// Params returns every parameter in declaration order.
func Params() []Param {
	ps := make([]Param, numParams)
	for i := range ps {
		ps[i] = Param(i)
	}
	return ps
}

func (p Param) String() string {
	if p < 0 || p >= numParams {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return paramNames[p]
}

// ParamFromString ...
func ParamFromString(s string) (Param, error) {
	for i, name := range paramNames {
		if name == s {
			return Param(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, s)
}

// ----- Snapshot ----- //

// Snapshot is a consistent-per-read copy of the parameters used for one buffer.
type Snapshot struct {
	OscMix     float64
	Detune     float64
	Gain       float64
	MasterGain float64
	Freq       float64
}

// ----- Store ----- //

// Store holds the synthesis parameters shared between the control surface
// and the render callback.
//
// Each parameter lives in its own atomic slot as the bit pattern of a
// float64. Loads and stores are atomic; there is no atomic arithmetic on
// the values. The label is variable length and sits behind a mutex, which
// is fine because the render callback never reads it.
type Store struct {
	values [numParams]atomic.Uint64
	aux    atomic.Bool
	adTick atomic.Uint32

	mu    sync.Mutex
	label string
}

// NewStore returns a store with the default preset applied.
func NewStore() *Store {
	s := &Store{}
	s.ApplyPreset(Romantic())
	s.Set(ParamMasterGain, defaultMasterGain)
	s.Set(ParamFreq, defaultFreq)
	return s
}

// Set stores v as-is. Out-of-range values are not clamped here.
func (s *Store) Set(p Param, v float64) {
	s.values[p].Store(math.Float64bits(v))
}

// Get ...
func (s *Store) Get(p Param) float64 {
	return math.Float64frombits(s.values[p].Load())
}

// Snapshot reads every parameter once.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		OscMix:     s.Get(ParamOscMix),
		Detune:     s.Get(ParamDetune),
		Gain:       s.Get(ParamGain),
		MasterGain: s.Get(ParamMasterGain),
		Freq:       s.Get(ParamFreq),
	}
}

// ApplyPreset replaces the label and writes the preset's three fields.
// The three writes are independent: a concurrent reader may see a mix of
// old and new values until the last store lands.
func (s *Store) ApplyPreset(p *Preset) {
	s.mu.Lock()
	s.label = p.Name
	s.mu.Unlock()
	s.Set(ParamOscMix, p.OscMix)
	s.Set(ParamDetune, p.Detune)
	s.Set(ParamGain, p.Gain)
}

// Label returns the display name of the active preset.
func (s *Store) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// SetAux ...
func (s *Store) SetAux(on bool) {
	s.aux.Store(on)
}

// Aux ...
func (s *Store) Aux() bool {
	return s.aux.Load()
}

// AdvanceAdTick bumps the advertisement tick while aux mode is on and
// returns the current tick.
func (s *Store) AdvanceAdTick() uint32 {
	if !s.aux.Load() {
		return s.adTick.Load()
	}
	return s.adTick.Add(1)
}

// AdTick ...
func (s *Store) AdTick() uint32 {
	return s.adTick.Load()
}
