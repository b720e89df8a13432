package audio

import "fmt"

// ----- Preset ----- //

// Preset is an immutable named bundle of voice parameters.
type Preset struct {
	ID     string
	Name   string
	OscMix float64
	Detune float64
	Gain   float64
}

// Romantic ...
func Romantic() *Preset {
	return &Preset{
		ID:     "romantic",
		Name:   "Ryan & Josh Allen (romantic)",
		OscMix: 0.25,
		Detune: 2.0,
		Gain:   0.45,
	}
}

// Hyperpop ...
func Hyperpop() *Preset {
	return &Preset{
		ID:     "hyperpop",
		Name:   "Laura Les (fast hyperpopish)",
		OscMix: 0.85,
		Detune: 8.0,
		Gain:   0.75,
	}
}

// Presets returns the built-in catalog.
func Presets() []*Preset {
	return []*Preset{Romantic(), Hyperpop()}
}

// PresetByID ...
func PresetByID(id string) (*Preset, error) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
}
