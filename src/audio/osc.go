package audio

import "math"

// detuneScale converts the detune parameter into a phase offset.
// It is a demo constant for a two-oscillator beat effect, not cents.
const detuneScale = 0.001

// ----- Utility ----- //

// wrap01 maps x into [0, 1).
func wrap01(x float64) float64 {
	r := x - math.Floor(x)
	if r >= 1 {
		return 0
	}
	return r
}

// ----- OSC ----- //

// Sample computes one output sample for the given phase in [0, 1).
//
// Two unit sines, one at phase and one at phase shifted by
// detune*detuneScale, are cross-faded by oscMix (0 = base, 1 = detuned)
// and scaled by gain*master. The result is not range-limited.
func Sample(phase, oscMix, detune, gain, master float64) float64 {
	a := math.Sin(2.0 * math.Pi * phase)
	b := math.Sin(2.0 * math.Pi * wrap01(phase+detune*detuneScale))
	return ((1-oscMix)*a + oscMix*b) * gain * master
}

func sampleWith(phase float64, s *Snapshot) float64 {
	return Sample(phase, s.OscMix, s.Detune, s.Gain, s.MasterGain)
}
