package audio

import (
	"math"
	"testing"
)

func TestWrap01(t *testing.T) {
	expectEqual(t, wrap01(0), 0.0)
	expectEqual(t, wrap01(1), 0.0)
	expectNearlyEqual(t, wrap01(1.25), 0.25)
	expectNearlyEqual(t, wrap01(-0.25), 0.75)
	expectNearlyEqual(t, wrap01(-3.5), 0.5)
	if v := wrap01(-1e-18); v < 0 || v >= 1 {
		t.Errorf("expected value in [0, 1), but got: %v", v)
	}
}

func TestSampleBaseOnly(t *testing.T) {
	gain, master := 0.45, 0.8
	for _, detune := range []float64{-100, 0, 2, 8, 100} {
		for i := 0; i < 100; i++ {
			phase := float64(i) / 100
			expected := math.Sin(2*math.Pi*phase) * gain * master
			expectNearlyEqual(t, Sample(phase, 0, detune, gain, master), expected)
		}
	}
}

func TestSampleDetunedOnly(t *testing.T) {
	for i := 0; i < 100; i++ {
		phase := float64(i) / 100
		expected := math.Sin(2*math.Pi*wrap01(phase+8*detuneScale)) * 0.75
		expectNearlyEqual(t, Sample(phase, 1, 8, 0.75, 1), expected)
	}
	// only the shifted phase matters
	expectNearlyEqual(t, Sample(0.3, 1, 0, 1, 1), Sample(0.2, 1, 100, 1, 1))
	expectNearlyEqual(t, Sample(0, 1, -250, 1, 1), -1)
}

func TestSampleCrossfade(t *testing.T) {
	phase, detune, gain, master := 0.1, 50.0, 1.0, 1.0
	a := Sample(phase, 0, detune, gain, master)
	b := Sample(phase, 1, detune, gain, master)
	lo, hi := math.Min(a, b), math.Max(a, b)
	const steps = 1000
	prev := a
	for i := 1; i <= steps; i++ {
		mix := float64(i) / steps
		v := Sample(phase, mix, detune, gain, master)
		if v < lo-1e-12 || v > hi+1e-12 {
			t.Fatalf("mix %v: %v is outside [%v, %v]", mix, v, lo, hi)
		}
		if (b-a)*(v-prev) < -1e-12 {
			t.Fatalf("mix %v: cross-fade is not monotonic", mix)
		}
		if math.Abs(v-prev) > math.Abs(b-a)/steps+1e-12 {
			t.Fatalf("mix %v: jump of %v", mix, v-prev)
		}
		prev = v
	}
	expectNearlyEqual(t, prev, b)
}

func TestSampleUnbounded(t *testing.T) {
	v := Sample(0.25, 0, 0, 2, 2)
	expectNearlyEqual(t, v, 4)
}
