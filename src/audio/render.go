package audio

import (
	"fmt"
	"io"
	"sync/atomic"
)

const (
	defaultSampleRate   = 48000
	defaultChannelNum   = 2
	defaultBufferFrames = 1024
)

// ----- Output Config ----- //

// OutputConfig is what the output driver and the renderer agree on.
type OutputConfig struct {
	SampleRate   int
	Channels     int
	Format       SampleFormat
	BufferFrames int
}

// DefaultOutputConfig ...
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		SampleRate:   defaultSampleRate,
		Channels:     defaultChannelNum,
		Format:       FormatSigned16,
		BufferFrames: defaultBufferFrames,
	}
}

// Validate ...
func (c OutputConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channel count must be positive: %d", c.Channels)
	}
	if c.BufferFrames <= 0 {
		return fmt.Errorf("buffer frames must be positive: %d", c.BufferFrames)
	}
	if !c.Format.valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, c.Format)
	}
	return nil
}

func (c OutputConfig) bytesPerFrame() int {
	return c.Format.BytesPerSample() * c.Channels
}

func (c OutputConfig) bufferSizeInBytes() int {
	return c.bytesPerFrame() * c.BufferFrames
}

// ----- Render State ----- //

// State is the lifecycle of a Renderer.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// ----- Renderer ----- //

// Renderer is the buffer-fill callback body. It owns the phase accumulator
// and must be driven by one goroutine at a time. Parameters are read from
// the Store once per buffer.
type Renderer struct {
	store      *Store
	sink       ErrorSink
	sampleRate float64
	channels   int
	format     SampleFormat
	phase      float64   // 0 ~ 1
	mono       []float64 // scratch, one value per frame
	state      atomic.Int32
}

// NewRenderer ...
func NewRenderer(store *Store, cfg OutputConfig, sink ErrorSink) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = discardSink{}
	}
	return &Renderer{
		store:      store,
		sink:       sink,
		sampleRate: float64(cfg.SampleRate),
		channels:   cfg.Channels,
		format:     cfg.Format,
		mono:       make([]float64, cfg.BufferFrames),
	}, nil
}

// Start moves an idle renderer to running.
func (r *Renderer) Start() {
	r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning))
}

// Stop is safe to call at any time, from any goroutine, any number of times.
func (r *Renderer) Stop() {
	r.state.Store(int32(StateStopped))
}

// State ...
func (r *Renderer) State() State {
	return State(r.state.Load())
}

func (r *Renderer) stopped() bool {
	return r.State() == StateStopped
}

// renderMono renders frames samples with s and advances the phase
// accumulator once per frame. frames must not exceed the scratch size.
func (r *Renderer) renderMono(s *Snapshot, frames int) []float64 {
	out := r.mono[:frames]
	step := s.Freq / r.sampleRate
	for i := range out {
		out[i] = sampleWith(r.phase, s)
		r.phase = wrap01(r.phase + step)
	}
	return out
}

// recoverSilence turns a panic into a buffer of silence. The whole buffer
// still counts as written.
func (r *Renderer) recoverSilence(n *int, size int, silence func()) {
	if v := recover(); v != nil {
		silence()
		*n = size
		r.sink.Report(&RenderError{Backend: "render", Err: fmt.Errorf("recovered: %v", v)})
	}
}

func (r *Renderer) reportPartialFrame(n, unit int) {
	r.sink.Report(&RenderError{
		Backend: "render",
		Err:     fmt.Errorf("buffer of %d is not a whole number of %d-sample frames", n, unit),
	})
}

// interleave fills out with whole frames, duplicating each mono sample
// across every channel. Large buffers are rendered in scratch-sized chunks
// from one snapshot.
func interleave[T any](r *Renderer, out []T, conv func(float64) T) {
	s := r.store.Snapshot()
	frames := len(out) / r.channels
	for done := 0; done < frames; {
		chunk := min(frames-done, len(r.mono))
		for i, v := range r.renderMono(&s, chunk) {
			sample := conv(v)
			frame := out[(done+i)*r.channels : (done+i+1)*r.channels]
			for ch := range frame {
				frame[ch] = sample
			}
		}
		done += chunk
	}
	if rest := out[frames*r.channels:]; len(rest) > 0 {
		fillSilence(rest, conv(0))
		r.reportPartialFrame(len(out), r.channels)
	}
}

func fillSilence[T any](out []T, silent T) {
	for i := range out {
		out[i] = silent
	}
}

// ReadFloat32 fills interleaved float32 frames. Values are not clamped.
func (r *Renderer) ReadFloat32(out []float32) (n int, err error) {
	if r.stopped() {
		return 0, io.EOF
	}
	r.Start()
	defer r.recoverSilence(&n, len(out), func() { fillSilence(out, 0) })
	interleave(r, out, toFloat32)
	return len(out), nil
}

// ReadInt16 fills interleaved signed 16-bit frames.
func (r *Renderer) ReadInt16(out []int16) (n int, err error) {
	if r.stopped() {
		return 0, io.EOF
	}
	r.Start()
	defer r.recoverSilence(&n, len(out), func() { fillSilence(out, 0) })
	interleave(r, out, toSigned16)
	return len(out), nil
}

// ReadUint16 fills interleaved unsigned 16-bit frames, silence at mid-scale.
func (r *Renderer) ReadUint16(out []uint16) (n int, err error) {
	if r.stopped() {
		return 0, io.EOF
	}
	r.Start()
	defer r.recoverSilence(&n, len(out), func() { fillSilence(out, toUnsigned16(0)) })
	interleave(r, out, toUnsigned16)
	return len(out), nil
}

var _ io.Reader = (*Renderer)(nil)

// Read fills buf with interleaved frames encoded in the configured format,
// little endian.
func (r *Renderer) Read(buf []byte) (n int, err error) {
	if r.stopped() {
		return 0, io.EOF
	}
	r.Start()
	defer r.recoverSilence(&n, len(buf), func() { r.writeSilence(buf) })

	s := r.store.Snapshot()
	bps := r.format.BytesPerSample()
	bpf := bps * r.channels
	frames := len(buf) / bpf
	for done := 0; done < frames; {
		chunk := min(frames-done, len(r.mono))
		for i, v := range r.renderMono(&s, chunk) {
			frame := buf[(done+i)*bpf : (done+i+1)*bpf]
			putSample(frame, r.format, v)
			for ch := 1; ch < r.channels; ch++ {
				copy(frame[ch*bps:], frame[:bps])
			}
		}
		done += chunk
	}
	if rest := buf[frames*bpf:]; len(rest) > 0 {
		r.writeSilence(rest)
		r.reportPartialFrame(len(buf)/bps, r.channels)
	}
	return len(buf), nil
}

func (r *Renderer) writeSilence(buf []byte) {
	bps := r.format.BytesPerSample()
	n := len(buf) / bps
	for i := 0; i < n; i++ {
		putSample(buf[i*bps:], r.format, 0)
	}
	for i := n * bps; i < len(buf); i++ {
		buf[i] = 0
	}
}
