package audio

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// ----- Output ----- //

// Output is an opened output device with a Renderer registered as its
// buffer-fill callback.
type Output interface {
	// Start plays until ctx is done.
	Start(ctx context.Context) error
	Close() error
}

// Backends lists the names accepted by OpenOutput.
func Backends() []string {
	return []string{"oto", "otov3", "pulse", "null"}
}

// PreferredFormat is the format picked for a backend when none is requested.
func PreferredFormat(backend string) (SampleFormat, error) {
	switch backend {
	case "oto":
		return FormatSigned16, nil
	case "otov3", "pulse", "null":
		return FormatFloat32, nil
	}
	return 0, fmt.Errorf("unknown backend %q", backend)
}

// OpenOutput negotiates cfg with the named backend and registers a new
// Renderer reading from store. Errors reported during playback go to sink.
func OpenOutput(backend string, store *Store, cfg OutputConfig, sink ErrorSink) (Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = discardSink{}
	}
	var o Output
	var err error
	switch backend {
	case "oto":
		o, err = newOtoOutput(store, cfg, sink)
	case "otov3":
		o, err = newOtoV3Output(store, cfg, sink)
	case "pulse":
		o, err = newPulseOutput(store, cfg, sink)
	case "null":
		o, err = newNullOutput(store, cfg, sink)
	default:
		err = fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func bufferDuration(cfg OutputConfig) time.Duration {
	return time.Duration(float64(time.Second) * float64(cfg.BufferFrames) / float64(cfg.SampleRate))
}

// ----- Null Output ----- //

// nullOutput renders at real-time pace and discards the result.
type nullOutput struct {
	cfg      OutputConfig
	renderer *Renderer
	buffers  atomic.Uint64
}

func newNullOutput(store *Store, cfg OutputConfig, sink ErrorSink) (*nullOutput, error) {
	renderer, err := NewRenderer(store, cfg, sink)
	if err != nil {
		return nil, err
	}
	return &nullOutput{cfg: cfg, renderer: renderer}, nil
}

func (o *nullOutput) Start(ctx context.Context) error {
	t := time.NewTicker(bufferDuration(o.cfg))
	defer t.Stop()
	defer o.renderer.Stop()
	o.renderer.Start()
	buf := make([]byte, o.cfg.bufferSizeInBytes())
	for {
		select {
		case <-ctx.Done():
			log.Println("null output interrupted")
			return nil
		case <-t.C:
			if _, err := o.renderer.Read(buf); err != nil {
				return nil
			}
			o.buffers.Add(1)
		}
	}
}

func (o *nullOutput) Close() error {
	o.renderer.Stop()
	return nil
}
