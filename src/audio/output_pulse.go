package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jfreymuth/pulse"
)

// ----- Pulse Output ----- //

// pulseOutput hands typed callbacks to a PulseAudio playback stream.
type pulseOutput struct {
	cfg      OutputConfig
	renderer *Renderer
	sink     ErrorSink
	client   *pulse.Client
	stream   *pulse.PlaybackStream
}

func newPulseOutput(store *Store, cfg OutputConfig, sink ErrorSink) (*pulseOutput, error) {
	var layout pulse.PlaybackOption
	switch cfg.Channels {
	case 1:
		layout = pulse.PlaybackMono
	case 2:
		layout = pulse.PlaybackStereo
	default:
		return nil, fmt.Errorf("%w: pulse output supports 1 or 2 channels, got %d", ErrUnsupportedFormat, cfg.Channels)
	}
	renderer, err := NewRenderer(store, cfg, sink)
	if err != nil {
		return nil, err
	}
	o := &pulseOutput{cfg: cfg, renderer: renderer, sink: sink}

	var reader pulse.Reader
	switch cfg.Format {
	case FormatFloat32:
		reader = pulse.Float32Reader(o.readFloat32)
	case FormatSigned16:
		reader = pulse.Int16Reader(o.readInt16)
	default:
		return nil, fmt.Errorf("%w: pulse output has no %v", ErrUnsupportedFormat, cfg.Format)
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName("tone-synth"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	stream, err := client.NewPlayback(reader,
		layout,
		pulse.PlaybackSampleRate(cfg.SampleRate),
		pulse.PlaybackLatency(bufferDuration(cfg).Seconds()),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	o.client = client
	o.stream = stream
	return o, nil
}

func (o *pulseOutput) readFloat32(out []float32) (int, error) {
	n, err := o.renderer.ReadFloat32(out)
	if err == io.EOF {
		return n, pulse.EndOfData
	}
	return n, err
}

func (o *pulseOutput) readInt16(out []int16) (int, error) {
	n, err := o.renderer.ReadInt16(out)
	if err == io.EOF {
		return n, pulse.EndOfData
	}
	return n, err
}

func (o *pulseOutput) Start(ctx context.Context) error {
	defer o.stream.Stop()
	defer o.renderer.Stop()
	o.renderer.Start()
	o.stream.Start()

	t := time.NewTicker(errorPollInterval)
	defer t.Stop()
	var lastErr error
	underflow := false
	for {
		select {
		case <-ctx.Done():
			log.Println("pulse output interrupted")
			return nil
		case <-t.C:
			u := o.stream.Underflow()
			if u && !underflow {
				o.sink.Report(&RenderError{Backend: "pulse", Err: fmt.Errorf("buffer underflow")})
			}
			underflow = u
			err := o.stream.Error()
			if err != nil && err != lastErr {
				o.sink.Report(&RenderError{Backend: "pulse", Err: err})
			}
			lastErr = err
		}
	}
}

func (o *pulseOutput) Close() error {
	log.Println("Closing pulse output...")
	o.renderer.Stop()
	o.stream.Close()
	o.client.Close()
	return nil
}
