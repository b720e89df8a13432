package audio

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/oto"
)

// ----- Oto Output ----- //

// otoOutput pushes rendered buffers into an oto player.
type otoOutput struct {
	cfg        OutputConfig
	renderer   *Renderer
	sink       ErrorSink
	otoContext *oto.Context
}

func newOtoOutput(store *Store, cfg OutputConfig, sink ErrorSink) (*otoOutput, error) {
	// oto picks the sample encoding from the bit depth alone.
	if cfg.Format != FormatSigned16 && cfg.Format != FormatUnsigned8 {
		return nil, fmt.Errorf("%w: oto needs s16 or u8, got %v", ErrUnsupportedFormat, cfg.Format)
	}
	renderer, err := NewRenderer(store, cfg, sink)
	if err != nil {
		return nil, err
	}
	otoContext, err := oto.NewContext(cfg.SampleRate, cfg.Channels, cfg.Format.BytesPerSample(), cfg.bufferSizeInBytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	return &otoOutput{
		cfg:        cfg,
		renderer:   renderer,
		sink:       sink,
		otoContext: otoContext,
	}, nil
}

func (o *otoOutput) Start(ctx context.Context) error {
	p := o.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	defer o.renderer.Stop()
	o.renderer.Start()

	buf := make([]byte, o.cfg.bufferSizeInBytes())
	for {
		select {
		case <-ctx.Done():
			log.Println("oto output interrupted")
			return nil
		default:
		}
		if _, err := o.renderer.Read(buf); err != nil {
			// stopped by Close
			return nil
		}
		if _, err := p.Write(buf); err != nil {
			o.sink.Report(&RenderError{Backend: "oto", Err: err})
			select {
			case <-ctx.Done():
			case <-time.After(bufferDuration(o.cfg)):
			}
		}
	}
}

func (o *otoOutput) Close() error {
	log.Println("Closing oto output...")
	o.renderer.Stop()
	return o.otoContext.Close()
}
