package audio

import (
	"context"
	"fmt"
	"log"
	"time"

	otov3 "github.com/ebitengine/oto/v3"
)

const errorPollInterval = 100 * time.Millisecond

// ----- Oto v3 Output ----- //

// otoV3Output lets the oto v3 mixer pull from the renderer directly.
type otoV3Output struct {
	cfg        OutputConfig
	renderer   *Renderer
	sink       ErrorSink
	otoContext *otov3.Context
}

func otoV3Format(f SampleFormat) (otov3.Format, error) {
	switch f {
	case FormatFloat32:
		return otov3.FormatFloat32LE, nil
	case FormatSigned16:
		return otov3.FormatSignedInt16LE, nil
	case FormatUnsigned8:
		return otov3.FormatUnsignedInt8, nil
	}
	return 0, fmt.Errorf("%w: oto v3 has no %v", ErrUnsupportedFormat, f)
}

func newOtoV3Output(store *Store, cfg OutputConfig, sink ErrorSink) (*otoV3Output, error) {
	format, err := otoV3Format(cfg.Format)
	if err != nil {
		return nil, err
	}
	renderer, err := NewRenderer(store, cfg, sink)
	if err != nil {
		return nil, err
	}
	otoContext, ready, err := otov3.NewContext(&otov3.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
		BufferSize:   bufferDuration(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	<-ready
	return &otoV3Output{
		cfg:        cfg,
		renderer:   renderer,
		sink:       sink,
		otoContext: otoContext,
	}, nil
}

func (o *otoV3Output) Start(ctx context.Context) error {
	player := o.otoContext.NewPlayer(o.renderer)
	player.SetBufferSize(o.cfg.bufferSizeInBytes())
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	defer o.renderer.Stop()
	o.renderer.Start()
	player.Play()

	t := time.NewTicker(errorPollInterval)
	defer t.Stop()
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			log.Println("oto v3 output interrupted")
			return nil
		case <-t.C:
			err := player.Err()
			if err == nil {
				err = o.otoContext.Err()
			}
			if err != nil && err != lastErr {
				o.sink.Report(&RenderError{Backend: "otov3", Err: err})
			}
			lastErr = err
		}
	}
}

func (o *otoV3Output) Close() error {
	o.renderer.Stop()
	return nil
}
