package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jinjor/tone-synth/src/audio"
	"github.com/jinjor/tone-synth/src/control"
	"golang.org/x/sync/errgroup"
)

const sockFileName = "/tmp/tone-synth.sock"

var (
	backendName  = flag.String("backend", "oto", "output backend: oto, otov3, pulse, null")
	sampleRate   = flag.Int("rate", 48000, "sample rate in Hz")
	channelNum   = flag.Int("channels", 2, "output channel count")
	formatName   = flag.String("format", "auto", "sample format: auto, float32, s16, u16, u8")
	bufferFrames = flag.Int("buffer", 1024, "frames per buffer")
	sockPath     = flag.String("socket", sockFileName, "unix socket for the control surface, empty to disable")
	repl         = flag.Bool("repl", true, "read commands from stdin")
	presetID     = flag.String("preset", "romantic", "initial preset")
	freq         = flag.Float64("freq", 220, "initial frequency in Hz")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := audio.NewStore()
	preset, err := audio.PresetByID(*presetID)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	store.ApplyPreset(preset)
	store.Set(audio.ParamFreq, *freq)

	errorLog := audio.NewErrorLog(256)
	output, err := openOutput(store, errorLog)
	switch {
	case errors.Is(err, audio.ErrDeviceUnavailable):
		log.Printf("no usable output device, running without sound: %v\n", err)
	case errors.Is(err, audio.ErrUnsupportedFormat):
		log.Printf("output format not supported, running without sound: %v\n", err)
	case err != nil:
		log.Printf("audio disabled: %v\n", err)
	default:
		defer func() {
			if err := output.Close(); err != nil {
				log.Printf("error while closing output: %v", err)
			}
		}()
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		select {
		case sig := <-signalCh:
			log.Printf("Caught signal %s: shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	surface := control.NewSurface(store)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errorLog.Run(ctx)
	})
	g.Go(func() error {
		return surface.Run(ctx)
	})
	if output != nil {
		g.Go(func() error {
			return output.Start(ctx)
		})
	}
	if *sockPath != "" {
		g.Go(func() error {
			return control.ServeIPC(ctx, *sockPath, surface)
		})
	}
	if *repl {
		g.Go(func() error {
			return control.RunTerminal(ctx, surface, os.Stdin, os.Stdout)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, control.ErrQuit) {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func openOutput(store *audio.Store, sink audio.ErrorSink) (audio.Output, error) {
	var format audio.SampleFormat
	var err error
	if *formatName == "auto" {
		format, err = audio.PreferredFormat(*backendName)
	} else {
		format, err = audio.ParseSampleFormat(*formatName)
	}
	if err != nil {
		return nil, err
	}
	cfg := audio.OutputConfig{
		SampleRate:   *sampleRate,
		Channels:     *channelNum,
		Format:       format,
		BufferFrames: *bufferFrames,
	}
	log.Printf("opening %s output: %d Hz, %d ch, %v\n", *backendName, cfg.SampleRate, cfg.Channels, cfg.Format)
	return audio.OpenOutput(*backendName, store, cfg, sink)
}
