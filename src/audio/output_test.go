package audio

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

func TestPreferredFormat(t *testing.T) {
	f, err := PreferredFormat("oto")
	expectNoError(t, err)
	expectEqual(t, f, FormatSigned16)
	f, err = PreferredFormat("otov3")
	expectNoError(t, err)
	expectEqual(t, f, FormatFloat32)
	_, err = PreferredFormat("jack")
	if err == nil {
		t.Error("expected error for unknown backend")
	}
	for _, name := range Backends() {
		_, err := PreferredFormat(name)
		expectNoError(t, err)
	}
}

func TestOpenOutputRejectsUnsupportedFormat(t *testing.T) {
	store := NewStore()
	cfg := DefaultOutputConfig()

	cfg.Format = FormatFloat32
	o, err := OpenOutput("oto", store, cfg, nil)
	expectErrorIs(t, err, ErrUnsupportedFormat)
	expectEqual(t, o, nil)

	cfg.Format = FormatUnsigned16
	_, err = OpenOutput("otov3", store, cfg, nil)
	expectErrorIs(t, err, ErrUnsupportedFormat)

	cfg.Format = FormatSigned16
	cfg.Channels = 6
	_, err = OpenOutput("pulse", store, cfg, nil)
	expectErrorIs(t, err, ErrUnsupportedFormat)

	cfg.Channels = 2
	cfg.Format = FormatUnsigned8
	_, err = OpenOutput("pulse", store, cfg, nil)
	expectErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenOutputRejectsBadConfig(t *testing.T) {
	store := NewStore()
	_, err := OpenOutput("null", store, OutputConfig{SampleRate: 48000, Channels: 2, Format: FormatFloat32}, nil)
	if err == nil {
		t.Error("expected error for zero buffer frames")
	}
	_, err = OpenOutput("alsa", store, DefaultOutputConfig(), nil)
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNullOutput(t *testing.T) {
	store := NewStore()
	cfg := OutputConfig{SampleRate: 48000, Channels: 2, Format: FormatUnsigned16, BufferFrames: 48}
	o, err := OpenOutput("null", store, cfg, nil)
	expectNoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	expectNoError(t, o.Start(ctx))
	null := o.(*nullOutput)
	if null.buffers.Load() == 0 {
		t.Error("expected rendered buffers")
	}
	expectEqual(t, null.renderer.State(), StateStopped)
	expectNoError(t, o.Close())
}

func TestNullOutputClose(t *testing.T) {
	o, err := OpenOutput("null", NewStore(), OutputConfig{SampleRate: 48000, Channels: 1, Format: FormatFloat32, BufferFrames: 48}, nil)
	expectNoError(t, err)
	done := make(chan error, 1)
	go func() {
		done <- o.Start(context.Background())
	}()
	time.Sleep(10 * time.Millisecond)
	expectNoError(t, o.Close())
	select {
	case err := <-done:
		expectNoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Close")
	}
}

func TestErrorLog(t *testing.T) {
	l := NewErrorLog(1)
	l.Report(ErrDeviceUnavailable)
	l.Report(ErrUnsupportedFormat)
	expectEqual(t, l.Dropped(), uint64(1))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx)
	}()
	cancel()
	expectNoError(t, <-done)
}

func TestErrorLogDrainsQueueOnStop(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out)
	defer log.SetOutput(os.Stderr)

	l := NewErrorLog(4)
	l.Report(ErrDeviceUnavailable)
	l.Report(ErrUnsupportedFormat)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	expectNoError(t, l.Run(ctx))
	logged := out.String()
	for _, err := range []error{ErrDeviceUnavailable, ErrUnsupportedFormat} {
		if !strings.Contains(logged, err.Error()) {
			t.Errorf("expected %q to be logged, but got: %s", err, logged)
		}
	}
	expectEqual(t, len(l.ch), 0)
}
