package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jinjor/tone-synth/src/audio"
	"golang.org/x/sync/errgroup"
)

var (
	seconds    = flag.Float64("seconds", 3, "length of each file")
	sampleRate = flag.Int("rate", 48000, "sample rate in Hz")
	freq       = flag.Float64("freq", 220, "tone frequency in Hz")
)

func main() {
	flag.Parse()
	dir := flag.Arg(0)
	if dir == "" {
		log.Fatal("dir is not passed")
	}
	log.SetFlags(log.Lshortfile)

	d := time.Duration(*seconds * float64(time.Second))
	g, _ := errgroup.WithContext(context.Background())
	for _, preset := range audio.Presets() {
		preset := preset
		g.Go(func() error {
			store := audio.NewStore()
			store.ApplyPreset(preset)
			store.Set(audio.ParamFreq, *freq)
			path := filepath.Join(dir, preset.ID+".wav")
			if err := renderFile(path, store, d); err != nil {
				return err
			}
			log.Printf("rendered %s to %s\n", preset.Name, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("Successfully rendered presets.")
}

func renderFile(path string, store *audio.Store, d time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, store, *sampleRate, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
