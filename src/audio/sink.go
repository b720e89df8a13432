package audio

import (
	"context"
	"log"
	"sync/atomic"
)

// ----- Error Sink ----- //

// ErrorSink receives errors raised on the render path. Report must not block.
type ErrorSink interface {
	Report(err error)
}

// ErrorLog is an ErrorSink that hands errors to a logging goroutine.
// When the queue is full the error is dropped and counted.
type ErrorLog struct {
	ch      chan error
	dropped atomic.Uint64
}

// NewErrorLog ...
func NewErrorLog(size int) *ErrorLog {
	return &ErrorLog{ch: make(chan error, size)}
}

// Report ...
func (l *ErrorLog) Report(err error) {
	select {
	case l.ch <- err:
	default:
		l.dropped.Add(1)
	}
}

// Dropped returns how many errors were discarded because the queue was full.
func (l *ErrorLog) Dropped() uint64 {
	return l.dropped.Load()
}

// Run logs reported errors until ctx is done. Errors still queued at
// that point are logged before it returns.
func (l *ErrorLog) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.drain()
			if n := l.Dropped(); n > 0 {
				log.Printf("%d audio errors were dropped\n", n)
			}
			log.Println("ErrorLog.Run() ended.")
			return nil
		case err := <-l.ch:
			log.Printf("audio err: %v\n", err)
		}
	}
}

func (l *ErrorLog) drain() {
	for {
		select {
		case err := <-l.ch:
			log.Printf("audio err: %v\n", err)
		default:
			return
		}
	}
}

type discardSink struct{}

func (discardSink) Report(error) {}
