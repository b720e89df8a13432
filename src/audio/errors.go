package audio

import (
	"errors"
	"fmt"
)

// ----- Errors ----- //

// ErrDeviceUnavailable is returned when no usable output device could be opened.
var ErrDeviceUnavailable = errors.New("output device unavailable")

// ErrUnsupportedFormat is returned when the negotiated output has no conversion rule.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ErrUnknownParam ...
var ErrUnknownParam = errors.New("unknown parameter")

// ErrUnknownPreset ...
var ErrUnknownPreset = errors.New("unknown preset")

// RenderError is a per-buffer failure reported by an output driver or the
// render callback. Playback continues with the next buffer.
type RenderError struct {
	Backend string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error (%s): %v", e.Backend, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
