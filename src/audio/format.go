package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// ----- Sample Format ----- //

// SampleFormat is the numeric representation of one output sample.
type SampleFormat int

const (
	FormatFloat32 SampleFormat = iota
	FormatSigned16
	FormatUnsigned16
	FormatUnsigned8
)

func (f SampleFormat) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatSigned16:
		return "s16"
	case FormatUnsigned16:
		return "u16"
	case FormatUnsigned8:
		return "u8"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// BytesPerSample returns the encoded width, or 0 for an unknown format.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatFloat32:
		return 4
	case FormatSigned16, FormatUnsigned16:
		return 2
	case FormatUnsigned8:
		return 1
	}
	return 0
}

func (f SampleFormat) valid() bool {
	return f.BytesPerSample() > 0
}

// ParseSampleFormat ...
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch strings.ToLower(s) {
	case "float32", "f32":
		return FormatFloat32, nil
	case "s16", "int16", "signed16":
		return FormatSigned16, nil
	case "u16", "uint16", "unsigned16":
		return FormatUnsigned16, nil
	case "u8", "uint8", "unsigned8":
		return FormatUnsigned8, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ----- Conversion ----- //

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func toFloat32(v float64) float32 {
	return float32(v)
}

// toSigned16 clamps to [-1, 1] and scales symmetrically by MaxInt16.
func toSigned16(v float64) int16 {
	return int16(clamp1(v) * math.MaxInt16)
}

func toUnsigned16(v float64) uint16 {
	return uint16((clamp1(v)*0.5 + 0.5) * math.MaxUint16)
}

func toUnsigned8(v float64) uint8 {
	return uint8((clamp1(v)*0.5 + 0.5) * math.MaxUint8)
}

// putSample encodes v at the start of buf in little-endian order.
func putSample(buf []byte, f SampleFormat, v float64) {
	switch f {
	case FormatFloat32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(toFloat32(v)))
	case FormatSigned16:
		binary.LittleEndian.PutUint16(buf, uint16(toSigned16(v)))
	case FormatUnsigned16:
		binary.LittleEndian.PutUint16(buf, toUnsigned16(v))
	case FormatUnsigned8:
		buf[0] = toUnsigned8(v)
	}
}
