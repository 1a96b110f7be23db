package cube

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedSampleEncoding indicates that a cube's sample type has no
// entry in the encoding table and therefore cannot be binned into
// value-range histograms.
var ErrUnsupportedSampleEncoding = errors.New("unsupported sample encoding")

// Encoding describes how a sample type is represented on the wire and the
// a-priori ceiling its values can reach. The ceiling is used as the
// histogram range when the caller does not ask for a data-driven maximum.
type Encoding struct {
	// Bytes is the storage width of one sample
	Bytes int

	// Signed reports whether the integer representation carries a sign bit.
	// Always true for floats.
	Signed bool

	// Float reports whether samples are floating point
	Float bool

	// MaxValue is the largest value the representation can express
	MaxValue float64
}

// EncodingOf maps a sample type to its encoding. The supported set is
// closed: unsigned integers of 1 or 2 bytes, signed integers of 1, 2 or
// 4 bytes, and floats of 4 or 8 bytes. Every other instantiation of
// Sample (uint32, uint64, int64, and the platform-sized int and uint)
// returns ErrUnsupportedSampleEncoding.
func EncodingOf[T Sample]() (Encoding, error) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Encoding{Bytes: 1, MaxValue: math.MaxUint8}, nil
	case uint16:
		return Encoding{Bytes: 2, MaxValue: math.MaxUint16}, nil
	case int8:
		return Encoding{Bytes: 1, Signed: true, MaxValue: math.MaxInt8}, nil
	case int16:
		return Encoding{Bytes: 2, Signed: true, MaxValue: math.MaxInt16}, nil
	case int32:
		return Encoding{Bytes: 4, Signed: true, MaxValue: math.MaxInt32}, nil
	case float32:
		return Encoding{Bytes: 4, Signed: true, Float: true, MaxValue: math.MaxFloat32}, nil
	case float64:
		return Encoding{Bytes: 8, Signed: true, Float: true, MaxValue: math.MaxFloat64}, nil
	default:
		return Encoding{}, fmt.Errorf("%w: %T", ErrUnsupportedSampleEncoding, zero)
	}
}
