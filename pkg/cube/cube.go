// Package cube provides the read-only view of a hyperspectral measurement
// cube that all analysis components operate on. A cube is a dense 3D array
// of samples (width x height x spectral channels) stored in row-major order
// with the channel index varying fastest, plus a wavelength label per channel.
//
// Cubes are immutable after construction and safe for concurrent readers.
package cube

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Sample constrains the numeric types a cube can carry. Any integer or
// float instantiation is accepted at the type level; whether a given type
// is supported for value-range dependent analyses (histogram binning) is
// decided by the encoding table in EncodingOf.
type Sample interface {
	constraints.Integer | constraints.Float
}

// MaxChannels is the largest number of spectral channels a cube may carry.
// The limit matches the sensor line length of the supported instruments.
const MaxChannels = 511

// ErrInvalidShape indicates that cube dimensions, the wavelength table and
// the sample buffer do not describe a consistent cube.
var ErrInvalidShape = errors.New("invalid cube shape")

// Cube is an immutable dense view over one processed measurement.
//
// The sample at spatial position (x, y) and channel z lives at buffer
// index (y*width + x)*channels + z. The wavelength table assigns a
// center wavelength in nanometers to each channel; channels are expected
// to be ordered by increasing wavelength, but this is a convention of the
// producing pipeline and is not validated here.
type Cube[T Sample] struct {
	// width and height are the spatial dimensions in pixels
	width  int
	height int

	// channels is the number of spectral bands per pixel
	channels int

	// wavelengths holds the center wavelength of each channel in nm
	wavelengths []uint32

	// data is the sample buffer in row-major, channel-interleaved order
	data []T
}

// New builds a cube view over the given sample buffer and validates its
// shape. The buffer and wavelength table are borrowed, not copied; the
// caller must not mutate them while the cube is in use.
//
// Returns ErrInvalidShape (wrapped with the offending detail) when the
// dimensions, wavelength table and buffer length are inconsistent.
func New[T Sample](width, height, channels int, wavelengths []uint32, data []T) (*Cube[T], error) {
	c := &Cube[T]{
		width:       width,
		height:      height,
		channels:    channels,
		wavelengths: wavelengths,
		data:        data,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the cube shape invariants. Analysis entry points call
// this as their precondition so that a zero-value or hand-built cube is
// rejected before any indexing happens.
func (c *Cube[T]) Validate() error {
	if c.width <= 1 {
		return fmt.Errorf("%w: width must be greater than 1, got %d", ErrInvalidShape, c.width)
	}
	if c.height <= 1 {
		return fmt.Errorf("%w: height must be greater than 1, got %d", ErrInvalidShape, c.height)
	}
	if c.channels < 1 {
		return fmt.Errorf("%w: need at least 1 channel, got %d", ErrInvalidShape, c.channels)
	}
	if c.channels > MaxChannels {
		return fmt.Errorf("%w: %d channels exceeds limit of %d", ErrInvalidShape, c.channels, MaxChannels)
	}
	if len(c.wavelengths) != c.channels {
		return fmt.Errorf("%w: wavelength table has %d entries for %d channels",
			ErrInvalidShape, len(c.wavelengths), c.channels)
	}
	if expected := c.width * c.height * c.channels; len(c.data) != expected {
		return fmt.Errorf("%w: buffer holds %d samples, shape %dx%dx%d requires %d",
			ErrInvalidShape, len(c.data), c.width, c.height, c.channels, expected)
	}
	return nil
}

// Width returns the spatial width in pixels.
func (c *Cube[T]) Width() int { return c.width }

// Height returns the spatial height in pixels.
func (c *Cube[T]) Height() int { return c.height }

// Channels returns the number of spectral bands per pixel.
func (c *Cube[T]) Channels() int { return c.channels }

// Samples returns the total number of samples in the cube
// (width * height * channels).
func (c *Cube[T]) Samples() int { return c.width * c.height * c.channels }

// Wavelength returns the center wavelength of channel z in nanometers.
func (c *Cube[T]) Wavelength(z int) uint32 { return c.wavelengths[z] }

// Wavelengths returns the full wavelength table. The slice is borrowed;
// callers must treat it as read-only.
func (c *Cube[T]) Wavelengths() []uint32 { return c.wavelengths }

// At returns the sample at spatial position (x, y) and channel z.
// Coordinates are not range checked; callers iterate within the cube
// dimensions.
func (c *Cube[T]) At(x, y, z int) T {
	return c.data[(y*c.width+x)*c.channels+z]
}

// Data returns the raw sample buffer in row-major, channel-interleaved
// order. The slice is borrowed; callers must treat it as read-only.
func (c *Cube[T]) Data() []T { return c.data }

// MaxSample scans the cube and returns its largest non-negative sample
// value as a float64. An all-negative or all-zero cube yields 0. NaN
// samples are ignored.
func MaxSample[T Sample](c *Cube[T]) float64 {
	max := 0.0
	for _, v := range c.data {
		// NaN compares false and falls through
		if f := float64(v); f > max {
			max = f
		}
	}
	return max
}
