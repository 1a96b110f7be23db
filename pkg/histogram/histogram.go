// Package histogram builds per-wavelength-group sample histograms from
// hyperspectral cubes.
//
// The cube's bands are divided into contiguous wavelength groups and the
// samples of each group are tallied into equal-width value bins spanning
// [0, maxValue]. The ceiling is either the sample type's a-priori maximum
// or, on request, the largest value actually present in the cube. Each
// group reports the center wavelength of its middle band together with the
// lower bin edges and the tallies.
package histogram

import (
	"errors"
	"fmt"
	"math"

	"hyperspec/pkg/cube"
)

// ErrInsufficientData indicates that the cube holds too few samples for a
// meaningful distribution.
var ErrInsufficientData = errors.New("insufficient samples for histogram analysis")

// ErrInvalidBinning indicates binning parameters that cannot produce a
// histogram, such as zero bins or more wavelength groups than bands.
var ErrInvalidBinning = errors.New("invalid histogram binning parameters")

// Histogram is the value distribution of one wavelength group.
type Histogram struct {
	// Wavelength is the center wavelength of the group's middle band in nm
	Wavelength uint32

	// Count holds the lower edge of each value bin. For reflectance cubes
	// the edges are divided by 100, converting the percent-scaled sample
	// domain to fractional reflectance.
	Count []float64

	// Occurrence holds the number of samples tallied into each bin
	Occurrence []uint64
}

// Vector holds one histogram per wavelength group, ordered by band.
type Vector []Histogram

// Params configures histogram construction.
type Params struct {
	// MinSamples is the number of samples the cube must exceed
	MinSamples int

	// CountBins is the number of value bins per histogram
	CountBins int

	// WavelengthBins is the requested number of wavelength groups. The
	// effective group count follows from truncating division and can be
	// larger; see Build.
	WavelengthBins int

	// DetectMaxValue selects a data-driven ceiling instead of the sample
	// type's a-priori maximum
	DetectMaxValue bool

	// Mode is the processing mode of the cube's samples
	Mode cube.ProcessingMode
}

// Build tallies the cube into per-wavelength-group histograms.
//
// Bands are grouped bottom-up: bandsPerGroup = channels / wavelengthBins
// and the number of groups is channels / bandsPerGroup, both truncating.
// Trailing bands that do not fill a whole group are dropped, so the group
// count can exceed wavelengthBins when channels is not divisible evenly.
//
// Samples outside [0, maxValue] and NaN samples are not tallied; a sample
// equal to the ceiling lands in the top bin. With a zero ceiling (an
// all-zero cube under DetectMaxValue) every tallied sample lands in bin 0.
//
// Hard failures: ErrInvalidShape for a cube that does not validate,
// ErrUnsupportedSampleEncoding for sample types without an encoding,
// ErrInsufficientData when the cube does not exceed MinSamples, and
// ErrInvalidBinning for unusable bin counts.
func Build[T cube.Sample](c *cube.Cube[T], p Params) (Vector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	enc, err := cube.EncodingOf[T]()
	if err != nil {
		return nil, err
	}
	if c.Samples() <= p.MinSamples {
		return nil, fmt.Errorf("%w: cube holds %d samples, need more than %d",
			ErrInsufficientData, c.Samples(), p.MinSamples)
	}
	if p.CountBins < 1 {
		return nil, fmt.Errorf("%w: countBins must be at least 1, got %d",
			ErrInvalidBinning, p.CountBins)
	}
	if p.WavelengthBins < 1 || p.WavelengthBins > c.Channels() {
		return nil, fmt.Errorf("%w: wavelengthBins %d outside 1..%d",
			ErrInvalidBinning, p.WavelengthBins, c.Channels())
	}

	maxValue := enc.MaxValue
	if p.DetectMaxValue {
		maxValue = cube.MaxSample(c)
	}
	binSize := maxValue / float64(p.CountBins)

	bandsPerGroup := c.Channels() / p.WavelengthBins
	groups := c.Channels() / bandsPerGroup
	grouped := groups * bandsPerGroup

	groupOf := make([]int, grouped)
	for z := range groupOf {
		groupOf[z] = z / bandsPerGroup
	}

	occ := make([][]uint64, groups)
	for g := range occ {
		occ[g] = make([]uint64, p.CountBins)
	}

	// One pass over the interleaved buffer: every grouped band of every
	// pixel is binned and tallied into its group
	width, height, channels := c.Width(), c.Height(), c.Channels()
	data := c.Data()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			base := (y*width + x) * channels
			for z := 0; z < grouped; z++ {
				v := float64(data[base+z])
				if math.IsNaN(v) || v < 0 || v > maxValue {
					continue
				}
				idx := 0
				if binSize > 0 {
					idx = int(v / binSize)
					if idx >= p.CountBins {
						// the ceiling itself lands in the top bin
						idx = p.CountBins - 1
					}
				}
				occ[groupOf[z]][idx]++
			}
		}
	}

	// Bin edges are identical for every group; reflectance cubes report
	// them as fractions instead of percent
	edges := make([]float64, p.CountBins)
	for i := range edges {
		edges[i] = float64(i) * binSize
		if p.Mode == cube.ModeReflectance {
			edges[i] /= 100
		}
	}

	out := make(Vector, groups)
	for g := range out {
		count := make([]float64, p.CountBins)
		copy(count, edges)
		out[g] = Histogram{
			Wavelength: c.Wavelength(g*bandsPerGroup + bandsPerGroup/2),
			Count:      count,
			Occurrence: occ[g],
		}
	}
	return out, nil
}
