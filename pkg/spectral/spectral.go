// Package spectral implements region-of-interest spectrum extraction from
// hyperspectral cubes.
//
// A region is described by a polygon in normalized image coordinates.
// Extraction rasterizes the polygon onto the cube's pixel grid and reduces
// every selected pixel into one mean and standard deviation per spectral
// band. Failures that stem from the region itself (an empty polygon, a
// point outside the image, a polygon that covers no pixel) are soft: the
// extractor reports the sentinel value instead of an error so that ROI
// workflows keep their per-band alignment.
package spectral

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"hyperspec/pkg/cube"
	"hyperspec/pkg/raster"
)

// Sentinel is reported as the band value when a region selects no data.
// Sentinel spectra keep their wavelength labels and carry a zero standard
// deviation.
const Sentinel = -999.0

// Point is a position in normalized image coordinates. Both axes run from
// 0 to 1 regardless of the cube's pixel dimensions; (0,0) is the top-left
// corner and (1,1) the bottom-right.
type Point struct {
	X float64
	Y float64
}

// Polygon is a region outline in normalized image coordinates. The closing
// edge from the last vertex back to the first is implicit. A polygon with
// a single vertex is a point query answered by the nearest pixel.
type Polygon []Point

// SpectralMean is the reduction of one spectral band over a region.
type SpectralMean struct {
	// Wavelength is the band's center wavelength in nm
	Wavelength uint32

	// Value is the mean sample value over the region, or Sentinel when
	// the region selected no data
	Value float64

	// Std is the population standard deviation of the band over the region
	Std float64
}

// Spectrum holds one SpectralMean per cube band, in the cube's band order.
type Spectrum []SpectralMean

// PixelVertices maps the polygon's normalized vertices onto a width x
// height pixel grid using the truncating conversion the extractor applies.
func (p Polygon) PixelVertices(width, height int) []image.Point {
	verts := make([]image.Point, len(p))
	for i, pt := range p {
		verts[i] = image.Point{
			X: int(pt.X * float64(width-1)),
			Y: int(pt.Y * float64(height-1)),
		}
	}
	return verts
}

// Extract reduces the cube samples under the given region to a per-band
// mean and standard deviation.
//
// A polygon with two or more vertices is rasterized onto the pixel grid
// and every pixel of the resulting mask contributes to the statistics. A
// single vertex is answered by the nearest pixel's samples with zero
// deviation. Empty polygons, out-of-range point queries and polygons that
// rasterize to no pixels yield a sentinel-filled spectrum and no error;
// the only hard failure is a cube that does not validate.
func Extract[T cube.Sample](c *cube.Cube[T], poly Polygon) (Spectrum, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch len(poly) {
	case 0:
		return sentinelSpectrum(c), nil
	case 1:
		return extractPoint(c, poly[0]), nil
	default:
		return extractRegion(c, poly), nil
	}
}

// extractPoint answers a single-vertex query from the nearest pixel. The
// normalized position maps to pixel space by rounding, unlike polygon
// vertices which truncate.
func extractPoint[T cube.Sample](c *cube.Cube[T], p Point) Spectrum {
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return sentinelSpectrum(c)
	}

	x := int(math.Round(p.X * float64(c.Width()-1)))
	y := int(math.Round(p.Y * float64(c.Height()-1)))

	out := make(Spectrum, c.Channels())
	for z := range out {
		out[z] = SpectralMean{
			Wavelength: c.Wavelength(z),
			Value:      float64(c.At(x, y, z)),
		}
	}
	return out
}

// extractRegion rasterizes the polygon and reduces the masked pixels in a
// single pass, accumulating per-band sums and squared sums.
func extractRegion[T cube.Sample](c *cube.Cube[T], poly Polygon) Spectrum {
	width, height, channels := c.Width(), c.Height(), c.Channels()

	mask := raster.FillPolygon(width, height, poly.PixelVertices(width, height))
	n := mask.Count()
	if n == 0 {
		return sentinelSpectrum(c)
	}

	sum := make([]float64, channels)
	sqSum := make([]float64, channels)
	data := c.Data()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask.At(x, y) {
				continue
			}
			base := (y*width + x) * channels
			for z := 0; z < channels; z++ {
				v := float64(data[base+z])
				sum[z] += v
				sqSum[z] += v * v
			}
		}
	}

	mean := make([]float64, channels)
	copy(mean, sum)
	floats.Scale(1/float64(n), mean)

	out := make(Spectrum, channels)
	for z := range out {
		m := mean[z]
		out[z] = SpectralMean{
			Wavelength: c.Wavelength(z),
			Value:      m,
			Std:        math.Sqrt((sqSum[z]-2*sum[z]*m)/float64(n) + m*m),
		}
	}
	return out
}

// sentinelSpectrum builds a spectrum with every band marked Sentinel while
// keeping the cube's wavelength labels.
func sentinelSpectrum[T cube.Sample](c *cube.Cube[T]) Spectrum {
	out := make(Spectrum, c.Channels())
	for z := range out {
		out[z] = SpectralMean{
			Wavelength: c.Wavelength(z),
			Value:      Sentinel,
		}
	}
	return out
}
