// Package quicklook renders cube bands and region masks as grayscale
// images for visual inspection of measurements and extraction regions.
package quicklook

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"hyperspec/pkg/cube"
	"hyperspec/pkg/raster"
)

// Renderer turns the spectral bands of one cube into 16-bit grayscale
// images.
type Renderer[T cube.Sample] struct {
	// c is the cube being rendered
	c *cube.Cube[T]

	// scale maps sample values onto the 16-bit gray range
	scale float64
}

// NewRenderer creates a renderer for the given cube. maxValue is the
// sample value rendered as white; pass 0 or a negative value to detect
// the ceiling from the cube itself.
func NewRenderer[T cube.Sample](c *cube.Cube[T], maxValue float64) (*Renderer[T], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if maxValue <= 0 {
		maxValue = cube.MaxSample(c)
	}

	// An all-zero cube renders black
	scale := 0.0
	if maxValue > 0 {
		scale = 65535 / maxValue
	}
	return &Renderer[T]{c: c, scale: scale}, nil
}

// RenderBand renders one spectral band as a 16-bit grayscale image with
// values scaled and clamped to the gray range.
func (r *Renderer[T]) RenderBand(z int) (image.Image, error) {
	if z < 0 || z >= r.c.Channels() {
		return nil, fmt.Errorf("band %d outside 0..%d", z, r.c.Channels()-1)
	}

	img := image.NewGray16(image.Rect(0, 0, r.c.Width(), r.c.Height()))
	for y := 0; y < r.c.Height(); y++ {
		for x := 0; x < r.c.Width(); x++ {
			value := uint16(math.Max(0, math.Min(65535, float64(r.c.At(x, y, z))*r.scale)))
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img, nil
}

// SaveBand renders band z and writes it as a PNG file
func (r *Renderer[T]) SaveBand(z int, filename string) error {
	img, err := r.RenderBand(z)
	if err != nil {
		return err
	}
	return SaveImage(img, filename)
}

// SaveBandSequence renders every step-th band into outputDir, with files
// named by band index and center wavelength
func (r *Renderer[T]) SaveBandSequence(outputDir string, step int) error {
	if step < 1 {
		step = 1
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for z := 0; z < r.c.Channels(); z += step {
		filename := filepath.Join(outputDir, fmt.Sprintf("band_%03d_%dnm.png", z, r.c.Wavelength(z)))
		if err := r.SaveBand(z, filename); err != nil {
			return err
		}
	}
	return nil
}

// RenderMask renders a region mask as an 8-bit grayscale image with
// region pixels white and background black
func RenderMask(m *raster.Mask) image.Image {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// SaveImage writes an image as a PNG file
func SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
