package quicklook

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"hyperspec/pkg/cube"
	"hyperspec/pkg/raster"
)

// makeTestCube builds a uint16 cube from a pattern closure
func makeTestCube(t *testing.T, width, height, channels int, pattern func(x, y, z int) uint16) *cube.Cube[uint16] {
	t.Helper()
	wls := make([]uint32, channels)
	for z := range wls {
		wls[z] = uint32(430 + 4*z)
	}
	data := make([]uint16, width*height*channels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for z := 0; z < channels; z++ {
				data[(y*width+x)*channels+z] = pattern(x, y, z)
			}
		}
	}
	c, err := cube.New(width, height, channels, wls, data)
	if err != nil {
		t.Fatalf("Failed to build test cube: %v", err)
	}
	return c
}

// TestNewRenderer verifies construction and cube validation
func TestNewRenderer(t *testing.T) {
	c := makeTestCube(t, 4, 4, 2, func(x, y, z int) uint16 { return 100 })

	if _, err := NewRenderer(c, 4095); err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	var invalid cube.Cube[uint16]
	if _, err := NewRenderer(&invalid, 4095); err == nil {
		t.Error("Expected error for invalid cube, got nil")
	}
}

// TestRenderBand verifies dimensions, scaling and clamping
func TestRenderBand(t *testing.T) {
	width, height := 8, 6
	c := makeTestCube(t, width, height, 2, func(x, y, z int) uint16 {
		if z == 0 {
			return uint16(x * 100)
		}
		return 5000 // over the rendering ceiling
	})

	r, err := NewRenderer(c, 1000)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	img, err := r.RenderBand(0)
	if err != nil {
		t.Fatalf("Failed to render band: %v", err)
	}

	// Verify dimensions
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		t.Errorf("Expected image %dx%d, got %dx%d", width, height, bounds.Dx(), bounds.Dy())
	}

	gray, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("Expected *image.Gray16, got %T", img)
	}

	// Value 700 against ceiling 1000 renders at 70% gray
	wantGray := 700.0 / 1000 * 65535
	if got, want := gray.Gray16At(7, 0).Y, uint16(wantGray); got != want {
		t.Errorf("Expected gray value %d at (7,0), got %d", want, got)
	}
	if got := gray.Gray16At(0, 0).Y; got != 0 {
		t.Errorf("Expected black at (0,0), got %d", got)
	}

	// Values above the ceiling clamp to white
	over, err := r.RenderBand(1)
	if err != nil {
		t.Fatalf("Failed to render band: %v", err)
	}
	if got := over.(*image.Gray16).Gray16At(3, 3).Y; got != 65535 {
		t.Errorf("Expected clamped white, got %d", got)
	}

	// Out-of-range band index is an error
	if _, err := r.RenderBand(2); err == nil {
		t.Error("Expected error for band index out of range, got nil")
	}
	if _, err := r.RenderBand(-1); err == nil {
		t.Error("Expected error for negative band index, got nil")
	}
}

// TestRenderBandAutoScale verifies the detected ceiling: the brightest
// sample renders as white
func TestRenderBandAutoScale(t *testing.T) {
	c := makeTestCube(t, 4, 4, 1, func(x, y, z int) uint16 {
		return uint16(x * 1024)
	})

	r, err := NewRenderer(c, 0)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	img, err := r.RenderBand(0)
	if err != nil {
		t.Fatalf("Failed to render band: %v", err)
	}

	// The peak samples sit in column 3
	if got := img.(*image.Gray16).Gray16At(3, 2).Y; got != 65535 {
		t.Errorf("Expected peak sample to render white, got %d", got)
	}
	if got := img.(*image.Gray16).Gray16At(0, 2).Y; got != 0 {
		t.Errorf("Expected zero sample to render black, got %d", got)
	}
}

// TestRenderMask verifies the binary mask rendering
func TestRenderMask(t *testing.T) {
	m := raster.NewMask(5, 4)
	m.Inside[1*5+2] = true
	m.Inside[3*5+4] = true

	img := RenderMask(m)
	bounds := img.Bounds()
	if bounds.Dx() != 5 || bounds.Dy() != 4 {
		t.Errorf("Expected image 5x4, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("Expected *image.Gray, got %T", img)
	}
	if gray.GrayAt(2, 1).Y != 255 {
		t.Error("Expected region pixel (2,1) white")
	}
	if gray.GrayAt(4, 3).Y != 255 {
		t.Error("Expected region pixel (4,3) white")
	}
	if gray.GrayAt(0, 0).Y != 0 {
		t.Error("Expected background pixel (0,0) black")
	}
}

// TestSaveBand verifies that a rendered band can be saved to disk
func TestSaveBand(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	c := makeTestCube(t, 4, 4, 2, func(x, y, z int) uint16 { return 1000 })
	r, err := NewRenderer(c, 4095)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "band.png")
	if err := r.SaveBand(0, filename); err != nil {
		t.Fatalf("Failed to save band: %v", err)
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		t.Errorf("Saved file does not exist: %s", filename)
	}
}

// TestSaveBandSequence verifies the band sequence export
func TestSaveBandSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	channels := 6
	c := makeTestCube(t, 4, 4, channels, func(x, y, z int) uint16 { return uint16(z * 500) })
	r, err := NewRenderer(c, 4095)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	outputDir := filepath.Join(t.TempDir(), "bands")
	if err := r.SaveBandSequence(outputDir, 2); err != nil {
		t.Fatalf("Failed to save band sequence: %v", err)
	}

	// Every second band should exist
	for z := 0; z < channels; z += 2 {
		filename := filepath.Join(outputDir, fmt.Sprintf("band_%03d_%dnm.png", z, c.Wavelength(z)))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			t.Errorf("Expected band file does not exist: %s", filename)
		}
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("Failed to read output dir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 band files, got %d", len(entries))
	}
}
