package raster

import (
	"image"
	"testing"
)

// pts is a shorthand for building vertex lists from coordinate pairs
func pts(coords ...int) []image.Point {
	verts := make([]image.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		verts = append(verts, image.Point{X: coords[i], Y: coords[i+1]})
	}
	return verts
}

// TestFillFullGridRectangle verifies that a rectangle spanning the whole
// grid marks every pixel
func TestFillFullGridRectangle(t *testing.T) {
	width, height := 8, 6
	m := FillPolygon(width, height, pts(0, 0, width-1, 0, width-1, height-1, 0, height-1))

	if got := m.Count(); got != width*height {
		t.Errorf("Expected %d pixels for full-grid rectangle, got %d", width*height, got)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !m.At(x, y) {
				t.Errorf("Expected pixel (%d,%d) inside full-grid rectangle", x, y)
			}
		}
	}
}

// TestFillTriangle verifies interior fill plus traced boundary on a
// right triangle
func TestFillTriangle(t *testing.T) {
	m := FillPolygon(5, 5, pts(0, 0, 4, 0, 0, 4))

	// The discrete triangle x+y <= 4 holds 5+4+3+2+1 pixels
	if got := m.Count(); got != 15 {
		t.Errorf("Expected 15 pixels, got %d", got)
	}

	inside := [][2]int{{0, 0}, {4, 0}, {0, 4}, {1, 1}, {2, 2}, {3, 1}, {2, 0}}
	for _, p := range inside {
		if !m.At(p[0], p[1]) {
			t.Errorf("Expected pixel (%d,%d) inside triangle", p[0], p[1])
		}
	}

	outside := [][2]int{{4, 4}, {3, 3}, {4, 1}, {1, 4}}
	for _, p := range outside {
		if m.At(p[0], p[1]) {
			t.Errorf("Expected pixel (%d,%d) outside triangle", p[0], p[1])
		}
	}
}

// TestFillConcaveNotch verifies that a concave polygon leaves its notch
// empty while both arms stay filled
func TestFillConcaveNotch(t *testing.T) {
	// Rectangle with a notch cut upward from the bottom edge between x=2 and x=4
	m := FillPolygon(7, 5, pts(0, 0, 6, 0, 6, 4, 4, 4, 4, 2, 2, 2, 2, 4, 0, 4))

	if got := m.Count(); got != 33 {
		t.Errorf("Expected 33 pixels, got %d", got)
	}

	// Notch interior stays out
	if m.At(3, 3) {
		t.Error("Expected notch pixel (3,3) outside region")
	}
	if m.At(3, 4) {
		t.Error("Expected notch pixel (3,4) outside region")
	}

	// Both arms and the region above the notch stay in
	inside := [][2]int{{1, 3}, {5, 3}, {3, 1}, {3, 2}, {2, 4}, {4, 4}}
	for _, p := range inside {
		if !m.At(p[0], p[1]) {
			t.Errorf("Expected pixel (%d,%d) inside region", p[0], p[1])
		}
	}
}

// TestFillPentagramEvenOdd verifies the even-odd rule on a
// self-intersecting polygon: the star points fill while the central
// pentagon stays empty
func TestFillPentagramEvenOdd(t *testing.T) {
	m := FillPolygon(9, 9, pts(4, 0, 7, 8, 0, 3, 8, 3, 1, 8))

	// Star points
	inside := [][2]int{{4, 1}, {2, 6}, {5, 6}, {8, 3}, {0, 3}}
	for _, p := range inside {
		if !m.At(p[0], p[1]) {
			t.Errorf("Expected star pixel (%d,%d) inside region", p[0], p[1])
		}
	}

	// Central pentagon is crossed an even number of times and stays out
	if m.At(4, 4) {
		t.Error("Expected central pixel (4,4) outside region under even-odd rule")
	}

	outside := [][2]int{{0, 0}, {8, 8}, {0, 8}}
	for _, p := range outside {
		if m.At(p[0], p[1]) {
			t.Errorf("Expected pixel (%d,%d) outside region", p[0], p[1])
		}
	}
}

// TestFillDegenerateLine verifies that a two-vertex polygon marks exactly
// the traced line
func TestFillDegenerateLine(t *testing.T) {
	m := FillPolygon(5, 5, pts(1, 1, 3, 1))

	if got := m.Count(); got != 3 {
		t.Errorf("Expected 3 pixels for degenerate line, got %d", got)
	}
	for x := 1; x <= 3; x++ {
		if !m.At(x, 1) {
			t.Errorf("Expected line pixel (%d,1) inside region", x)
		}
	}
}

// TestFillSingleVertex verifies point and empty vertex lists
func TestFillSingleVertex(t *testing.T) {
	m := FillPolygon(4, 4, pts(2, 2))
	if got := m.Count(); got != 1 {
		t.Errorf("Expected 1 pixel for single vertex, got %d", got)
	}
	if !m.At(2, 2) {
		t.Error("Expected pixel (2,2) inside region")
	}

	empty := FillPolygon(4, 4, nil)
	if got := empty.Count(); got != 0 {
		t.Errorf("Expected empty mask for no vertices, got %d pixels", got)
	}
}

// TestFillClippedToGrid verifies that off-grid vertices clip to the grid
func TestFillClippedToGrid(t *testing.T) {
	// Rectangle far larger than the grid fills everything
	m := FillPolygon(4, 4, pts(-3, -2, 10, -2, 10, 7, -3, 7))
	if got := m.Count(); got != 16 {
		t.Errorf("Expected 16 pixels for oversized rectangle, got %d", got)
	}

	// Polygon entirely off the grid fills nothing
	off := FillPolygon(4, 4, pts(-5, -5, -2, -5, -2, -2, -5, -2))
	if got := off.Count(); got != 0 {
		t.Errorf("Expected empty mask for off-grid polygon, got %d pixels", got)
	}
}

// TestMaskAt verifies bounds handling of mask queries
func TestMaskAt(t *testing.T) {
	m := NewMask(3, 2)
	m.Inside[1*3+2] = true

	if !m.At(2, 1) {
		t.Error("Expected pixel (2,1) set")
	}
	if m.At(-1, 0) || m.At(3, 0) || m.At(0, -1) || m.At(0, 2) {
		t.Error("Expected out-of-grid queries to report false")
	}
	if got := m.Count(); got != 1 {
		t.Errorf("Expected count 1, got %d", got)
	}
}
