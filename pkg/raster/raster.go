// Package raster provides binary region masks and polygon rasterization
// for selecting pixel regions out of a measurement cube.
//
// Polygons are filled with the even-odd rule on the discrete pixel grid:
// a pixel belongs to the region when its center lies inside the polygon,
// or when it is touched by one of the polygon edges. Edges are traced
// 8-connected, so thin and degenerate polygons still contribute their
// outline. There is no anti-aliasing; membership is all or nothing.
package raster

import (
	"image"
	"math"
	"sort"
)

// Mask is a binary region-of-interest raster over a pixel grid, stored
// row-major.
type Mask struct {
	// Width and Height are the grid dimensions in pixels
	Width  int
	Height int

	// Inside marks region membership per pixel, indexed y*Width+x
	Inside []bool
}

// NewMask returns an empty mask covering a width x height grid.
// Non-positive dimensions yield an empty grid.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Inside: make([]bool, width*height),
	}
}

// At reports whether pixel (x, y) belongs to the region. Coordinates
// outside the grid are never part of the region.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Inside[y*m.Width+x]
}

// Count returns the number of pixels in the region.
func (m *Mask) Count() int {
	n := 0
	for _, in := range m.Inside {
		if in {
			n++
		}
	}
	return n
}

// set marks pixel (x, y), ignoring coordinates outside the grid.
func (m *Mask) set(x, y int) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.Inside[y*m.Width+x] = true
}

// FillPolygon rasterizes the polygon with vertices verts onto a
// width x height grid and returns the resulting mask. Vertices may lie
// outside the grid; the filled region is clipped to it. A single vertex
// marks one pixel, two vertices mark the traced line, and an empty
// vertex list yields an empty mask.
func FillPolygon(width, height int, verts []image.Point) *Mask {
	m := NewMask(width, height)
	if len(verts) == 0 {
		return m
	}
	if len(verts) == 1 {
		m.set(verts[0].X, verts[0].Y)
		return m
	}

	fillInterior(m, verts)

	// Trace every edge including the closing one so boundary pixels are
	// always part of the region
	for i := range verts {
		drawLine(m, verts[i], verts[(i+1)%len(verts)])
	}
	return m
}

// fillInterior marks every pixel whose center lies inside the polygon
// under the even-odd rule. Pixel centers sit at half-integer coordinates
// while vertices are integers, so no scanline ever passes exactly through
// a vertex and crossings need no tie-breaking.
func fillInterior(m *Mask, verts []image.Point) {
	xs := make([]float64, 0, len(verts))
	for y := 0; y < m.Height; y++ {
		cy := float64(y) + 0.5

		// Collect the x coordinates where polygon edges cross this scanline
		xs = xs[:0]
		for i := range verts {
			a := verts[i]
			b := verts[(i+1)%len(verts)]
			if a.Y == b.Y {
				continue
			}
			ay, by := float64(a.Y), float64(b.Y)
			if (cy < ay) == (cy < by) {
				continue
			}
			t := (cy - ay) / (by - ay)
			xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)

		// Fill pixels whose centers fall between crossing pairs
		for i := 0; i+1 < len(xs); i += 2 {
			lo := int(math.Ceil(xs[i] - 0.5))
			hi := int(math.Floor(xs[i+1] - 0.5))
			if lo < 0 {
				lo = 0
			}
			if hi > m.Width-1 {
				hi = m.Width - 1
			}
			for x := lo; x <= hi; x++ {
				m.Inside[y*m.Width+x] = true
			}
		}
	}
}

// drawLine traces the segment from a to b with Bresenham's algorithm,
// marking every visited pixel that falls inside the grid.
func drawLine(m *Mask, a, b image.Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}

	x, y := a.X, a.Y
	err := dx + dy
	for {
		m.set(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
