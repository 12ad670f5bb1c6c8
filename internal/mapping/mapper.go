// Package mapping projects normalized hand positions onto physical screen
// coordinates, including multi-monitor desktop layouts.
package mapping

import "math"

// Point is a 2D point. In normalized space the unit square [0,1]x[0,1] has
// its origin at the bottom-left with Y increasing upward. In screen space
// the origin is at the top-left with Y increasing downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle in screen coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether p lies inside the rectangle. The left and top
// edges are inclusive, the right and bottom edges exclusive, so adjacent
// monitors never both claim a point on their shared edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Clamp restricts p to lie within the rectangle's bounds, inclusive.
func Clamp(p Point, r Rect) Point {
	if p.X < r.X {
		p.X = r.X
	}
	if p.X > r.X+r.W {
		p.X = r.X + r.W
	}
	if p.Y < r.Y {
		p.Y = r.Y
	}
	if p.Y > r.Y+r.H {
		p.Y = r.Y + r.H
	}
	return p
}

// Geometry describes the current set of displays. Rects are ordered as the
// OS reports them; Primary indexes the display used as a fallback when a
// mapped point falls outside every display.
type Geometry struct {
	Rects   []Rect
	Primary int
}

// Bounds returns the bounding rectangle of the union of all displays.
// A single continuous normalized range spans this full extent, so a hand
// sweep covers the whole desktop even across monitors.
func (g Geometry) Bounds() Rect {
	if len(g.Rects) == 0 {
		return Rect{}
	}

	minX, minY := g.Rects[0].X, g.Rects[0].Y
	maxX, maxY := g.Rects[0].X+g.Rects[0].W, g.Rects[0].Y+g.Rects[0].H

	for _, r := range g.Rects[1:] {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.W)
		maxY = math.Max(maxY, r.Y+r.H)
	}

	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Map projects a normalized point onto the union of all displays,
// inverting the Y axis.
func (g Geometry) Map(p Point) Point {
	return MapTo(p, g.Bounds())
}

// MapTo projects a normalized point onto a single target rectangle.
func MapTo(p Point, r Rect) Point {
	return Point{
		X: p.X*r.W + r.X,
		Y: (1-p.Y)*r.H + r.Y,
	}
}

// RectContaining returns the display rectangle containing p, or the
// primary display when no display contains it.
func (g Geometry) RectContaining(p Point) Rect {
	for _, r := range g.Rects {
		if r.Contains(p) {
			return r
		}
	}
	if g.Primary >= 0 && g.Primary < len(g.Rects) {
		return g.Rects[g.Primary]
	}
	return g.Bounds()
}
