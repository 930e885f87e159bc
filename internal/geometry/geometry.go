// Package geometry provides the float rectangle and point math shared by the
// overlay engine, the recognizers and the renderer.
//
// All values are in pixels with the standard image convention: origin at the
// top-left corner, X increasing rightward and Y increasing downward. A Rect is
// described by its top-left corner plus width and height, the same shape the
// recognizers report word boxes in.
package geometry

import (
	"image"
	"math"
)

// Point is a 2D position.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns Width × Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Scale multiplies position and size by independent X and Y factors.
//
// The origin is the scale center, so (10,20,30,40) scaled by (2, 0.5)
// becomes (20,10,60,20).
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{
		X:      r.X * sx,
		Y:      r.Y * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}
}

// Clamp returns r with negative width or height replaced by zero.
func (r Rect) Clamp() Rect {
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
}

// RotatedCorners returns the corners of r after rotating it by angle degrees
// around center. Positive angles rotate clockwise on screen (Y points down).
func (r Rect) RotatedCorners(angle float64, center Point) [4]Point {
	corners := r.Corners()
	for i, c := range corners {
		corners[i] = RotatePoint(c, angle, center)
	}
	return corners
}

// ImageRect converts r to an integer image.Rectangle, rounding outward.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())),
		int(math.Ceil(r.Bottom())),
	)
}

// FromImageRect converts an image.Rectangle into a Rect.
func FromImageRect(ir image.Rectangle) Rect {
	ir = ir.Canon()
	return Rect{
		X:      float64(ir.Min.X),
		Y:      float64(ir.Min.Y),
		Width:  float64(ir.Dx()),
		Height: float64(ir.Dy()),
	}
}

// FromCorners builds a Rect from an (x1,y1)-(x2,y2) box such as the hOCR
// "bbox" property.
func FromCorners(x1, y1, x2, y2 float64) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Union returns the smallest rectangle covering every rect in rects.
// The boolean is false when rects is empty.
func Union(rects ...Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}

	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Midpoint returns the center of a surface of the given size anchored at the
// origin.
func Midpoint(width, height float64) Point {
	return Point{X: width / 2, Y: height / 2}
}

// RotatePoint rotates p by angle degrees around center.
func RotatePoint(p Point, angle float64, center Point) Point {
	if angle == 0 {
		return p
	}
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}
