package model

import "math"

// BBox represents a bounding box in device space.
// The origin is the top-left corner of the page and Y grows downward.
type BBox struct {
	X      float64 // Left
	Y      float64 // Top
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromCorners creates a bounding box from its min and max corners,
// in whichever order they are given.
func NewBBoxFromCorners(x1, y1, x2, y2 float64) BBox {
	x := math.Min(x1, x2)
	y := math.Min(y1, y2)
	return BBox{X: x, Y: y, Width: math.Abs(x2 - x1), Height: math.Abs(y2 - y1)}
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Union returns the smallest box covering both boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.X, other.X)
	y := math.Min(b.Y, other.Y)
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Scale multiplies the box horizontally by sx and vertically by sy.
func (b BBox) Scale(sx, sy float64) BBox {
	return BBox{
		X:      b.X * sx,
		Y:      b.Y * sy,
		Width:  b.Width * sx,
		Height: b.Height * sy,
	}
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}
