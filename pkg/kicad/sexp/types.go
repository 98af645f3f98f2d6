// Package sexp provides shared S-expression infrastructure for KiCad
// files: geometry types and typed helpers for navigating and mutating
// parsed nodes. Modern KiCad files store lengths in millimeters and
// angles in degrees, and the types here follow that convention.
package sexp

// Position represents a 2D coordinate in millimeters.
type Position struct {
	X float64 // X coordinate in mm
	Y float64 // Y coordinate in mm
}

// Angle represents rotation in degrees.
type Angle float64

// Normalize maps the angle into [0, 360).
func (a Angle) Normalize() Angle {
	deg := float64(a)
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return Angle(deg)
}

// PositionAngle combines position with rotation.
type PositionAngle struct {
	Position
	Angle Angle
}

// Size represents dimensions in millimeters.
type Size struct {
	Width  float64
	Height float64
}

// BoundingBox represents a rectangular boundary.
type BoundingBox struct {
	Min Position // Minimum (top-left) corner
	Max Position // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1e9, Y: 1e9},
		Max: Position{X: -1e9, Y: -1e9},
	}
}

// IsEmpty checks if the bounding box is empty.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Width returns the horizontal extent.
func (bb BoundingBox) Width() float64 {
	if bb.IsEmpty() {
		return 0
	}
	return bb.Max.X - bb.Min.X
}

// Height returns the vertical extent.
func (bb BoundingBox) Height() float64 {
	if bb.IsEmpty() {
		return 0
	}
	return bb.Max.Y - bb.Min.Y
}

// Center returns the midpoint of the box.
func (bb BoundingBox) Center() Position {
	return Position{
		X: (bb.Min.X + bb.Max.X) / 2,
		Y: (bb.Min.Y + bb.Max.Y) / 2,
	}
}

// Contains checks if a position is within the bounding box.
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// Expand expands the bounding box to include a position.
func (bb *BoundingBox) Expand(pos Position) {
	if pos.X < bb.Min.X {
		bb.Min.X = pos.X
	}
	if pos.Y < bb.Min.Y {
		bb.Min.Y = pos.Y
	}
	if pos.X > bb.Max.X {
		bb.Max.X = pos.X
	}
	if pos.Y > bb.Max.Y {
		bb.Max.Y = pos.Y
	}
}

// ExpandBox expands to include another bounding box.
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}
