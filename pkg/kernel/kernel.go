// Package kernel defines the abstract 2D geometry kernel interface.
// Implementations solve the primitive intersection systems of
// straightedge-and-compass geometry behind this interface, so the
// intersection engine never depends on a particular vector library.
package kernel

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Circle is a circle by centre and radius.
type Circle struct {
	Center v2.Vec
	Radius float64
}

// Line is the line through P and Q. Parameters are measured along P→Q:
// t=0 at P, t=1 at Q.
type Line struct {
	P, Q v2.Vec
}

// At returns the point at parameter t.
func (l Line) At(t float64) v2.Vec {
	return l.P.Add(l.Q.Sub(l.P).MulScalar(t))
}

// LineRoot is an intersection lying on a line, with its parameter.
type LineRoot struct {
	Pos v2.Vec
	T   float64
}

// CrossRoot is a line–line intersection with the parameter on each line.
type CrossRoot struct {
	Pos  v2.Vec
	T, U float64
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max v2.Vec
}

// Kernel is the abstract geometry kernel interface.
//
// Every solver returns its roots in a fixed order that depends only on the
// inputs, never on map iteration or randomness; callers index roots by
// position to obtain a reproducible disambiguation.
type Kernel interface {
	// CircleCircle returns 0, 1 (tangent) or 2 roots.
	CircleCircle(a, b Circle) []v2.Vec
	// CircleLine returns 0, 1 or 2 roots ordered by increasing T.
	CircleLine(c Circle, l Line) []LineRoot
	// LineLine returns the crossing point; ok is false for parallel or
	// degenerate lines.
	LineLine(a, b Line) (root CrossRoot, ok bool)
	// Bounds returns the box enclosing the points and circles.
	Bounds(points []v2.Vec, circles []Circle) Box
}
