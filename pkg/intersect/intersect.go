// Package intersect finds the real intersection points a newly drawn
// element makes with the existing construction, and holds the policies
// used to pick one of them.
package intersect

import (
	"math"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Epsilon is the absolute coincidence tolerance, applied per coordinate.
const Epsilon = 1e-3

// Candidate is an intersection that has been found but not yet promoted
// to a point. Which distinguishes the roots of one two-root system.
type Candidate struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	OfA   string  `json:"of_a"`
	OfB   string  `json:"of_b"`
	Which int     `json:"which"`
}

// Pos returns the candidate as a vector.
func (c Candidate) Pos() v2.Vec {
	return v2.Vec{X: c.X, Y: c.Y}
}

// Of reports whether the candidate was produced by elements a and b, in
// either order.
func (c Candidate) Of(a, b string) bool {
	return (c.OfA == a && c.OfB == b) || (c.OfA == b && c.OfB == a)
}

// Coincident reports whether two positions are within Epsilon on both axes.
func Coincident(a, b v2.Vec) bool {
	return math.Abs(a.X-b.X) < Epsilon && math.Abs(a.Y-b.Y) < Epsilon
}

// Find intersects newElem with every earlier circle and segment in s.
// With extend set, segments are treated as produced (infinite) lines;
// otherwise roots must lie on the bounded segment.
//
// Only new candidates are returned: roots that coincide with a known
// candidate, an existing point, or an earlier root of this call are
// dropped. newElem must already be part of s.
func Find(k kernel.Kernel, s construction.State, newElem construction.Element, known []Candidate, extend bool) []Candidate {
	if newElem == nil || newElem.Kind() == construction.KindPoint {
		return nil
	}

	var found []Candidate
	seen := func(p v2.Vec) bool {
		for _, c := range known {
			if Coincident(c.Pos(), p) {
				return true
			}
		}
		for _, c := range found {
			if Coincident(c.Pos(), p) {
				return true
			}
		}
		for _, pt := range s.Points() {
			if Coincident(pt.Pos(), p) {
				return true
			}
		}
		return false
	}

	for _, other := range s.Elements() {
		if other.ElementID() == newElem.ElementID() {
			break // only elements drawn before newElem
		}
		if other.Kind() == construction.KindPoint {
			continue
		}
		for _, r := range roots(k, s, other, newElem, extend) {
			if seen(r.pos) {
				continue
			}
			found = append(found, Candidate{
				X:     r.pos.X,
				Y:     r.pos.Y,
				OfA:   other.ElementID(),
				OfB:   newElem.ElementID(),
				Which: r.which,
			})
		}
	}
	return found
}

type root struct {
	which int
	pos   v2.Vec
}

// roots returns the real intersections of a and b in solver order. A root
// dropped by the bounded-segment policy keeps its solver index, so Which
// does not shift when its sibling falls outside the segment.
func roots(k kernel.Kernel, s construction.State, a, b construction.Element, extend bool) []root {
	var out []root
	// Normalise so circles come first.
	if a.Kind() == construction.KindSegment && b.Kind() == construction.KindCircle {
		a, b = b, a
	}

	switch ea := a.(type) {
	case construction.Circle:
		ca, ok := circleOf(s, ea)
		if !ok {
			return out
		}
		switch eb := b.(type) {
		case construction.Circle:
			cb, ok := circleOf(s, eb)
			if !ok {
				return out
			}
			for i, p := range k.CircleCircle(ca, cb) {
				out = append(out, root{which: i, pos: p})
			}
		case construction.Segment:
			lb, ok := lineOf(s, eb)
			if !ok {
				return out
			}
			for i, r := range k.CircleLine(ca, lb) {
				if extend || onSegment(r.T) {
					out = append(out, root{which: i, pos: r.Pos})
				}
			}
		}
	case construction.Segment:
		la, ok := lineOf(s, ea)
		if !ok {
			return out
		}
		eb, ok := b.(construction.Segment)
		if !ok {
			return out
		}
		lb, ok := lineOf(s, eb)
		if !ok {
			return out
		}
		if r, ok := k.LineLine(la, lb); ok && (extend || (onSegment(r.T) && onSegment(r.U))) {
			out = append(out, root{which: 0, pos: r.Pos})
		}
	}
	return out
}

// onSegment accepts parameters within the closed unit interval, widened by
// a small slack so roots at an endpoint are not lost to rounding.
func onSegment(t float64) bool {
	const slack = 1e-9
	return t >= -slack && t <= 1+slack
}

func circleOf(s construction.State, c construction.Circle) (kernel.Circle, bool) {
	center, ok := s.Point(c.CenterID)
	if !ok {
		return kernel.Circle{}, false
	}
	r, ok := s.Radius(c)
	if !ok {
		return kernel.Circle{}, false
	}
	return kernel.Circle{Center: center.Pos(), Radius: r}, true
}

func lineOf(s construction.State, seg construction.Segment) (kernel.Line, bool) {
	from, ok := s.Point(seg.FromID)
	if !ok {
		return kernel.Line{}, false
	}
	to, ok := s.Point(seg.ToID)
	if !ok {
		return kernel.Line{}, false
	}
	return kernel.Line{P: from.Pos(), Q: to.Pos()}, true
}
