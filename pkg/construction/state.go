// Package construction holds the immutable straightedge-and-compass state:
// points, segments and circles plus the label and colour allocators.
//
// State is a value. Every mutator takes a State and returns a new one; the
// input is never modified, so snapshots can share states freely.
package construction

import "fmt"

// GivenColor is used for given and free points. It does not consume a
// palette slot.
const GivenColor = "#222222"

// Palette is cycled for every constructed element.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// State is the construction so far.
type State struct {
	elements       []Element
	nextLabelIndex int
	nextColorIndex int
}

// New returns an empty state.
func New() State {
	return State{}
}

// Len returns the number of elements.
func (s State) Len() int {
	return len(s.elements)
}

// NextLabelIndex is the index the next auto-labelled point will use.
func (s State) NextLabelIndex() int {
	return s.nextLabelIndex
}

// NextLabel is the label the next auto-labelled point will receive.
func (s State) NextLabel() string {
	return LabelAt(s.nextLabelIndex)
}

// NextColorIndex is the palette cursor.
func (s State) NextColorIndex() int {
	return s.nextColorIndex
}

// Elements returns a copy of the ordered element list.
func (s State) Elements() []Element {
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s State) with(e Element) State {
	next := make([]Element, len(s.elements), len(s.elements)+1)
	copy(next, s.elements)
	s.elements = append(next, e)
	return s
}

func (s State) count(k Kind) int {
	n := 0
	for _, e := range s.elements {
		if e.Kind() == k {
			n++
		}
	}
	return n
}

func (s State) takeColor() (State, string) {
	c := Palette[s.nextColorIndex%len(Palette)]
	s.nextColorIndex++
	return s, c
}

// advanceLabel returns the label a point should receive and the state with
// the label cursor moved past it.
func (s State) advanceLabel(explicit string) (State, string) {
	if explicit == "" {
		label := LabelAt(s.nextLabelIndex)
		s.nextLabelIndex++
		return s, label
	}
	if idx, ok := LabelIndex(explicit); ok && idx+1 > s.nextLabelIndex {
		s.nextLabelIndex = idx + 1
	}
	return s, explicit
}

// AddPoint appends a point. An empty label asks for the next auto-label; an
// explicit label pushes the auto-label cursor past it so later auto-labels
// never collide with it.
func AddPoint(s State, x, y float64, origin Origin, label string) (State, Point) {
	s, label = s.advanceLabel(label)
	color := GivenColor
	if origin != OriginGiven && origin != OriginFree {
		s, color = s.takeColor()
	}
	p := Point{
		ID:     PointID(label),
		Label:  label,
		X:      x,
		Y:      y,
		Color:  color,
		Origin: origin,
	}
	return s.with(p), p
}

// SkipPointLabel advances the label and colour cursors exactly as AddPoint
// would for a constructed point, without adding anything. Replay uses it
// when an expected intersection no longer exists so that later labels match
// a successful run.
func SkipPointLabel(s State, label string) State {
	s, _ = s.advanceLabel(label)
	s, _ = s.takeColor()
	return s
}

// AddSegment appends a segment between two points.
func AddSegment(s State, fromID, toID string, origin Origin) (State, Segment) {
	id := fmt.Sprintf("seg-%d", s.count(KindSegment))
	s, color := s.takeColor()
	seg := Segment{ID: id, FromID: fromID, ToID: toID, Color: color, Origin: origin}
	return s.with(seg), seg
}

// AddCircle appends a circle about centerID through radiusPointID.
func AddCircle(s State, centerID, radiusPointID string, origin Origin) (State, Circle) {
	id := fmt.Sprintf("cir-%d", s.count(KindCircle))
	s, color := s.takeColor()
	c := Circle{ID: id, CenterID: centerID, RadiusPointID: radiusPointID, Color: color, Origin: origin}
	return s.with(c), c
}

// Element returns the element with the given id.
func (s State) Element(id string) (Element, bool) {
	for _, e := range s.elements {
		if e.ElementID() == id {
			return e, true
		}
	}
	return nil, false
}

// Point returns the point with the given id.
func (s State) Point(id string) (Point, bool) {
	e, ok := s.Element(id)
	if !ok {
		return Point{}, false
	}
	p, ok := e.(Point)
	return p, ok
}

// Segment returns the segment with the given id.
func (s State) Segment(id string) (Segment, bool) {
	e, ok := s.Element(id)
	if !ok {
		return Segment{}, false
	}
	seg, ok := e.(Segment)
	return seg, ok
}

// Circle returns the circle with the given id.
func (s State) Circle(id string) (Circle, bool) {
	e, ok := s.Element(id)
	if !ok {
		return Circle{}, false
	}
	c, ok := e.(Circle)
	return c, ok
}

// Points returns all points in creation order.
func (s State) Points() []Point {
	var out []Point
	for _, e := range s.elements {
		if p, ok := e.(Point); ok {
			out = append(out, p)
		}
	}
	return out
}

// Segments returns all segments in creation order.
func (s State) Segments() []Segment {
	var out []Segment
	for _, e := range s.elements {
		if seg, ok := e.(Segment); ok {
			out = append(out, seg)
		}
	}
	return out
}

// Circles returns all circles in creation order.
func (s State) Circles() []Circle {
	var out []Circle
	for _, e := range s.elements {
		if c, ok := e.(Circle); ok {
			out = append(out, c)
		}
	}
	return out
}

// Radius returns the radius of c, computed from its current points.
func (s State) Radius(c Circle) (float64, bool) {
	center, ok := s.Point(c.CenterID)
	if !ok {
		return 0, false
	}
	through, ok := s.Point(c.RadiusPointID)
	if !ok {
		return 0, false
	}
	return through.Pos().Sub(center.Pos()).Length(), true
}
