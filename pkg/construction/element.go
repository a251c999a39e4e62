package construction

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Kind enumerates the kinds of construction elements.
type Kind int

const (
	KindPoint Kind = iota
	KindSegment
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindSegment:
		return "segment"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// MarshalText encodes a Kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Origin records which tool (or which input) produced an element.
type Origin int

const (
	OriginGiven        Origin = iota // supplied by the proposition
	OriginCompass                    // Postulate 3
	OriginStraightedge               // Postulates 1 and 2
	OriginIntersection               // promoted intersection candidate
	OriginFree                       // placed freely by the user
)

func (o Origin) String() string {
	switch o {
	case OriginGiven:
		return "given"
	case OriginCompass:
		return "compass"
	case OriginStraightedge:
		return "straightedge"
	case OriginIntersection:
		return "intersection"
	case OriginFree:
		return "free"
	default:
		return "unknown"
	}
}

// MarshalText encodes an Origin by name.
func (o Origin) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Element is the closed set of things that can appear in a construction.
type Element interface {
	ElementID() string
	Kind() Kind
	element() // marker method restricting implementations to this package
}

// Point is a labelled location.
type Point struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Origin Origin  `json:"origin"`
}

func (p Point) ElementID() string { return p.ID }
func (Point) Kind() Kind          { return KindPoint }
func (Point) element()            {}

// Pos returns the point as a 2D vector.
func (p Point) Pos() v2.Vec {
	return v2.Vec{X: p.X, Y: p.Y}
}

// Segment joins two points. Whether it is treated as bounded or as a
// produced line is decided by the intersection engine, not stored here.
type Segment struct {
	ID     string `json:"id"`
	FromID string `json:"from"`
	ToID   string `json:"to"`
	Color  string `json:"color"`
	Origin Origin `json:"origin"`
}

func (s Segment) ElementID() string { return s.ID }
func (Segment) Kind() Kind          { return KindSegment }
func (Segment) element()            {}

// HasEndpoint reports whether id is one of the segment's endpoints.
func (s Segment) HasEndpoint(id string) bool {
	return s.FromID == id || s.ToID == id
}

// Other returns the endpoint opposite id.
func (s Segment) Other(id string) string {
	if s.FromID == id {
		return s.ToID
	}
	return s.FromID
}

// Circle is drawn about CenterID through RadiusPointID.
type Circle struct {
	ID            string `json:"id"`
	CenterID      string `json:"center"`
	RadiusPointID string `json:"radius_point"`
	Color         string `json:"color"`
	Origin        Origin `json:"origin"`
}

func (c Circle) ElementID() string { return c.ID }
func (Circle) Kind() Kind          { return KindCircle }
func (Circle) element()            {}
