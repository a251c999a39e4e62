package facts

import (
	"github.com/chazu/elements/pkg/construction"
)

// Term is a quantity that can be equal to another: a distance or an angle.
// Semantically identical terms always have identical keys.
type Term interface {
	Key() string
	String() string
	term() // marker method restricting implementations to this package
}

// DistancePair is the distance between two points, stored with the ids in
// lexicographic order so that Distance(p, q) == Distance(q, p).
type DistancePair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Distance returns the canonical pair for |pq|.
func Distance(p, q string) DistancePair {
	if q < p {
		p, q = q, p
	}
	return DistancePair{A: p, B: q}
}

func (d DistancePair) Key() string { return "d:" + d.A + "|" + d.B }

func (d DistancePair) String() string {
	return construction.LabelOf(d.A) + construction.LabelOf(d.B)
}

func (DistancePair) term() {}

// AngleMeasure is the angle at Vertex between the rays to Ray1 and Ray2,
// with the ray endpoints in lexicographic order.
type AngleMeasure struct {
	Vertex string `json:"vertex"`
	Ray1   string `json:"ray1"`
	Ray2   string `json:"ray2"`
}

// Angle returns the canonical measure of the angle ray1-vertex-ray2.
func Angle(ray1, vertex, ray2 string) AngleMeasure {
	if ray2 < ray1 {
		ray1, ray2 = ray2, ray1
	}
	return AngleMeasure{Vertex: vertex, Ray1: ray1, Ray2: ray2}
}

func (a AngleMeasure) Key() string { return "a:" + a.Vertex + "|" + a.Ray1 + "|" + a.Ray2 }

func (a AngleMeasure) String() string {
	return "∠" + construction.LabelOf(a.Ray1) + construction.LabelOf(a.Vertex) + construction.LabelOf(a.Ray2)
}

func (AngleMeasure) term() {}

func isAngle(t Term) bool {
	_, ok := t.(AngleMeasure)
	return ok
}

func degenerate(t Term) bool {
	switch v := t.(type) {
	case DistancePair:
		return v.A == v.B
	case AngleMeasure:
		return v.Ray1 == v.Vertex || v.Ray2 == v.Vertex
	default:
		return true
	}
}
