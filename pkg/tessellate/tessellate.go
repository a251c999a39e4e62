// Package tessellate walks a construction and its ghost layers and produces
// polylines for a renderer. Circles are approximated by regular polygons.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/kernel"
	"github.com/chazu/elements/pkg/proof"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// DefaultCircleSegments is used when Tessellate is given a non-positive
// segment count.
const DefaultCircleSegments = 64

// Polyline is one drawable element.
type Polyline struct {
	// ElementID is empty for ghost geometry.
	ElementID string            `json:"element_id,omitempty" yaml:"element_id,omitempty"`
	Kind      construction.Kind `json:"kind" yaml:"kind"`
	Color     string            `json:"color,omitempty" yaml:"color,omitempty"`
	// Depth is 0 for the real construction and the macro depth for ghosts.
	Depth  int      `json:"depth" yaml:"depth"`
	PropID string   `json:"prop_id,omitempty" yaml:"prop_id,omitempty"`
	Points []v2.Vec `json:"points" yaml:"points"`
	Closed bool     `json:"closed" yaml:"closed"`
}

// Marker is a labelled point.
type Marker struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Label string `json:"label" yaml:"label"`
	Pos   v2.Vec `json:"pos" yaml:"pos"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	Depth int    `json:"depth" yaml:"depth"`
}

// Scene is everything a frame needs to draw.
type Scene struct {
	Lines   []Polyline `json:"lines" yaml:"lines"`
	Markers []Marker   `json:"markers" yaml:"markers"`
	Bounds  kernel.Box `json:"bounds" yaml:"bounds"`
}

// Ghosts returns the lines drawn at ghost depth d.
func (sc *Scene) Ghosts(d int) []Polyline {
	var out []Polyline
	for _, l := range sc.Lines {
		if l.Depth == d {
			out = append(out, l)
		}
	}
	return out
}

// Tessellate produces the scene for s and its ghost layers. Bounds cover
// the real construction only, so ghosts never move the viewport. The
// tessellator is read-only and never mutates the state.
func Tessellate(s construction.State, ghosts []proof.GhostLayer, k kernel.Kernel, segments int) (*Scene, error) {
	if segments <= 0 {
		segments = DefaultCircleSegments
	}
	sc := &Scene{}
	var points []v2.Vec
	var circles []kernel.Circle

	for _, e := range s.Elements() {
		switch e := e.(type) {
		case construction.Point:
			sc.Markers = append(sc.Markers, Marker{ID: e.ID, Label: e.Label, Pos: e.Pos(), Color: e.Color})
			points = append(points, e.Pos())

		case construction.Segment:
			from, ok1 := s.Point(e.FromID)
			to, ok2 := s.Point(e.ToID)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("tessellate: segment %s: missing endpoint", e.ID)
			}
			sc.Lines = append(sc.Lines, Polyline{
				ElementID: e.ID,
				Kind:      construction.KindSegment,
				Color:     e.Color,
				Points:    []v2.Vec{from.Pos(), to.Pos()},
			})

		case construction.Circle:
			center, ok := s.Point(e.CenterID)
			r, rok := s.Radius(e)
			if !ok || !rok {
				return nil, fmt.Errorf("tessellate: circle %s: missing centre or radius point", e.ID)
			}
			sc.Lines = append(sc.Lines, Polyline{
				ElementID: e.ID,
				Kind:      construction.KindCircle,
				Color:     e.Color,
				Points:    ring(center.Pos(), r, segments),
				Closed:    true,
			})
			circles = append(circles, kernel.Circle{Center: center.Pos(), Radius: r})

		default:
			return nil, fmt.Errorf("tessellate: unknown element %T", e)
		}
	}

	for _, layer := range ghosts {
		for _, g := range layer.Elements {
			handleGhost(sc, layer, g, segments)
		}
	}

	if len(points) > 0 || len(circles) > 0 {
		sc.Bounds = k.Bounds(points, circles)
	}
	return sc, nil
}

// handleGhost appends one ghost element to the scene.
func handleGhost(sc *Scene, layer proof.GhostLayer, g proof.GhostElement, segments int) {
	switch g.Kind {
	case construction.KindPoint:
		sc.Markers = append(sc.Markers, Marker{Label: g.Label, Pos: g.A, Depth: layer.Depth})
	case construction.KindSegment:
		sc.Lines = append(sc.Lines, Polyline{
			Kind:   construction.KindSegment,
			Depth:  layer.Depth,
			PropID: layer.PropID,
			Points: []v2.Vec{g.A, g.B},
		})
	case construction.KindCircle:
		sc.Lines = append(sc.Lines, Polyline{
			Kind:   construction.KindCircle,
			Depth:  layer.Depth,
			PropID: layer.PropID,
			Points: ring(g.A, g.B.Sub(g.A).Length(), segments),
			Closed: true,
		})
	}
}

// ring returns n points evenly spaced on the circle, starting at angle 0.
func ring(center v2.Vec, r float64, n int) []v2.Vec {
	out := make([]v2.Vec, n)
	for i := range out {
		theta := 2 * math.Pi * float64(i) / float64(n)
		out[i] = v2.Vec{X: center.X + r*math.Cos(theta), Y: center.Y + r*math.Sin(theta)}
	}
	return out
}
