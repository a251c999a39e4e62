package proof

import (
	"github.com/chazu/elements/pkg/construction"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// GhostElement is one hidden auxiliary element of a macro. For a point A is
// its position; for a segment A and B are its endpoints; for a circle A is
// the centre and B the radius point.
type GhostElement struct {
	Kind  construction.Kind `json:"kind" yaml:"kind"`
	Label string            `json:"label,omitempty" yaml:"label,omitempty"`
	A     v2.Vec            `json:"a" yaml:"a"`
	B     v2.Vec            `json:"b" yaml:"b"`
}

// GhostLayer is the hidden construction behind one macro application.
// Depth 1 is a macro applied directly by the proof; each nested macro adds
// one.
type GhostLayer struct {
	PropID   string         `json:"prop_id" yaml:"prop_id"`
	Depth    int            `json:"depth" yaml:"depth"`
	AtStep   int            `json:"at_step" yaml:"at_step"`
	Elements []GhostElement `json:"elements" yaml:"elements"`
}

// ghostsOf converts every element of s that is not given into ghost
// elements, in creation order.
func ghostsOf(s construction.State) []GhostElement {
	var out []GhostElement
	for _, e := range s.Elements() {
		switch e := e.(type) {
		case construction.Point:
			if e.Origin == construction.OriginGiven {
				continue
			}
			out = append(out, GhostElement{Kind: construction.KindPoint, Label: e.Label, A: e.Pos(), B: e.Pos()})
		case construction.Segment:
			if e.Origin == construction.OriginGiven {
				continue
			}
			from, ok1 := s.Point(e.FromID)
			to, ok2 := s.Point(e.ToID)
			if !ok1 || !ok2 {
				continue
			}
			out = append(out, GhostElement{Kind: construction.KindSegment, A: from.Pos(), B: to.Pos()})
		case construction.Circle:
			if e.Origin == construction.OriginGiven {
				continue
			}
			center, ok1 := s.Point(e.CenterID)
			through, ok2 := s.Point(e.RadiusPointID)
			if !ok1 || !ok2 {
				continue
			}
			out = append(out, GhostElement{Kind: construction.KindCircle, A: center.Pos(), B: through.Pos()})
		}
	}
	return out
}

// LayersAt returns the layers at the given depth.
func LayersAt(layers []GhostLayer, depth int) []GhostLayer {
	var out []GhostLayer
	for _, l := range layers {
		if l.Depth == depth {
			out = append(out, l)
		}
	}
	return out
}

// MaxDepth returns the deepest layer's depth, or 0 without layers.
func MaxDepth(layers []GhostLayer) int {
	deepest := 0
	for _, l := range layers {
		if l.Depth > deepest {
			deepest = l.Depth
		}
	}
	return deepest
}
