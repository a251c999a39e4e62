package proposition

import (
	"fmt"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/selector"
)

// walker follows a definition's steps symbolically, allocating labels and
// element ids the way a construction would, without any geometry.
type walker struct {
	lib       Library
	points    map[string]bool
	elements  map[string]bool
	circles   map[[2]string]bool
	segments  map[[2]string]bool
	nextLabel int
	nSegments int
	nCircles  int
}

func newWalker(lib Library) *walker {
	return &walker{
		lib:      lib,
		points:   make(map[string]bool),
		elements: make(map[string]bool),
		circles:  make(map[[2]string]bool),
		segments: make(map[[2]string]bool),
	}
}

func segKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// point allocates a point label exactly as construction.AddPoint would.
func (w *walker) point(label string) string {
	if label == "" {
		label = construction.LabelAt(w.nextLabel)
		w.nextLabel++
	} else if idx, ok := construction.LabelIndex(label); ok && idx+1 > w.nextLabel {
		w.nextLabel = idx + 1
	}
	id := construction.PointID(label)
	w.points[id] = true
	return id
}

func (w *walker) segment(from, to string) {
	w.elements[fmt.Sprintf("seg-%d", w.nSegments)] = true
	w.nSegments++
	w.segments[segKey(from, to)] = true
}

func (w *walker) circle(center, through string) {
	w.elements[fmt.Sprintf("cir-%d", w.nCircles)] = true
	w.nCircles++
	w.circles[[2]string{center, through}] = true
}

// given seeds the walker with the definition's given elements.
func (w *walker) given(d *Def) {
	for _, g := range d.Givens {
		switch g.Kind {
		case construction.KindPoint:
			w.point(g.Label)
		case construction.KindSegment:
			w.segment(g.FromID, g.ToID)
		case construction.KindCircle:
			w.circle(g.CenterID, g.RadiusPointID)
		}
	}
}

func (w *walker) resolves(sel selector.Selector) bool {
	switch sel.Kind {
	case selector.CircleKind:
		return w.circles[[2]string{sel.CenterID, sel.RadiusPointID}]
	case selector.SegmentKind:
		return w.segments[segKey(sel.FromID, sel.ToID)]
	default:
		return w.elements[sel.ID] || w.points[sel.ID]
	}
}

// apply advances the walker over one action and returns the ids of the
// points it introduces.
func (w *walker) apply(a Action) []string {
	switch a := a.(type) {
	case DrawCircle:
		w.circle(a.CenterID, a.RadiusPointID)
	case DrawSegment:
		w.segment(a.FromID, a.ToID)
	case MarkIntersection:
		return []string{w.point(a.Label)}
	case PlacePoint:
		return []string{w.point(a.Label)}
	case ApplyMacro:
		macro, ok := w.lib.Lookup(a.PropID)
		if !ok || !macro.IsMacro() {
			return nil
		}
		local := make(map[string]string)
		for i, in := range macro.InputIDs() {
			if i < len(a.Inputs) {
				local[in] = a.Inputs[i]
			}
		}
		var out []string
		for i, o := range macro.Macro.Outputs {
			label := ""
			if i < len(a.Labels) {
				label = a.Labels[i]
			}
			id := w.point(label)
			local[o] = id
			out = append(out, id)
		}
		for _, seg := range macro.Macro.OutputSegments {
			w.segment(local[seg[0]], local[seg[1]])
		}
		return out
	}
	return nil
}

// Introduced returns, for each step of d, the ids of the points the step
// introduces.
func Introduced(d *Def, lib Library) [][]string {
	w := newWalker(lib)
	w.given(d)
	out := make([][]string, len(d.Steps))
	for i, st := range d.Steps {
		out[i] = w.apply(st.Action)
	}
	return out
}
