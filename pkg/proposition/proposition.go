// Package proposition describes constructions as data: the given elements,
// the ordered steps a student must perform, the facts granted by
// hypothesis, and, for propositions usable as macros, what a caller gets
// back.
package proposition

import (
	"fmt"
	"slices"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/selector"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ActionKind enumerates the action types.
type ActionKind int

const (
	ActionDrawCircle ActionKind = iota
	ActionDrawSegment
	ActionMarkIntersection
	ActionApplyMacro
	ActionPlacePoint
)

func (k ActionKind) String() string {
	switch k {
	case ActionDrawCircle:
		return "circle"
	case ActionDrawSegment:
		return "segment"
	case ActionMarkIntersection:
		return "intersection"
	case ActionApplyMacro:
		return "macro"
	case ActionPlacePoint:
		return "point"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is the closed set of things a step can ask for.
type Action interface {
	Kind() ActionKind
	// PointIDs lists the points the action refers to.
	PointIDs() []string
	action() // marker method restricting implementations to this package
}

// DrawCircle draws the circle about CenterID through RadiusPointID.
type DrawCircle struct {
	CenterID      string `json:"center"`
	RadiusPointID string `json:"radius_point"`
}

// DrawSegment joins FromID to ToID.
type DrawSegment struct {
	FromID string `json:"from"`
	ToID   string `json:"to"`
}

// MarkIntersection promotes an intersection of A and B to a point. With
// BeyondID set, the root past that point on the parent segment is taken;
// otherwise the highest one. Label is optional.
type MarkIntersection struct {
	A        selector.Selector `json:"a"`
	B        selector.Selector `json:"b"`
	BeyondID string            `json:"beyond,omitempty"`
	Label    string            `json:"label,omitempty"`
}

// ApplyMacro applies a proved proposition to Inputs. Labels optionally
// name the output points, in order.
type ApplyMacro struct {
	PropID string   `json:"prop"`
	Inputs []string `json:"inputs"`
	Labels []string `json:"labels,omitempty"`
}

// PlacePoint puts a free point at X, Y.
type PlacePoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

func (DrawCircle) Kind() ActionKind       { return ActionDrawCircle }
func (DrawSegment) Kind() ActionKind      { return ActionDrawSegment }
func (MarkIntersection) Kind() ActionKind { return ActionMarkIntersection }
func (ApplyMacro) Kind() ActionKind       { return ActionApplyMacro }
func (PlacePoint) Kind() ActionKind       { return ActionPlacePoint }

func (a DrawCircle) PointIDs() []string  { return []string{a.CenterID, a.RadiusPointID} }
func (a DrawSegment) PointIDs() []string { return []string{a.FromID, a.ToID} }
func (a ApplyMacro) PointIDs() []string  { return append([]string(nil), a.Inputs...) }
func (PlacePoint) PointIDs() []string    { return nil }

func (a MarkIntersection) PointIDs() []string {
	ids := append(a.A.PointIDs(), a.B.PointIDs()...)
	if a.BeyondID != "" {
		ids = append(ids, a.BeyondID)
	}
	return ids
}

func (DrawCircle) action()       {}
func (DrawSegment) action()      {}
func (MarkIntersection) action() {}
func (ApplyMacro) action()       {}
func (PlacePoint) action()       {}

// Step is one expected action with the citation that licenses it.
type Step struct {
	Action       Action   `json:"action"`
	Citation     string   `json:"citation,omitempty"`
	HighlightIDs []string `json:"highlight,omitempty"`
}

// GivenElement seeds the construction. Points carry a label and a default
// position; segments and circles refer to given points by id.
type GivenElement struct {
	Kind          construction.Kind `json:"kind"`
	Label         string            `json:"label,omitempty"`
	X             float64           `json:"x,omitempty"`
	Y             float64           `json:"y,omitempty"`
	FromID        string            `json:"from,omitempty"`
	ToID          string            `json:"to,omitempty"`
	CenterID      string            `json:"center,omitempty"`
	RadiusPointID string            `json:"radius_point,omitempty"`
}

// GivenPoint returns a given point at its default position.
func GivenPoint(label string, x, y float64) GivenElement {
	return GivenElement{Kind: construction.KindPoint, Label: label, X: x, Y: y}
}

// GivenSegment returns a given segment between two given points.
func GivenSegment(fromID, toID string) GivenElement {
	return GivenElement{Kind: construction.KindSegment, FromID: fromID, ToID: toID}
}

// GivenCircle returns a given circle.
func GivenCircle(centerID, radiusPointID string) GivenElement {
	return GivenElement{Kind: construction.KindCircle, CenterID: centerID, RadiusPointID: radiusPointID}
}

// GivenFact is an equality granted by hypothesis.
type GivenFact struct {
	Left  facts.Term `json:"left"`
	Right facts.Term `json:"right"`
}

// MacroSpec describes what a proposition yields when applied as a macro.
// Every id is local to the proposition: inputs are its given points in
// order.
type MacroSpec struct {
	Outputs        []string         `json:"outputs"`
	OutputSegments [][2]string      `json:"output_segments,omitempty"`
	Results        []facts.Equality `json:"results,omitempty"`
}

// Def is a proposition: what is given, what to do, and what follows.
type Def struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Extend     bool           `json:"extend"`
	Givens     []GivenElement `json:"givens"`
	GivenFacts []GivenFact    `json:"given_facts,omitempty"`
	Steps      []Step         `json:"steps"`
	// ConclusionID names the conclusion rule run once every step succeeds.
	// Empty means none.
	ConclusionID string     `json:"conclusion,omitempty"`
	Macro        *MacroSpec `json:"macro,omitempty"`
}

// InputIDs returns the ids of the given points in order. These are the
// inputs when the proposition is applied as a macro.
func (d *Def) InputIDs() []string {
	var ids []string
	for _, g := range d.Givens {
		if g.Kind == construction.KindPoint {
			ids = append(ids, construction.PointID(g.Label))
		}
	}
	return ids
}

// Positions returns the default given-point positions keyed by point id.
func (d *Def) Positions() map[string]v2.Vec {
	out := make(map[string]v2.Vec)
	for _, g := range d.Givens {
		if g.Kind == construction.KindPoint {
			out[construction.PointID(g.Label)] = v2.Vec{X: g.X, Y: g.Y}
		}
	}
	return out
}

// IsMacro reports whether the proposition can be applied as a macro.
func (d *Def) IsMacro() bool {
	return d.Macro != nil && len(d.Macro.Outputs) > 0
}

// SameAction reports whether got performs the action expected asks for.
// Segments may be drawn in either direction and the parents of an
// intersection may be named in either order.
func SameAction(expected, got Action) bool {
	switch e := expected.(type) {
	case DrawCircle:
		g, ok := got.(DrawCircle)
		return ok && e == g
	case DrawSegment:
		g, ok := got.(DrawSegment)
		return ok && (e == g || (e.FromID == g.ToID && e.ToID == g.FromID))
	case MarkIntersection:
		g, ok := got.(MarkIntersection)
		if !ok || e.BeyondID != g.BeyondID || e.Label != g.Label {
			return false
		}
		return (e.A == g.A && e.B == g.B) || (e.A == g.B && e.B == g.A)
	case ApplyMacro:
		g, ok := got.(ApplyMacro)
		return ok && e.PropID == g.PropID && slices.Equal(e.Inputs, g.Inputs) && slices.Equal(e.Labels, g.Labels)
	case PlacePoint:
		_, ok := got.(PlacePoint)
		return ok
	}
	return false
}
