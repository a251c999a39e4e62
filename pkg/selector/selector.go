// Package selector resolves element references that may be written either
// as a raw id or structurally ("the circle about A through B").
package selector

import (
	"fmt"

	"github.com/chazu/elements/pkg/construction"
)

// Kind distinguishes the selector forms.
type Kind int

const (
	ByIDKind Kind = iota
	CircleKind
	SegmentKind
)

// Selector names an element. Structural selectors let a step refer to an
// element that a macro creates with an id the author cannot know.
type Selector struct {
	Kind          Kind   `json:"kind" toml:"kind"`
	ID            string `json:"id,omitempty" toml:"id,omitempty"`
	CenterID      string `json:"center,omitempty" toml:"center,omitempty"`
	RadiusPointID string `json:"radius_point,omitempty" toml:"radius_point,omitempty"`
	FromID        string `json:"from,omitempty" toml:"from,omitempty"`
	ToID          string `json:"to,omitempty" toml:"to,omitempty"`
}

// ByID selects an element by its id.
func ByID(id string) Selector {
	return Selector{Kind: ByIDKind, ID: id}
}

// CircleThrough selects the circle about centerID through radiusPointID.
func CircleThrough(centerID, radiusPointID string) Selector {
	return Selector{Kind: CircleKind, CenterID: centerID, RadiusPointID: radiusPointID}
}

// SegmentBetween selects the segment joining fromID and toID, drawn in
// either direction.
func SegmentBetween(fromID, toID string) Selector {
	return Selector{Kind: SegmentKind, FromID: fromID, ToID: toID}
}

func (s Selector) String() string {
	switch s.Kind {
	case CircleKind:
		return fmt.Sprintf("circle(%s, %s)", construction.LabelOf(s.CenterID), construction.LabelOf(s.RadiusPointID))
	case SegmentKind:
		return fmt.Sprintf("line %s%s", construction.LabelOf(s.FromID), construction.LabelOf(s.ToID))
	default:
		return s.ID
	}
}

// PointIDs returns the point ids the selector mentions.
func (s Selector) PointIDs() []string {
	switch s.Kind {
	case CircleKind:
		return []string{s.CenterID, s.RadiusPointID}
	case SegmentKind:
		return []string{s.FromID, s.ToID}
	default:
		return nil
	}
}

// Resolve returns the id of the first element in st matching sel. ok is
// false when nothing matches, typically because the macro expected to
// produce it has not run (or failed).
func Resolve(st construction.State, sel Selector) (string, bool) {
	switch sel.Kind {
	case ByIDKind:
		if _, ok := st.Element(sel.ID); ok {
			return sel.ID, true
		}
	case CircleKind:
		for _, c := range st.Circles() {
			if c.CenterID == sel.CenterID && c.RadiusPointID == sel.RadiusPointID {
				return c.ID, true
			}
		}
	case SegmentKind:
		for _, seg := range st.Segments() {
			if (seg.FromID == sel.FromID && seg.ToID == sel.ToID) ||
				(seg.FromID == sel.ToID && seg.ToID == sel.FromID) {
				return seg.ID, true
			}
		}
	}
	return "", false
}
