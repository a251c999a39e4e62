package proposition

import (
	"errors"
	"sort"

	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/selector"
)

// ErrUnknownProposition is returned when a proposition id is not in a
// library.
var ErrUnknownProposition = errors.New("unknown proposition")

// Library is a set of propositions keyed by id. Macros resolve against it.
type Library map[string]*Def

// Lookup returns the proposition with the given id.
func (l Library) Lookup(id string) (*Def, bool) {
	d, ok := l[id]
	return d, ok
}

// Get is Lookup with an error for the CLI.
func (l Library) Get(id string) (*Def, error) {
	if d, ok := l[id]; ok {
		return d, nil
	}
	return nil, ErrUnknownProposition
}

// IDs returns the proposition ids, sorted.
func (l Library) IDs() []string {
	out := make([]string, 0, len(l))
	for id := range l {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// With returns a copy of l with d added, replacing any proposition with
// the same id.
func (l Library) With(d *Def) Library {
	out := make(Library, len(l)+1)
	for id, def := range l {
		out[id] = def
	}
	out[d.ID] = d
	return out
}

func p(label string) string { return "pt-" + label }

func dist(a, b string) facts.DistancePair { return facts.Distance(p(a), p(b)) }

func eq(l, r facts.Term) facts.Equality { return facts.Equality{Left: l, Right: r} }

// Builtin returns the first four propositions of Book I.
func Builtin() Library {
	return Library{
		"I.1": propI1(),
		"I.2": propI2(),
		"I.3": propI3(),
		"I.4": propI4(),
	}
}

// On a given finite straight line to construct an equilateral triangle.
func propI1() *Def {
	return &Def{
		ID:    "I.1",
		Title: "On a given finite straight line to construct an equilateral triangle.",
		Givens: []GivenElement{
			GivenPoint("A", 0, 0),
			GivenPoint("B", 3, 0),
			GivenSegment(p("A"), p("B")),
		},
		Steps: []Step{
			{Action: DrawCircle{CenterID: p("A"), RadiusPointID: p("B")}, Citation: "Post.3"},
			{Action: DrawCircle{CenterID: p("B"), RadiusPointID: p("A")}, Citation: "Post.3"},
			{
				Action: MarkIntersection{
					A: selector.CircleThrough(p("A"), p("B")),
					B: selector.CircleThrough(p("B"), p("A")),
				},
				Citation: "Def.15",
			},
			{Action: DrawSegment{FromID: p("C"), ToID: p("A")}, Citation: "Post.1"},
			{Action: DrawSegment{FromID: p("C"), ToID: p("B")}, Citation: "Post.1", HighlightIDs: []string{p("A"), p("B"), p("C")}},
		},
		ConclusionID: "I.1",
		Macro: &MacroSpec{
			Outputs:        []string{p("C")},
			OutputSegments: [][2]string{{p("A"), p("C")}, {p("B"), p("C")}},
			Results: []facts.Equality{
				eq(dist("A", "C"), dist("A", "B")),
				eq(dist("B", "C"), dist("A", "B")),
			},
		},
	}
}

// To place at a given point a straight line equal to a given straight
// line.
func propI2() *Def {
	return &Def{
		ID:     "I.2",
		Title:  "To place at a given point a straight line equal to a given straight line.",
		Extend: true,
		Givens: []GivenElement{
			GivenPoint("A", 0, 0),
			GivenPoint("B", 3, 0),
			GivenPoint("C", 5, -1),
			GivenSegment(p("B"), p("C")),
		},
		Steps: []Step{
			{Action: DrawSegment{FromID: p("A"), ToID: p("B")}, Citation: "Post.1"},
			{Action: ApplyMacro{PropID: "I.1", Inputs: []string{p("A"), p("B")}}, Citation: "Prop. I.1"},
			{Action: DrawCircle{CenterID: p("B"), RadiusPointID: p("C")}, Citation: "Post.3"},
			{
				Action: MarkIntersection{
					A:        selector.CircleThrough(p("B"), p("C")),
					B:        selector.SegmentBetween(p("D"), p("B")),
					BeyondID: p("B"),
				},
				Citation: "Post.2",
			},
			{Action: DrawCircle{CenterID: p("D"), RadiusPointID: p("E")}, Citation: "Post.3"},
			{
				Action: MarkIntersection{
					A:        selector.CircleThrough(p("D"), p("E")),
					B:        selector.SegmentBetween(p("D"), p("A")),
					BeyondID: p("A"),
				},
				Citation:     "Post.2",
				HighlightIDs: []string{p("A"), p("F"), p("B"), p("C")},
			},
		},
		ConclusionID: "I.2",
		Macro: &MacroSpec{
			Outputs:        []string{p("F")},
			OutputSegments: [][2]string{{p("A"), p("F")}},
			Results:        []facts.Equality{eq(dist("A", "F"), dist("B", "C"))},
		},
	}
}

// Given two unequal straight lines, to cut off from the greater a straight
// line equal to the less.
func propI3() *Def {
	return &Def{
		ID:    "I.3",
		Title: "Given two unequal straight lines, to cut off from the greater a straight line equal to the less.",
		Givens: []GivenElement{
			GivenPoint("A", 0, 0),
			GivenPoint("B", 5, 0),
			GivenPoint("C", 1, -2),
			GivenPoint("D", 4, -2),
			GivenSegment(p("A"), p("B")),
			GivenSegment(p("C"), p("D")),
		},
		Steps: []Step{
			{Action: ApplyMacro{PropID: "I.2", Inputs: []string{p("A"), p("C"), p("D")}}, Citation: "Prop. I.2"},
			{Action: DrawCircle{CenterID: p("A"), RadiusPointID: p("E")}, Citation: "Post.3"},
			{
				Action: MarkIntersection{
					A: selector.CircleThrough(p("A"), p("E")),
					B: selector.SegmentBetween(p("A"), p("B")),
				},
				Citation:     "Def.15",
				HighlightIDs: []string{p("A"), p("F"), p("C"), p("D")},
			},
		},
		ConclusionID: "I.3",
		Macro: &MacroSpec{
			Outputs:        []string{p("F")},
			OutputSegments: nil,
			Results:        []facts.Equality{eq(dist("A", "F"), dist("C", "D"))},
		},
	}
}

// If two triangles have two sides equal to two sides respectively, and the
// angles contained by the equal sides equal, they will also have the base
// equal to the base.
func propI4() *Def {
	return &Def{
		ID:    "I.4",
		Title: "Side-angle-side: triangles with two sides and the included angle equal have equal bases.",
		Givens: []GivenElement{
			GivenPoint("A", 1, 3),
			GivenPoint("B", 0, 0),
			GivenPoint("C", 3, 0),
			GivenPoint("D", 6, 3),
			GivenPoint("E", 5, 0),
			GivenPoint("F", 8, 0),
			GivenSegment(p("A"), p("B")),
			GivenSegment(p("A"), p("C")),
			GivenSegment(p("D"), p("E")),
			GivenSegment(p("D"), p("F")),
		},
		GivenFacts: []GivenFact{
			{Left: dist("A", "B"), Right: dist("D", "E")},
			{Left: dist("A", "C"), Right: dist("D", "F")},
			{Left: facts.Angle(p("B"), p("A"), p("C")), Right: facts.Angle(p("E"), p("D"), p("F"))},
		},
		Steps: []Step{
			{Action: DrawSegment{FromID: p("B"), ToID: p("C")}, Citation: "Post.1"},
			{Action: DrawSegment{FromID: p("E"), ToID: p("F")}, Citation: "Post.1", HighlightIDs: []string{p("B"), p("C"), p("E"), p("F")}},
		},
		ConclusionID: "I.4",
	}
}
