// Package scenario reads drag scenarios: a proposition, where its given
// points are moved to, and what the student drew after completing it.
//
// A scenario file is TOML:
//
//	proposition = "I.2"
//
//	[positions.C]
//	x = 5.0
//	y = -2.0
//
//	[[free]]
//	kind = "point"
//	x = 7.0
//	y = 7.0
//
//	[[free]]
//	kind = "intersect"
//	a = { circle = ["A", "B"] }
//	b = { segment = ["A", "D"] }
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/proposition"
	"github.com/chazu/elements/pkg/selector"
	v2 "github.com/deadsy/sdfx/vec/v2"
	toml "github.com/pelletier/go-toml/v2"
)

// ErrNoScenario is returned by Load when the file does not exist.
var ErrNoScenario = errors.New("scenario file not found")

// Position is a given point's location.
type Position struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// SelectorSpec names an element: by id, or structurally by a circle's
// centre and radius point or a segment's endpoints (labels).
type SelectorSpec struct {
	ID      string   `toml:"id,omitempty"`
	Circle  []string `toml:"circle,omitempty"`
	Segment []string `toml:"segment,omitempty"`
}

// FreeAction is one action taken after the proposition is complete.
type FreeAction struct {
	Kind    string       `toml:"kind"`
	X       float64      `toml:"x,omitempty"`
	Y       float64      `toml:"y,omitempty"`
	Label   string       `toml:"label,omitempty"`
	From    string       `toml:"from,omitempty"`
	To      string       `toml:"to,omitempty"`
	Center  string       `toml:"center,omitempty"`
	Through string       `toml:"through,omitempty"`
	A       SelectorSpec `toml:"a,omitempty"`
	B       SelectorSpec `toml:"b,omitempty"`
	Beyond  string       `toml:"beyond,omitempty"`
	Prop    string       `toml:"prop,omitempty"`
	Inputs  []string     `toml:"inputs,omitempty"`
	Labels  []string     `toml:"labels,omitempty"`
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Proposition string              `toml:"proposition"`
	Positions   map[string]Position `toml:"positions"`
	Free        []FreeAction        `toml:"free"`
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoScenario
		}
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse parses scenario TOML and checks that every free action is well
// formed.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := toml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Proposition == "" {
		return nil, errors.New("scenario: proposition is required")
	}
	if _, err := sc.Actions(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// PositionsByID returns the position overrides keyed by point id.
func (sc *Scenario) PositionsByID() map[string]v2.Vec {
	out := make(map[string]v2.Vec, len(sc.Positions))
	for label, p := range sc.Positions {
		out[construction.PointID(label)] = v2.Vec{X: p.X, Y: p.Y}
	}
	return out
}

// Labels returns the labels of the moved points, sorted.
func (sc *Scenario) Labels() []string {
	out := make([]string, 0, len(sc.Positions))
	for label := range sc.Positions {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Actions converts the free actions into proposition actions, in order.
func (sc *Scenario) Actions() ([]proposition.Action, error) {
	out := make([]proposition.Action, 0, len(sc.Free))
	for i, f := range sc.Free {
		a, err := f.action()
		if err != nil {
			return nil, fmt.Errorf("scenario: free action %d: %w", i+1, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (f FreeAction) action() (proposition.Action, error) {
	switch f.Kind {
	case "point":
		return proposition.PlacePoint{X: f.X, Y: f.Y, Label: f.Label}, nil
	case "segment":
		if f.From == "" || f.To == "" {
			return nil, errors.New("segment needs from and to")
		}
		return proposition.DrawSegment{FromID: construction.PointID(f.From), ToID: construction.PointID(f.To)}, nil
	case "circle":
		if f.Center == "" || f.Through == "" {
			return nil, errors.New("circle needs center and through")
		}
		return proposition.DrawCircle{CenterID: construction.PointID(f.Center), RadiusPointID: construction.PointID(f.Through)}, nil
	case "intersect":
		a, err := f.A.selector()
		if err != nil {
			return nil, fmt.Errorf("a: %w", err)
		}
		b, err := f.B.selector()
		if err != nil {
			return nil, fmt.Errorf("b: %w", err)
		}
		m := proposition.MarkIntersection{A: a, B: b, Label: f.Label}
		if f.Beyond != "" {
			m.BeyondID = construction.PointID(f.Beyond)
		}
		return m, nil
	case "apply":
		if f.Prop == "" {
			return nil, errors.New("apply needs prop")
		}
		inputs := make([]string, len(f.Inputs))
		for i, l := range f.Inputs {
			inputs[i] = construction.PointID(l)
		}
		return proposition.ApplyMacro{PropID: f.Prop, Inputs: inputs, Labels: f.Labels}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", f.Kind)
	}
}

func (s SelectorSpec) selector() (selector.Selector, error) {
	switch {
	case s.ID != "":
		return selector.ByID(s.ID), nil
	case len(s.Circle) == 2:
		return selector.CircleThrough(construction.PointID(s.Circle[0]), construction.PointID(s.Circle[1])), nil
	case len(s.Segment) == 2:
		return selector.SegmentBetween(construction.PointID(s.Segment[0]), construction.PointID(s.Segment[1])), nil
	}
	return selector.Selector{}, errors.New("selector needs id, circle or segment")
}
