package proof

import (
	"log/slog"
	"sort"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/intersect"
	"github.com/chazu/elements/pkg/kernel"
	"github.com/chazu/elements/pkg/proposition"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// MacroCall is the input to a macro. Store receives the macro's result
// facts; pass a throwaway store to compute ghost geometry only.
type MacroCall struct {
	State      construction.State
	Inputs     []string
	Candidates []intersect.Candidate
	Store      *facts.Store
	AtStep     int
	Labels     []string
	Depth      int
}

// MacroResult is what a successful macro leaves behind.
type MacroResult struct {
	State      construction.State
	Candidates []intersect.Candidate
	Facts      []facts.Fact
	Ghosts     []GhostLayer
	Outputs    []string
}

// ExecuteFunc computes the output positions of a macro and the ghost
// elements of its hidden construction. ok is false for missing or
// degenerate inputs.
type ExecuteFunc func(r *Registry, def *proposition.Def, call MacroCall) (outputs []v2.Vec, ghosts []GhostLayer, ok bool)

// MacroDef is a registered macro.
type MacroDef struct {
	PropID      string
	InputLabels []string
	// InputToGivenIDs maps input position to the proposition's own given
	// point id; ghost replay seeds those givens at the input positions.
	InputToGivenIDs []string
	Def             *proposition.Def
	Execute         ExecuteFunc
}

// Registry holds the macros of a library and the options they run with.
type Registry struct {
	opts   Options
	macros map[string]*MacroDef
}

// special lists the macros with hand-written ghost geometry.
var special = map[string]ExecuteFunc{
	"I.1": executeI1,
}

// NewRegistry builds a registry from every macro-capable proposition in
// opts.Library.
func NewRegistry(opts Options) *Registry {
	opts = opts.withDefaults()
	r := &Registry{opts: opts, macros: make(map[string]*MacroDef)}
	for id, def := range opts.Library {
		if !def.IsMacro() {
			continue
		}
		inputs := def.InputIDs()
		labels := make([]string, len(inputs))
		for i, in := range inputs {
			labels[i] = construction.LabelOf(in)
		}
		exec, ok := special[id]
		if !ok {
			exec = executeGeneric
		}
		r.macros[id] = &MacroDef{
			PropID:          id,
			InputLabels:     labels,
			InputToGivenIDs: inputs,
			Def:             def,
			Execute:         exec,
		}
	}
	return r
}

// Library returns the library the registry was built from.
func (r *Registry) Library() proposition.Library {
	return r.opts.Library
}

// Kernel returns the geometry kernel.
func (r *Registry) Kernel() kernel.Kernel {
	return r.opts.Kernel
}

// Macro returns the macro registered under id.
func (r *Registry) Macro(id string) (*MacroDef, bool) {
	m, ok := r.macros[id]
	return m, ok
}

// IDs returns the registered macro ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.macros))
	for id := range r.macros {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Apply runs macro id. Only the proposition's final elements enter the
// state: its output points and output segments. Its result equalities are
// added to call.Store citing the proposition. On failure the call's state
// is returned unchanged with ok false.
func (r *Registry) Apply(id string, call MacroCall) (MacroResult, bool) {
	unchanged := MacroResult{State: call.State, Candidates: call.Candidates}
	if call.Store == nil {
		call.Store = facts.NewStore()
	}
	m, ok := r.macros[id]
	if !ok {
		r.opts.Logger.Debug("unknown macro", slog.String("prop", id))
		return unchanged, false
	}
	if !freshLabels(call.State, call.Labels) {
		r.opts.Logger.Debug("macro output label already in use",
			slog.String("prop", id),
			slog.Any("labels", call.Labels),
		)
		return unchanged, false
	}
	if _, ok := inputPositions(call.State, call.Inputs, len(m.InputToGivenIDs)); !ok {
		r.opts.Logger.Debug("degenerate macro inputs",
			slog.String("prop", id),
			slog.Any("inputs", call.Inputs),
		)
		return unchanged, false
	}
	positions, ghosts, ok := m.Execute(r, m.Def, call)
	if !ok || len(positions) != len(m.Def.Macro.Outputs) {
		r.opts.Logger.Debug("macro produced no result", slog.String("prop", id))
		return unchanged, false
	}

	local := make(map[string]string)
	for i, given := range m.InputToGivenIDs {
		local[given] = call.Inputs[i]
	}
	s := call.State
	cands := call.Candidates
	var outputs []string
	for i, out := range m.Def.Macro.Outputs {
		label := ""
		if i < len(call.Labels) {
			label = call.Labels[i]
		}
		var pt construction.Point
		s, pt = construction.AddPoint(s, positions[i].X, positions[i].Y, construction.OriginIntersection, label)
		local[out] = pt.ID
		outputs = append(outputs, pt.ID)
		cands = intersect.Remove(cands, intersect.Candidate{X: pt.X, Y: pt.Y})
	}
	for _, seg := range m.Def.Macro.OutputSegments {
		s, _ = construction.AddSegment(s, local[seg[0]], local[seg[1]], construction.OriginStraightedge)
	}

	var added []facts.Fact
	cite := facts.Prop{ID: id}
	for _, eq := range m.Def.Macro.Results {
		left, lok := relabel(eq.Left, local)
		right, rok := relabel(eq.Right, local)
		if !lok || !rok {
			continue
		}
		added = append(added, call.Store.Add(left, right, cite, "", "", call.AtStep)...)
	}

	if call.Depth > r.opts.GhostDepth {
		ghosts = nil
	}
	return MacroResult{
		State:      s,
		Candidates: cands,
		Facts:      added,
		Ghosts:     ghosts,
		Outputs:    outputs,
	}, true
}

// Ghosts computes only the ghost geometry of applying id to inputs. The
// caller's facts are untouched: the macro runs against a throwaway store.
func (r *Registry) Ghosts(id string, s construction.State, inputs []string, atStep int) []GhostLayer {
	res, ok := r.Apply(id, MacroCall{
		State:  s,
		Inputs: inputs,
		Store:  facts.NewStore(),
		AtStep: atStep,
		Depth:  1,
	})
	if !ok {
		return nil
	}
	return res.Ghosts
}

// freshLabels reports whether every explicit output label is unused in s
// and distinct from the others.
func freshLabels(s construction.State, labels []string) bool {
	seen := make(map[string]bool)
	for _, l := range labels {
		if l == "" {
			continue
		}
		if seen[l] || taken(s, l) {
			return false
		}
		seen[l] = true
	}
	return true
}

// inputPositions looks up n distinct, non-coincident input points.
func inputPositions(s construction.State, inputs []string, n int) ([]v2.Vec, bool) {
	if len(inputs) != n {
		return nil, false
	}
	out := make([]v2.Vec, n)
	for i, id := range inputs {
		p, ok := s.Point(id)
		if !ok {
			return nil, false
		}
		out[i] = p.Pos()
		for j := 0; j < i; j++ {
			if intersect.Coincident(out[i], out[j]) {
				return nil, false
			}
		}
	}
	return out, true
}

func relabel(t facts.Term, local map[string]string) (facts.Term, bool) {
	m := func(id string) (string, bool) {
		v, ok := local[id]
		return v, ok
	}
	switch v := t.(type) {
	case facts.DistancePair:
		a, ok1 := m(v.A)
		b, ok2 := m(v.B)
		return facts.Distance(a, b), ok1 && ok2
	case facts.AngleMeasure:
		r1, ok1 := m(v.Ray1)
		vx, ok2 := m(v.Vertex)
		r2, ok3 := m(v.Ray2)
		return facts.Angle(r1, vx, r2), ok1 && ok2 && ok3
	default:
		return nil, false
	}
}

// executeI1 places the apex of the equilateral triangle on the first two
// inputs directly. The two construction circles become the ghost layer.
func executeI1(r *Registry, _ *proposition.Def, call MacroCall) ([]v2.Vec, []GhostLayer, bool) {
	pos, ok := inputPositions(call.State, call.Inputs, 2)
	if !ok {
		return nil, nil, false
	}
	a, b := pos[0], pos[1]
	radius := b.Sub(a).Length()
	roots := r.opts.Kernel.CircleCircle(
		kernel.Circle{Center: a, Radius: radius},
		kernel.Circle{Center: b, Radius: radius},
	)
	cands := make([]intersect.Candidate, len(roots))
	for i, p := range roots {
		cands[i] = intersect.Candidate{X: p.X, Y: p.Y, Which: i}
	}
	apex, ok := intersect.PreferHighest(cands)
	if !ok {
		return nil, nil, false
	}
	layer := GhostLayer{
		PropID: "I.1",
		Depth:  call.Depth,
		AtStep: call.AtStep,
		Elements: []GhostElement{
			{Kind: construction.KindCircle, A: a, B: b},
			{Kind: construction.KindCircle, A: b, B: a},
		},
	}
	return []v2.Vec{apex.Pos()}, []GhostLayer{layer}, true
}

// executeGeneric replays def with its given points moved onto the inputs,
// against a throwaway store, and reads the outputs off the result. Every
// element the replay creates becomes a ghost at call.Depth; macros inside
// the replay contribute their own layers one level deeper.
func executeGeneric(r *Registry, def *proposition.Def, call MacroCall) ([]v2.Vec, []GhostLayer, bool) {
	inputs := def.InputIDs()
	pos, ok := inputPositions(call.State, call.Inputs, len(inputs))
	if !ok {
		return nil, nil, false
	}
	positions := make(map[string]v2.Vec, len(inputs))
	for i, id := range inputs {
		positions[id] = pos[i]
	}
	sub := r.run(def, len(def.Steps), positions, nil, call.Depth+1)
	if sub.StepsCompleted < len(def.Steps) {
		return nil, nil, false
	}
	outputs := make([]v2.Vec, len(def.Macro.Outputs))
	for i, id := range def.Macro.Outputs {
		p, ok := sub.State.Point(id)
		if !ok {
			return nil, nil, false
		}
		outputs[i] = p.Pos()
	}
	layers := []GhostLayer{{
		PropID:   def.ID,
		Depth:    call.Depth,
		AtStep:   call.AtStep,
		Elements: ghostsOf(sub.State),
	}}
	for _, nested := range sub.Ghosts {
		if nested.Depth <= r.opts.GhostDepth {
			nested.AtStep = call.AtStep
			layers = append(layers, nested)
		}
	}
	return outputs, layers, true
}
