package proof

import (
	"log/slog"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/derive"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/intersect"
	"github.com/chazu/elements/pkg/proposition"
	"github.com/chazu/elements/pkg/selector"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// GivenStep is the AtStep of facts granted by hypothesis. Step i of a
// proposition records its facts at i+1.
const GivenStep = 0

// frame is the working state of one run: the construction, the pending
// candidates, the ledger and the ghost layers collected so far.
type frame struct {
	state  construction.State
	cands  []intersect.Candidate
	store  *facts.Store
	ghosts []GhostLayer
}

// StepResult reports what one applied action changed.
type StepResult struct {
	OK     bool                   `json:"ok"`
	Added  []construction.Element `json:"added,omitempty"`
	Facts  []facts.Fact           `json:"facts,omitempty"`
	Ghosts []GhostLayer           `json:"ghosts,omitempty"`
}

// seed places the givens of def, moving given points to positions where
// an entry exists, and records the given facts.
func (r *Registry) seed(def *proposition.Def, positions map[string]v2.Vec, extend bool) *frame {
	f := &frame{state: construction.New(), store: facts.NewStore()}
	for _, g := range def.Givens {
		var e construction.Element
		switch g.Kind {
		case construction.KindPoint:
			pos := v2.Vec{X: g.X, Y: g.Y}
			if p, ok := positions[construction.PointID(g.Label)]; ok {
				pos = p
			}
			f.state, e = construction.AddPoint(f.state, pos.X, pos.Y, construction.OriginGiven, g.Label)
		case construction.KindSegment:
			f.state, e = construction.AddSegment(f.state, g.FromID, g.ToID, construction.OriginGiven)
		case construction.KindCircle:
			f.state, e = construction.AddCircle(f.state, g.CenterID, g.RadiusPointID, construction.OriginGiven)
		}
		r.find(f, e, extend)
	}
	for _, gf := range def.GivenFacts {
		f.store.Add(gf.Left, gf.Right, facts.Given{}, "", "given", GivenStep)
	}
	return f
}

// find records the intersections e makes with everything drawn before it.
func (r *Registry) find(f *frame, e construction.Element, extend bool) {
	if e == nil || e.Kind() == construction.KindPoint {
		return
	}
	f.cands = append(f.cands, intersect.Find(r.opts.Kernel, f.state, e, f.cands, extend)...)
}

// apply performs one action on f. Live sessions and replays both come
// through here. A failed action leaves f unchanged except that the labels
// it would have allocated are skipped, so later labels match a run in
// which it succeeded.
func (r *Registry) apply(f *frame, a proposition.Action, atStep int, extend bool, depth int) StepResult {
	switch a := a.(type) {
	case proposition.DrawCircle:
		if !r.distinct(f.state, a.CenterID, a.RadiusPointID) {
			return StepResult{}
		}
		var c construction.Circle
		f.state, c = construction.AddCircle(f.state, a.CenterID, a.RadiusPointID, construction.OriginCompass)
		r.find(f, c, extend)
		return StepResult{OK: true, Added: []construction.Element{c}}

	case proposition.DrawSegment:
		if !r.distinct(f.state, a.FromID, a.ToID) {
			return StepResult{}
		}
		var seg construction.Segment
		f.state, seg = construction.AddSegment(f.state, a.FromID, a.ToID, construction.OriginStraightedge)
		r.find(f, seg, extend)
		return StepResult{OK: true, Added: []construction.Element{seg}}

	case proposition.MarkIntersection:
		c, ok := r.choose(f, a)
		if !ok || taken(f.state, a.Label) {
			f.state = construction.SkipPointLabel(f.state, a.Label)
			return StepResult{}
		}
		var p construction.Point
		f.state, p = construction.AddPoint(f.state, c.X, c.Y, construction.OriginIntersection, a.Label)
		f.cands = intersect.Remove(f.cands, c)
		added := derive.Def15Facts(c, p.ID, f.state, f.store, atStep)
		return StepResult{OK: true, Added: []construction.Element{p}, Facts: added}

	case proposition.ApplyMacro:
		res, ok := r.Apply(a.PropID, MacroCall{
			State:      f.state,
			Inputs:     a.Inputs,
			Candidates: f.cands,
			Store:      f.store,
			AtStep:     atStep,
			Labels:     a.Labels,
			Depth:      depth,
		})
		if !ok {
			if m, known := r.Macro(a.PropID); known {
				for i := range m.Def.Macro.Outputs {
					label := ""
					if i < len(a.Labels) {
						label = a.Labels[i]
					}
					f.state = construction.SkipPointLabel(f.state, label)
				}
			}
			return StepResult{}
		}
		before := f.state.Len()
		f.state = res.State
		f.cands = res.Candidates
		added := res.State.Elements()[before:]
		for _, e := range added {
			r.find(f, e, extend)
		}
		f.ghosts = append(f.ghosts, res.Ghosts...)
		return StepResult{OK: true, Added: added, Facts: res.Facts, Ghosts: res.Ghosts}

	case proposition.PlacePoint:
		if taken(f.state, a.Label) {
			f.state = construction.SkipPointLabel(f.state, a.Label)
			return StepResult{}
		}
		var p construction.Point
		f.state, p = construction.AddPoint(f.state, a.X, a.Y, construction.OriginFree, a.Label)
		return StepResult{OK: true, Added: []construction.Element{p}}
	}
	return StepResult{}
}

// taken reports whether an explicit label already names a point. A point
// placed under it would share the existing point's id.
func taken(s construction.State, label string) bool {
	if label == "" {
		return false
	}
	_, ok := s.Point(construction.PointID(label))
	return ok
}

// distinct reports whether both points exist and do not coincide.
func (r *Registry) distinct(s construction.State, a, b string) bool {
	pa, ok := s.Point(a)
	if !ok {
		return false
	}
	pb, ok := s.Point(b)
	if !ok {
		return false
	}
	return !intersect.Coincident(pa.Pos(), pb.Pos())
}

// choose resolves the two parents of a and picks one of their pending
// candidates: the one beyond a.BeyondID if named, else the highest.
func (r *Registry) choose(f *frame, a proposition.MarkIntersection) (intersect.Candidate, bool) {
	idA, ok := selector.Resolve(f.state, a.A)
	if !ok {
		return intersect.Candidate{}, false
	}
	idB, ok := selector.Resolve(f.state, a.B)
	if !ok {
		return intersect.Candidate{}, false
	}
	cands := intersect.Between(f.cands, idA, idB)
	if a.BeyondID != "" {
		return intersect.PreferHighest(intersect.Beyond(cands, a.BeyondID, f.state))
	}
	c, ok := intersect.PreferHighest(cands)
	if ok && len(cands) > 1 {
		r.checkBaseline(f.state, a, c)
	}
	return c, ok
}

// checkBaseline warns when the highest-root policy picks a point lying
// below the points that define its parents. Such a construction should
// name a beyond-point instead.
func (r *Registry) checkBaseline(s construction.State, a proposition.MarkIntersection, c intersect.Candidate) {
	var sum float64
	n := 0
	for _, id := range a.PointIDs() {
		if p, ok := s.Point(id); ok {
			sum += p.Y
			n++
		}
	}
	if n == 0 {
		return
	}
	if baseline := sum / float64(n); c.Y < baseline-intersect.Epsilon {
		r.opts.Logger.Warn("highest-root policy picked a point below its baseline",
			slog.String("a", a.A.String()),
			slog.String("b", a.B.String()),
			slog.Float64("y", c.Y),
			slog.Float64("baseline", baseline),
		)
	}
}
