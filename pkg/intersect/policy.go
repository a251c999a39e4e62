package intersect

import (
	"github.com/chazu/elements/pkg/construction"
)

// Between returns the candidates produced by elements a and b, in order.
func Between(cands []Candidate, a, b string) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Of(a, b) {
			out = append(out, c)
		}
	}
	return out
}

// Remove returns cands without the candidates coincident with c. The input
// slice is not modified.
func Remove(cands []Candidate, c Candidate) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, other := range cands {
		if Coincident(other.Pos(), c.Pos()) {
			continue
		}
		out = append(out, other)
	}
	return out
}

// PreferHighest is the default disambiguation when a step names neither a
// beyond-point nor a root: take the candidate with the greatest Y, ties
// broken by the lower Which and then by position in the slice.
//
// This encodes the layout convention that constructed apexes lie above
// their baseline (model coordinates, y up). It is not a geometric law: a
// construction whose intended point lies below the baseline must name a
// beyond-point instead of relying on this policy.
func PreferHighest(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		switch {
		case c.Y > best.Y+Epsilon:
			best = c
		case c.Y > best.Y-Epsilon && c.Which < best.Which:
			best = c
		}
	}
	return best, true
}

// IsCandidateBeyondPoint reports whether c lies on the ray that continues a
// segment past refID, away from the segment's other endpoint. The segment
// is whichever of ofA, ofB is a segment with refID as an endpoint; if
// neither is, the answer is false.
func IsCandidateBeyondPoint(c Candidate, refID, ofA, ofB string, s construction.State) bool {
	for _, id := range []string{ofA, ofB} {
		seg, ok := s.Segment(id)
		if !ok || !seg.HasEndpoint(refID) {
			continue
		}
		ref, ok := s.Point(refID)
		if !ok {
			return false
		}
		far, ok := s.Point(seg.Other(refID))
		if !ok {
			return false
		}
		dir := ref.Pos().Sub(far.Pos())
		length := dir.Length()
		if length < Epsilon {
			return false
		}
		along := c.Pos().Sub(ref.Pos()).Dot(dir) / length
		return along > Epsilon
	}
	return false
}

// Beyond filters cands down to those beyond refID.
func Beyond(cands []Candidate, refID string, s construction.State) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if IsCandidateBeyondPoint(c, refID, c.OfA, c.OfB, s) {
			out = append(out, c)
		}
	}
	return out
}
