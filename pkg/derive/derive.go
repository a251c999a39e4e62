// Package derive turns construction events into ledger facts: the
// point-on-circle facts every intersection yields, and the per-proposition
// conclusions that compose them.
//
// Every function here goes through facts.Store.Add, so calling one twice
// with the same inputs adds nothing the second time.
package derive

import (
	"fmt"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/intersect"
)

// Def15Facts records, for each parent of c that is a circle, that the new
// point is as far from the centre as the circle's radius point.
func Def15Facts(c intersect.Candidate, newPointID string, s construction.State, store *facts.Store, atStep int) []facts.Fact {
	var out []facts.Fact
	for _, parent := range []string{c.OfA, c.OfB} {
		out = append(out, PointOnCircle(parent, newPointID, s, store, atStep)...)
	}
	return out
}

// PointOnCircle records Definition 15 for a point known to lie on circle
// circleID. It adds nothing when circleID is not a circle in s, or when
// the point is the circle's own radius point.
func PointOnCircle(circleID, pointID string, s construction.State, store *facts.Store, atStep int) []facts.Fact {
	cir, ok := s.Circle(circleID)
	if !ok {
		return nil
	}
	center, radius := cir.CenterID, cir.RadiusPointID
	left := facts.Distance(center, pointID)
	right := facts.Distance(center, radius)
	why := fmt.Sprintf("%s lies on the circle about %s through %s",
		construction.LabelOf(pointID), construction.LabelOf(center), construction.LabelOf(radius))
	return store.Add(left, right, facts.Def15{CircleID: circleID}, "", why, atStep)
}
