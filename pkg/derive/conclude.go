package derive

import (
	"fmt"
	"sort"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/selector"
)

// Conclusion is the outcome of running a proposition's conclusion rule.
type Conclusion struct {
	PropID    string       `json:"prop_id"`
	Statement string       `json:"statement"`
	Left      facts.Term   `json:"left,omitempty"`
	Right     facts.Term   `json:"right,omitempty"`
	Holds     bool         `json:"holds"`
	Added     []facts.Fact `json:"added,omitempty"`
	// Chain holds the ledger facts that carry Left to Right, for the
	// transcript line of a conclusion the store already entailed.
	Chain []facts.Fact `json:"chain,omitempty"`
}

// ConcludeFunc derives a proposition's conclusion from the facts and
// construction at atStep.
type ConcludeFunc func(store *facts.Store, s construction.State, atStep int) Conclusion

// Conclusions maps proposition ids to their conclusion rules.
var Conclusions = map[string]ConcludeFunc{
	"I.1": ConcludeI1,
	"I.2": ConcludeI2,
	"I.3": ConcludeI3,
	"I.4": ConcludeI4,
}

// Conclude runs the rule registered for propID.
func Conclude(propID string, store *facts.Store, s construction.State, atStep int) (Conclusion, bool) {
	fn, ok := Conclusions[propID]
	if !ok {
		return Conclusion{}, false
	}
	return fn(store, s, atStep), true
}

// IDs returns the ids with a registered conclusion, sorted.
func IDs() []string {
	out := make([]string, 0, len(Conclusions))
	for id := range Conclusions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func pt(label string) string { return construction.PointID(label) }

func dist(p, q string) facts.DistancePair { return facts.Distance(pt(p), pt(q)) }

func havePoints(s construction.State, labels ...string) bool {
	for _, l := range labels {
		if _, ok := s.Point(pt(l)); !ok {
			return false
		}
	}
	return true
}

// transitive records left = right by C.N.1 through via. When the store
// already entails the equality nothing is added and the conclusion carries
// the chain of facts that entails it instead.
func transitive(c *Conclusion, store *facts.Store, left, via, right facts.Term, why string, atStep int) {
	c.Left, c.Right = left, right
	if store.Equal(left, via) && store.Equal(via, right) {
		c.Added = append(c.Added, store.Add(left, right, facts.CN1{Via: via}, "", why, atStep)...)
	}
	c.Holds = store.Equal(left, right)
	if c.Holds && len(c.Added) == 0 {
		c.Chain = store.Explain(left, right)
	}
}

// ConcludeI1: AC = AB and BC = AB, so AC = BC and ABC is equilateral.
func ConcludeI1(store *facts.Store, s construction.State, atStep int) Conclusion {
	c := Conclusion{PropID: "I.1", Statement: "triangle ABC is equilateral"}
	if !havePoints(s, "A", "B", "C") {
		return c
	}
	transitive(&c, store, dist("A", "C"), dist("A", "B"), dist("B", "C"),
		"things equal to AB are equal to one another", atStep)
	return c
}

// ConcludeI2: the whole DF equals the whole DE (radii of circle D), the
// parts DA and DB are equal (sides of the equilateral triangle), so the
// remainders AF and BE are equal; BE = BC (radii of circle B), hence
// AF = BC.
func ConcludeI2(store *facts.Store, s construction.State, atStep int) Conclusion {
	c := Conclusion{PropID: "I.2", Statement: "AF = BC"}
	if !havePoints(s, "A", "B", "C", "D", "E", "F") {
		return c
	}
	whole := facts.Equality{Left: dist("D", "F"), Right: dist("D", "E")}
	part := facts.Equality{Left: dist("D", "A"), Right: dist("D", "B")}
	if store.Equal(whole.Left, whole.Right) && store.Equal(part.Left, part.Right) {
		c.Added = append(c.Added, store.Add(dist("A", "F"), dist("B", "E"),
			facts.CN3{Whole: whole, Part: part}, "",
			fmt.Sprintf("subtract %s from %s", part, whole), atStep)...)
	}
	transitive(&c, store, dist("A", "F"), dist("B", "E"), dist("B", "C"),
		"AF and BC are each equal to BE", atStep)
	return c
}

// ConcludeI3: AF = AE (radii of circle A) and AE = CD (Prop. I.2), so
// AF = CD.
func ConcludeI3(store *facts.Store, s construction.State, atStep int) Conclusion {
	c := Conclusion{PropID: "I.3", Statement: "AF = CD"}
	if !havePoints(s, "A", "B", "C", "D", "E", "F") {
		return c
	}
	transitive(&c, store, dist("A", "F"), dist("A", "E"), dist("C", "D"),
		"AF and CD are each equal to AE", atStep)
	return c
}

// ConcludeI4: with AB = DE, AC = DF and the included angles equal, the
// triangles coincide under superposition, so BC = EF and the remaining
// angles are equal.
func ConcludeI4(store *facts.Store, s construction.State, atStep int) Conclusion {
	c := Conclusion{
		PropID:    "I.4",
		Statement: "BC = EF",
		Left:      dist("B", "C"),
		Right:     dist("E", "F"),
	}
	if !havePoints(s, "A", "B", "C", "D", "E", "F") {
		return c
	}
	if _, ok := selector.Resolve(s, selector.SegmentBetween(pt("B"), pt("C"))); !ok {
		return c
	}
	if _, ok := selector.Resolve(s, selector.SegmentBetween(pt("E"), pt("F"))); !ok {
		return c
	}
	hyp := store.Equal(dist("A", "B"), dist("D", "E")) &&
		store.Equal(dist("A", "C"), dist("D", "F")) &&
		store.Equal(facts.Angle(pt("B"), pt("A"), pt("C")), facts.Angle(pt("E"), pt("D"), pt("F")))
	if hyp {
		cite := facts.CN4{First: "ABC", Second: "DEF"}
		why := "triangle ABC coincides with triangle DEF"
		pairs := [][2]facts.Term{
			{dist("B", "C"), dist("E", "F")},
			{facts.Angle(pt("A"), pt("B"), pt("C")), facts.Angle(pt("D"), pt("E"), pt("F"))},
			{facts.Angle(pt("A"), pt("C"), pt("B")), facts.Angle(pt("D"), pt("F"), pt("E"))},
		}
		for _, p := range pairs {
			c.Added = append(c.Added, store.Add(p[0], p[1], cite, "", why, atStep)...)
		}
	}
	c.Holds = store.Equal(c.Left, c.Right)
	return c
}
