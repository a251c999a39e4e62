// Package facts is the proof ledger: an append-only list of equality facts,
// each carrying its citation, backed by a private union-find that answers
// "are these equal?" over the transitive closure.
//
// Store.Add is the only way a fact enters a store. It refuses any fact the
// store already entails, so the ledger never holds a redundant line and
// deriving the same equality twice is a no-op.
package facts

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Fact is one line of the proof. Facts are values; once returned by Add
// they are never edited.
type Fact struct {
	ID            int      `json:"id"`
	Left          Term     `json:"left"`
	Right         Term     `json:"right"`
	Citation      Citation `json:"citation"`
	Statement     string   `json:"statement"`
	Justification string   `json:"justification,omitempty"`
	AtStep        int      `json:"at_step"`
}

// citationJSON carries a citation's kind and display text next to its
// fields, which alone do not say what was cited.
type citationJSON struct {
	Kind   CitationKind `json:"kind"`
	Text   string       `json:"text"`
	Detail Citation     `json:"detail"`
}

// MarshalJSON encodes f with its citation tagged by kind.
func (f Fact) MarshalJSON() ([]byte, error) {
	type plain Fact
	out := struct {
		plain
		Citation *citationJSON `json:"citation"`
	}{plain: plain(f)}
	if f.Citation != nil {
		out.Citation = &citationJSON{Kind: f.Citation.Kind(), Text: f.Citation.String(), Detail: f.Citation}
	}
	return json.Marshal(out)
}

// IsAngle reports whether the fact equates angles.
func (f Fact) IsAngle() bool {
	return isAngle(f.Left)
}

func (f Fact) String() string {
	return fmt.Sprintf("%d. %s [%s]", f.ID, f.Statement, f.Citation)
}

// Store owns one ledger and its union-find. A Store must not be copied by
// value; use Rebuild to obtain an independent store.
type Store struct {
	facts []Fact
	uf    *unionFind
	terms map[string]Term
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		uf:    newUnionFind(),
		terms: make(map[string]Term),
	}
}

// Rebuild produces an independent store by replaying Add over facts in
// order. This is the only sanctioned copy.
func Rebuild(facts []Fact) *Store {
	s := NewStore()
	for _, f := range facts {
		s.Add(f.Left, f.Right, f.Citation, f.Statement, f.Justification, f.AtStep)
	}
	return s
}

// Add records left = right. It returns the new fact as a one-element
// slice, or an empty slice when nothing was added: the equality is
// already entailed, the terms are identical or degenerate, the terms are
// of different kinds, or the citation is missing.
func (s *Store) Add(left, right Term, c Citation, statement, justification string, atStep int) []Fact {
	if left == nil || right == nil || c == nil {
		return nil
	}
	if isAngle(left) != isAngle(right) || degenerate(left) || degenerate(right) {
		return nil
	}
	kl, kr := left.Key(), right.Key()
	if kl == kr || s.uf.connected(kl, kr) {
		return nil
	}

	if statement == "" {
		statement = fmt.Sprintf("%s = %s", left, right)
	}
	f := Fact{
		ID:            len(s.facts) + 1,
		Left:          left,
		Right:         right,
		Citation:      c,
		Statement:     statement,
		Justification: justification,
		AtStep:        atStep,
	}
	s.facts = append(s.facts, f)
	s.terms[kl] = left
	s.terms[kr] = right
	s.uf.union(kl, kr, f.ID)
	return []Fact{f}
}

// Equal reports whether a = b follows from the ledger. Identical terms
// are always equal; terms the store has never seen are equal to nothing
// else.
func (s *Store) Equal(a, b Term) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Key() == b.Key() {
		return true
	}
	return s.uf.connected(a.Key(), b.Key())
}

// EqualDistances returns the equivalence class of dp, sorted. A pair the
// store has never seen is its own singleton class.
func (s *Store) EqualDistances(dp DistancePair) []DistancePair {
	var out []DistancePair
	for _, t := range s.class(dp) {
		if d, ok := t.(DistancePair); ok {
			out = append(out, d)
		}
	}
	return out
}

// EqualAngles returns the equivalence class of am, sorted.
func (s *Store) EqualAngles(am AngleMeasure) []AngleMeasure {
	var out []AngleMeasure
	for _, t := range s.class(am) {
		if a, ok := t.(AngleMeasure); ok {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) class(t Term) []Term {
	keys := s.uf.members(t.Key())
	if len(keys) == 0 {
		return []Term{t}
	}
	sort.Strings(keys)
	out := make([]Term, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.terms[k])
	}
	return out
}

// Provenance returns the id of the fact that last merged into t's class.
func (s *Store) Provenance(t Term) (int, bool) {
	if t == nil || !s.uf.has(t.Key()) {
		return 0, false
	}
	id, ok := s.uf.tag[s.uf.find(t.Key())]
	return id, ok
}

// Facts returns a copy of the ledger in insertion order.
func (s *Store) Facts() []Fact {
	out := make([]Fact, len(s.facts))
	copy(out, s.facts)
	return out
}

// Len returns the number of facts.
func (s *Store) Len() int {
	return len(s.facts)
}

// FactsBefore returns the facts recorded before step k, in order.
func FactsBefore(facts []Fact, k int) []Fact {
	var out []Fact
	for _, f := range facts {
		if f.AtStep < k {
			out = append(out, f)
		}
	}
	return out
}
