package facts

// link is one step of a breadth-first search over the ledger: the term we
// came from and the index of the fact that got us here.
type link struct {
	from string
	fact int
}

// Explain returns the ledger facts that chain a to b, in order from a. The
// union-find answers whether two terms are equal; Explain recovers why,
// which is what a C.N.1 line in a transcript cites. It returns nil when the
// terms are not equal or are identical.
func (s *Store) Explain(a, b Term) []Fact {
	if a == nil || b == nil || a.Key() == b.Key() || !s.Equal(a, b) {
		return nil
	}

	adj := make(map[string][]link) // link.from holds the neighbour here
	for i, f := range s.facts {
		l, r := f.Left.Key(), f.Right.Key()
		adj[l] = append(adj[l], link{from: r, fact: i})
		adj[r] = append(adj[r], link{from: l, fact: i})
	}

	// Breadth-first over facts in ledger order, so the shortest chain using
	// the earliest facts wins and the answer is deterministic.
	start, goal := a.Key(), b.Key()
	prev := map[string]link{start: {fact: -1}}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			break
		}
		for _, e := range adj[cur] {
			if _, ok := prev[e.from]; ok {
				continue
			}
			prev[e.from] = link{from: cur, fact: e.fact}
			queue = append(queue, e.from)
		}
	}
	if _, ok := prev[goal]; !ok {
		return nil
	}

	var chain []Fact
	for k := goal; k != start; {
		e := prev[k]
		chain = append(chain, s.facts[e.fact])
		k = e.from
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
