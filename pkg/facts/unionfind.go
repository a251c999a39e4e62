package facts

// unionFind is a disjoint-set forest over term keys with path compression
// and union by rank. Each root carries the id of the fact that last merged
// into it. It is private to Store: it cannot be copied meaningfully, so an
// independent store is always produced by Rebuild.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
	tag    map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[string]string),
		rank:   make(map[string]int),
		tag:    make(map[string]int),
	}
}

// has reports whether x has been registered.
func (uf *unionFind) has(x string) bool {
	_, ok := uf.parent[x]
	return ok
}

// add inserts x as a singleton; no-op if present.
func (uf *unionFind) add(x string) {
	if uf.has(x) {
		return
	}
	uf.parent[x] = x
	uf.rank[x] = 0
}

// find returns the root of x, registering x if needed.
func (uf *unionFind) find(x string) string {
	if !uf.has(x) {
		uf.add(x)
		return x
	}
	if uf.parent[x] != x {
		uf.parent[x] = uf.find(uf.parent[x])
	}
	return uf.parent[x]
}

// union merges the classes of x and y and tags the new root with factID.
// It returns false when x and y were already connected.
func (uf *unionFind) union(x, y string, factID int) bool {
	rx := uf.find(x)
	ry := uf.find(y)
	if rx == ry {
		return false
	}
	root := rx
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
		root = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
	uf.tag[root] = factID
	return true
}

// connected reports whether x and y are registered and share a root.
// Unregistered keys are never connected to anything, including each other.
func (uf *unionFind) connected(x, y string) bool {
	if !uf.has(x) || !uf.has(y) {
		return false
	}
	return uf.find(x) == uf.find(y)
}

// members returns every registered key in the class of x.
func (uf *unionFind) members(x string) []string {
	if !uf.has(x) {
		return nil
	}
	root := uf.find(x)
	var out []string
	for k := range uf.parent {
		if uf.find(k) == root {
			out = append(out, k)
		}
	}
	return out
}
