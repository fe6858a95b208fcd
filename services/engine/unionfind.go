package engine

// UnionFind is a disjoint-set forest over string keys with union by rank
// and iterative path compression.
type UnionFind struct {
	parent map[string]string
	rank   map[string]int
}

func NewUnionFind() *UnionFind {
	return &UnionFind{parent: make(map[string]string), rank: make(map[string]int)}
}

// Add registers item as its own singleton set. Re-adding is a no-op.
func (u *UnionFind) Add(item string) {
	if _, ok := u.parent[item]; !ok {
		u.parent[item] = item
		u.rank[item] = 0
	}
}

// Has reports whether item was added.
func (u *UnionFind) Has(item string) bool {
	_, ok := u.parent[item]
	return ok
}

// Find returns the root of item's set, adding item if unknown.
func (u *UnionFind) Find(item string) string {
	u.Add(item)
	root := item
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for item != root {
		next := u.parent[item]
		u.parent[item] = root
		item = next
	}
	return root
}

// Union merges the sets holding a and b.
func (u *UnionFind) Union(a, b string) {
	ra, rb := u.Find(a), u.Find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}
