package engine

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// edge connects two usable-row positions that scored as duplicates.
type edge struct {
	a, b  int
	score float64
	basis MatchBasis
}

// cluster is a connected component of duplicate edges. members holds
// usable-row positions in ascending order.
type cluster struct {
	members []int
	edges   []edge
}

// unionFind is a plain union-find with path compression. The final partition
// is a set of connected components, so it is independent of the order edges
// are discovered; that keeps the parallel scoring pass deterministic.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
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

// buildClusters computes the duplicate partition: records are graph nodes,
// scorer hits are edges, clusters are connected components. Matching is
// transitive: A~B and B~C land all three in one cluster even when A and C
// are dissimilar.
//
// An email-signature index resolves exact matches up front; the remaining
// O(n²) fuzzy name comparisons are spread across workers. The partition is
// identical to a sequential full pairwise pass.
func buildClusters(ctx context.Context, keys []Key, sc *scorer) ([]cluster, error) {
	n := len(keys)
	uf := newUnionFind(n)

	// Exact email matches via index.
	var emailEdges []edge
	bySignature := make(map[Signature][]int)
	for i, k := range keys {
		for _, sig := range k.Signatures {
			bySignature[sig] = append(bySignature[sig], i)
		}
	}
	seenPair := make(map[[2]int]bool)
	for i, k := range keys {
		for _, sig := range k.Signatures {
			for _, j := range bySignature[sig] {
				if j <= i || seenPair[[2]int{i, j}] {
					continue
				}
				seenPair[[2]int{i, j}] = true
				emailEdges = append(emailEdges, edge{a: i, b: j, score: 1, basis: BasisEmail})
			}
		}
	}

	// Fuzzy name comparisons, parallelized by row. Workers only read keys
	// and write into their own slot, so there is no shared mutable state.
	nameEdges := make([][]edge, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var found []edge
			for j := i + 1; j < n; j++ {
				if sim := sc.nameSimilarity(keys[i], keys[j]); sim >= sc.threshold(keys[i], keys[j]) {
					found = append(found, edge{a: i, b: j, score: sim, basis: BasisName})
				}
			}
			nameEdges[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	edges := emailEdges
	for _, found := range nameEdges {
		edges = append(edges, found...)
	}
	for _, e := range edges {
		uf.union(e.a, e.b)
	}

	// Collect components. Ordering members ascending and clusters by their
	// smallest member keeps the run deterministic.
	byRoot := make(map[int]*cluster)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		c, ok := byRoot[root]
		if !ok {
			c = &cluster{}
			byRoot[root] = c
		}
		c.members = append(c.members, i)
	}
	for _, e := range edges {
		byRoot[uf.find(e.a)].edges = append(byRoot[uf.find(e.a)].edges, e)
	}

	clusters := make([]cluster, 0, len(byRoot))
	for _, c := range byRoot {
		sort.Ints(c.members)
		sort.Slice(c.edges, func(i, j int) bool {
			if c.edges[i].a != c.edges[j].a {
				return c.edges[i].a < c.edges[j].a
			}
			return c.edges[i].b < c.edges[j].b
		})
		clusters = append(clusters, *c)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].members[0] < clusters[j].members[0]
	})
	return clusters, nil
}

// bases lists the distinct match bases present in a cluster, email first.
func (c cluster) bases() []MatchBasis {
	var hasEmail, hasName bool
	for _, e := range c.edges {
		switch e.basis {
		case BasisEmail:
			hasEmail = true
		case BasisName:
			hasName = true
		}
	}
	var out []MatchBasis
	if hasEmail {
		out = append(out, BasisEmail)
	}
	if hasName {
		out = append(out, BasisName)
	}
	return out
}
