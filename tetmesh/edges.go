package tetmesh

import (
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/tetlattice/types"
)

// Local vertex pairs of a tetrahedron's six edges
var tetEdges = [6][2]int{
	{0, 1}, {0, 2}, {0, 3},
	{1, 2}, {1, 3}, {2, 3},
}

// DeriveEdges returns the unique undirected edges of the elements in ascending
// lexicographic order. Pairs are accumulated in the upper triangle of a node to
// node dictionary of keys matrix, so a pair shared by many elements is stored once.
func DeriveEdges(elements []Element) (edges []Edge) {
	var (
		Nv int
	)
	if len(elements) == 0 {
		return []Edge{}
	}
	for _, el := range elements {
		for _, n := range el {
			if n+1 > Nv {
				Nv = n + 1
			}
		}
	}
	SpVToV := sparse.NewDOK(Nv, Nv)
	for _, el := range elements {
		for _, le := range tetEdges {
			key := types.NewEdgeKey([2]int{el[le[0]], el[le[1]]})
			v := key.GetVertices(false)
			SpVToV.Set(v[0], v[1], 1)
		}
	}
	keys := make([]types.EdgeKey, 0, SpVToV.NNZ())
	SpVToV.DoNonZero(func(i, j int, _ float64) {
		keys = append(keys, types.NewEdgeKey([2]int{i, j}))
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	edges = make([]Edge, len(keys))
	for i, key := range keys {
		v := key.GetVertices(false)
		edges[i] = Edge{A: v[0], B: v[1]}
	}
	return
}

// NodeValence returns the number of edges meeting at each node
func NodeValence(edges []Edge, numNodes int) (valence []int) {
	if len(edges) == 0 || numNodes == 0 {
		return make([]int, numNodes)
	}
	// Edge to node incidence, one row per edge
	SpEToV := sparse.NewDOK(len(edges), numNodes)
	for i, e := range edges {
		SpEToV.Set(i, e.A, 1)
		SpEToV.Set(i, e.B, 1)
	}
	ones := make([]float64, len(edges))
	for i := range ones {
		ones[i] = 1
	}
	var counts mat.VecDense
	counts.MulVec(SpEToV.ToCSR().T(), mat.NewVecDense(len(edges), ones))
	valence = make([]int, numNodes)
	for i := range valence {
		valence[i] = int(counts.AtVec(i))
	}
	return
}

// NodeValenceRange returns the smallest and largest node valence
func NodeValenceRange(edges []Edge, numNodes int) (min, max int) {
	if len(edges) == 0 || numNodes == 0 {
		return
	}
	for i, v := range NodeValence(edges, numNodes) {
		if i == 0 || v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}
