package tetmesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Element is a tetrahedron as four 0-based node indices
type Element [4]int

// Edge is an undirected pair of node indices with A < B
type Edge struct {
	A, B int
}

// Mesh represents a tetrahedral mesh read from a node file and an element file
type Mesh struct {
	// Geometry
	Nodes []r3.Vec // Node coordinates, 0-indexed in file order

	// Element data
	Elements []Element // Element to node connectivity [nelems][4]

	// Header lines, kept for reporting
	NodeHeader    string
	ElementHeader string

	edges []Edge
}

// Edges returns the unique edge set, derived on first use
func (m *Mesh) Edges() []Edge {
	if m.edges == nil {
		m.edges = DeriveEdges(m.Elements)
	}
	return m.edges
}

// ElementVertices returns the coordinates of element k's nodes
func (m *Mesh) ElementVertices(k int) (verts [4]r3.Vec) {
	for i, n := range m.Elements[k] {
		verts[i] = m.Nodes[n]
	}
	return
}

// EdgeEndpoints returns the coordinates of an edge's nodes
func (m *Mesh) EdgeEndpoints(e Edge) (p0, p1 r3.Vec) {
	return m.Nodes[e.A], m.Nodes[e.B]
}

// Validate checks that every element references four distinct, existing nodes
func (m *Mesh) Validate() error {
	nn := len(m.Nodes)
	for k, el := range m.Elements {
		for i, n := range el {
			if n < 0 || n >= nn {
				return fmt.Errorf("element %d references node %d, mesh has %d nodes", k+1, n+1, nn)
			}
			for j := 0; j < i; j++ {
				if el[j] == n {
					return fmt.Errorf("element %d repeats node %d", k+1, n+1)
				}
			}
		}
	}
	return nil
}

// Bounds returns the bounding box of all nodes
func (m *Mesh) Bounds() (box r3.Box) {
	for i, p := range m.Nodes {
		if i == 0 {
			box = r3.Box{Min: p, Max: p}
			continue
		}
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	return
}

// EdgeLengthRange returns the shortest and longest edge
func (m *Mesh) EdgeLengthRange() (min, max float64) {
	for i, e := range m.Edges() {
		p0, p1 := m.EdgeEndpoints(e)
		l := r3.Norm(r3.Sub(p1, p0))
		if i == 0 || l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Nodes: %d\n", len(m.Nodes))
	fmt.Printf("  Elements: %d\n", len(m.Elements))
	fmt.Printf("  Edges: %d\n", len(m.Edges()))
	if len(m.Nodes) == 0 {
		return
	}
	box := m.Bounds()
	fmt.Printf("  Bounds: [%8.4f, %8.4f, %8.4f] - [%8.4f, %8.4f, %8.4f]\n",
		box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	if len(m.Elements) == 0 {
		return
	}
	lmin, lmax := m.EdgeLengthRange()
	fmt.Printf("  Edge length: min %8.4f, max %8.4f\n", lmin, lmax)
	vmin, vmax := NodeValenceRange(m.Edges(), len(m.Nodes))
	fmt.Printf("  Node valence: min %d, max %d\n", vmin, vmax)
}
