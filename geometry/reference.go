package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/utils"
)

// The reference tetrahedron is the regular tetrahedron inscribed in the unit
// sphere with one vertex on +z and one edge of its base parallel to y.
var (
	referenceTet = [4]r3.Vec{
		{X: math.Sqrt(8. / 9.), Y: 0, Z: -1. / 3.},
		{X: -math.Sqrt(2. / 9.), Y: -math.Sqrt(2. / 3.), Z: -1. / 3.},
		{X: -math.Sqrt(2. / 9.), Y: math.Sqrt(2. / 3.), Z: -1. / 3.},
		{X: 0, Y: 0, Z: 1},
	}
	referenceTetInverse = mustInvert(vertexMatrix(referenceTet))
)

// DefaultReferenceEdge is the axis of the default edge joint
var DefaultReferenceEdge = ReferenceEdge{
	P0: r3.Vec{},
	P1: r3.Vec{X: 10},
}

// ReferenceTetrahedron returns the vertices of the reference tetrahedron
func ReferenceTetrahedron() [4]r3.Vec { return referenceTet }

// ReferenceMatrix returns the homogeneous vertex matrix of the reference
// tetrahedron: rows x, y, z and a row of ones, one column per vertex.
func ReferenceMatrix() utils.Matrix { return vertexMatrix(referenceTet) }

// ReferenceEdge is the segment a template edge body is modeled along
type ReferenceEdge struct {
	P0, P1 r3.Vec
}

// NewReferenceEdge returns a reference edge of the given length on +x
func NewReferenceEdge(length float64) ReferenceEdge {
	return ReferenceEdge{P1: r3.Vec{X: length}}
}

func (re ReferenceEdge) Length() float64 { return r3.Norm(r3.Sub(re.P1, re.P0)) }

func (re ReferenceEdge) Direction() r3.Vec { return r3.Unit(r3.Sub(re.P1, re.P0)) }

func vertexMatrix(verts [4]r3.Vec) (M utils.Matrix) {
	M = utils.NewMatrix(4, 4)
	for j, v := range verts {
		M.SetCol(j, []float64{v.X, v.Y, v.Z, 1})
	}
	return
}

func mustInvert(M utils.Matrix) utils.Matrix {
	Minv, err := M.Inverse()
	if err != nil {
		panic(err)
	}
	return Minv.SetReadOnly("referenceTetInverse")
}
