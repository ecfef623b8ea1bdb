package solid

import (
	"math"

	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/types"
)

// tetrahedron is the convex hull of four points, evaluated as the largest of
// its four face plane distances. The value is exact inside and a lower bound
// outside, near the edges and corners.
type tetrahedron struct {
	verts   [4]r3.Vec
	normals [4]r3.Vec
	offsets [4]float64
	bb      r3.Box
}

func newTetrahedron(verts [4]r3.Vec) (s *tetrahedron) {
	s = &tetrahedron{verts: verts}
	for i := range verts {
		// Face i is opposite vertex i
		a, b, c := verts[(i+1)%4], verts[(i+2)%4], verts[(i+3)%4]
		n := r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
		if r3.Dot(n, r3.Sub(verts[i], a)) > 0 {
			n = r3.Scale(-1, n)
		}
		s.normals[i], s.offsets[i] = n, r3.Dot(n, a)
	}
	s.bb = r3.Box{Min: verts[0], Max: verts[0]}
	for _, v := range verts[1:] {
		s.bb = extendBox(s.bb, r3.Box{Min: v, Max: v})
	}
	return
}

func (s *tetrahedron) Evaluate(p r3.Vec) (d float64) {
	d = math.Inf(-1)
	for i, n := range s.normals {
		d = math.Max(d, r3.Dot(n, p)-s.offsets[i])
	}
	return
}

func (s *tetrahedron) Bounds() r3.Box { return s.bb }

// placed is an SDF3 moved by a general affine map. Distances are measured in
// the template's frame and scaled by the smallest stretch of the map, so the
// result never overestimates the true distance and octree culling stays safe.
type placed struct {
	sdf     sdf.SDF3
	matrix  geometry.Affine
	inverse geometry.Affine
	lip     float64
	bb      r3.Box
}

// place moves s by A. A tetrahedron maps onto another tetrahedron and a placed
// body composes its maps, anything else is wrapped.
func place(s sdf.SDF3, A geometry.Affine) (placedSDF sdf.SDF3, err error) {
	if !A.IsFinite() {
		return nil, &types.GeometryError{Shape: "transform", Reason: "matrix is not finite"}
	}
	var inv geometry.Affine
	if inv, err = A.Inverse(); err != nil {
		return nil, &types.GeometryError{Shape: "transform", Reason: err.Error()}
	}
	lip := minStretch(A)
	if !(lip > 0) {
		return nil, &types.GeometryError{Shape: "transform", Reason: "matrix collapses a direction"}
	}
	switch inner := s.(type) {
	case *tetrahedron:
		var verts [4]r3.Vec
		for i, v := range inner.verts {
			verts[i] = A.Apply(v)
		}
		return newTetrahedron(verts), nil
	case *placed:
		return place(inner.sdf, A.Mul(inner.matrix))
	}
	return &placed{
		sdf:     s,
		matrix:  A,
		inverse: inv,
		lip:     lip,
		bb:      A.ApplyBox(s.Bounds()),
	}, nil
}

func (p *placed) Evaluate(v r3.Vec) float64 {
	return p.lip * p.sdf.Evaluate(p.inverse.Apply(v))
}

func (p *placed) Bounds() r3.Box { return p.bb }

// minStretch returns the smallest singular value of the linear part of A
func minStretch(A geometry.Affine) float64 {
	rows := A.Rows()
	L := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			L.Set(i, j, rows[i][j])
		}
	}
	var svd mat.SVD
	if !svd.Factorize(L, mat.SVDNone) {
		return 0
	}
	vals := svd.Values(nil)
	return vals[len(vals)-1]
}

// assembly is a union that remembers its parts so repeated pairwise unions
// stay one level deep instead of nesting once per body.
type assembly struct {
	sdf.SDF3Union
	parts []sdf.SDF3
}

func newAssembly(a, b sdf.SDF3) *assembly {
	parts := append(append([]sdf.SDF3{}, partsOf(a)...), partsOf(b)...)
	return &assembly{SDF3Union: sdf.Union3D(parts...), parts: parts}
}

func partsOf(s sdf.SDF3) []sdf.SDF3 {
	if as, ok := s.(*assembly); ok {
		return as.parts
	}
	return []sdf.SDF3{s}
}

func extendBox(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y), Z: math.Min(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y), Z: math.Max(a.Max.Z, b.Max.Z)},
	}
}
