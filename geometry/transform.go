package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/types"
	"github.com/notargets/tetlattice/utils"
)

// VolumeTol is the smallest accepted ratio of an element's parallelepiped
// volume to the cube of its longest edge. A regular tetrahedron has about 0.71.
const VolumeTol = 1.e-10

// ElementTransform returns the affine map taking reference tetrahedron vertex i
// onto target[i]. Coplanar or coincident targets are rejected.
func ElementTransform(target [4]r3.Vec) (A Affine, err error) {
	if err = checkElement(target); err != nil {
		return
	}
	// A * R = T, with R and T the homogeneous vertex matrices
	A = newAffine(vertexMatrix(target).Mul(referenceTetInverse))
	if !A.IsFinite() {
		err = &types.GeometryError{Shape: "element", Reason: "transform is not finite"}
	}
	return
}

func checkElement(target [4]r3.Vec) error {
	var (
		maxLen float64
	)
	for _, p := range target {
		if !utils.IsFinite(p.X, p.Y, p.Z) {
			return &types.GeometryError{Shape: "element", Reason: fmt.Sprintf("vertex %v is not finite", p)}
		}
	}
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			maxLen = math.Max(maxLen, r3.Norm(r3.Sub(target[j], target[i])))
		}
	}
	if maxLen == 0 {
		return &types.GeometryError{Shape: "element", Reason: "all vertices coincide"}
	}
	var (
		e1  = r3.Sub(target[1], target[0])
		e2  = r3.Sub(target[2], target[0])
		e3  = r3.Sub(target[3], target[0])
		vol = r3.Dot(e1, r3.Cross(e2, e3))
	)
	if ratio := math.Abs(vol) / (maxLen * maxLen * maxLen); ratio <= VolumeTol {
		return &types.GeometryError{Shape: "element",
			Reason: fmt.Sprintf("vertices are coplanar (volume ratio %8.3e)", ratio)}
	}
	return nil
}

// EdgePlacement is the transform taking a reference edge onto a mesh edge
type EdgePlacement struct {
	Scale    float64 // Stretch along the reference edge, |p1-p0| / reference length
	Rotation Affine
	Matrix   Affine
}

// EdgeTransform composes translation by p0, the rotation of the reference
// direction onto p0->p1 and a stretch along local x, accumulated by right
// multiplication so a point is scaled first, then rotated, then translated.
func EdgeTransform(p0, p1 r3.Vec, ref ReferenceEdge) (ep EdgePlacement, err error) {
	var (
		d      = r3.Sub(p1, p0)
		dist   = r3.Norm(d)
		refLen = ref.Length()
		tol    = utils.NODETOL * math.Max(1, math.Max(r3.Norm(p0), r3.Norm(p1)))
	)
	if !utils.IsFinite(p0.X, p0.Y, p0.Z, p1.X, p1.Y, p1.Z) {
		err = &types.GeometryError{Shape: "edge", Reason: fmt.Sprintf("endpoints %v, %v are not finite", p0, p1)}
		return
	}
	if dist <= tol {
		err = &types.GeometryError{Shape: "edge", Reason: fmt.Sprintf("zero length edge at %v", p0)}
		return
	}
	if !(refLen > 0) {
		err = &types.GeometryError{Shape: "reference edge", Reason: "zero length"}
		return
	}
	ep.Scale = dist / refLen
	if ep.Rotation, err = RotationBetween(ref.Direction(), d); err != nil {
		err = &types.GeometryError{Shape: "edge", Reason: err.Error()}
		return
	}
	// Reference edges that do not start at the origin are moved there first
	M := Identity()
	M = M.Mul(Translation(p0))
	M = M.Mul(ep.Rotation)
	M = M.Mul(alongDirection(ref.Direction(), ep.Scale))
	M = M.Mul(Translation(r3.Scale(-1, ref.P0)))
	ep.Matrix = M
	if !M.IsFinite() {
		err = &types.GeometryError{Shape: "edge", Reason: "transform is not finite"}
	}
	return
}

// alongDirection stretches by s along unit direction u, leaving the
// perpendicular plane unchanged. For u = +x this is Scaling({s, 1, 1}).
func alongDirection(u r3.Vec, s float64) Affine {
	k := s - 1
	return NewAffine([16]float64{
		1 + k*u.X*u.X, k * u.X * u.Y, k * u.X * u.Z, 0,
		k * u.Y * u.X, 1 + k*u.Y*u.Y, k * u.Y * u.Z, 0,
		k * u.Z * u.X, k * u.Z * u.Y, 1 + k*u.Z*u.Z, 0,
		0, 0, 0, 1,
	})
}

// NodeTransform places a template centered on the origin at p
func NodeTransform(p r3.Vec) Affine {
	return Translation(p)
}
