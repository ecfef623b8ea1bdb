package solid

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/sdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/tetmesh"
	"github.com/notargets/tetlattice/types"
)

const tol = 1e-9

func assertBox(t *testing.T, want, got r3.Box) {
	t.Helper()
	assert.InDeltaf(t, 0, r3.Norm(r3.Sub(want.Min, got.Min)), tol, "min %v != %v", got.Min, want.Min)
	assert.InDeltaf(t, 0, r3.Norm(r3.Sub(want.Max, got.Max)), tol, "max %v != %v", got.Max, want.Max)
}

func evaluate(t *testing.T, b placement.Body, p r3.Vec) float64 {
	t.Helper()
	s, ok := b.(sdf.SDF3)
	require.True(t, ok)
	return s.Evaluate(p)
}

func testKernel(t *testing.T) *Kernel {
	return NewKernel(t.TempDir(), 16, geometry.DefaultReferenceEdge, nil)
}

func TestTetrahedronTemplate(t *testing.T) {
	k := testKernel(t)
	b, err := k.Instantiate(placement.Tetrahedron)
	require.NoError(t, err)
	ref := geometry.ReferenceTetrahedron()
	var centroid r3.Vec
	for _, v := range ref {
		assert.InDelta(t, 0, evaluate(t, b, v), tol)
		centroid = r3.Add(centroid, r3.Scale(0.25, v))
	}
	// The reference vertices lie on the unit sphere, the insphere radius is 1/3
	assert.InDelta(t, -1./3, evaluate(t, b, centroid), tol)
	// Below the base face centroid the distance is exact
	assert.InDelta(t, 2./3, evaluate(t, b, r3.Vec{Z: -1}), tol)
	// Beyond a vertex it is a lower bound
	d := evaluate(t, b, r3.Vec{Z: 2})
	assert.True(t, d > 0 && d <= 1, d)
	assertBox(t, r3.Box{
		Min: r3.Vec{X: -math.Sqrt(2. / 9), Y: -math.Sqrt(2. / 3), Z: -1. / 3},
		Max: r3.Vec{X: math.Sqrt(8. / 9), Y: math.Sqrt(2. / 3), Z: 1},
	}, b.Bounds())
}

func TestJointTemplate(t *testing.T) {
	k := testKernel(t)
	b, err := k.Instantiate(placement.Joint)
	require.NoError(t, err)
	assertBox(t, r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 11, Y: 1, Z: 1}}, b.Bounds())
	assert.InDelta(t, -1, evaluate(t, b, r3.Vec{}), tol)
	assert.InDelta(t, -1, evaluate(t, b, r3.Vec{X: 10}), tol)
	assert.InDelta(t, -0.5, evaluate(t, b, r3.Vec{X: 5}), tol)
	assert.InDelta(t, 1.5, evaluate(t, b, r3.Vec{X: 5, Y: 2}), tol)
	assert.InDelta(t, 1, evaluate(t, b, r3.Vec{X: 12}), tol)

	// Same definition on every call
	b2, err := k.Instantiate(placement.Joint)
	require.NoError(t, err)
	assert.True(t, b == b2)
}

func TestSphereAndCylinderTemplates(t *testing.T) {
	k := testKernel(t)
	s, err := k.Instantiate(placement.Sphere)
	require.NoError(t, err)
	assert.InDelta(t, -NodeRadius, evaluate(t, s, r3.Vec{}), tol)
	assert.InDelta(t, 2-NodeRadius, evaluate(t, s, r3.Vec{Y: 2}), tol)

	c, err := k.Instantiate(placement.Cylinder)
	require.NoError(t, err)
	assertBox(t, r3.Box{Min: r3.Vec{Y: -0.5, Z: -0.5}, Max: r3.Vec{X: 10, Y: 0.5, Z: 0.5}}, c.Bounds())
	assert.InDelta(t, -StrutRadius, evaluate(t, c, r3.Vec{X: 3}), tol)
	assert.InDelta(t, 1, evaluate(t, c, r3.Vec{X: 11}), tol)
	assert.InDelta(t, 2-StrutRadius, evaluate(t, c, r3.Vec{X: 3, Z: 2}), tol)
}

func TestTemplatesFollowReferenceEdge(t *testing.T) {
	ref := geometry.ReferenceEdge{P1: r3.Vec{Y: 4}}
	k := NewKernel(t.TempDir(), 16, ref, nil)
	b, err := k.Instantiate(placement.Joint)
	require.NoError(t, err)
	assertBox(t, r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 5, Z: 1}}, b.Bounds())
	assert.InDelta(t, -0.5, evaluate(t, b, r3.Vec{Y: 2}), tol)
}

func TestUnknownTemplate(t *testing.T) {
	k := testKernel(t)
	_, err := k.Instantiate("dodecahedron")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSelection), err)
}

func TestTransform(t *testing.T) {
	k := testKernel(t)
	tet, err := k.Instantiate(placement.Tetrahedron)
	require.NoError(t, err)
	corner := [4]r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	A, err := geometry.ElementTransform(corner)
	require.NoError(t, err)
	b, err := k.Transform(tet, A)
	require.NoError(t, err)
	assertBox(t, r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}}, b.Bounds())
	assert.True(t, evaluate(t, b, r3.Vec{X: 0.25, Y: 0.25, Z: 0.25}) < 0)
	assert.True(t, evaluate(t, b, r3.Vec{X: 1, Y: 1, Z: 1}) > 0)
	for _, v := range corner {
		assert.InDelta(t, 0, evaluate(t, b, v), tol)
	}

	// Distances never exceed the true distance under scaling
	ball, err := k.Instantiate(placement.Sphere)
	require.NoError(t, err)
	small, err := k.Transform(ball, geometry.Scaling(r3.Vec{X: 0.1, Y: 0.1, Z: 0.1}))
	require.NoError(t, err)
	assert.InDelta(t, 0.9, evaluate(t, small, r3.Vec{X: 1}), tol)
	stretched, err := k.Transform(ball, geometry.Scaling(r3.Vec{X: 4, Y: 1, Z: 1}))
	require.NoError(t, err)
	d := evaluate(t, stretched, r3.Vec{Y: 3})
	assert.True(t, d > 0 && d <= 2+tol, d)

	// A placed tetrahedron is still a tetrahedron with tight bounds
	_, ok := b.(*tetrahedron)
	assert.True(t, ok)
	moved, err := k.Transform(b, geometry.Translation(r3.Vec{Z: 5}))
	require.NoError(t, err)
	assertBox(t, r3.Box{Min: r3.Vec{Z: 5}, Max: r3.Vec{X: 1, Y: 1, Z: 6}}, moved.Bounds())

	// Placing a placed body composes the maps
	twice, err := k.Transform(small, geometry.Translation(r3.Vec{X: 5}))
	require.NoError(t, err)
	p, ok := twice.(*placed)
	require.True(t, ok)
	_, nested := p.sdf.(*placed)
	assert.False(t, nested)
	assert.InDelta(t, -0.1, evaluate(t, twice, r3.Vec{X: 5}), tol)
	assertBox(t, r3.Box{Min: r3.Vec{X: 4.9, Y: -0.1, Z: -0.1}, Max: r3.Vec{X: 5.1, Y: 0.1, Z: 0.1}}, twice.Bounds())

	// Singular maps are rejected
	_, err = k.Transform(tet, geometry.Scaling(r3.Vec{X: 1, Y: 1}))
	assert.True(t, errors.Is(err, types.ErrDegenerateGeometry), err)
}

func TestUnion(t *testing.T) {
	k := testKernel(t)
	ball, err := k.Instantiate(placement.Sphere)
	require.NoError(t, err)
	var bodies []placement.Body
	for i := 0; i < 3; i++ {
		b, err := k.Transform(ball, geometry.Translation(r3.Vec{X: 3 * float64(i)}))
		require.NoError(t, err)
		bodies = append(bodies, b)
	}
	u, err := k.Union(bodies[0], bodies[1])
	require.NoError(t, err)
	u, err = k.Union(u, bodies[2])
	require.NoError(t, err)
	as, ok := u.(*assembly)
	require.True(t, ok)
	assert.Len(t, as.parts, 3)
	assertBox(t, r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 7, Y: 1, Z: 1}}, u.Bounds())
	for i := 0; i < 3; i++ {
		assert.InDelta(t, -1, evaluate(t, u, r3.Vec{X: 3 * float64(i)}), tol)
	}
	assert.InDelta(t, 0.5, evaluate(t, u, r3.Vec{X: 1.5}), tol)

	_, err = k.Union(u, nil)
	assert.Error(t, err)
}

func checkSTL(t *testing.T, path string) {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err)
	// 84 byte header then 50 bytes per triangle
	assert.True(t, fi.Size() > 84)
	assert.Equal(t, int64(0), (fi.Size()-84)%50)
}

func TestCommit(t *testing.T) {
	k := testKernel(t)
	b, err := k.Instantiate(placement.Tetrahedron)
	require.NoError(t, err)
	require.NoError(t, k.Commit("UnitTetrahedron", b))
	checkSTL(t, filepath.Join(k.Dir, "UnitTetrahedron.stl"))

	tris, err := k.Triangles(b)
	require.NoError(t, err)
	assert.NotEmpty(t, tris)

	assert.True(t, errors.Is(k.Commit("", b), types.ErrSelection))
	k.Resolution = 1
	assert.Error(t, k.Commit("Coarse", b))
	_, err = os.Stat(k.FeaturePath("Coarse"))
	assert.True(t, os.IsNotExist(err))
}

func TestPlaceMesh(t *testing.T) {
	m := &tetmesh.Mesh{
		Nodes: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1}},
		Elements: []tetmesh.Element{
			{0, 1, 2, 3},
			{1, 2, 3, 4},
		},
	}
	k := testKernel(t)
	d := placement.NewDriver(k, nil)
	{
		p, err := placement.NewPlan(m, placement.DefaultConfig())
		require.NoError(t, err)
		body, err := d.Place(p, "MeshBody")
		require.NoError(t, err)
		assertBox(t, r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}}, body.Bounds())
		checkSTL(t, k.FeaturePath("MeshBody"))
	}
	{
		cfg := placement.Config{
			Mode:          types.Lattice,
			EdgeTemplate:  placement.Joint,
			ReferenceEdge: geometry.DefaultReferenceEdge,
		}
		p, err := placement.NewPlan(m, cfg)
		require.NoError(t, err)
		body, err := d.Place(p, "Lattice")
		require.NoError(t, err)
		// Joints keep their radius across every edge
		bb := body.Bounds()
		for _, c := range []float64{bb.Min.X, bb.Min.Y, bb.Min.Z} {
			assert.True(t, c <= -1+tol, bb)
		}
		for _, c := range []float64{bb.Max.X, bb.Max.Y, bb.Max.Z} {
			assert.True(t, c >= 2-tol, bb)
		}
		assert.True(t, evaluate(t, body, r3.Vec{X: 1, Y: 1, Z: 1}) < 0)
		assert.True(t, evaluate(t, body, r3.Vec{X: 3, Y: 3, Z: 3}) > 0)
		checkSTL(t, k.FeaturePath("Lattice"))
	}
}
