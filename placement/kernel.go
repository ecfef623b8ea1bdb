package placement

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/geometry"
)

// Template names a body definition known to the kernel
type Template string

const (
	Tetrahedron Template = "tetrahedron"
	Joint       Template = "joint"
	Sphere      Template = "sphere"
	Cylinder    Template = "cylinder"
)

// Body is an opaque solid owned by a Kernel
type Body interface {
	Bounds() r3.Box
}

// Kernel is the solid modeling service the driver places bodies with.
// Instantiate returns a fresh copy of a template body, Transform and Union
// return new bodies, and Commit writes one body into the output document as
// a named feature.
type Kernel interface {
	Instantiate(t Template) (Body, error)
	Transform(b Body, A geometry.Affine) (Body, error)
	Union(a, b Body) (Body, error)
	Commit(feature string, b Body) error
}
