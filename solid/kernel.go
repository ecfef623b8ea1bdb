package solid

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/sdf"
	"github.com/soypat/sdf/form3"
	"github.com/soypat/sdf/form3/must3"
	"github.com/soypat/sdf/render"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/types"
)

const (
	NodeRadius  = 1.0 // Joint end spheres and the sphere template
	StrutRadius = 0.5 // Joint cylinder and the cylinder template
)

// Kernel builds template bodies as signed distance functions and commits them
// as STL files, one file per feature, in Dir.
type Kernel struct {
	Dir           string
	Resolution    int // Marching cubes cells across the longest side of a body
	ReferenceEdge geometry.ReferenceEdge
	Log           *zap.Logger
	templates     map[placement.Template]sdf.SDF3
}

var _ placement.Kernel = (*Kernel)(nil)

func NewKernel(dir string, resolution int, ref geometry.ReferenceEdge, log *zap.Logger) (k *Kernel) {
	if log == nil {
		log = zap.NewNop()
	}
	k = &Kernel{
		Dir:           dir,
		Resolution:    resolution,
		ReferenceEdge: ref,
		Log:           log,
		templates:     make(map[placement.Template]sdf.SDF3),
	}
	return
}

// Instantiate returns the named template body. Template bodies are immutable
// so every instance shares one definition.
func (k *Kernel) Instantiate(t placement.Template) (b placement.Body, err error) {
	if s, ok := k.templates[t]; ok {
		return s, nil
	}
	var s sdf.SDF3
	switch t {
	case placement.Tetrahedron:
		s = newTetrahedron(geometry.ReferenceTetrahedron())
	case placement.Sphere:
		s, err = form3.Sphere(NodeRadius)
	case placement.Cylinder:
		s, err = strut(k.ReferenceEdge)
	case placement.Joint:
		s, err = joint(k.ReferenceEdge)
	default:
		err = types.NewSelectionError("unknown template %q, use %s, %s, %s or %s", t,
			placement.Tetrahedron, placement.Joint, placement.Sphere, placement.Cylinder)
	}
	if err != nil {
		return nil, err
	}
	k.templates[t] = s
	k.Log.Debug("template", zap.String("name", string(t)), zap.Any("bounds", s.Bounds()))
	return s, nil
}

func (k *Kernel) Transform(b placement.Body, A geometry.Affine) (placement.Body, error) {
	s, err := asSDF(b)
	if err != nil {
		return nil, err
	}
	return place(s, A)
}

func (k *Kernel) Union(a, b placement.Body) (placement.Body, error) {
	sa, err := asSDF(a)
	if err != nil {
		return nil, err
	}
	sb, err := asSDF(b)
	if err != nil {
		return nil, err
	}
	return newAssembly(sa, sb), nil
}

// Commit meshes the body and writes it to Dir/<feature>.stl
func (k *Kernel) Commit(feature string, b placement.Body) (err error) {
	var s sdf.SDF3
	if s, err = asSDF(b); err != nil {
		return
	}
	if len(feature) == 0 {
		return types.NewSelectionError("empty feature name")
	}
	if k.Resolution < 2 {
		return fmt.Errorf("resolution %d must be 2 or larger", k.Resolution)
	}
	if err = os.MkdirAll(k.Dir, 0755); err != nil {
		return
	}
	path := k.FeaturePath(feature)
	if err = render.CreateSTL(path, render.NewOctreeRenderer(s, k.Resolution)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	k.Log.Info("wrote feature", zap.String("path", path), zap.Int("resolution", k.Resolution))
	return
}

func (k *Kernel) FeaturePath(feature string) string {
	return filepath.Join(k.Dir, feature+".stl")
}

// Triangles meshes a body without writing it
func (k *Kernel) Triangles(b placement.Body) (tris []r3.Triangle, err error) {
	var s sdf.SDF3
	if s, err = asSDF(b); err != nil {
		return
	}
	return render.RenderAll(render.NewOctreeRenderer(s, k.Resolution))
}

func asSDF(b placement.Body) (sdf.SDF3, error) {
	s, ok := b.(sdf.SDF3)
	if !ok || s == nil {
		return nil, fmt.Errorf("body %T was not built by this kernel", b)
	}
	return s, nil
}

// strut is a cylinder of StrutRadius running along the reference edge
func strut(ref geometry.ReferenceEdge) (s sdf.SDF3, err error) {
	length := ref.Length()
	if !(length > 0) {
		return nil, &types.GeometryError{Shape: "reference edge", Reason: "zero length"}
	}
	var R geometry.Affine
	if R, err = geometry.RotationBetween(r3.Vec{Z: 1}, ref.Direction()); err != nil {
		return
	}
	mid := r3.Scale(0.5, r3.Add(ref.P0, ref.P1))
	// must3 cylinders are centered on the origin along z
	return place(must3.Cylinder(length, StrutRadius, 0), geometry.Translation(mid).Mul(R))
}

// joint is a sphere on each end of the reference edge and the strut between
// them, unioned in that order.
func joint(ref geometry.ReferenceEdge) (s sdf.SDF3, err error) {
	var ball, cyl sdf.SDF3
	if ball, err = form3.Sphere(NodeRadius); err != nil {
		return
	}
	if cyl, err = strut(ref); err != nil {
		return
	}
	bodies := []sdf.SDF3{
		sdf.Transform3D(ball, sdf.Translate3D(ref.P0)),
		sdf.Transform3D(ball, sdf.Translate3D(ref.P1)),
		cyl,
	}
	s = bodies[0]
	for _, b := range bodies[1:] {
		s = sdf.Union3D(s, b)
	}
	return
}
