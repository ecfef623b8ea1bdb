package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/utils"
)

/*
Affine is a 4x4 homogeneous transform in column vector convention:

	| x' |   | a00 a01 a02 tx |   | x |
	| y' | = | a10 a11 a12 ty | * | y |
	| z' |   | a20 a21 a22 tz |   | z |
	| 1  |   |  0   0   0   1 |   | 1 |

Affine values are immutable, every operation returns a new transform.
*/
type Affine struct {
	m utils.Matrix
}

func newAffine(m utils.Matrix) Affine {
	m.SetReadOnly("Affine")
	return Affine{m: m}
}

// NewAffine builds a transform from 16 row major values
func NewAffine(rowMajor [16]float64) Affine {
	data := make([]float64, 16)
	copy(data, rowMajor[:])
	return newAffine(utils.NewMatrix(4, 4, data))
}

func Identity() Affine {
	return newAffine(utils.NewIdentity(4))
}

func Translation(v r3.Vec) Affine {
	return NewAffine([16]float64{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	})
}

func Scaling(s r3.Vec) Affine {
	return NewAffine([16]float64{
		s.X, 0, 0, 0,
		0, s.Y, 0, 0,
		0, 0, s.Z, 0,
		0, 0, 0, 1,
	})
}

// RotationBetween returns the proper rotation taking the direction of a onto
// the direction of b. Antiparallel inputs give a half turn about an axis
// perpendicular to a, never a reflection. Zero length inputs are an error.
func RotationBetween(a, b r3.Vec) (R Affine, err error) {
	var (
		na, nb = r3.Norm(a), r3.Norm(b)
	)
	if na == 0 || nb == 0 || !utils.IsFinite(na, nb) {
		err = fmt.Errorf("rotation between %v and %v is undefined", a, b)
		return
	}
	a, b = r3.Scale(1/na, a), r3.Scale(1/nb, b)
	var (
		c = r3.Dot(a, b)
		v = r3.Cross(a, b)
		s = r3.Norm(v)
	)
	switch {
	case s <= utils.NODETOL && c > 0:
		return Identity(), nil
	case s <= utils.NODETOL:
		// Half turn about any axis perpendicular to a
		axis := r3.Unit(r3.Cross(a, leastAlignedAxis(a)))
		return axisAngle(axis, math.Pi), nil
	}
	return axisAngle(r3.Scale(1/s, v), math.Atan2(s, c)), nil
}

// leastAlignedAxis returns the coordinate axis most perpendicular to v
func leastAlignedAxis(v r3.Vec) r3.Vec {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax <= ay && ax <= az:
		return r3.Vec{X: 1}
	case ay <= az:
		return r3.Vec{Y: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

// axisAngle is the Rodrigues rotation about a unit axis
func axisAngle(u r3.Vec, theta float64) Affine {
	var (
		c, s = math.Cos(theta), math.Sin(theta)
		t    = 1 - c
	)
	return NewAffine([16]float64{
		t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y, 0,
		t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X, 0,
		t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c, 0,
		0, 0, 0, 1,
	})
}

// Mul returns a*b, which applied to a point applies b first
func (a Affine) Mul(b Affine) Affine {
	return newAffine(a.m.Mul(b.m))
}

// Apply transforms a point
func (a Affine) Apply(p r3.Vec) r3.Vec {
	d := a.m.Data()
	return r3.Vec{
		X: d[0]*p.X + d[1]*p.Y + d[2]*p.Z + d[3],
		Y: d[4]*p.X + d[5]*p.Y + d[6]*p.Z + d[7],
		Z: d[8]*p.X + d[9]*p.Y + d[10]*p.Z + d[11],
	}
}

// ApplyBox returns the axis aligned box holding the transformed corners of b
func (a Affine) ApplyBox(b r3.Box) r3.Box {
	var out r3.Box
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := a.Apply(c)
		if i == 0 {
			out = r3.Box{Min: p, Max: p}
			continue
		}
		out.Min = r3.Vec{X: math.Min(out.Min.X, p.X), Y: math.Min(out.Min.Y, p.Y), Z: math.Min(out.Min.Z, p.Z)}
		out.Max = r3.Vec{X: math.Max(out.Max.X, p.X), Y: math.Max(out.Max.Y, p.Y), Z: math.Max(out.Max.Z, p.Z)}
	}
	return out
}

func (a Affine) Inverse() (Affine, error) {
	inv, err := a.m.Inverse()
	if err != nil {
		return Affine{}, err
	}
	return newAffine(inv), nil
}

func (a Affine) Det() float64 { return a.m.Det() }

func (a Affine) At(i, j int) float64 { return a.m.At(i, j) }

// Rows returns a copy of the matrix values
func (a Affine) Rows() (rows [4][4]float64) {
	d := a.m.Data()
	for i := 0; i < 4; i++ {
		copy(rows[i][:], d[4*i:4*i+4])
	}
	return
}

func (a Affine) IsFinite() bool {
	return utils.IsFinite(a.m.Data()...)
}

func (a Affine) String() string { return a.m.String() }
