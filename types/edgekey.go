package types

import (
	"fmt"
	"math"
)

/*
EdgeKey stores an undirected edge's two vertex indices packed in one uint64.
An edge between vertices [4] and [0] is always stored as [0,4], with the lower
index in the high 32 bits, so sorting keys numerically sorts the edges in
ascending lexicographic order of their vertex pairs.
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(uint64(i1)<<32 | uint64(i2))
	return
}

// GetVertices returns the pair in ascending order, or descending when rev is set
func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0] = int(ek >> 32)
	verts[1] = int(ek & math.MaxUint32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (ek EdgeKey) String() string {
	v := ek.GetVertices(false)
	return fmt.Sprintf("(%d,%d)", v[0], v[1])
}
