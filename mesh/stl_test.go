package mesh

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/polishcow/math3d"
)

const tetrahedron = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func binarySTL(tris [][3]math3d.Vec3) []byte {
	var buf bytes.Buffer
	header := make([]byte, stlHeaderSize)
	copy(header, "solid but actually binary")
	buf.Write(header)
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		rec := make([]float32, 12)
		for j, v := range tri {
			rec[3+j*3] = float32(v.X)
			rec[4+j*3] = float32(v.Y)
			rec[5+j*3] = float32(v.Z)
		}
		binary.Write(&buf, binary.LittleEndian, rec)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestDecodeASCIISTL(t *testing.T) {
	m, err := DecodeSTL(strings.NewReader(tetrahedron))
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 4, "shared corners should be merged")
	require.Len(t, m.Faces, 4)
	assert.Equal(t, []int{0, 1, 2}, m.Faces[0].Indices)
	assert.Equal(t, SolidChar, m.Faces[0].Char)
	assert.Equal(t, math3d.V(0, 1, 0), m.Vertices[1])
}

func TestDecodeBinarySTL(t *testing.T) {
	data := binarySTL([][3]math3d.Vec3{
		{math3d.V(0, 0, 0), math3d.V(1, 0, 0), math3d.V(0, 1, 0)},
		{math3d.V(1, 0, 0), math3d.V(1, 1, 0), math3d.V(0, 1, 0)},
	})

	m, err := DecodeSTL(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Faces, 2)
	assert.Equal(t, []int{1, 3, 2}, m.Faces[1].Indices)
}

func TestDecodeSTLErrors(t *testing.T) {
	examples := []struct {
		name  string
		input string
		err   string
	}{
		{"empty", "", "unrecognised"},
		{"garbage", "hello cow", "unrecognised"},
		{"no facets", "solid x\nendsolid x\n", "no facets"},
		{"bad number", "solid x\nfacet normal 0 0 0\nouter loop\nvertex 0 moo 0\n", "line 4"},
		{"short vertex", "solid x\nfacet normal 0 0 0\nouter loop\nvertex 0 0\n", "3 coordinates"},
		{"two corners", "solid x\nfacet normal 0 0 0\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\n", "2 vertices"},
		{"truncated", "solid x\nfacet normal 0 0 0\nouter loop\nvertex 0 0 0\n", "truncated"},
		{"stray vertex", "solid x\nvertex 0 0 0\n", "outside loop"},
		{"unknown keyword", "solid x\nmoo\n", "unexpected"},
	}

	for _, x := range examples {
		t.Run(x.name, func(t *testing.T) {
			_, err := DecodeSTL(strings.NewReader(x.input))
			assert.ErrorContains(t, err, x.err)
		})
	}
}

func TestValidate(t *testing.T) {
	m := New([]math3d.Vec3{math3d.Zero, math3d.One}, []Face{{Indices: []int{0, 1, 2}}})
	assert.ErrorContains(t, m.Validate(), "vertex 2")

	m = New([]math3d.Vec3{math3d.Zero}, []Face{{Indices: []int{0, 0}}})
	assert.ErrorContains(t, m.Validate(), "2 vertices")

	m = New([]math3d.Vec3{math3d.V(math.NaN(), 0, 0)}, []Face{{Indices: []int{0, 0, 0}}})
	assert.ErrorContains(t, m.Validate(), "not finite")

	assert.ErrorContains(t, New(nil, nil).Validate(), "no faces")
}

func TestGeometryAppliesModelTransform(t *testing.T) {
	m, err := DecodeSTL(strings.NewReader(tetrahedron))
	require.NoError(t, err)

	m.Transform.Position = math3d.V(10, 0, 0)
	vs, faces := m.Geometry()
	assert.Equal(t, math3d.V(10, 1, 0), vs[1])
	assert.Len(t, faces, 4)
	assert.Equal(t, math3d.V(0, 1, 0), m.Vertices[1], "raw vertices are untouched")
}
