// Package mesh holds indexed triangle meshes and decodes them from STL.
package mesh

import (
	"fmt"
	"math"

	"github.com/teranos/polishcow/math3d"
)

// SolidChar is the glyph faces are drawn with when no shading applies.
const SolidChar = '█'

// Face is a polygon over a mesh's vertex list.
type Face struct {
	Indices []int
	Char    rune
}

// Mesh is an indexed polygon mesh with its own model transform.
type Mesh struct {
	Transform math3d.Transform
	Vertices  []math3d.Vec3
	Faces     []Face
}

// New builds a mesh with an identity model transform.
func New(vertices []math3d.Vec3, faces []Face) *Mesh {
	return &Mesh{
		Transform: math3d.Identity(),
		Vertices:  vertices,
		Faces:     faces,
	}
}

// Geometry returns the vertices in model space after the mesh's own
// transform, together with the faces.
func (m *Mesh) Geometry() ([]math3d.Vec3, []Face) {
	return m.Transform.ApplyAll(m.Vertices), m.Faces
}

// Validate checks that every face has at least three corners and only
// refers to existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Faces) == 0 {
		return fmt.Errorf("mesh has no faces")
	}
	for i, f := range m.Faces {
		if len(f.Indices) < 3 {
			return fmt.Errorf("face %d has %d vertices", i, len(f.Indices))
		}
		for _, idx := range f.Indices {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face %d refers to vertex %d of %d", i, idx, len(m.Vertices))
			}
		}
	}
	for i, v := range m.Vertices {
		if !v.Finite() {
			return fmt.Errorf("vertex %d is not finite", i)
		}
	}
	return nil
}

// Bounds returns the minimum and maximum corners of the axis-aligned box
// around the raw vertices.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero, math3d.Zero
	}
	lo = math3d.V(math.Inf(1), math.Inf(1), math.Inf(1))
	hi = math3d.V(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, v := range m.Vertices {
		lo = math3d.V(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y), math.Min(lo.Z, v.Z))
		hi = math3d.V(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y), math.Max(hi.Z, v.Z))
	}
	return lo, hi
}
