package math3d

import (
	"fmt"
	"math"
)

// Transform places a model in the world: scale first, then rotation about X,
// Y and Z in that order, then translation.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// NewTRS builds a Transform from translation, rotation and scale.
func NewTRS(position, rotation, scale Vec3) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// Identity returns a transform that leaves points untouched.
func Identity() Transform {
	return Transform{Scale: One}
}

// Validate reports the first non-finite component.
func (t Transform) Validate() error {
	switch {
	case !t.Position.Finite():
		return fmt.Errorf("non-finite position %v", t.Position)
	case !t.Rotation.Finite():
		return fmt.Errorf("non-finite rotation %v", t.Rotation)
	case !t.Scale.Finite():
		return fmt.Errorf("non-finite scale %v", t.Scale)
	}
	return nil
}

// Rotate applies only the rotation part of the transform to v.
func (t Transform) Rotate(v Vec3) Vec3 {
	return t.rotator().apply(v)
}

// Apply maps a model-space point into world space.
func (t Transform) Apply(v Vec3) Vec3 {
	return t.rotator().apply(v.Mul(t.Scale)).Add(t.Position)
}

// ApplyAll maps every point, computing the rotation matrix once.
func (t Transform) ApplyAll(vs []Vec3) []Vec3 {
	r := t.rotator()
	out := make([]Vec3, len(vs))
	for i, v := range vs {
		out[i] = r.apply(v.Mul(t.Scale)).Add(t.Position)
	}
	return out
}

// rotator is the combined Rz·Ry·Rx matrix, row major.
type rotator [3][3]float64

func (t Transform) rotator() rotator {
	sx, cx := math.Sincos(t.Rotation.X)
	sy, cy := math.Sincos(t.Rotation.Y)
	sz, cz := math.Sincos(t.Rotation.Z)

	return rotator{
		{cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx},
		{sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx},
		{-sy, cy * sx, cy * cx},
	}
}

func (r rotator) apply(v Vec3) Vec3 {
	return Vec3{
		r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}
