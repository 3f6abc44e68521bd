package dance

import "github.com/teranos/polishcow/math3d"

// Phase is one segment of the choreography.
type Phase int

const (
	Rotation Phase = iota
	LeftWhipUp
	LeftWhipDown
	RightWhipUp
	RightWhipDown
)

func (p Phase) String() string {
	switch p {
	case Rotation:
		return "rotation"
	case LeftWhipUp:
		return "left-whip-up"
	case LeftWhipDown:
		return "left-whip-down"
	case RightWhipUp:
		return "right-whip-up"
	case RightWhipDown:
		return "right-whip-down"
	default:
		return "unknown"
	}
}

// Whipping is true for every phase that approaches a fixed pose.
func (p Phase) Whipping() bool {
	_, ok := poses[p]
	return ok
}

// Target returns the fixed pose a whip phase approaches. Rotation has none.
func (p Phase) Target() (math3d.Vec3, bool) {
	v, ok := poses[p]
	return v, ok
}

var poses = map[Phase]math3d.Vec3{
	LeftWhipDown:  {X: 2.2, Y: 1.5, Z: -1.7},
	LeftWhipUp:    {X: 2.0, Y: 1.5, Z: -1.4},
	RightWhipUp:   {X: 2.5, Y: 1.5, Z: -1.4},
	RightWhipDown: {X: 2.2, Y: 1.5, Z: -1.7},
}
