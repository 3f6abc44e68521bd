package dance

import "github.com/teranos/polishcow/math3d"

const (
	// Gain is the fraction of the remaining distance closed each frame.
	Gain = 0.2

	// Threshold is the per-frame delta magnitude below which a pose counts
	// as reached.
	Threshold = 0.01
)

// Step computes one frame of exponential approach from current towards
// target. The delta is (target - current) * gain; converged is true once the
// delta is strictly shorter than Threshold.
func Step(current, target math3d.Vec3, gain float64) (delta math3d.Vec3, converged bool) {
	delta = target.Sub(current).Scale(gain)
	return delta, delta.Magnitude() < Threshold
}

// Approach applies one Step to rot in place. On convergence rot is snapped
// exactly onto target so no residue carries into the next phase.
func Approach(rot *math3d.Vec3, target math3d.Vec3) bool {
	delta, converged := Step(*rot, target, Gain)
	if converged {
		*rot = target
		return true
	}
	*rot = rot.Add(delta)
	return false
}
