// Package dance drives the cow's rotation one frame at a time.
//
// Two animators are provided. Choreography plays the scripted routine: a
// continuous spin followed by bounded rounds of left and right whips. Spin
// only turns the cow about its X axis.
package dance

import "github.com/teranos/polishcow/math3d"

// Animator mutates a rotation once per frame.
type Animator interface {
	Advance(rot *math3d.Vec3)
	Mode() string
}

const (
	spinStep  = 0.2
	spinPitch = -1.5

	// spinFrames is the last step count that keeps the machine spinning;
	// the 63rd frame hands over to the whips.
	spinFrames = 62

	// whipRepeats and cycleRepeats are the last counts that keep repeating.
	whipRepeats  = 2
	cycleRepeats = 2
)

// Choreography is the dance state machine. The zero value is ready to use
// and starts in Rotation.
type Choreography struct {
	phase Phase
	step  int
	cycle int
	frame uint64
}

// NewChoreography returns a machine at the start of the routine.
func NewChoreography() *Choreography {
	return &Choreography{}
}

func (c *Choreography) Phase() Phase {
	return c.phase
}

// Frame is the number of times Advance has been called.
func (c *Choreography) Frame() uint64 {
	return c.frame
}

func (c *Choreography) Mode() string {
	return c.phase.String()
}

// Advance moves rot one frame along the routine and performs any phase
// transition the frame triggers.
func (c *Choreography) Advance(rot *math3d.Vec3) {
	c.frame++

	switch c.phase {
	case Rotation:
		rot.Z = spinPitch
		rot.X = math3d.WrapAngle(rot.X + spinStep)
		c.step++
		if c.step > spinFrames {
			c.step = 0
			c.phase = LeftWhipDown
		}

	case LeftWhipDown:
		if c.approach(rot) {
			c.phase = LeftWhipUp
		}

	case LeftWhipUp:
		if !c.approach(rot) {
			return
		}
		c.step++
		if c.step <= whipRepeats {
			c.phase = LeftWhipDown
			return
		}
		c.step = 0
		c.cycle++
		c.phase = RightWhipUp
		if c.cycle > cycleRepeats {
			c.step, c.cycle = 0, 0
			c.phase = Rotation
		}

	case RightWhipUp:
		if !c.approach(rot) {
			return
		}
		c.step++
		if c.step <= whipRepeats {
			c.phase = RightWhipDown
			return
		}
		// Hands back to LeftWhipUp rather than RightWhipDown; the cycle
		// limit is only checked on the left side.
		c.step = 0
		c.phase = LeftWhipUp

	case RightWhipDown:
		if c.approach(rot) {
			c.phase = RightWhipUp
		}
	}
}

func (c *Choreography) approach(rot *math3d.Vec3) bool {
	target, _ := c.phase.Target()
	return Approach(rot, target)
}

// Spin turns the cow about X by a fixed amount each frame and nothing else.
type Spin struct {
	Rate float64
}

// NewSpin returns a Spin at the given radians per frame.
func NewSpin(rate float64) *Spin {
	return &Spin{Rate: rate}
}

func (s *Spin) Advance(rot *math3d.Vec3) {
	rot.X = math3d.WrapAngle(rot.X + s.Rate)
}

func (s *Spin) Mode() string {
	return "spin"
}
