package render

import (
	"math"

	"github.com/fogleman/ease"
	"github.com/teranos/polishcow/math3d"
)

// Ramp lists glyphs from darkest to brightest.
const Ramp = ".,-~:;=!*#$@"

var rampRunes = []rune(Ramp)

// LightType is one of Ambient, Directional or Point.
type LightType interface {
	contribution(normal, center math3d.Vec3) float64
}

// Ambient lights every face equally.
type Ambient struct{}

// Directional light travels along Direction.
type Directional struct {
	Direction math3d.Vec3
}

// Point light radiates from Position.
type Point struct {
	Position math3d.Vec3
}

// Light is a light source in world space.
type Light struct {
	Intensity float64
	Type      LightType
}

func (Ambient) contribution(_, _ math3d.Vec3) float64 {
	return 1
}

func (d Directional) contribution(normal, _ math3d.Vec3) float64 {
	return math.Max(0, normal.Dot(d.Direction.Unit().Scale(-1)))
}

func (p Point) contribution(normal, center math3d.Vec3) float64 {
	return math.Max(0, normal.Dot(p.Position.Sub(center).Unit()))
}

// Brightness sums the lights falling on a face with the given unit normal
// and centre.
func Brightness(lights []Light, normal, center math3d.Vec3) float64 {
	var total float64
	for _, l := range lights {
		if l.Type == nil {
			continue
		}
		total += l.Intensity * l.Type.contribution(normal, center)
	}
	return total
}

// Shade maps a brightness onto Ramp. Values are clamped to [0, 1] and eased
// so mid-tones reach the denser glyphs.
func Shade(brightness float64) rune {
	b := ease.OutQuad(math.Max(0, math.Min(1, brightness)))
	return rampRunes[int(math.Round(b*float64(len(rampRunes)-1)))]
}
