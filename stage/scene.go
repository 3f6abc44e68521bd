package stage

import (
	"fmt"
	"image"
	"time"

	"github.com/teranos/polishcow/config"
	"github.com/teranos/polishcow/dance"
	"github.com/teranos/polishcow/render"
)

// Scene is everything the stage needs to draw a frame, built from config.
type Scene struct {
	FPS      int
	Frame    time.Duration
	Width    int
	Height   int
	FOV      float64
	Origin   image.Point
	Mode     render.DisplayMode
	Color    bool
	Palette  render.Palette
	Status   bool
	Animator dance.Animator
}

// NewScene converts a validated config into renderer and animator values.
func NewScene(c config.Config) (Scene, error) {
	s := Scene{
		FPS:    c.FPS,
		Frame:  c.FrameDuration(),
		Width:  c.View.Width,
		Height: c.View.Height,
		FOV:    c.Camera.FOV,
		Origin: image.Pt(c.Camera.Origin[0], c.Camera.Origin[1]),
		Color:  c.Display.Color,
		Status: c.Display.Status,
	}

	lights, err := Lights(c.Lights)
	if err != nil {
		return s, err
	}
	switch c.Display.Mode {
	case "", "illuminated":
		s.Mode = render.Illuminated{Lights: lights}
	case "wireframe":
		s.Mode = render.Wireframe{BackfaceCulling: c.Display.BackfaceCulling}
	default:
		return s, fmt.Errorf("unknown display mode %q", c.Display.Mode)
	}

	if s.Color {
		s.Palette, err = render.NewPalette(c.Display.Palette[0], c.Display.Palette[1])
		if err != nil {
			return s, err
		}
	}

	switch c.Dance.Mode {
	case "", "choreography":
		s.Animator = dance.NewChoreography()
	case "spin":
		s.Animator = dance.NewSpin(c.Dance.SpinRate)
	default:
		return s, fmt.Errorf("unknown dance mode %q", c.Dance.Mode)
	}

	return s, nil
}

// Lights converts configured lights into render lights.
func Lights(ls []config.Light) ([]render.Light, error) {
	out := make([]render.Light, 0, len(ls))
	for i, l := range ls {
		var lt render.LightType
		switch l.Type {
		case "ambient":
			lt = render.Ambient{}
		case "directional":
			lt = render.Directional{Direction: l.Vector.Vec()}
		case "point":
			lt = render.Point{Position: l.Vector.Vec()}
		default:
			return nil, fmt.Errorf("light %d: unknown type %q", i, l.Type)
		}
		out = append(out, render.Light{Intensity: l.Intensity, Type: lt})
	}
	return out, nil
}
