// Package stage hosts the dance: a bubbletea model that, once per frame,
// advances the animator, renders the cow and composites it into the canvas.
//
// Basic usage:
//
//	cfg, _ := config.FromEnv()
//	scene, _ := stage.NewScene(cfg)
//	cow, _ := mesh.Cow()
//	s := stage.New(scene, cfg.Transform.Build(), cow)
//	err := s.Run(ctx)
package stage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teranos/polishcow/dance"
	"github.com/teranos/polishcow/math3d"
	"github.com/teranos/polishcow/render"
	"github.com/teranos/polishcow/trip"
)

// FrameMsg asks the stage to draw the next frame.
type FrameMsg struct {
	Time time.Time
}

// Stage is the frame loop's tea.Model. It owns the cow's transform.
type Stage struct {
	scene     Scene
	transform math3d.Transform
	objects   []render.Renderable
	canvas    *render.Canvas
	trips     *trip.Handler

	frame    uint64
	rendered uint64
	termW    int
	termH    int
	quitting bool
}

// New creates a stage that will draw objects with the given starting
// transform.
func New(scene Scene, transform math3d.Transform, objects ...render.Renderable) *Stage {
	return &Stage{
		scene:     scene,
		transform: transform,
		objects:   objects,
		canvas:    render.NewCanvas(scene.Width, scene.Height),
		trips:     trip.NewHandler("stage", trip.LoopPolicy()),
	}
}

// Tick schedules the next frame one frame budget from now.
func (s *Stage) Tick() tea.Cmd {
	return tea.Tick(s.scene.Frame, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

func (s *Stage) Init() tea.Cmd {
	return s.Tick()
}

func (s *Stage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		s.Step()
		return s, s.Tick()

	case tea.WindowSizeMsg:
		s.termW, s.termH = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			s.quitting = true
			return s, tea.Quit
		}
	}
	return s, nil
}

// Step draws exactly one frame. A frame that fails to render is recorded
// and left blank; the loop carries on.
func (s *Stage) Step() {
	s.frame++
	s.canvas.Clear()
	s.scene.Animator.Advance(&s.transform.Rotation)

	vp := render.NewViewport(s.transform, s.scene.FOV, s.scene.Origin)
	pixels, err := vp.Render(s.scene.Width, s.scene.Height, s.objects, s.scene.Mode)
	if err != nil {
		t := trip.Wrap(err, trip.Render, trip.Stumble).WithFrame(s.frame)
		t.Context = trip.Context{"mode": s.scene.Animator.Mode(), "rotation": s.transform.Rotation.String()}
		s.trips.Record(t)
		log.Printf("frame %d skipped: %v", s.frame, err)
		return
	}

	s.canvas.Blit(pixels, render.WrapIgnore)
	s.rendered++
}

func (s *Stage) View() string {
	if s.quitting {
		return ""
	}

	var b strings.Builder
	if s.scene.Color {
		b.WriteString(s.canvas.Styled(s.scene.Palette))
	} else {
		b.WriteString(s.canvas.String())
	}
	if s.scene.Status {
		b.WriteString(fmt.Sprintf("\n%s  frame %d", s.scene.Animator.Mode(), s.frame))
	}
	if s.termW == 0 || s.termH == 0 {
		return b.String()
	}
	return lipgloss.Place(s.termW, s.termH, lipgloss.Center, lipgloss.Center, b.String())
}

// CurrentMode names what the cow is doing, e.g. "rotation" or
// "left-whip-up".
func (s *Stage) CurrentMode() string {
	return s.scene.Animator.Mode()
}

// CheckCondition answers questions about the stage's state by name.
func (s *Stage) CheckCondition(condition string) bool {
	switch condition {
	case "spinning":
		return s.CurrentMode() == dance.Rotation.String() || s.CurrentMode() == "spin"
	case "whipping":
		return strings.Contains(s.CurrentMode(), "whip")
	case "rendered":
		return s.rendered > 0 && s.canvas.Filled() > 0
	case "stumbled":
		return s.trips.HasStumbles()
	default:
		return false
	}
}

// Frame is the number of frames stepped so far.
func (s *Stage) Frame() uint64 {
	return s.frame
}

// Rotation is the cow's current rotation.
func (s *Stage) Rotation() math3d.Vec3 {
	return s.transform.Rotation
}

func (s *Stage) Canvas() *render.Canvas {
	return s.canvas
}

func (s *Stage) Trips() *trip.Handler {
	return s.trips
}

// Run plays the stage in the terminal until ctx ends or the user quits.
func (s *Stage) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(s, opts...).Run()
	if err != nil && ctx.Err() == nil {
		t := trip.Wrap(err, trip.Display, trip.Fall).WithFrame(s.frame)
		s.trips.Record(t)
		log.Print(t.DetailedString())
		return fmt.Errorf("stage: %w", t)
	}
	log.Print(s.trips.Summary())
	return nil
}
