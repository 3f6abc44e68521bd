// Package cowcam films a bubbletea model headlessly, one frame at a time.
//
// The Director drives a model's Update directly instead of running a
// tea.Program, so every frame is deterministic and no terminal is needed.
// Commands returned by Update are dropped; the director decides when the
// next frame happens.
//
// Basic usage:
//
//	result := cowcam.NewDirector(t, s, stage.FrameMsg{}).
//		Start().
//		Advance(10).
//		WaitForMode("left-whip-down", 100).
//		AssertViewContains("@").
//		Stop()
//
//	assert.True(t, result.Success)
//
// For PNG frames:
//
//	cowcam.NewDirector(t, s, stage.FrameMsg{}).
//		WithFilm(cowcam.DefaultFilm(t.TempDir())).
//		Start().
//		CaptureTrackingShot("first").
//		Stop()
package cowcam

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/polishcow/trip"
)

// Model is a tea.Model the director can question.
type Model interface {
	tea.Model
	// CurrentMode names what the model is doing right now.
	CurrentMode() string
	// CheckCondition answers model-specific questions by name.
	CheckCondition(condition string) bool
}

// Shot records one thing the director did.
type Shot struct {
	Timestamp time.Time
	Type      string // "frame", "message", "wait", "assertion", "tracking_shot"
	Details   interface{}
}

// Snapshot is the model's view and mode at one frame.
type Snapshot struct {
	Frame int
	View  string
	Mode  string
}

// Result is what a directed session produced.
type Result struct {
	Shots     []Shot
	Snapshots []Snapshot
	Frames    int
	Success   bool
	Duration  time.Duration
	Trips     []*trip.Trip
	Error     error
}

// DirectorConfig tunes a director.
type DirectorConfig struct {
	// CaptureViews keeps a snapshot after every frame.
	CaptureViews bool
	// AutoReportErrors forwards failures to t.Error. Turn it off when a
	// test expects the director to fail.
	AutoReportErrors bool
}

func DefaultDirectorConfig() DirectorConfig {
	return DirectorConfig{
		CaptureViews:     false,
		AutoReportErrors: true,
	}
}

// Director steps a Model frame by frame and records what happened.
type Director struct {
	t      testing.TB
	model  Model
	frame  tea.Msg
	config DirectorConfig

	film   *Camera
	shotNo int

	frames    int
	shots     []Shot
	snapshots []Snapshot
	trips     *trip.Handler
	started   bool
	startedAt time.Time
}

// NewDirector creates a director that sends frame to the model once per
// frame.
func NewDirector(t testing.TB, model Model, frame tea.Msg) *Director {
	return NewDirectorWithConfig(t, model, frame, DefaultDirectorConfig())
}

func NewDirectorWithConfig(t testing.TB, model Model, frame tea.Msg, config DirectorConfig) *Director {
	return &Director{
		t:      t,
		model:  model,
		frame:  frame,
		config: config,
		trips:  trip.NewHandler("cowcam", &trip.Policy{}),
	}
}

// WithViewCapture turns per-frame snapshots on or off.
func (d *Director) WithViewCapture(enabled bool) *Director {
	d.config.CaptureViews = enabled
	return d
}

// WithFilm lets CaptureTrackingShot write PNG frames.
func (d *Director) WithFilm(film Film) *Director {
	d.film = NewCamera(film)
	return d
}

// Start calls the model's Init. The command it returns is not run.
func (d *Director) Start() *Director {
	if d.started {
		d.fail(trip.NewTrip(trip.Harness, "director already started", nil))
		return d
	}
	d.started = true
	d.startedAt = time.Now()
	d.model.Init()
	d.record("start", d.model.CurrentMode())
	return d
}

// Stop ends the session and returns its result.
func (d *Director) Stop() *Result {
	if !d.started {
		t := trip.NewTrip(trip.Harness, "director was never started", nil)
		return &Result{Trips: []*trip.Trip{t}, Error: t}
	}

	trips, _ := d.trips.Counts()
	r := &Result{
		Shots:     d.shots,
		Snapshots: d.snapshots,
		Frames:    d.frames,
		Success:   trips == 0,
		Duration:  time.Since(d.startedAt),
		Trips:     d.trips.GetTrips(),
	}
	if last := d.trips.Last(); last != nil {
		r.Error = last
	}
	return r
}

// Send delivers an arbitrary message, such as a key press or resize.
func (d *Director) Send(msg tea.Msg) *Director {
	if !d.ready("send") {
		return d
	}
	d.update(msg)
	d.record("message", fmt.Sprintf("%T", msg))
	return d
}

// Press sends a key by its bubbletea name, e.g. "q" or "ctrl+c".
func (d *Director) Press(key string) *Director {
	return d.Send(keyMsg(key))
}

// Advance steps n frames.
func (d *Director) Advance(n int) *Director {
	if !d.ready("advance") {
		return d
	}
	for i := 0; i < n; i++ {
		d.step()
	}
	d.record("frame", n)
	return d
}

// WaitForMode steps frames until the model reports mode, giving up after
// maxFrames.
func (d *Director) WaitForMode(mode string, maxFrames int) *Director {
	return d.waitFor(fmt.Sprintf("mode=%s", mode), maxFrames, func() bool {
		return d.model.CurrentMode() == mode
	})
}

// WaitForCondition steps frames until the model's condition holds.
func (d *Director) WaitForCondition(condition string, maxFrames int) *Director {
	return d.waitFor(condition, maxFrames, func() bool {
		return d.model.CheckCondition(condition)
	})
}

func (d *Director) waitFor(what string, maxFrames int, done func() bool) *Director {
	if !d.ready("wait") {
		return d
	}
	for i := 0; i <= maxFrames; i++ {
		if done() {
			d.record("wait", what)
			return d
		}
		if i < maxFrames {
			d.step()
		}
	}
	d.fail(trip.NewTrip(trip.Harness,
		fmt.Sprintf("gave up waiting for %s after %d frames (mode: %s)", what, maxFrames, d.model.CurrentMode()),
		trip.Context{"expected": what, "mode": d.model.CurrentMode()}))
	return d
}

// AssertMode checks the model's current mode.
func (d *Director) AssertMode(mode string) *Director {
	if actual := d.model.CurrentMode(); actual != mode {
		d.fail(trip.NewTrip(trip.Harness,
			fmt.Sprintf("expected mode %q, got %q", mode, actual),
			trip.Context{"expected": mode, "actual": actual}))
		return d
	}
	d.record("assertion", fmt.Sprintf("mode=%s", mode))
	return d
}

// AssertViewContains checks that the current view contains text.
func (d *Director) AssertViewContains(text string) *Director {
	if !strings.Contains(d.model.View(), text) {
		d.fail(trip.NewTrip(trip.Harness,
			fmt.Sprintf("view does not contain %q", text),
			trip.Context{"expected": text}))
		return d
	}
	d.record("assertion", fmt.Sprintf("view contains %q", text))
	return d
}

// CheckCondition asserts that the model's condition holds now.
func (d *Director) CheckCondition(condition string) *Director {
	if !d.model.CheckCondition(condition) {
		d.fail(trip.NewTrip(trip.Harness,
			fmt.Sprintf("condition %q not met", condition),
			trip.Context{"condition": condition}))
		return d
	}
	d.record("assertion", condition)
	return d
}

// CaptureTrackingShot writes the current view as a PNG frame. Without a
// film it only records a snapshot.
func (d *Director) CaptureTrackingShot(label string) *Director {
	d.snapshot()
	if d.film == nil {
		d.record("tracking_shot", label)
		return d
	}

	path := filepath.Join(d.film.film.OutputDir, fmt.Sprintf("frame_%03d_%s.png", d.shotNo, label))
	if err := d.film.CaptureFrame(d.model.View(), path); err != nil {
		d.fail(trip.Wrap(err, trip.Harness, trip.Error).WithFrame(uint64(d.frames)))
		return d
	}
	d.shotNo++
	d.record("tracking_shot", path)
	return d
}

// Frames is how many frames the director has stepped.
func (d *Director) Frames() int {
	return d.frames
}

// Model returns the model being filmed.
func (d *Director) Model() Model {
	return d.model
}

func (d *Director) HasFailed() bool {
	return d.trips.HasTrips()
}

func (d *Director) step() {
	d.update(d.frame)
	d.frames++
	if d.config.CaptureViews {
		d.snapshot()
	}
}

func (d *Director) update(msg tea.Msg) {
	next, _ := d.model.Update(msg)
	if m, ok := next.(Model); ok {
		d.model = m
	}
}

func (d *Director) ready(action string) bool {
	if d.started {
		return true
	}
	d.fail(trip.NewTrip(trip.Harness, action+" before start", nil))
	return false
}

func (d *Director) fail(t *trip.Trip) {
	d.trips.Record(t)
	if d.t != nil && d.config.AutoReportErrors {
		d.t.Helper()
		d.t.Error(t)
	}
}

func (d *Director) record(kind string, details interface{}) {
	d.shots = append(d.shots, Shot{
		Timestamp: time.Now(),
		Type:      kind,
		Details:   details,
	})
}

func (d *Director) snapshot() {
	d.snapshots = append(d.snapshots, Snapshot{
		Frame: d.frames,
		View:  d.model.View(),
		Mode:  d.model.CurrentMode(),
	})
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
