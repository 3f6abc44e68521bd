// Package trip classifies the things that go wrong while the cow dances.
//
// A stumble is a single bad frame: it is recorded and the loop moves on. A
// fall is a setup failure the program cannot run without, such as a corrupt
// embedded mesh or a missing audio device.
package trip

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kinds of trip, named after the part of the program that tripped.
const (
	Setup   = "setup"
	Render  = "render"
	Display = "display"
	Audio   = "audio"
	Harness = "harness"
)

// Trip is an error with enough context to log or report it.
type Trip struct {
	Type      string
	Message   string
	Context   Context
	Timestamp time.Time
	Frame     uint64 // frame number when the trip happened, if any
	Severity  Severity
	Cause     error
}

// Context carries extra debugging values.
type Context map[string]interface{}

// Severity says how the caller should react to a trip.
type Severity int

const (
	// Stumble is recoverable: skip the frame and carry on.
	Stumble Severity = iota

	// Error affects the result but not the ability to continue.
	Error

	// Fall ends the program.
	Fall
)

func (s Severity) String() string {
	switch s {
	case Stumble:
		return "stumble"
	case Error:
		return "error"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// NewTrip creates a trip with Error severity.
func NewTrip(kind, message string, context Context) *Trip {
	return &Trip{
		Type:      kind,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error,
	}
}

// NewStumble creates a recoverable trip.
func NewStumble(kind, message string, context Context) *Trip {
	return NewTrip(kind, message, context).WithSeverity(Stumble)
}

// NewFall creates a fatal trip.
func NewFall(kind, message string, context Context) *Trip {
	return NewTrip(kind, message, context).WithSeverity(Fall)
}

// Wrap turns err into a trip of the given kind and severity. A nil err
// yields nil.
func Wrap(err error, kind string, severity Severity) *Trip {
	if err == nil {
		return nil
	}
	t := NewTrip(kind, err.Error(), nil).WithSeverity(severity)
	t.Cause = err
	return t
}

func (t *Trip) WithFrame(frame uint64) *Trip {
	t.Frame = frame
	return t
}

func (t *Trip) WithSeverity(severity Severity) *Trip {
	t.Severity = severity
	return t
}

func (t *Trip) Error() string {
	return fmt.Sprintf("[%s:%s] %s", t.Type, t.Severity, t.Message)
}

func (t *Trip) Unwrap() error {
	return t.Cause
}

// CanRecover is true for stumbles.
func (t *Trip) CanRecover() bool {
	return t.Severity == Stumble
}

func (t *Trip) IsFall() bool {
	return t.Severity == Fall
}

// GetContext returns a context value if present.
func (t *Trip) GetContext(key string) (interface{}, bool) {
	if t.Context == nil {
		return nil, false
	}
	val, ok := t.Context[key]
	return val, ok
}

// DetailedString renders the trip over several lines, context included.
func (t *Trip) DetailedString() string {
	var b strings.Builder

	b.WriteString(t.Error())
	b.WriteString(fmt.Sprintf("\n  Time: %s", t.Timestamp.Format("15:04:05.000")))
	if t.Frame > 0 {
		b.WriteString(fmt.Sprintf("\n  Frame: %d", t.Frame))
	}
	if len(t.Context) > 0 {
		b.WriteString("\n  Context:")
		for key, value := range t.Context {
			b.WriteString(fmt.Sprintf("\n    %s: %v", key, value))
		}
	}
	return b.String()
}

// As finds the first Trip in err's chain.
func As(err error) (*Trip, bool) {
	var t *Trip
	ok := errors.As(err, &t)
	return t, ok
}
