package trip

import (
	"fmt"
	"strings"
)

// Policy decides when a Handler gives up.
type Policy struct {
	// StopOnFall stops as soon as a fall is recorded.
	StopOnFall bool

	// MaxStumbles stops once more stumbles than this have been recorded.
	// Zero means no limit.
	MaxStumbles int

	// Keep bounds how many trips of each severity class are retained.
	// Counts keep growing past it. Zero retains everything.
	Keep int
}

// DefaultPolicy suits a short, bounded run such as a test.
func DefaultPolicy() *Policy {
	return &Policy{
		StopOnFall:  true,
		MaxStumbles: 10,
	}
}

// LoopPolicy suits the endless frame loop: never stop on stumbles, and only
// remember the most recent ones.
func LoopPolicy() *Policy {
	return &Policy{
		StopOnFall: true,
		Keep:       32,
	}
}

// Handler collects the trips of one component.
type Handler struct {
	component string
	trips     []*Trip
	stumbles  []*Trip
	tripCount int
	stumbled  int
	last      *Trip
	policy    *Policy
}

// NewHandler creates a handler. A nil policy means DefaultPolicy.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Handler{
		component: component,
		policy:    policy,
	}
}

// Record stores a trip. Nil trips are ignored.
func (h *Handler) Record(t *Trip) {
	if t == nil {
		return
	}
	h.last = t
	if t.Severity == Stumble {
		h.stumbled++
		h.stumbles = h.keep(append(h.stumbles, t))
	} else {
		h.tripCount++
		h.trips = h.keep(append(h.trips, t))
	}
}

func (h *Handler) keep(ts []*Trip) []*Trip {
	if h.policy.Keep > 0 && len(ts) > h.policy.Keep {
		return append(ts[:0:0], ts[len(ts)-h.policy.Keep:]...)
	}
	return ts
}

// ShouldContinue reports whether the policy allows carrying on.
func (h *Handler) ShouldContinue() bool {
	if h.policy.StopOnFall {
		for _, t := range h.trips {
			if t.IsFall() {
				return false
			}
		}
	}
	if h.policy.MaxStumbles > 0 && h.stumbled > h.policy.MaxStumbles {
		return false
	}
	return true
}

func (h *Handler) HasTrips() bool {
	return h.tripCount > 0
}

func (h *Handler) HasStumbles() bool {
	return h.stumbled > 0
}

// GetTrips returns the retained non-stumble trips, oldest first.
func (h *Handler) GetTrips() []*Trip {
	return h.trips
}

// GetStumbles returns the retained stumbles, oldest first.
func (h *Handler) GetStumbles() []*Trip {
	return h.stumbles
}

// Counts returns how many trips and stumbles were ever recorded.
func (h *Handler) Counts() (trips, stumbles int) {
	return h.tripCount, h.stumbled
}

// Last returns the most recent trip of any severity.
func (h *Handler) Last() *Trip {
	return h.last
}

// Summary is a one-line overview.
func (h *Handler) Summary() string {
	if h.tripCount == 0 && h.stumbled == 0 {
		return fmt.Sprintf("[%s] no issues", h.component)
	}
	return fmt.Sprintf("[%s] %d trips, %d stumbles", h.component, h.tripCount, h.stumbled)
}

// DetailedReport lists every retained trip.
func (h *Handler) DetailedReport() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s ===\n", h.component))
	b.WriteString(h.Summary() + "\n")

	if len(h.trips) > 0 {
		b.WriteString("\nTrips:\n")
		for i, t := range h.trips {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, t.DetailedString()))
		}
	}
	if len(h.stumbles) > 0 {
		b.WriteString("\nStumbles:\n")
		for i, t := range h.stumbles {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, t.DetailedString()))
		}
	}
	return b.String()
}
