package trip

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrip_Core(t *testing.T) {
	context := Context{
		"phase": "left-whip-up",
		"frame": 81,
	}

	tr := NewTrip(Render, "face out of range", context)

	assert.Equal(t, Render, tr.Type)
	assert.Equal(t, "face out of range", tr.Message)
	assert.Equal(t, context, tr.Context)
	assert.Equal(t, Error, tr.Severity)
	assert.WithinDuration(t, time.Now(), tr.Timestamp, time.Second)

	assert.Equal(t, "[render:error] face out of range", tr.Error())
}

func TestTrip_Severities(t *testing.T) {
	stumble := NewStumble(Display, "frame dropped", nil)
	err := NewTrip(Harness, "mode mismatch", nil)
	fall := NewFall(Setup, "no mesh", nil)

	assert.Equal(t, Stumble, stumble.Severity)
	assert.Equal(t, Error, err.Severity)
	assert.Equal(t, Fall, fall.Severity)

	assert.True(t, stumble.CanRecover())
	assert.False(t, err.CanRecover())
	assert.False(t, fall.CanRecover())

	assert.False(t, stumble.IsFall())
	assert.True(t, fall.IsFall())
}

func TestTrip_Methods(t *testing.T) {
	tr := NewTrip(Render, "bad transform", Context{"axis": "x"}).WithFrame(12)
	assert.Equal(t, uint64(12), tr.Frame)

	val, ok := tr.GetContext("axis")
	assert.True(t, ok)
	assert.Equal(t, "x", val)

	_, ok = tr.GetContext("missing")
	assert.False(t, ok)

	detailed := tr.DetailedString()
	assert.Contains(t, detailed, "bad transform")
	assert.Contains(t, detailed, "Frame: 12")
	assert.Contains(t, detailed, "axis: x")
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, Audio, Fall))

	cause := errors.New("no audio device")
	tr := Wrap(cause, Audio, Fall)
	require.NotNil(t, tr)
	assert.True(t, tr.IsFall())
	assert.ErrorIs(t, tr, cause)

	found, ok := As(fmt.Errorf("startup: %w", tr))
	require.True(t, ok)
	assert.Equal(t, Audio, found.Type)

	_, ok = As(cause)
	assert.False(t, ok)
}

func TestHandler_Basic(t *testing.T) {
	h := NewHandler("stage", DefaultPolicy())
	assert.True(t, h.ShouldContinue())
	assert.Nil(t, h.Last())

	h.Record(NewStumble(Render, "minor", nil))
	assert.True(t, h.ShouldContinue())
	assert.True(t, h.HasStumbles())
	assert.False(t, h.HasTrips())

	fall := NewFall(Setup, "critical", nil)
	h.Record(fall)
	assert.False(t, h.ShouldContinue())
	assert.Same(t, fall, h.Last())

	h.Record(nil)
	trips, stumbles := h.Counts()
	assert.Equal(t, 1, trips)
	assert.Equal(t, 1, stumbles)
}

func TestHandler_MaxStumbles(t *testing.T) {
	h := NewHandler("stage", &Policy{MaxStumbles: 2})
	for i := 0; i < 2; i++ {
		h.Record(NewStumble(Render, "again", nil))
	}
	assert.True(t, h.ShouldContinue())

	h.Record(NewStumble(Render, "once more", nil))
	assert.False(t, h.ShouldContinue())
}

func TestHandler_LoopPolicyKeepsRecent(t *testing.T) {
	h := NewHandler("stage", LoopPolicy())
	for i := 0; i < 100; i++ {
		h.Record(NewStumble(Render, fmt.Sprintf("frame %d", i), nil))
	}

	assert.True(t, h.ShouldContinue(), "the loop never stops for stumbles")
	assert.Len(t, h.GetStumbles(), 32)
	assert.Equal(t, "frame 68", h.GetStumbles()[0].Message)
	assert.Equal(t, "frame 99", h.Last().Message)

	_, stumbles := h.Counts()
	assert.Equal(t, 100, stumbles)
	assert.Equal(t, "[stage] 0 trips, 100 stumbles", h.Summary())
}

func TestHandler_Report(t *testing.T) {
	h := NewHandler("stage", nil)
	assert.Equal(t, "[stage] no issues", h.Summary())

	h.Record(NewTrip(Harness, "expected rotation", nil))
	h.Record(NewStumble(Render, "skipped", nil))

	report := h.DetailedReport()
	assert.Contains(t, report, "=== stage ===")
	assert.Contains(t, report, "Trips:\n1. [harness:error] expected rotation")
	assert.Contains(t, report, "Stumbles:\n1. [render:stumble] skipped")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "stumble", Stumble.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "fall", Fall.String())
	assert.Equal(t, "unknown", Severity(99).String())
}
