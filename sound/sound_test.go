package sound

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequency(t *testing.T) {
	examples := []struct {
		pitch string
		hz    float64
	}{
		{"A4", 440},
		{"A5", 880},
		{"A3", 220},
		{"C4", 261.6256},
		{"C#4", 277.1826},
		{"Db4", 277.1826},
		{"e5", 659.2551},
		{"Bb3", 233.0819},
		{"rest", 0},
		{"REST", 0},
	}

	for _, x := range examples {
		hz, err := Frequency(x.pitch)
		require.NoError(t, err, x.pitch)
		assert.InDelta(t, x.hz, hz, 1e-3, x.pitch)
	}
}

func TestFrequencyRejectsNonsense(t *testing.T) {
	for _, pitch := range []string{"", "H4", "A", "A#", "C9", "moo"} {
		_, err := Frequency(pitch)
		assert.Error(t, err, pitch)
	}
}

func TestDefaultScore(t *testing.T) {
	s, err := DefaultScore()
	require.NoError(t, err)

	assert.Equal(t, 152.0, s.Tempo)
	assert.Equal(t, "square", s.Wave)
	assert.Len(t, s.Notes, 26)
	assert.InDelta(t, 16*60/152.0, s.Seconds(), 1e-9)
}

func TestParseScore(t *testing.T) {
	s, err := ParseScore([]byte("tempo: 60\nnotes: [{pitch: A4, beats: 1}]\n"))
	require.NoError(t, err)
	assert.Equal(t, "square", s.Wave, "wave defaults to square")

	examples := []string{
		"tempo: [",
		"tempo: 0\nnotes: [{pitch: A4, beats: 1}]",
		"tempo: 60\nwave: kazoo\nnotes: [{pitch: A4, beats: 1}]",
		"tempo: 60\nnotes: []",
		"tempo: 60\nnotes: [{pitch: A4, beats: 0}]",
		"tempo: 60\nnotes: [{pitch: Q4, beats: 1}]",
	}
	for _, x := range examples {
		_, err := ParseScore([]byte(x))
		assert.Error(t, err, x)
	}
}

func sampleAt(pcm []byte, frame, channel int) int16 {
	return int16(binary.LittleEndian.Uint16(pcm[frame*frameBytes+channel*bytesPerSample:]))
}

func TestSynthesize(t *testing.T) {
	s := Score{Tempo: 60, Wave: "sine", Notes: []Note{
		{Pitch: "A4", Beats: 0.5},
		{Pitch: Rest, Beats: 0.25},
	}}

	pcm, err := Synthesize(s, 8000)
	require.NoError(t, err)
	require.Len(t, pcm, (4000+2000)*frameBytes)

	var peak int16
	for i := 0; i < 4000; i++ {
		left, right := sampleAt(pcm, i, 0), sampleAt(pcm, i, 1)
		assert.Equal(t, left, right, "channels differ at %d", i)
		if left > peak {
			peak = left
		}
	}
	assert.InDelta(t, amplitude*math.MaxInt16, float64(peak), 200)
	assert.Equal(t, int16(0), sampleAt(pcm, 0, 0), "notes start silent")

	for i := 4000; i < 6000; i++ {
		assert.Equal(t, int16(0), sampleAt(pcm, i, 0))
	}
}

func TestSynthesizeErrors(t *testing.T) {
	_, err := Synthesize(Score{Tempo: 60, Wave: "sine", Notes: []Note{{Pitch: "A4", Beats: 1}}}, 0)
	assert.ErrorContains(t, err, "sample rate")

	_, err = Synthesize(Score{}, 44100)
	assert.Error(t, err)
}

func TestTrackLoops(t *testing.T) {
	tr, err := ScoreTrack(8000)
	require.NoError(t, err)
	require.Greater(t, tr.Length(), int64(0))
	assert.Zero(t, tr.Length()%frameBytes)

	buf := make([]byte, 2*tr.Length()+frameBytes)
	_, err = io.ReadFull(tr.Loop(), buf)
	assert.NoError(t, err, "a looped track never runs dry")
}

func TestNewTrackRejectsPartialFrames(t *testing.T) {
	_, err := NewTrack([]byte{1, 2, 3}, 44100)
	assert.Error(t, err)

	_, err = NewTrack(nil, 44100)
	assert.Error(t, err)
}

// monoWAV builds a minimal 16-bit mono PCM WAV file.
func monoWAV(sampleRate int, samples []int16) []byte {
	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, samples)

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	samples := make([]int16, 441)
	for i := range samples {
		samples[i] = int16(i * 10)
	}

	tr, err := DecodeWAV(monoWAV(44100, samples), 44100)
	require.NoError(t, err)
	assert.Equal(t, int64(len(samples)*frameBytes), tr.Length(), "mono is widened to stereo")

	_, err = DecodeWAV([]byte("definitely not a wav"), 44100)
	assert.Error(t, err)
}

func TestLoadTrack(t *testing.T) {
	tr, err := LoadTrack("", 22050)
	require.NoError(t, err)
	assert.Equal(t, 22050, tr.SampleRate)

	path := filepath.Join(t.TempDir(), "moo.wav")
	require.NoError(t, os.WriteFile(path, monoWAV(22050, make([]int16, 100)), 0o644))
	tr, err = LoadTrack(path, 22050)
	require.NoError(t, err)
	assert.Equal(t, int64(100*frameBytes), tr.Length())

	_, err = LoadTrack(filepath.Join(t.TempDir(), "missing.wav"), 22050)
	assert.Error(t, err)
}
