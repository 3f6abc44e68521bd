package sound

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	channels       = 2
	bytesPerSample = 2
	frameBytes     = channels * bytesPerSample

	amplitude = 0.25
	attack    = 0.005 // seconds
	release   = 0.03  // seconds
)

type waveform func(phase float64) float64

var waves = map[string]waveform{
	"sine": func(p float64) float64 { return math.Sin(2 * math.Pi * p) },
	"square": func(p float64) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	},
	"triangle": func(p float64) float64 { return 4*math.Abs(p-0.5) - 1 },
	"saw":      func(p float64) float64 { return 2*p - 1 },
}

// Synthesize renders the score as signed 16-bit little-endian stereo PCM.
func Synthesize(s Score, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("synthesize: bad sample rate %d", sampleRate)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	wave := waves[s.Wave]

	var pcm []byte
	for _, n := range s.Notes {
		freq, _ := Frequency(n.Pitch)
		samples := int(math.Round(n.Beats * 60 / s.Tempo * float64(sampleRate)))
		note := make([]byte, samples*frameBytes)

		for i := 0; i < samples; i++ {
			var v float64
			if freq > 0 {
				t := float64(i) / float64(sampleRate)
				phase := math.Mod(t*freq, 1)
				v = wave(phase) * envelope(i, samples, sampleRate) * amplitude
			}
			sample := uint16(int16(math.Round(v * math.MaxInt16)))
			binary.LittleEndian.PutUint16(note[i*frameBytes:], sample)
			binary.LittleEndian.PutUint16(note[i*frameBytes+bytesPerSample:], sample)
		}
		pcm = append(pcm, note...)
	}
	return pcm, nil
}

// envelope fades each note in and out to avoid clicks between notes.
func envelope(i, samples, sampleRate int) float64 {
	in := float64(i) / (attack * float64(sampleRate))
	out := float64(samples-i) / (release * float64(sampleRate))
	return math.Min(1, math.Min(in, out))
}
