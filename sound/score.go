package sound

import (
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed score.yaml
var scoreYAML []byte

// Rest is the pitch name for silence.
const Rest = "rest"

// Score is a monophonic tune.
type Score struct {
	Tempo float64 `yaml:"tempo"` // beats per minute
	Wave  string  `yaml:"wave"`
	Notes []Note  `yaml:"notes"`
}

// Note is a pitch such as "C#5" held for a number of beats.
type Note struct {
	Pitch string  `yaml:"pitch"`
	Beats float64 `yaml:"beats"`
}

// DefaultScore returns the embedded tune.
func DefaultScore() (Score, error) {
	return ParseScore(scoreYAML)
}

// ParseScore decodes and checks a YAML score.
func ParseScore(data []byte) (Score, error) {
	var s Score
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("score: %w", err)
	}
	if s.Wave == "" {
		s.Wave = "square"
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate reports the first problem with the score.
func (s Score) Validate() error {
	if s.Tempo <= 0 {
		return fmt.Errorf("score: tempo must be positive, got %v", s.Tempo)
	}
	if _, ok := waves[s.Wave]; !ok {
		return fmt.Errorf("score: unknown wave %q", s.Wave)
	}
	if len(s.Notes) == 0 {
		return fmt.Errorf("score: no notes")
	}
	for i, n := range s.Notes {
		if n.Beats <= 0 {
			return fmt.Errorf("score: note %d has %v beats", i, n.Beats)
		}
		if _, err := Frequency(n.Pitch); err != nil {
			return fmt.Errorf("score: note %d: %w", i, err)
		}
	}
	return nil
}

// Seconds is the length of the whole score.
func (s Score) Seconds() float64 {
	var beats float64
	for _, n := range s.Notes {
		beats += n.Beats
	}
	return beats * 60 / s.Tempo
}

var semitones = map[byte]int{'C': -9, 'D': -7, 'E': -5, 'F': -4, 'G': -2, 'A': 0, 'B': 2}

// Frequency converts a pitch name to hertz in twelve-tone equal temperament
// with A4 at 440 Hz. Rest is 0.
func Frequency(pitch string) (float64, error) {
	p := strings.TrimSpace(pitch)
	if strings.EqualFold(p, Rest) {
		return 0, nil
	}
	if len(p) < 2 {
		return 0, fmt.Errorf("bad pitch %q", pitch)
	}

	n, ok := semitones[strings.ToUpper(p[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("bad pitch %q", pitch)
	}
	rest := p[1:]
	switch rest[0] {
	case '#':
		n++
		rest = rest[1:]
	case 'b':
		n--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 || octave > 8 {
		return 0, fmt.Errorf("bad pitch %q", pitch)
	}
	n += (octave - 4) * 12
	return 440 * math.Pow(2, float64(n)/12), nil
}
