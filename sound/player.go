// Package sound plays the looping soundtrack.
//
// The tune is either a WAV file or the embedded score rendered by a small
// synthesiser. Playback runs on the audio backend's own goroutines and is
// never synchronised with the frame loop.
package sound

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// Track is decoded PCM ready to loop.
type Track struct {
	SampleRate int
	pcm        io.ReadSeeker
	length     int64
}

// Length is the size in bytes of one pass through the track.
func (t *Track) Length() int64 {
	return t.length
}

// Loop returns a reader that repeats the track forever.
func (t *Track) Loop() io.Reader {
	return audio.NewInfiniteLoop(t.pcm, t.length)
}

// NewTrack wraps raw signed 16-bit little-endian stereo PCM.
func NewTrack(pcm []byte, sampleRate int) (*Track, error) {
	if len(pcm) == 0 || len(pcm)%frameBytes != 0 {
		return nil, fmt.Errorf("track: %d bytes is not whole stereo frames", len(pcm))
	}
	return &Track{
		SampleRate: sampleRate,
		pcm:        bytes.NewReader(pcm),
		length:     int64(len(pcm)),
	}, nil
}

// DecodeWAV decodes a WAV file, resampling it to sampleRate.
func DecodeWAV(data []byte, sampleRate int) (*Track, error) {
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if stream.Length() <= 0 {
		return nil, fmt.Errorf("decode wav: empty stream")
	}
	return &Track{
		SampleRate: sampleRate,
		pcm:        stream,
		length:     stream.Length(),
	}, nil
}

// ScoreTrack synthesises the embedded score.
func ScoreTrack(sampleRate int) (*Track, error) {
	s, err := DefaultScore()
	if err != nil {
		return nil, err
	}
	pcm, err := Synthesize(s, sampleRate)
	if err != nil {
		return nil, err
	}
	return NewTrack(pcm, sampleRate)
}

// LoadTrack decodes the WAV at path, or synthesises the embedded score when
// path is empty.
func LoadTrack(path string, sampleRate int) (*Track, error) {
	if path == "" {
		return ScoreTrack(sampleRate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load track: %w", err)
	}
	return DecodeWAV(data, sampleRate)
}

// Player loops one track on the default output device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewPlayer opens the output device. Only one Player may exist per process.
func NewPlayer(t *Track, volume float64) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   t.SampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	p := ctx.NewPlayer(t.Loop())
	p.SetVolume(volume)
	return &Player{ctx: ctx, player: p}, nil
}

// Play starts playback and returns immediately.
func (p *Player) Play() {
	p.player.Play()
}

// Close stops playback.
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("close player: %w", err)
	}
	return nil
}
