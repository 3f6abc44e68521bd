// Command polishcow draws a dancing ASCII cow and plays its tune on loop.
//
// Run it:
//
//	polishcow            # with sound
//	polishcow no-sound   # silent
//
// POLISHCOW_CONFIG names a YAML file overriding the built-in settings, and
// POLISHCOW_DEBUG, when set, writes logs to polishcow.log.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/polishcow/config"
	"github.com/teranos/polishcow/mesh"
	"github.com/teranos/polishcow/sound"
	"github.com/teranos/polishcow/stage"
	"github.com/teranos/polishcow/trip"
)

const (
	envDebug = "POLISHCOW_DEBUG"
	logFile  = "polishcow.log"
)

func main() {
	closeLog := setupLogging()
	defer closeLog()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "polishcow: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// setupLogging keeps log output off the terminal, where it would tear the
// frame.
func setupLogging() func() {
	if os.Getenv(envDebug) == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := tea.LogToFile(logFile, "polishcow")
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	return func() { f.Close() }
}

func run(args []string) error {
	silent := len(args) > 0 && args[0] == "no-sound"

	cfg, err := config.FromEnv()
	if err != nil {
		return trip.Wrap(err, trip.Setup, trip.Fall)
	}

	cow, err := mesh.Cow()
	if err != nil {
		return trip.Wrap(err, trip.Setup, trip.Fall)
	}

	scene, err := stage.NewScene(cfg)
	if err != nil {
		return trip.Wrap(err, trip.Setup, trip.Fall)
	}

	if !silent {
		player, err := startSound(cfg.Audio)
		if err != nil {
			return trip.Wrap(err, trip.Audio, trip.Fall)
		}
		defer player.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("polishcow: %dx%d at %d fps, dance %s, sound %t",
		scene.Width, scene.Height, scene.FPS, scene.Animator.Mode(), !silent)
	return stage.New(scene, cfg.Transform.Build(), cow).Run(ctx)
}

func startSound(a config.Audio) (*sound.Player, error) {
	track, err := sound.LoadTrack(a.Track, a.SampleRate)
	if err != nil {
		return nil, err
	}
	player, err := sound.NewPlayer(track, a.Volume)
	if err != nil {
		return nil, err
	}
	player.Play()
	return player, nil
}
