package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/drwfalls/audio"
	"github.com/lixenwraith/drwfalls/client"
	"github.com/lixenwraith/drwfalls/config"
	"github.com/lixenwraith/drwfalls/core"
	"github.com/lixenwraith/drwfalls/logging"
	"github.com/lixenwraith/drwfalls/render"
)

const frameInterval = 33 * time.Millisecond

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "drwfalls-client: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("drwfalls-client", flag.ContinueOnError)
	cfg, err := config.LoadClient(fs, args)
	if err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = os.Getenv("USER")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()
	core.SetCrashLogger(logger)

	state := client.NewState()
	conn, err := client.Dial(cfg.Server, cfg.Name, state, logger)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Server, err)
	}
	defer conn.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	core.SetCrashFinalizer(screen.Fini)
	defer screen.Fini()
	screen.HideCursor()

	sounds := audio.NewSoundManager()
	sounds.SetMuted(cfg.Mute)
	if err := sounds.Initialize(); err != nil {
		// Non-fatal, the game runs without sound
		logger.Warn("audio unavailable", zap.Error(err))
	}
	defer sounds.Cleanup()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})
	defer close(quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if !handleKey(ev, conn, state, sounds, logger) {
					return nil
				}
			}
		case cue := <-conn.Cues():
			playCue(sounds, cue)
		case <-conn.Lost():
			render.Draw(screen, state.View())
			screen.Show()
			time.Sleep(time.Second)
			return fmt.Errorf("connection to %s lost", cfg.Server)
		case <-ticker.C:
			render.Draw(screen, state.View())
			screen.Show()
		}
	}
}

// handleKey runs the action bound to ev, returns false to quit
func handleKey(ev *tcell.EventKey, conn *client.Conn, state *client.State, sounds *audio.SoundManager, logger *zap.Logger) bool {
	action, move := client.KeyAction(ev)
	var err error
	switch action {
	case client.ActionQuit:
		return false
	case client.ActionMove:
		err = conn.Move(move)
	case client.ActionReady:
		err = conn.Ready()
	case client.ActionPause:
		err = conn.TogglePause()
	case client.ActionMute:
		if sounds.SetMuted(!sounds.Muted()) {
			state.SetMessage("sound on")
		} else {
			state.SetMessage("sound off")
		}
	}
	if err != nil {
		logger.Warn("send failed", zap.Error(err))
	}
	return true
}

func playCue(sounds *audio.SoundManager, cue client.Cue) {
	switch cue {
	case client.CueClear:
		sounds.PlayClear(1)
	case client.CueDebris:
		sounds.PlayDebris()
	case client.CueReject:
		sounds.PlayReject()
	case client.CueCountdown:
		sounds.PlayCountdown()
	case client.CueVictory:
		sounds.PlayVictory()
	case client.CueDefeat:
		sounds.PlayDefeat()
	}
}
