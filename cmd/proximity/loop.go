package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DaxxTrias/ProximityAlert/audio"
	"github.com/DaxxTrias/ProximityAlert/config"
	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/engine"
	"github.com/DaxxTrias/ProximityAlert/render"
	"github.com/DaxxTrias/ProximityAlert/status"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// headlessWindow is the virtual screen used without a terminal
var headlessWindow = world.Rect{Width: 1280, Height: 720}

// errQuit ends the loops on user request
var errQuit = errors.New("quit")

// startArea resets the engine and replays scenario spawns as host notifications
func startArea(eng *engine.Engine, host *SimHost, sc *Scenario) {
	eng.AreaChange()
	for _, m := range sc.Markers {
		eng.TrackPath(m.Path, MarkerPos(m))
	}
	for _, e := range host.Spawned() {
		eng.EntityAdded(e)
	}
}

// runHeadless steps the scenario frame by frame and prints every directive
func runHeadless(w io.Writer, settings *config.Settings, sc *Scenario, rules engine.Rules, frames int, log *zap.Logger) error {
	host := NewSimHost(sc, func() world.Rect { return headlessWindow })
	rec := render.NewRecorder(settings.ArrowImage)
	reg := status.NewRegistry()

	eng, err := engine.New(host, rec, nil, settings, rules, engine.WithLogger(log), engine.WithStatus(reg))
	if err != nil {
		return err
	}
	startArea(eng, host, sc)

	dt := settings.TickInterval
	for i := 0; i < frames; i++ {
		host.Step(dt)
		if err := eng.Tick(); err != nil {
			fmt.Fprintf(w, "tick error: %v\n", err)
		}
		rec.Reset()
		if err := eng.Present(rec); err != nil {
			fmt.Fprintf(w, "render error: %v\n", err)
		}

		fmt.Fprintf(w, "frame %d t=%s directives=%d\n", i, host.Elapsed(), len(rec.Calls))
		if err := rec.Dump(w); err != nil {
			return err
		}
	}
	return writeStatus(w, reg)
}

func writeStatus(w io.Writer, reg *status.Registry) error {
	snap := reg.Snapshot()
	for _, k := range slices.Sorted(maps.Keys(snap)) {
		if _, err := fmt.Fprintf(w, "%s=%v\n", k, snap[k]); err != nil {
			return err
		}
	}
	return nil
}

// runTerminal drives tick, render and input loops until quit or ctx ends
func runTerminal(ctx context.Context, settings *config.Settings, sc *Scenario, rules engine.Rules, log *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashCleanup(screen.Fini)
	defer core.SetCrashCleanup(nil)
	defer screen.Fini()

	surface := render.NewTerminalSurface(screen, render.DefaultCellWidth, render.DefaultCellHeight, settings.ArrowImage)
	host := NewSimHost(sc, surface.Window)

	player := audio.NewFilePlayer(settings.Audio.Volume, log)
	player.Init()
	defer player.Close()

	reg := status.NewRegistry()
	gate := audio.NewGate(player, settings.SoundDir, audio.WithLogger(log), audio.WithStatus(reg))

	eng, err := engine.New(host, surface, gate, settings, rules, engine.WithLogger(log), engine.WithStatus(reg))
	if err != nil {
		return err
	}
	startArea(eng, host, sc)

	events := make(chan tcell.Event, 16)
	core.Go(func() {
		// Ends when Fini makes PollEvent return nil
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(core.Guard(func() error {
		t := time.NewTicker(settings.TickInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				host.Step(settings.TickInterval)
				_ = eng.Tick() // Logged by the engine
			}
		}
	}))

	g.Go(core.Guard(func() error {
		t := time.NewTicker(settings.FrameInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				screen.Clear()
				_ = eng.Present(surface) // Logged by the engine
				drawStatusLine(screen, surface, eng, sc)
				screen.Show()
			}
		}
	}))

	g.Go(core.Guard(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-events:
				if !ok {
					return errQuit
				}
				if err := handleEvent(ev, screen, eng, host, sc, player); err != nil {
					return err
				}
			}
		}
	}))

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func handleEvent(ev tcell.Event, screen tcell.Screen, eng *engine.Engine, host *SimHost, sc *Scenario, player volumeSetter) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return errQuit
		}
		if ev.Key() != tcell.KeyRune {
			return nil
		}
		switch ev.Rune() {
		case 'q':
			return errQuit
		case 'r':
			host.Reset()
			startArea(eng, host, sc)
		case 's':
			toggle(eng, func(s *config.Settings) { s.PlaySounds = !s.PlaySounds })
		case 'p':
			toggle(eng, func(s *config.Settings) { s.ShowPathAlerts = !s.ShowPathAlerts })
		case 'm':
			toggle(eng, func(s *config.Settings) { s.ShowModAlerts = !s.ShowModAlerts })
		case '+', '=':
			nudgeVolume(eng, player, volumeStep)
		case '-':
			nudgeVolume(eng, player, -volumeStep)
		}
	}
	return nil
}

// volumeStep is the linear volume change per key press
const volumeStep = 0.1

// toggle swaps in a modified copy so concurrent readers never see a partial update
func toggle(eng *engine.Engine, fn func(*config.Settings)) *config.Settings {
	next := *eng.Settings()
	fn(&next)
	if err := eng.SetSettings(&next); err != nil {
		return eng.Settings()
	}
	return &next
}

// nudgeVolume stores the new volume in settings and applies it to the player
func nudgeVolume(eng *engine.Engine, player volumeSetter, delta float64) {
	s := toggle(eng, func(s *config.Settings) {
		s.Audio.Volume = min(max(s.Audio.Volume+delta, 0), 1)
	})
	player.SetVolume(s.Audio.Volume)
}

type volumeSetter interface {
	SetVolume(v float64)
}

func drawStatusLine(screen tcell.Screen, surface *render.TerminalSurface, eng *engine.Engine, sc *Scenario) {
	_, h := screen.Size()
	s := eng.Settings()
	reg := eng.Status()
	line := fmt.Sprintf(" %s | tracked %d | ticks %d | sounds %d | sound:%s vol %.1f paths:%s mods:%s | q quit r reset s/p/m toggle +/- volume",
		sc.Name,
		eng.Tracked(),
		reg.Counter("engine.ticks").Load(),
		reg.Counter("sound.played").Load(),
		onOff(s.PlaySounds), s.Audio.Volume, onOff(s.ShowPathAlerts), onOff(s.ShowModAlerts),
	)
	pos := world.Vec2{Y: float64(h-1) * render.DefaultCellHeight}
	surface.DrawText(line, pos, core.RGBA{R: 160, G: 160, B: 160, A: 255}, render.AlignLeft)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
