package main

import (
	"context"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/analysis"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/game"
	"github.com/pthm-cable/habitat/renderer"
	"github.com/pthm-cable/habitat/telemetry"
	"github.com/pthm-cable/habitat/ui"
)

const (
	hudHeight    = 64
	footerHeight = 24
	sidebarWidth = 260
	markerFrames = 45
	maxSpeedup   = 8
)

type screenPhase int

const (
	phaseSetup screenPhase = iota
	phaseRunning
	phaseStats
)

// app drives the setup, run and leaderboard screens of one window.
type app struct {
	base *config.Config
	opts game.Options

	width, height int32
	phase         screenPhase
	runs          int

	setup     *ui.SetupScreen
	hud       *ui.HUD
	overlays  *ui.OverlayRegistry
	controls  *ui.ControlsPanel
	quick     *ui.QuickStatsPanel
	perf      *ui.PerfPanel
	inspector *ui.Inspector

	cfg       *config.Config
	g         *game.Game
	grid      *renderer.GridRenderer
	markers   *renderer.Markers
	lastStats telemetry.WindowStats
	stats     renderer.StatsData

	paused  bool
	speedup int
	acc     float64
}

func newApp(cfg *config.Config, opts game.Options) *app {
	side := cfg.Derived.ScreenSize
	a := &app{
		base:      cfg,
		opts:      opts,
		width:     side + sidebarWidth,
		height:    side + hudHeight + footerHeight,
		setup:     ui.NewSetupScreen(ui.SetupFromConfig(cfg, opts.SaveCSV)),
		hud:       ui.NewHUD(),
		overlays:  ui.NewOverlayRegistry(),
		inspector: ui.NewInspector(sidebarWidth - 20),
		speedup:   1,
	}
	a.controls = ui.NewControlsPanel(side+10, hudHeight+10, sidebarWidth-20)
	a.quick = ui.NewQuickStatsPanel(side+10, hudHeight+10, sidebarWidth-20)
	a.perf = ui.NewPerfPanel(side+10, hudHeight+200)
	return a
}

// runGraphics opens the window and cycles setup, run and leaderboard screens
// until the window is closed or ctx is cancelled.
func runGraphics(ctx context.Context, cfg *config.Config, opts game.Options) error {
	a := newApp(cfg, opts)

	rl.InitWindow(a.width, a.height, "Habitat")
	defer rl.CloseWindow()
	// ESC stops a run instead of closing the window
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		a.frame()
	}

	if a.phase == phaseRunning {
		a.g.Stop()
		a.finish()
	}
	return nil
}

func (a *app) frame() {
	switch a.phase {
	case phaseSetup:
		rl.BeginDrawing()
		start := a.setup.Draw(a.width, a.height)
		rl.EndDrawing()
		if start {
			a.start()
		}

	case phaseRunning:
		a.handleInput()
		running := a.step()
		rl.BeginDrawing()
		a.draw()
		rl.EndDrawing()
		a.g.RecordFrame()
		if !running {
			a.finish()
		}

	case phaseStats:
		rl.BeginDrawing()
		restart := renderer.DrawStats(a.stats, a.width, a.height)
		rl.EndDrawing()
		if restart {
			a.phase = phaseSetup
		}
	}
}

// start builds a game from the setup form. Each restart advances the seed.
func (a *app) start() {
	cfg := a.setup.Values.Apply(a.base)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid setup", "error", err)
		return
	}

	opts := a.opts
	opts.Seed = a.opts.Seed + uint64(a.runs)
	opts.SaveCSV = a.setup.Values.SaveCSV
	opts.StatsCallback = func(s telemetry.WindowStats) { a.lastStats = s }

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start run", "error", err)
		return
	}

	a.runs++
	a.cfg = cfg
	a.g = g
	a.grid = renderer.NewGridRenderer(int32(cfg.Screen.CellSize), hudHeight, cfg.Lifecycle.DetectionRadius, cfg.Lifecycle.EatDivisor)
	a.markers = renderer.NewMarkers(markerFrames)
	a.lastStats = telemetry.WindowStats{}
	a.inspector.Select(0)
	a.paused = false
	a.acc = 0
	a.phase = phaseRunning
}

func (a *app) handleInput() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.g.Stop()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyComma) && a.speedup > 1 {
		a.speedup--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && a.speedup < maxSpeedup {
		a.speedup++
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		a.overlays.HandleKeyPress(key)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		a.inspector.Select(0)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if mouse.Y < hudHeight || int32(mouse.X) >= a.cfg.Derived.ScreenSize {
			return
		}
		cell := a.grid.CellAt(int32(mouse.X), int32(mouse.Y))
		if here := a.g.Sim().AliveAt(cell); len(here) > 0 {
			a.inspector.Select(here[0].ID)
		} else {
			a.inspector.Select(0)
		}
	}
}

// step advances the run by whole ticks at target_fps ticks per simulated
// second, scaled by the speedup. It reports false once the run has ended.
func (a *app) step() bool {
	a.markers.Age()
	if a.paused {
		return a.g.CheckStop() == game.Running
	}
	a.acc += float64(rl.GetFrameTime()) * float64(a.cfg.Screen.TargetFPS*a.speedup)
	for a.acc >= 1 {
		a.acc--
		if !a.g.Update() {
			return false
		}
		a.markers.Add(a.g.LastReport())
	}
	return true
}

func (a *app) draw() {
	rl.ClearBackground(rl.LightGray)

	v := a.g.View()
	a.grid.Draw(v, renderer.Layers{
		Grid:      a.overlays.IsEnabled(ui.OverlayGrid),
		IDs:       a.overlays.IsEnabled(ui.OverlayIDs),
		Families:  a.overlays.IsEnabled(ui.OverlayFamilies),
		Detection: a.overlays.IsEnabled(ui.OverlayDetection),
		Reach:     a.overlays.IsEnabled(ui.OverlayReach),
	})
	a.markers.Draw(a.grid)

	a.hud.Draw(ui.HUDData{
		Title:      "Habitat",
		Run:        a.g.RunIndex(),
		Herbivores: v.Herbivores,
		Carnivores: v.Carnivores,
		Food:       len(v.Food),
		Dead:       v.Dead,
		Population: v.Population,
		Regime:     v.Regime.String(),
		Tick:       v.Tick,
		SimTime:    v.Now,
		FPS:        rl.GetFPS(),
		Paused:     a.paused,
	}, a.width)

	side := a.cfg.Derived.ScreenSize
	y := int32(hudHeight + 10)
	if a.controls.IsVisible() {
		y = a.controls.Draw(ui.RunControls{
			Paused:      a.paused,
			Speedup:     a.speedup,
			MaxSpeedup:  maxSpeedup,
			TicksPerSec: a.cfg.Screen.TargetFPS * a.speedup,
			Selected:    a.inspector.Selected(),
		}, a.overlays) + 10
	} else if a.overlays.IsEnabled(ui.OverlayQuickStats) {
		y = a.quick.Draw(a.lastStats) + 10
	}
	if a.overlays.IsEnabled(ui.OverlayPerf) {
		a.perf.SetPosition(side+10, y)
		a.perf.Draw(a.g.Perf())
		y += 160
	}
	if id := a.inspector.Selected(); id != 0 {
		a.inspector.Draw(a.g.Sim().Lookup(id), side+10, y, v.Now, a.cfg.Lifecycle.TimeToLive)
	}

	a.hud.DrawControls(a.height, fmt.Sprintf(
		"SPACE pause | ESC stop | TAB overlays | , . speed x%d | click inspect", a.speedup))
}

// finish ends the run and prepares the leaderboard screen.
func (a *app) finish() {
	sum, err := a.g.Finish()
	if err != nil {
		slog.Error("failed to close run output", "error", err)
	}
	snap := telemetry.NewSnapshot(sum.Run, sum.Seed, a.g.Sim())
	a.stats = renderer.StatsData{
		Run:         sum.Run,
		Reason:      string(sum.Reason),
		Ticks:       sum.Ticks,
		SimTime:     sum.SimTime,
		Population:  sum.Population,
		Dead:        sum.Dead,
		Leaderboard: sum.Leaderboard,
		Heatmap:     analysis.NewHeatmap(snap.Histories()),
	}
	a.g = nil
	a.phase = phaseStats
}
