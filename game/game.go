// Package game drives a simulation run: stop conditions, telemetry windows
// and end-of-run persistence.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/stochastic"
	"github.com/pthm-cable/habitat/telemetry"
)

// LeaderboardSize is the number of entries kept per leaderboard.
const LeaderboardSize = 3

// StopReason explains why a run ended.
type StopReason string

const (
	Running    StopReason = ""
	StarvedOut StopReason = "starved-out"
	Extinct    StopReason = "extinct"
	Stopped    StopReason = "stopped"
	MaxTicks   StopReason = "max-ticks"
)

// RunStore persists run metadata and the creature log.
type RunStore interface {
	BeginRun(seed uint64) (int, error)
	FinishRun(id, ticks int, reason string, population, dead int) error
	SaveCreatures(runID int, records []telemetry.CreatureRecord) error
}

// Options configures a Game.
type Options struct {
	Seed           uint64
	LogStats       bool
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	OutputDir      string
	SaveCSV        bool // append to the cumulative creature log
	MaxTicks       int  // 0 = unbounded
	Store          RunStore
	StatsCallback  func(telemetry.WindowStats)
}

// Summary describes a finished run.
type Summary struct {
	Run         int
	Seed        uint64
	Reason      StopReason
	Ticks       int
	SimTime     float64
	Population  int
	Dead        int
	Carnivores  int
	Herbivores  int
	Leaderboard *telemetry.Leaderboard
	Records     []telemetry.CreatureRecord
}

// Game holds one run and its collaborators.
type Game struct {
	cfg  *config.Config
	opts Options
	src  *stochastic.Source
	sim  *sim.Simulation

	run int

	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager

	last     sim.TickReport
	stop     atomic.Bool
	reason   StopReason
	finished *Summary
}

// NewGame builds the simulation and opens output. The run index comes from
// the store when one is set, otherwise from the output directory's index file.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	src := stochastic.New(opts.Seed)
	s, err := sim.New(cfg, src)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		opts:             opts,
		src:              src,
		sim:              s,
		collector:        telemetry.NewCollector(window, cfg.Grid.TickSeconds),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    om,
	}

	s.SetPhaseHook(g.perfCollector.Enter)

	switch {
	case opts.Store != nil:
		g.run, err = opts.Store.BeginRun(opts.Seed)
	case om != nil:
		g.run, err = om.RunIndex().NextRun()
	}
	if err != nil {
		om.Close()
		return nil, fmt.Errorf("allocating run index: %w", err)
	}

	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Info("run started",
		"run", g.run,
		"seed", opts.Seed,
		"population", s.PopulationSize(),
		"carnivores", s.AliveCarnivores(),
		"food", s.FoodCount(),
	)
	return g, nil
}

// CheckStop evaluates the stop conditions without advancing the run.
func (g *Game) CheckStop() StopReason {
	switch {
	case g.stop.Load():
		return Stopped
	case g.sim.FoodCount() == 0 && g.sim.AliveCarnivores() == 0:
		return StarvedOut
	case g.sim.DeadCount() >= g.sim.PopulationSize():
		return Extinct
	case g.opts.MaxTicks > 0 && g.sim.TickCount() >= g.opts.MaxTicks:
		return MaxTicks
	}
	return Running
}

// Update runs one step unless a stop condition holds.
// Returns false once the run is over.
func (g *Game) Update() bool {
	if g.reason != Running {
		return false
	}
	if g.reason = g.CheckStop(); g.reason != Running {
		slog.Info("run ended", "run", g.run, "reason", string(g.reason), "tick", g.sim.TickCount())
		return false
	}

	g.perfCollector.BeginStep()
	r := g.sim.Step()

	g.perfCollector.BeginTelemetry()
	g.collector.Record(r)
	g.flushTelemetry()

	g.perfCollector.EndStep(r)
	g.last = r
	return true
}

// Run steps until a stop condition holds or ctx is cancelled, then finishes the run.
func (g *Game) Run(ctx context.Context) (*Summary, error) {
	for {
		if ctx.Err() != nil {
			g.Stop()
		}
		if !g.Update() {
			break
		}
	}
	return g.Finish()
}

// Stop requests the run to end before the next step. Safe for concurrent use.
func (g *Game) Stop() {
	g.stop.Store(true)
}

// Finish persists the creature log, leaderboard, snapshot and run metadata.
// Persistence failures are logged; only the first call does any work.
func (g *Game) Finish() (*Summary, error) {
	if g.finished != nil {
		return g.finished, nil
	}
	if g.reason == Running {
		g.reason = g.CheckStop()
		if g.reason == Running {
			g.reason = Stopped
		}
	}

	now := g.sim.Now()
	all := g.sim.All()
	sum := &Summary{
		Run:         g.run,
		Seed:        g.opts.Seed,
		Reason:      g.reason,
		Ticks:       g.sim.TickCount(),
		SimTime:     now,
		Population:  g.sim.PopulationSize(),
		Dead:        g.sim.DeadCount(),
		Carnivores:  g.sim.AliveCarnivores(),
		Herbivores:  g.sim.AliveHerbivores(),
		Leaderboard: telemetry.BuildLeaderboard(all, now, LeaderboardSize),
		Records:     telemetry.NewCreatureRecords(g.run, all, now),
	}
	g.finished = sum

	if g.opts.LogStats {
		sum.Leaderboard.LogLeaderboard()
	}

	if g.outputManager != nil {
		if g.opts.SaveCSV {
			if err := g.outputManager.WriteCreatures(sum.Records); err != nil {
				slog.Error("failed to write creatures", "error", err)
			}
		} else if err := g.outputManager.WriteLastCreatures(sum.Records); err != nil {
			slog.Error("failed to write creatures", "error", err)
		}
		if err := g.outputManager.WriteLeaderboard(sum.Leaderboard); err != nil {
			slog.Error("failed to write leaderboard", "error", err)
		}
		if err := g.outputManager.WriteSnapshot(telemetry.NewSnapshot(g.run, g.opts.Seed, g.sim)); err != nil {
			slog.Error("failed to write snapshot", "error", err)
		}
	}

	if g.opts.Store != nil {
		if g.opts.SaveCSV {
			if err := g.opts.Store.SaveCreatures(g.run, sum.Records); err != nil {
				slog.Error("failed to save creatures", "error", err)
			}
		}
		if err := g.opts.Store.FinishRun(g.run, sum.Ticks, string(sum.Reason), sum.Population, sum.Dead); err != nil {
			slog.Error("failed to finish run", "error", err)
		}
	}

	slog.Info("run finished",
		"run", sum.Run,
		"reason", string(sum.Reason),
		"ticks", sum.Ticks,
		"sim_time", sum.SimTime,
		"population", sum.Population,
		"dead", sum.Dead,
	)
	return sum, g.outputManager.Close()
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *sim.Simulation { return g.sim }

// View returns a rendering snapshot of the current state.
func (g *Game) View() sim.View { return g.sim.View() }

// LastReport returns the report of the most recent step.
func (g *Game) LastReport() sim.TickReport { return g.last }

// Reason returns the stop reason, or Running.
func (g *Game) Reason() StopReason { return g.reason }

// Run index of this game.
func (g *Game) RunIndex() int { return g.run }

// Perf returns the rolling performance statistics.
func (g *Game) Perf() telemetry.PerfStats { return g.perfCollector.Stats() }

// RecordFrame records frame timing for graphics mode.
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// PeakPopulation returns the highest live population seen at a window flush.
func (g *Game) PeakPopulation() int { return g.bookmarkDetector.PeakPopulation() }
