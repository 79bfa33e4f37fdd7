package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/game"
	"github.com/pthm-cable/habitat/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []uint64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu              sync.Mutex
	bestFitness     float64
	bestLeaderboard *telemetry.Leaderboard
	lastQuality     float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestLeaderboard returns the leaderboard from the best evaluation.
func (fe *FitnessEvaluator) BestLeaderboard() *telemetry.Leaderboard {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestLeaderboard
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// If either diet stays below minViablePop for extinctionGraceSec of simulated
// time, the run counts as functionally extinct.
const (
	minViablePop       = 2
	extinctionGraceSec = 15.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int
	windowStats   []telemetry.WindowStats
	leaderboard   *telemetry.Leaderboard
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness     float64
	quality     float64
	leaderboard *telemetry.Leaderboard
}

// Evaluate computes fitness for a parameter vector (lower = better).
// An invalid configuration scores 0, worse than any run that survives a tick.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.params.ApplyToConfig(fe.baseConfig, x)
	if err := cfg.Validate(); err != nil {
		slog.Debug("rejected parameters", "error", err)
		return 0
	}

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			result := fe.runSimulation(cfg, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness:     computeFitness(result.survivalTicks, quality),
				quality:     quality,
				leaderboard: result.leaderboard,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedLeaderboard *telemetry.Leaderboard
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedLeaderboard = r.leaderboard
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestLeaderboard = bestSeedLeaderboard
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until functional extinction,
// a game stop condition or maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed uint64) *runResult {
	result := &runResult{}

	g, err := game.NewGame(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		MaxTicks:       fe.maxTicks,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return result
	}

	dt := cfg.Grid.TickSeconds
	graceTicks := int(extinctionGraceSec / dt)
	warmupTicks := int(warmupSec / dt)
	var herbBelow, carnBelow int

	for g.Update() {
		s := g.Sim()
		if s.TickCount() < warmupTicks {
			continue
		}

		herb, carn := s.AliveHerbivores(), s.AliveCarnivores()
		if herb == 0 || carn == 0 {
			break
		}

		herbBelow = belowCount(herb, herbBelow)
		carnBelow = belowCount(carn, carnBelow)
		if herbBelow >= graceTicks || carnBelow >= graceTicks {
			break
		}
	}

	result.survivalTicks = g.Sim().TickCount()
	if sum, err := g.Finish(); err == nil {
		result.leaderboard = sum.Leaderboard
	}
	return result
}

// belowCount extends a run of ticks spent under minViablePop, or resets it.
func belowCount(pop, run int) int {
	if pop < minViablePop {
		return run + 1
	}
	return 0
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(survivalTicks int, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.25
	qualityWeightHunting   = 0.20
	qualityWeightFeeding   = 0.20

	qualityWarmupWindows = 1 // skip first N windows (warmup)
	qualityMinPop        = 2 // exclude windows where either diet < this
	targetRatio          = 4 // herbivores per carnivore
)

// computeQuality scores coexistence in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, huntSum, feedSum float64
	var ratioCount, feedCount int
	herbCounts := make([]float64, 0, len(windows))
	carnCounts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Herbivores < qualityMinPop || w.Carnivores < qualityMinPop {
			continue
		}
		herbCounts = append(herbCounts, float64(w.Herbivores))
		carnCounts = append(carnCounts, float64(w.Carnivores))

		// 1. Population ratio score
		logErr := math.Log(float64(w.Herbivores) / float64(w.Carnivores) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		// 3. Hunting activity: kills per carnivore
		killsPerCarn := float64(w.Kills) / float64(w.Carnivores)
		huntSum += 1.0 - math.Exp(-killsPerCarn/2.0)

		// 4. Feeding: share of deaths that were not starvation
		if deaths := w.HerbivoreDeaths + w.CarnivoreDeaths; deaths > 0 {
			feedSum += 1.0 - float64(w.Starvations)/float64(deaths)
			feedCount++
		}
	}

	if ratioCount == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(ratioCount)
	huntScore := huntSum / float64(ratioCount)

	// 2. Population stability (CV across valid windows)
	stabilityScore := 0.0
	if len(herbCounts) >= 2 {
		cvHerb, cvCarn := cv(herbCounts), cv(carnCounts)
		stabilityScore = math.Exp(-(cvHerb*cvHerb + cvCarn*cvCarn))
	}

	feedScore := 1.0
	if feedCount > 0 {
		feedScore = feedSum / float64(feedCount)
	}

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore +
		qualityWeightFeeding*feedScore

	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
