package analysis

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
)

// Lineage trait drift parameters.
const (
	baseReproduction = 0.3
	maxReproduction  = 0.9
	speedBonus       = 0.05
	sizePenalty      = 0.01
	traitNoise       = 0.1
	minSize          = 5
	maxSize          = 100
	minSpeed         = 0.1
	dietFlipProb     = 0.1
	personalityDrift = 0.2
)

// Ancestor is one member of a projected lineage.
type Ancestor struct {
	Generation  int
	Size        float64
	Speed       float64
	Carnivore   bool
	Personality components.Personality
	Lifespan    float64
}

// LineageResult is one row of a Monte Carlo export.
type LineageResult struct {
	Generations      int                    `csv:"generations"`
	FinalSize        float64                `csv:"final_size"`
	FinalSpeed       float64                `csv:"final_speed"`
	FinalCarnivore   bool                   `csv:"final_carnivore"`
	FinalPersonality components.Personality `csv:"final_personality"`
	MaxSize          float64                `csv:"max_size"`
	TotalLifespan    float64                `csv:"total_lifespan"`
	AvgReproductions float64                `csv:"avg_reproductions"`
}

// Lineage projects one line of descent from f. Each generation reproduces
// with probability min(0.9, 0.3 + 0.05*speed - 0.01*size); the child drifts
// its traits from the parent.
func Lineage(f Fit, v stochastic.Variates, maxGenerations int) []Ancestor {
	pw := f.Personality[:]

	line := []Ancestor{{
		Generation:  1,
		Size:        max(minSize, math.Exp(v.Normal(f.Size.Mu, f.Size.Sigma))),
		Speed:       max(minSpeed, v.Normal(f.Speed.Mu, f.Speed.Sigma)),
		Carnivore:   v.Bernoulli(f.CarnivoreProb),
		Personality: components.Personality(v.Categorical(pw)),
	}}

	for len(line) < maxGenerations {
		parent := line[len(line)-1]
		p := min(maxReproduction, baseReproduction+parent.Speed*speedBonus-parent.Size*sizePenalty)
		if !v.Bernoulli(p) {
			break
		}
		child := Ancestor{
			Generation:  parent.Generation + 1,
			Size:        max(minSize, min(maxSize, parent.Size*v.Normal(1, traitNoise))),
			Speed:       max(minSpeed, parent.Speed*v.Normal(1, traitNoise)),
			Carnivore:   parent.Carnivore,
			Personality: parent.Personality,
		}
		if v.Bernoulli(dietFlipProb) {
			child.Carnivore = !child.Carnivore
		}
		if v.Bernoulli(personalityDrift) {
			child.Personality = components.Personality(v.Categorical(pw))
		}
		line = append(line, child)
	}

	for i := range line {
		line[i].Lifespan = v.Weibull(f.TimeAlive.K, f.TimeAlive.Lambda)
	}
	return line
}

// MonteCarlo projects n lineages of at most maxGenerations each.
func MonteCarlo(f Fit, v stochastic.Variates, n, maxGenerations int) []LineageResult {
	out := make([]LineageResult, 0, n)
	for range n {
		line := Lineage(f, v, maxGenerations)
		last := line[len(line)-1]
		r := LineageResult{
			Generations:      len(line),
			FinalSize:        last.Size,
			FinalSpeed:       last.Speed,
			FinalCarnivore:   last.Carnivore,
			FinalPersonality: last.Personality,
		}
		var repro float64
		for _, a := range line {
			r.MaxSize = max(r.MaxSize, a.Size)
			r.TotalLifespan += a.Lifespan
			repro += float64(v.Poisson(f.MeanReproductions))
		}
		r.AvgReproductions = repro / float64(len(line))
		out = append(out, r)
	}
	return out
}

// MonteCarloSummary aggregates lineage results.
type MonteCarloSummary struct {
	Lineages          int
	MeanGenerations   float64
	MaxGenerations    int
	CarnivoreShare    float64
	MeanTotalLifespan float64
	MedianLifespan    float64
	PersonalityShare  [components.NumPersonalities]float64
	SizeSpeedCorr     float64
}

// Summarize aggregates results.
func Summarize(results []LineageResult) MonteCarloSummary {
	s := MonteCarloSummary{Lineages: len(results)}
	if len(results) == 0 {
		return s
	}

	gens := make([]float64, len(results))
	life := make([]float64, len(results))
	sizes := make([]float64, len(results))
	speeds := make([]float64, len(results))
	var carn float64
	for i, r := range results {
		gens[i] = float64(r.Generations)
		life[i] = r.TotalLifespan
		sizes[i] = r.FinalSize
		speeds[i] = r.FinalSpeed
		s.MaxGenerations = max(s.MaxGenerations, r.Generations)
		if r.FinalCarnivore {
			carn++
		}
		if int(r.FinalPersonality) < len(s.PersonalityShare) {
			s.PersonalityShare[r.FinalPersonality]++
		}
	}

	n := float64(len(results))
	s.MeanGenerations = stat.Mean(gens, nil)
	s.MeanTotalLifespan = stat.Mean(life, nil)
	s.CarnivoreShare = carn / n
	for i := range s.PersonalityShare {
		s.PersonalityShare[i] /= n
	}

	sortedLife := slices.Clone(life)
	slices.Sort(sortedLife)
	s.MedianLifespan = stat.Quantile(0.5, stat.Empirical, sortedLife, nil)
	if len(results) > 1 {
		s.SizeSpeedCorr = stat.Correlation(sizes, speeds, nil)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s MonteCarloSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("lineages", s.Lineages),
		slog.Float64("mean_generations", s.MeanGenerations),
		slog.Int("max_generations", s.MaxGenerations),
		slog.Float64("carnivore_share", s.CarnivoreShare),
		slog.Float64("mean_total_lifespan", s.MeanTotalLifespan),
		slog.Float64("median_total_lifespan", s.MedianLifespan),
		slog.Float64("egoista", s.PersonalityShare[components.Egoista]),
		slog.Float64("conservadora", s.PersonalityShare[components.Conservadora]),
		slog.Float64("neutral", s.PersonalityShare[components.Neutral]),
		slog.Float64("size_speed_corr", s.SizeSpeedCorr),
	)
}
