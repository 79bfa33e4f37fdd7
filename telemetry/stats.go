package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Herbivores int    `csv:"herbivores"`
	Carnivores int    `csv:"carnivores"`
	Food       int    `csv:"food"`
	Regime     string `csv:"regime"`

	// Events during window
	HerbivoreBirths int `csv:"herbivore_births"`
	CarnivoreBirths int `csv:"carnivore_births"`
	HerbivoreDeaths int `csv:"herbivore_deaths"`
	CarnivoreDeaths int `csv:"carnivore_deaths"`
	Kills           int `csv:"kills"`
	Starvations     int `csv:"starvations"`
	Grazed          int `csv:"grazed"`
	Spawned         int `csv:"spawned"`
	RegimeSwitches  int `csv:"regime_switches"`

	// Movement decisions during window
	Chases     int     `csv:"chases"`
	Forages    int     `csv:"forages"`
	Flights    int     `csv:"flights"`
	Wanders    int     `csv:"wanders"`
	WanderRate float64 `csv:"wander_rate"`

	// Age distribution of live creatures (sampled at window end)
	HerbivoreAgeMean float64 `csv:"herbivore_age_mean"`
	HerbivoreAgeP10  float64 `csv:"herbivore_age_p10"`
	HerbivoreAgeP50  float64 `csv:"herbivore_age_p50"`
	HerbivoreAgeP90  float64 `csv:"herbivore_age_p90"`

	CarnivoreAgeMean float64 `csv:"carnivore_age_mean"`
	CarnivoreAgeP10  float64 `csv:"carnivore_age_p10"`
	CarnivoreAgeP50  float64 `csv:"carnivore_age_p50"`
	CarnivoreAgeP90  float64 `csv:"carnivore_age_p90"`

	// Trait distribution of live creatures
	SizeMean  float64 `csv:"size_mean"`
	SizeStd   float64 `csv:"size_std"`
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`

	// Lineage tracking
	ActiveFamilies int `csv:"active_families"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAgeStats calculates mean and percentiles from age values.
func ComputeAgeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// ComputeTraitStats returns the mean and population standard deviation.
func ComputeTraitStats(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)
	return mean, std
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("food", s.Food),
		slog.String("regime", s.Regime),
		slog.Int("herbivore_births", s.HerbivoreBirths),
		slog.Int("carnivore_births", s.CarnivoreBirths),
		slog.Int("herbivore_deaths", s.HerbivoreDeaths),
		slog.Int("carnivore_deaths", s.CarnivoreDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("starvations", s.Starvations),
		slog.Int("grazed", s.Grazed),
		slog.Int("spawned", s.Spawned),
		slog.Int("regime_switches", s.RegimeSwitches),
		slog.Float64("wander_rate", s.WanderRate),
		slog.Float64("herbivore_age_mean", s.HerbivoreAgeMean),
		slog.Float64("carnivore_age_mean", s.CarnivoreAgeMean),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Int("active_families", s.ActiveFamilies),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"food", s.Food,
		"regime", s.Regime,
		"herbivore_births", s.HerbivoreBirths,
		"carnivore_births", s.CarnivoreBirths,
		"herbivore_deaths", s.HerbivoreDeaths,
		"carnivore_deaths", s.CarnivoreDeaths,
		"kills", s.Kills,
		"starvations", s.Starvations,
		"grazed", s.Grazed,
		"spawned", s.Spawned,
		"regime_switches", s.RegimeSwitches,
		"chases", s.Chases,
		"forages", s.Forages,
		"flights", s.Flights,
		"wanders", s.Wanders,
		"wander_rate", s.WanderRate,
		"herbivore_age_mean", s.HerbivoreAgeMean,
		"herbivore_age_p50", s.HerbivoreAgeP50,
		"carnivore_age_mean", s.CarnivoreAgeMean,
		"carnivore_age_p50", s.CarnivoreAgeP50,
		"size_mean", s.SizeMean,
		"size_std", s.SizeStd,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"active_families", s.ActiveFamilies,
	)
}
