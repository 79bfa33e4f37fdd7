package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// ErrTooFewSamples is returned when a fit has fewer than two positive samples.
var ErrTooFewSamples = errors.New("too few samples")

// Fit holds the distributions estimated from a creature log.
type Fit struct {
	Samples int

	Size      distuv.LogNormal
	Speed     distuv.Normal
	TimeAlive distuv.Weibull

	MeanReproductions float64
	CarnivoreProb     float64
	Personality       [components.NumPersonalities]float64
}

// LogValue implements slog.LogValuer.
func (f Fit) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("samples", f.Samples),
		slog.Float64("size_mu", f.Size.Mu),
		slog.Float64("size_sigma", f.Size.Sigma),
		slog.Float64("speed_mu", f.Speed.Mu),
		slog.Float64("speed_sigma", f.Speed.Sigma),
		slog.Float64("survival_shape", f.TimeAlive.K),
		slog.Float64("survival_scale", f.TimeAlive.Lambda),
		slog.Float64("mean_reproductions", f.MeanReproductions),
		slog.Float64("carnivore_prob", f.CarnivoreProb),
		slog.Float64("egoista", f.Personality[components.Egoista]),
		slog.Float64("conservadora", f.Personality[components.Conservadora]),
		slog.Float64("neutral", f.Personality[components.Neutral]),
	)
}

// FitRecords estimates trait and survival distributions from recs.
func FitRecords(recs []telemetry.CreatureRecord) (Fit, error) {
	if len(recs) < 2 {
		return Fit{}, fmt.Errorf("fitting %d records: %w", len(recs), ErrTooFewSamples)
	}

	sizes := make([]float64, 0, len(recs))
	speeds := make([]float64, 0, len(recs))
	alive := make([]float64, 0, len(recs))
	var repro, carn float64
	var pers [components.NumPersonalities]float64
	for _, r := range recs {
		sizes = append(sizes, float64(r.Size))
		speeds = append(speeds, r.Speed)
		alive = append(alive, r.TimeAlive)
		repro += float64(r.Reproductions)
		if r.IsCarnivore {
			carn++
		}
		if int(r.Personality) < len(pers) {
			pers[r.Personality]++
		}
	}

	size, err := FitLogNormal(sizes)
	if err != nil {
		return Fit{}, fmt.Errorf("size: %w", err)
	}
	survival, err := FitWeibull(alive)
	if err != nil {
		return Fit{}, fmt.Errorf("time alive: %w", err)
	}

	n := float64(len(recs))
	f := Fit{
		Samples:           len(recs),
		Size:              size,
		Speed:             FitNormal(speeds),
		TimeAlive:         survival,
		MeanReproductions: repro / n,
		CarnivoreProb:     carn / n,
	}
	for i := range pers {
		f.Personality[i] = pers[i] / n
	}
	return f, nil
}

// FitNormal returns the maximum likelihood normal for xs.
func FitNormal(xs []float64) distuv.Normal {
	mean, std := stat.PopMeanStdDev(xs, nil)
	return distuv.Normal{Mu: mean, Sigma: std}
}

// FitLogNormal returns the maximum likelihood log-normal for the positive values in xs.
func FitLogNormal(xs []float64) (distuv.LogNormal, error) {
	logs := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 {
			logs = append(logs, math.Log(x))
		}
	}
	if len(logs) < 2 {
		return distuv.LogNormal{}, ErrTooFewSamples
	}
	mu, sigma := stat.PopMeanStdDev(logs, nil)
	return distuv.LogNormal{Mu: mu, Sigma: sigma}, nil
}

// FitWeibull returns the maximum likelihood two-parameter Weibull for the
// positive values in xs. Shape and scale are optimized in log space with
// Nelder-Mead.
func FitWeibull(xs []float64) (distuv.Weibull, error) {
	pos := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 {
			pos = append(pos, x)
		}
	}
	if len(pos) < 2 {
		return distuv.Weibull{}, ErrTooFewSamples
	}

	nll := func(p []float64) float64 {
		w := distuv.Weibull{K: math.Exp(p[0]), Lambda: math.Exp(p[1])}
		var sum float64
		for _, x := range pos {
			sum -= w.LogProb(x)
		}
		if math.IsNaN(sum) {
			return math.Inf(1)
		}
		return sum
	}

	// Start from the exponential fit
	x0 := []float64{0, math.Log(stat.Mean(pos, nil))}
	res, err := optimize.Minimize(optimize.Problem{Func: nll}, x0, &optimize.Settings{
		MajorIterations: 2000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 50,
		},
	}, &optimize.NelderMead{})
	if err != nil {
		return distuv.Weibull{}, fmt.Errorf("weibull fit: %w", err)
	}
	return distuv.Weibull{K: math.Exp(res.X[0]), Lambda: math.Exp(res.X[1])}, nil
}

// KSDistance is the one-sample Kolmogorov-Smirnov statistic of xs against cdf.
func KSDistance(xs []float64, cdf func(float64) float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	n := float64(len(sorted))
	var d float64
	for i, x := range sorted {
		f := cdf(x)
		d = max(d, float64(i+1)/n-f, f-float64(i)/n)
	}
	return d
}

// SurvivalCheck compares observed lifetimes with the configured Weibull.
type SurvivalCheck struct {
	Fitted     distuv.Weibull
	Configured distuv.Weibull
	// KS distance of the samples against each distribution
	FittedKS     float64
	ConfiguredKS float64
}

// CheckSurvival fits lifetimes and measures both fits against the data.
func CheckSurvival(lifetimes []float64, shape, scale float64) (SurvivalCheck, error) {
	fitted, err := FitWeibull(lifetimes)
	if err != nil {
		return SurvivalCheck{}, err
	}
	configured := distuv.Weibull{K: shape, Lambda: scale}
	return SurvivalCheck{
		Fitted:       fitted,
		Configured:   configured,
		FittedKS:     KSDistance(lifetimes, fitted.CDF),
		ConfiguredKS: KSDistance(lifetimes, configured.CDF),
	}, nil
}

// Lifetimes extracts time_alive from recs.
func Lifetimes(recs []telemetry.CreatureRecord) []float64 {
	out := make([]float64, len(recs))
	for i, r := range recs {
		out[i] = r.TimeAlive
	}
	return out
}
