package main

import (
	"math"

	"github.com/pthm-cable/habitat/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Food supply
			{Name: "food_rate_abundant", Path: "food.regime.rates[0]", Min: 1, Max: 12, Default: 5},
			{Name: "food_rate_scarce", Path: "food.regime.rates[1]", Min: 0.2, Max: 6, Default: 2},
			{Name: "food_max", Path: "food.max", Min: 20, Max: 200, Default: 60, Integer: true},
			// Lifecycle
			{Name: "time_to_live", Path: "lifecycle.time_to_live", Min: 2, Max: 20, Default: 5},
			{Name: "reproduction_threshold", Path: "lifecycle.reproduction_threshold", Min: 1, Max: 8, Default: 3, Integer: true},
			{Name: "litter_size", Path: "lifecycle.litter_size", Min: 1, Max: 4, Default: 2, Integer: true},
			{Name: "detection_radius", Path: "lifecycle.detection_radius", Min: 1, Max: 10, Default: 5},
			{Name: "eat_divisor", Path: "lifecycle.eat_divisor", Min: 5, Max: 30, Default: 15},
			// Founders
			{Name: "carnivore_percent", Path: "population.carnivore_percent", Min: 5, Max: 50, Default: 20},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg and recomputes derived values.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) *config.Config {
	clamped := pv.Clamp(values)
	out := cfg.Clone()

	out.Food.Regime.Rates = []float64{clamped[0], clamped[1]}
	out.Food.Max = int(clamped[2])
	out.Lifecycle.TimeToLive = clamped[3]
	out.Lifecycle.ReproductionThreshold = int(clamped[4])
	out.Lifecycle.LitterSize = int(clamped[5])
	out.Lifecycle.DetectionRadius = clamped[6]
	out.Lifecycle.EatDivisor = clamped[7]
	out.Population.CarnivorePercent = clamped[8]

	// Clone again so derived values see the new rates
	return out.Clone()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Food.Regime.Rates[0],
		cfg.Food.Regime.Rates[1],
		float64(cfg.Food.Max),
		cfg.Lifecycle.TimeToLive,
		float64(cfg.Lifecycle.ReproductionThreshold),
		float64(cfg.Lifecycle.LitterSize),
		cfg.Lifecycle.DetectionRadius,
		cfg.Lifecycle.EatDivisor,
		cfg.Population.CarnivorePercent,
	}
}
