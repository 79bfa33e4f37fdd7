package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	defaults := pv.DefaultVector()
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != defaults[i] {
			t.Errorf("%s: default config has %v, spec default %v", spec.Name, got[i], defaults[i])
		}
	}

	back := pv.Denormalize(pv.Normalize(defaults))
	for i := range back {
		if math.Abs(back[i]-defaults[i]) > 1e-9 {
			t.Errorf("normalize round trip [%d] = %v, want %v", i, back[i], defaults[i])
		}
	}
}

func TestApplyToConfigClampsAndRounds(t *testing.T) {
	pv := NewParamVector()
	x := pv.DefaultVector()
	x[2] = 1000 // food_max above bound
	x[4] = 2.6  // reproduction_threshold rounds
	x[6] = -3   // detection_radius below bound

	base := config.Default()
	cfg := pv.ApplyToConfig(base, x)
	if cfg.Food.Max != 200 {
		t.Errorf("food max = %d, want 200", cfg.Food.Max)
	}
	if cfg.Lifecycle.ReproductionThreshold != 3 {
		t.Errorf("reproduction threshold = %d, want 3", cfg.Lifecycle.ReproductionThreshold)
	}
	if cfg.Lifecycle.DetectionRadius != 1 {
		t.Errorf("detection radius = %v, want 1", cfg.Lifecycle.DetectionRadius)
	}
	if base.Food.Max == 200 {
		t.Error("ApplyToConfig mutated the base config")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 6)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Herbivores: 20, Carnivores: 5, Kills: 10, HerbivoreDeaths: 10}
	}
	collapsed := []telemetry.WindowStats{{Herbivores: 20, Carnivores: 5}, {Herbivores: 1, Carnivores: 0}}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		min     float64
		max     float64
	}{
		{"none", nil, 0, 0},
		{"warmup only", steady[:1], 0, 0},
		{"steady at target ratio", steady, 0.9, 1},
		{"collapsed", collapsed, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := computeQuality(tt.windows)
			if q < tt.min || q > tt.max {
				t.Errorf("quality = %v, want in [%v, %v]", q, tt.min, tt.max)
			}
		})
	}
}

func TestComputeFitnessPrefersSurvival(t *testing.T) {
	if computeFitness(1000, 0) >= computeFitness(500, 1) {
		t.Error("longer survival should dominate quality")
	}
	if computeFitness(500, 1) >= computeFitness(500, 0) {
		t.Error("quality should break survival ties")
	}
}

func TestOptimizeWritesBestConfig(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&strings.Builder{})
	root.SetArgs([]string{"--output", dir, "--max-evals", "4", "--seeds", "1", "--max-ticks", "60"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(filepath.Join(dir, "best_config.yaml")); err != nil {
		t.Errorf("best config unreadable: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "optimize_log.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "eval,fitness,quality,food_rate_abundant") {
		t.Errorf("log header = %q", strings.SplitN(string(data), "\n", 2)[0])
	}
	if !strings.Contains(out.String(), "Best parameters") {
		t.Errorf("output missing summary:\n%s", out.String())
	}
}
