package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Grid.Size != 20 {
		t.Errorf("Grid.Size = %d, want 20", cfg.Grid.Size)
	}
	if cfg.Lifecycle.TimeToLive != 5 {
		t.Errorf("Lifecycle.TimeToLive = %v, want 5", cfg.Lifecycle.TimeToLive)
	}
	if cfg.Lifecycle.ReproductionThreshold != 3 {
		t.Errorf("ReproductionThreshold = %d, want 3", cfg.Lifecycle.ReproductionThreshold)
	}
	if cfg.Derived.RegimeMatrix[0][1] != 0.2 || cfg.Derived.RegimeMatrix[1][0] != 0.4 {
		t.Errorf("RegimeMatrix = %v, want off-diagonals 0.2 and 0.4", cfg.Derived.RegimeMatrix)
	}
	if cfg.Derived.RegimeRates != [2]float64{5, 2} {
		t.Errorf("RegimeRates = %v, want [5 2]", cfg.Derived.RegimeRates)
	}
	if cfg.Derived.ScreenSize != int32(cfg.Grid.Size*cfg.Screen.CellSize) {
		t.Errorf("ScreenSize = %d, want %d", cfg.Derived.ScreenSize, cfg.Grid.Size*cfg.Screen.CellSize)
	}
	if cfg.Derived.IntervalTicks != 1 {
		t.Errorf("IntervalTicks = %d, want 1", cfg.Derived.IntervalTicks)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "grid:\n  size: 50\nlifecycle:\n  time_to_live: 8\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Grid.Size != 50 {
		t.Errorf("Grid.Size = %d, want 50", cfg.Grid.Size)
	}
	if cfg.Lifecycle.TimeToLive != 8 {
		t.Errorf("TimeToLive = %v, want 8", cfg.Lifecycle.TimeToLive)
	}
	// Untouched keys keep defaults
	if cfg.Lifecycle.ReproductionThreshold != 3 {
		t.Errorf("ReproductionThreshold = %d, want default 3", cfg.Lifecycle.ReproductionThreshold)
	}
	if cfg.Grid.TickSeconds != 0.5 {
		t.Errorf("TickSeconds = %v, want default 0.5", cfg.Grid.TickSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		substr string
	}{
		{"grid too small", func(c *Config) { c.Grid.Size = 0 }, "grid.size"},
		{"size range inverted", func(c *Config) { c.Population.SizeMin, c.Population.SizeMax = 30, 10 }, "size range"},
		{"carnivore percent", func(c *Config) { c.Population.CarnivorePercent = 120 }, "carnivore_percent"},
		{"speed mode", func(c *Config) { c.Population.SpeedMode = "fast" }, "speed_mode"},
		{"speed range", func(c *Config) {
			c.Population.SpeedMode = "range"
			c.Population.SpeedMin, c.Population.SpeedMax = 4, 1
		}, "speed range"},
		{"speed range without whole speed", func(c *Config) {
			c.Population.SpeedMode = "range"
			c.Population.SpeedMin, c.Population.SpeedMax = 1.2, 1.8
		}, "speed range"},
		{"speed below one cell", func(c *Config) {
			c.Population.SpeedMode = "range"
			c.Population.SpeedMin, c.Population.SpeedMax = 0, 3
		}, "speed range"},
		{"regime row", func(c *Config) { c.Food.Regime.Transitions[0] = []float64{0.5, 0.2} }, "sums to"},
		{"regime rate", func(c *Config) { c.Food.Regime.Rates = []float64{5, -1} }, "rates"},
		{"personality rows", func(c *Config) { c.Personality.Transitions = c.Personality.Transitions[:2] }, "needs 3 rows"},
		{"inheritance", func(c *Config) { c.Personality.Inheritance = "always" }, "inheritance"},
		{"food mode", func(c *Config) { c.Food.Mode = "rain" }, "food.mode"},
		{"ttl", func(c *Config) { c.Lifecycle.TimeToLive = 0 }, "time_to_live"},
		{"weights", func(c *Config) { c.Population.PersonalityWeights = []float64{0, 0, 0} }, "personality_weights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}
}

func TestValidateJoinsAllViolations(t *testing.T) {
	cfg := Default()
	cfg.Grid.Size = 0
	cfg.Lifecycle.LitterSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"grid.size", "litter_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Grid.Size = 33
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Grid.Size != 33 {
		t.Errorf("Grid.Size = %d, want 33", got.Grid.Size)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	cp.Food.Regime.Transitions[0][0] = 0.1
	if cfg.Food.Regime.Transitions[0][0] != 0.8 {
		t.Error("Clone shares slices with original")
	}
}
