// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Population  PopulationConfig  `yaml:"population"`
	Food        FoodConfig        `yaml:"food"`
	Lifecycle   LifecycleConfig   `yaml:"lifecycle"`
	Personality PersonalityConfig `yaml:"personality"`
	Survival    SurvivalConfig    `yaml:"survival"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Screen      ScreenConfig      `yaml:"screen"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds world dimensions and the simulated clock step.
type GridConfig struct {
	Size        int     `yaml:"size"`         // Cells per side
	TickSeconds float64 `yaml:"tick_seconds"` // Simulated seconds per tick
}

// PopulationConfig holds founder population parameters.
type PopulationConfig struct {
	Initial            int       `yaml:"initial"`
	CarnivorePercent   float64   `yaml:"carnivore_percent"`
	SizeMin            int       `yaml:"size_min"`
	SizeMax            int       `yaml:"size_max"`
	SpeedMode          string    `yaml:"speed_mode"`   // inverse_size | range
	SpeedFactor        float64   `yaml:"speed_factor"` // speed = factor / size in inverse_size mode
	SpeedMin           float64   `yaml:"speed_min"`
	SpeedMax           float64   `yaml:"speed_max"`
	PersonalityWeights []float64 `yaml:"personality_weights"` // egoista, conservadora, neutral
}

// FoodConfig holds food supply parameters.
type FoodConfig struct {
	Initial         int          `yaml:"initial"`
	Max             int          `yaml:"max"`  // Active food cap (0 = unbounded)
	Mode            string       `yaml:"mode"` // regime | interval
	IntervalSeconds float64      `yaml:"interval_seconds"`
	IntervalAmount  int          `yaml:"interval_amount"`
	Regime          RegimeConfig `yaml:"regime"`
}

// RegimeConfig holds the abundant/scarce Markov chain.
type RegimeConfig struct {
	Initial     string      `yaml:"initial"`     // abundant | scarce
	Transitions [][]float64 `yaml:"transitions"` // Row-stochastic 2x2, rows/cols: abundant, scarce
	Rates       []float64   `yaml:"rates"`       // Poisson rate per state
}

// LifecycleConfig holds feeding, starvation and reproduction parameters.
type LifecycleConfig struct {
	TimeToLive            float64 `yaml:"time_to_live"` // Seconds without food before death
	ReproductionThreshold int     `yaml:"reproduction_threshold"`
	LitterSize            int     `yaml:"litter_size"`
	DetectionRadius       float64 `yaml:"detection_radius"` // Herbivore flee radius
	EatDivisor            float64 `yaml:"eat_divisor"`      // Reach = size / divisor
}

// PersonalityConfig holds the personality model.
type PersonalityConfig struct {
	Inheritance         string      `yaml:"inheritance"` // inherit | markov
	RandomStep          string      `yaml:"random_step"` // full | simplified
	ConservativePreyMin int         `yaml:"conservative_prey_min"`
	Transitions         [][]float64 `yaml:"transitions"` // Row-stochastic 3x3
}

// SurvivalConfig holds reference Weibull parameters for analysis only.
type SurvivalConfig struct {
	WeibullShape float64 `yaml:"weibull_shape"`
	WeibullScale float64 `yaml:"weibull_scale"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	CellSize  int `yaml:"cell_size"`
	TargetFPS int `yaml:"target_fps"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	RegimeMatrix      [2][2]float64
	RegimeRates       [2]float64
	PersonalityMatrix [3][3]float64
	PersonalityWeight [3]float64
	ScreenSize        int32 // Grid.Size * Screen.CellSize
	IntervalTicks     int   // Food.IntervalSeconds in ticks (min 1)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy suitable for per-run mutation.
func (c *Config) Clone() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("config: marshal for clone: %v", err))
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("config: unmarshal for clone: %v", err))
	}
	out.computeDerived()
	return out
}

// Validate reports every invariant violation at once.
// The engine never clamps bad values, so this must run before a simulation is built.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Grid.Size < 1 {
		fail("grid.size must be >= 1, got %d", c.Grid.Size)
	}
	if c.Grid.TickSeconds <= 0 {
		fail("grid.tick_seconds must be > 0, got %v", c.Grid.TickSeconds)
	}

	p := c.Population
	if p.Initial < 0 {
		fail("population.initial must be >= 0, got %d", p.Initial)
	}
	if p.CarnivorePercent < 0 || p.CarnivorePercent > 100 {
		fail("population.carnivore_percent must be in [0,100], got %v", p.CarnivorePercent)
	}
	if p.SizeMin < 1 || p.SizeMin > p.SizeMax {
		fail("population size range [%d,%d] is invalid", p.SizeMin, p.SizeMax)
	}
	switch p.SpeedMode {
	case "inverse_size":
		if p.SpeedFactor <= 0 {
			fail("population.speed_factor must be > 0, got %v", p.SpeedFactor)
		}
	case "range":
		// Founder speeds are whole cells per tick drawn from the range
		if p.SpeedMin < 1 || math.Ceil(p.SpeedMin) > math.Floor(p.SpeedMax) {
			fail("population speed range [%v,%v] holds no whole speed >= 1", p.SpeedMin, p.SpeedMax)
		}
	default:
		fail("population.speed_mode %q is not one of inverse_size, range", p.SpeedMode)
	}
	if len(p.PersonalityWeights) != 3 {
		fail("population.personality_weights needs 3 entries, got %d", len(p.PersonalityWeights))
	} else if !validWeights(p.PersonalityWeights) {
		fail("population.personality_weights must be non-negative with a positive sum")
	}

	f := c.Food
	if f.Initial < 0 || f.Max < 0 {
		fail("food.initial and food.max must be >= 0")
	}
	switch f.Mode {
	case "regime":
	case "interval":
		if f.IntervalSeconds <= 0 || f.IntervalAmount < 0 {
			fail("food interval %vs x %d is invalid", f.IntervalSeconds, f.IntervalAmount)
		}
	default:
		fail("food.mode %q is not one of regime, interval", f.Mode)
	}
	if f.Regime.Initial != "abundant" && f.Regime.Initial != "scarce" {
		fail("food.regime.initial %q is not one of abundant, scarce", f.Regime.Initial)
	}
	if err := checkStochastic("food.regime.transitions", f.Regime.Transitions, 2); err != nil {
		errs = append(errs, err)
	}
	if len(f.Regime.Rates) != 2 || f.Regime.Rates[0] <= 0 || f.Regime.Rates[1] <= 0 {
		fail("food.regime.rates needs 2 positive entries, got %v", f.Regime.Rates)
	}

	l := c.Lifecycle
	if l.TimeToLive <= 0 {
		fail("lifecycle.time_to_live must be > 0, got %v", l.TimeToLive)
	}
	if l.ReproductionThreshold < 1 {
		fail("lifecycle.reproduction_threshold must be >= 1, got %d", l.ReproductionThreshold)
	}
	if l.LitterSize < 1 {
		fail("lifecycle.litter_size must be >= 1, got %d", l.LitterSize)
	}
	if l.DetectionRadius < 0 || l.EatDivisor <= 0 {
		fail("lifecycle.detection_radius must be >= 0 and eat_divisor > 0")
	}

	pc := c.Personality
	if pc.Inheritance != "inherit" && pc.Inheritance != "markov" {
		fail("personality.inheritance %q is not one of inherit, markov", pc.Inheritance)
	}
	if pc.RandomStep != "full" && pc.RandomStep != "simplified" {
		fail("personality.random_step %q is not one of full, simplified", pc.RandomStep)
	}
	if err := checkStochastic("personality.transitions", pc.Transitions, 3); err != nil {
		errs = append(errs, err)
	}

	if c.Survival.WeibullShape <= 0 || c.Survival.WeibullScale <= 0 {
		fail("survival weibull parameters must be > 0")
	}
	if c.Telemetry.StatsWindow <= 0 {
		fail("telemetry.stats_window must be > 0, got %v", c.Telemetry.StatsWindow)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func checkStochastic(name string, m [][]float64, n int) error {
	if len(m) != n {
		return fmt.Errorf("%s needs %d rows, got %d", name, n, len(m))
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("%s row %d needs %d entries, got %d", name, i, n, len(row))
		}
		var sum float64
		for _, v := range row {
			if v < 0 {
				return fmt.Errorf("%s row %d has a negative entry", name, i)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-6 {
			return fmt.Errorf("%s row %d sums to %v, want 1", name, i, sum)
		}
	}
	return nil
}

func validWeights(w []float64) bool {
	var sum float64
	for _, v := range w {
		if v < 0 {
			return false
		}
		sum += v
	}
	return sum > 0
}

// computeDerived calculates values derived from loaded config.
// Assumes Validate has passed.
func (c *Config) computeDerived() {
	for i := 0; i < 2 && i < len(c.Food.Regime.Transitions); i++ {
		copy(c.Derived.RegimeMatrix[i][:], c.Food.Regime.Transitions[i])
	}
	copy(c.Derived.RegimeRates[:], c.Food.Regime.Rates)
	for i := 0; i < 3 && i < len(c.Personality.Transitions); i++ {
		copy(c.Derived.PersonalityMatrix[i][:], c.Personality.Transitions[i])
	}
	copy(c.Derived.PersonalityWeight[:], c.Population.PersonalityWeights)

	c.Derived.ScreenSize = int32(c.Grid.Size * c.Screen.CellSize)

	ticks := 1
	if c.Grid.TickSeconds > 0 {
		ticks = int(math.Round(c.Food.IntervalSeconds / c.Grid.TickSeconds))
	}
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.IntervalTicks = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
