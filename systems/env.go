// Package systems implements per-creature behavior: targeting, movement,
// the personality gate, feeding, starvation and reproduction.
package systems

import (
	"fmt"

	"github.com/pthm-cable/habitat/config"
)

// StepVariant selects the random-walk step set.
type StepVariant uint8

const (
	StepFull       StepVariant = iota // {-1, 0, 1} per axis
	StepSimplified                    // {-1, 1} per axis
)

// Inheritance selects how offspring obtain a personality.
type Inheritance uint8

const (
	InheritParent Inheritance = iota // Copy the parent's personality
	InheritMarkov                    // One draw from the parent's transition row
)

// ParseStepVariant maps a config string to a StepVariant.
func ParseStepVariant(s string) (StepVariant, error) {
	switch s {
	case "full":
		return StepFull, nil
	case "simplified":
		return StepSimplified, nil
	}
	return 0, fmt.Errorf("unknown random step variant %q", s)
}

// ParseInheritance maps a config string to an Inheritance.
func ParseInheritance(s string) (Inheritance, error) {
	switch s {
	case "inherit":
		return InheritParent, nil
	case "markov":
		return InheritMarkov, nil
	}
	return 0, fmt.Errorf("unknown inheritance policy %q", s)
}

// Env carries the behavior parameters shared by every creature in a run.
type Env struct {
	GridSize              int
	DetectionRadius       float64 // Herbivores flee carnivores strictly closer than this
	EatDivisor            float64 // Reach = size / EatDivisor
	ReproductionThreshold int
	LitterSize            int
	TimeToLive            float64
	RandomStep            StepVariant
	Inheritance           Inheritance
}

// EnvFromConfig builds an Env from a validated config.
func EnvFromConfig(cfg *config.Config) (Env, error) {
	step, err := ParseStepVariant(cfg.Personality.RandomStep)
	if err != nil {
		return Env{}, err
	}
	inh, err := ParseInheritance(cfg.Personality.Inheritance)
	if err != nil {
		return Env{}, err
	}
	return Env{
		GridSize:              cfg.Grid.Size,
		DetectionRadius:       cfg.Lifecycle.DetectionRadius,
		EatDivisor:            cfg.Lifecycle.EatDivisor,
		ReproductionThreshold: cfg.Lifecycle.ReproductionThreshold,
		LitterSize:            cfg.Lifecycle.LitterSize,
		TimeToLive:            cfg.Lifecycle.TimeToLive,
		RandomStep:            step,
		Inheritance:           inh,
	}, nil
}
