package systems

import (
	"fmt"

	"github.com/pthm-cable/habitat/stochastic"
)

// Regime is the food supply state.
type Regime uint8

const (
	Abundant Regime = iota
	Scarce
)

func (r Regime) String() string {
	switch r {
	case Abundant:
		return "abundant"
	case Scarce:
		return "scarce"
	}
	return fmt.Sprintf("regime(%d)", r)
}

// ParseRegime maps a config string to a Regime.
func ParseRegime(s string) (Regime, error) {
	switch s {
	case "abundant":
		return Abundant, nil
	case "scarce":
		return Scarce, nil
	}
	return 0, fmt.Errorf("unknown regime %q", s)
}

// FoodRegime is a two-state Markov chain driving the Poisson food supply.
type FoodRegime struct {
	state  Regime
	matrix [2][2]float64
	rates  [2]float64
}

// NewFoodRegime creates a regime starting in initial.
func NewFoodRegime(initial Regime, matrix [2][2]float64, rates [2]float64) *FoodRegime {
	return &FoodRegime{state: initial, matrix: matrix, rates: rates}
}

// Update runs one Bernoulli trial on the off-diagonal weight of the current
// row and flips state on success. Returns whether the state changed.
func (r *FoodRegime) Update(v stochastic.Variates) bool {
	other := 1 - r.state
	if v.Bernoulli(r.matrix[r.state][other]) {
		r.state = other
		return true
	}
	return false
}

// FoodAmount draws the number of food points to spawn in the current state.
func (r *FoodRegime) FoodAmount(v stochastic.Variates) int {
	return v.Poisson(r.rates[r.state])
}

// State returns the current regime.
func (r *FoodRegime) State() Regime { return r.state }

// Rate returns the Poisson rate of the current regime.
func (r *FoodRegime) Rate() float64 { return r.rates[r.state] }
