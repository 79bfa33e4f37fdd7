package sim

// Phase names a part of Step.
type Phase int

const (
	PhaseBehave Phase = iota
	PhaseFeed
	PhaseStarve
	PhaseReproduce
	PhaseReplenish
	NumPhases
)

var phaseNames = [NumPhases]string{"behave", "feed", "starve", "reproduce", "replenish"}

func (p Phase) String() string {
	if p < 0 || p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PhaseHook is called each time Step enters a phase. The per-creature
// phases (behave, feed, starve) are entered once per live creature, in turn.
type PhaseHook func(Phase)

// SetPhaseHook installs h for later steps. A nil hook disables it.
func (s *Simulation) SetPhaseHook(h PhaseHook) { s.hook = h }

func (s *Simulation) enter(p Phase) {
	if s.hook != nil {
		s.hook(p)
	}
}
