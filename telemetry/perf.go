package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/habitat/sim"
)

// PerfPhase indexes step timings: the engine phases followed by telemetry.
type PerfPhase int

// PerfTelemetry covers window flushing, bookmarks and output after the step.
const PerfTelemetry = PerfPhase(sim.NumPhases)

// NumPerfPhases is the number of timed phases.
const NumPerfPhases = int(sim.NumPhases) + 1

func (p PerfPhase) String() string {
	if p == PerfTelemetry {
		return "telemetry"
	}
	return sim.Phase(p).String()
}

// perfSample is one tick: time spent per phase and the work each phase did.
type perfSample struct {
	step  time.Duration
	spent [NumPerfPhases]time.Duration
	work  [NumPerfPhases]int
}

func (s *perfSample) add(o perfSample, sign time.Duration) {
	s.step += sign * o.step
	for i := range s.spent {
		s.spent[i] += sign * o.spent[i]
		s.work[i] += int(sign) * o.work[i]
	}
}

// PerfCollector times the phases of each step over a rolling window of ticks.
// Install Enter as the simulation's phase hook.
type PerfCollector struct {
	ring  []perfSample
	next  int
	count int
	sum   perfSample

	cur     perfSample
	start   time.Time
	mark    time.Time
	current PerfPhase
	timing  bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector keeps the last window ticks (60 if window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]perfSample, window)}
}

// BeginStep starts timing a tick.
func (p *PerfCollector) BeginStep() {
	p.start = time.Now()
	p.cur = perfSample{}
	p.timing = false
}

// Enter charges the time since the previous phase change to that phase and
// switches to ph.
func (p *PerfCollector) Enter(ph sim.Phase) { p.switchTo(PerfPhase(ph)) }

// BeginTelemetry switches to the telemetry phase.
func (p *PerfCollector) BeginTelemetry() { p.switchTo(PerfTelemetry) }

func (p *PerfCollector) switchTo(ph PerfPhase) {
	now := time.Now()
	if p.timing {
		p.cur.spent[p.current] += now.Sub(p.mark)
	}
	p.mark, p.current, p.timing = now, ph, true
}

// EndStep closes the tick and stores it with the work counts from r:
// live creatures for behave, meals for feed, starvations, births and spawned food.
func (p *PerfCollector) EndStep(r sim.TickReport) {
	now := time.Now()
	if p.timing {
		p.cur.spent[p.current] += now.Sub(p.mark)
	}
	p.cur.step = now.Sub(p.start)
	for _, n := range r.Actions {
		p.cur.work[sim.PhaseBehave] += n
	}
	p.cur.work[sim.PhaseFeed] = r.Grazed + r.Kills
	p.cur.work[sim.PhaseStarve] = r.Starved
	p.cur.work[sim.PhaseReproduce] = len(r.Births)
	p.cur.work[sim.PhaseReplenish] = r.Spawned

	if p.count == len(p.ring) {
		p.sum.add(p.ring[p.next], -1)
	} else {
		p.count++
	}
	p.ring[p.next] = p.cur
	p.sum.add(p.cur, 1)
	p.next = (p.next + 1) % len(p.ring)
	p.timing = false
}

// RecordFrame records the time since the previous rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseStats is one phase averaged over the window.
type PhaseStats struct {
	Avg  time.Duration // Per tick
	Pct  float64       // Share of the step
	Work float64       // Items handled per tick
}

// PerWork returns the average time per handled item, or 0 when the phase did no work.
func (s PhaseStats) PerWork() time.Duration {
	if s.Work == 0 {
		return 0
	}
	return time.Duration(float64(s.Avg) / s.Work)
}

// PerfStats summarizes the window.
type PerfStats struct {
	Ticks          int
	AvgStep        time.Duration
	TicksPerSecond float64
	Phases         [NumPerfPhases]PhaseStats
	FPS            float64
}

// Stats averages the samples in the window.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{Ticks: p.count}
	if p.frame > 0 {
		st.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return st
	}

	n := time.Duration(p.count)
	st.AvgStep = p.sum.step / n
	if st.AvgStep > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgStep)
	}
	for i := range st.Phases {
		ph := &st.Phases[i]
		ph.Avg = p.sum.spent[i] / n
		ph.Work = float64(p.sum.work[i]) / float64(p.count)
		if p.sum.step > 0 {
			ph.Pct = 100 * float64(p.sum.spent[i]) / float64(p.sum.step)
		}
	}
	return st
}

// Phase returns the stats for ph.
func (s PerfStats) Phase(ph PerfPhase) PhaseStats { return s.Phases[ph] }

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStep.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for i, ph := range s.Phases {
		name := PerfPhase(i).String()
		attrs = append(attrs, slog.Float64(name+"_pct", ph.Pct), slog.Float64(name+"_work", ph.Work))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd           int     `csv:"window_end"`
	AvgStepUS           int64   `csv:"avg_step_us"`
	TicksPerSec         float64 `csv:"ticks_per_sec"`
	FPS                 float64 `csv:"fps"`
	BehavePct           float64 `csv:"behave_pct"`
	Creatures           float64 `csv:"creatures"`
	FeedPct             float64 `csv:"feed_pct"`
	Meals               float64 `csv:"meals"`
	StarvePct           float64 `csv:"starve_pct"`
	Starved             float64 `csv:"starved"`
	ReproducePct        float64 `csv:"reproduce_pct"`
	Births              float64 `csv:"births"`
	ReplenishPct        float64 `csv:"replenish_pct"`
	FoodSpawned         float64 `csv:"food_spawned"`
	TelemetryPct        float64 `csv:"telemetry_pct"`
	BehaveNSPerCreature int64   `csv:"behave_ns_per_creature"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	behave := s.Phases[sim.PhaseBehave]
	return PerfStatsCSV{
		WindowEnd:           windowEnd,
		AvgStepUS:           s.AvgStep.Microseconds(),
		TicksPerSec:         s.TicksPerSecond,
		FPS:                 s.FPS,
		BehavePct:           behave.Pct,
		Creatures:           behave.Work,
		FeedPct:             s.Phases[sim.PhaseFeed].Pct,
		Meals:               s.Phases[sim.PhaseFeed].Work,
		StarvePct:           s.Phases[sim.PhaseStarve].Pct,
		Starved:             s.Phases[sim.PhaseStarve].Work,
		ReproducePct:        s.Phases[sim.PhaseReproduce].Pct,
		Births:              s.Phases[sim.PhaseReproduce].Work,
		ReplenishPct:        s.Phases[sim.PhaseReplenish].Pct,
		FoodSpawned:         s.Phases[sim.PhaseReplenish].Work,
		TelemetryPct:        s.Phases[PerfTelemetry].Pct,
		BehaveNSPerCreature: behave.PerWork().Nanoseconds(),
	}
}
