package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
)

// MarkerType distinguishes how a creature died.
type MarkerType uint8

const (
	MarkerStarved MarkerType = iota
	MarkerKilled
)

// Marker is a fading ring left where a creature died.
type Marker struct {
	Pos     components.Position
	Type    MarkerType
	Life    int
	MaxLife int
}

// Markers keeps the death markers of recent ticks.
type Markers struct {
	life    int
	markers []Marker
}

// NewMarkers creates a marker set whose markers last life frames.
func NewMarkers(life int) *Markers {
	return &Markers{life: max(life, 1)}
}

// Add records the deaths of one tick report.
func (m *Markers) Add(r sim.TickReport) {
	killed := make(map[components.ID]bool, len(r.Killed))
	for _, k := range r.Killed {
		killed[k.ID] = true
	}
	for _, d := range r.Deaths {
		t := MarkerStarved
		if killed[d.ID] {
			t = MarkerKilled
		}
		m.markers = append(m.markers, Marker{Pos: d.Pos, Type: t, Life: m.life, MaxLife: m.life})
	}
}

// Age advances every marker by one frame and drops expired ones.
func (m *Markers) Age() {
	kept := m.markers[:0]
	for _, mk := range m.markers {
		mk.Life--
		if mk.Life > 0 {
			kept = append(kept, mk)
		}
	}
	m.markers = kept
}

// Len returns the number of live markers.
func (m *Markers) Len() int { return len(m.markers) }

// Draw renders all markers on g.
func (m *Markers) Draw(g *GridRenderer) {
	for _, mk := range m.markers {
		lifeRatio := float32(mk.Life) / float32(mk.MaxLife)

		color := StarveColor
		if mk.Type == MarkerKilled {
			color = KillColor
		}
		color.A = uint8(lifeRatio * float32(color.A))

		x, y := g.CellCenter(mk.Pos)
		radius := max(float32(g.cellSize)/2*(1.5-lifeRatio/2), 0.5)
		rl.DrawCircleLines(x, y, radius, color)
	}
}
