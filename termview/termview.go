// Package termview draws a running simulation in the terminal with tcell.
package termview

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/game"
	"github.com/pthm-cable/habitat/sim"
)

// Glyphs used on the grid. Each cell is two columns wide.
const (
	FoodGlyph      = '*'
	HerbivoreGlyph = 'o'
	CarnivoreGlyph = 'X'
	EmptyGlyph     = '.'
)

var (
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleAlert  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// View renders sim.View snapshots onto a tcell screen.
type View struct {
	screen tcell.Screen
}

// New wraps an initialized screen.
func New(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// Draw renders the grid and a status line below it. Cells holding several
// creatures show the count instead of a glyph.
func (tv *View) Draw(v sim.View, status string) {
	s := tv.screen
	s.Clear()

	for y := 0; y < v.GridSize; y++ {
		for x := 0; x < v.GridSize; x++ {
			s.SetContent(2*x, y, EmptyGlyph, nil, styleEmpty)
		}
	}
	for _, f := range v.Food {
		s.SetContent(2*f.X, f.Y, FoodGlyph, nil, styleFood)
	}

	counts := make(map[components.Position]int, len(v.Creatures))
	for _, c := range v.Creatures {
		counts[c.Pos]++
	}
	for _, c := range v.Creatures {
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B)))
		glyph := HerbivoreGlyph
		if c.Carnivore {
			glyph = CarnivoreGlyph
			style = style.Bold(true)
		}
		if n := counts[c.Pos]; n > 1 {
			glyph = '+'
			if n < 10 {
				glyph = rune('0' + n)
			}
		}
		s.SetContent(2*c.Pos.X, c.Pos.Y, glyph, nil, style)
	}

	tv.drawText(0, v.GridSize+1, styleStatus, fmt.Sprintf(
		"tick %d  t=%.1fs  herb %d  carn %d  food %d  dead %d/%d  regime %s",
		v.Tick, v.Now, v.Herbivores, v.Carnivores, len(v.Food), v.Dead, v.Population, v.Regime,
	))
	if status != "" {
		tv.drawText(0, v.GridSize+2, styleAlert, status)
	}
	s.Show()
}

func (tv *View) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		tv.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Run steps g at tps ticks per second, drawing every step, until the run
// ends, ctx is cancelled, or the user presses ESC or q. Space pauses.
// After the run it shows the summary until a key is pressed.
func Run(ctx context.Context, g *game.Game, screen tcell.Screen, tps int) (*game.Summary, error) {
	tv := New(screen)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	interval := time.Second / time.Duration(max(tps, 1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	paused := false
	tv.Draw(g.View(), "")

loop:
	for {
		select {
		case <-ctx.Done():
			g.Stop()
			break loop
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					g.Stop()
					break loop
				case ev.Rune() == ' ':
					paused = !paused
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if paused {
				tv.Draw(g.View(), "paused")
				continue
			}
			if !g.Update() {
				break loop
			}
			tv.Draw(g.View(), "")
		}
	}

	sum, err := g.Finish()
	if sum == nil {
		return nil, err
	}
	tv.Draw(g.View(), summaryLine(sum)+"  (press any key)")

	for {
		select {
		case <-ctx.Done():
			return sum, err
		case ev := <-events:
			if _, ok := ev.(*tcell.EventKey); ok {
				return sum, err
			}
		}
	}
}

func summaryLine(sum *game.Summary) string {
	line := "run " + strconv.Itoa(sum.Run) + " ended: " + string(sum.Reason)
	if lb := sum.Leaderboard; lb != nil && len(lb.TimeAlive) > 0 {
		top := lb.TimeAlive[0]
		line += fmt.Sprintf("  longest lived #%d (%s, %.1fs)", top.ID, top.Family, top.Score)
	}
	return line
}
