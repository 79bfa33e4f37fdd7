package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/config"
)

// SetupValues are the run parameters editable before a graphical run.
type SetupValues struct {
	Population       int
	CarnivorePercent float64
	InitialFood      int
	SizeMin          int
	SizeMax          int
	SpeedFromSize    bool
	SpeedMin         float64
	SpeedMax         float64
	SaveCSV          bool
}

// SetupFromConfig reads the editable values from cfg.
func SetupFromConfig(cfg *config.Config, saveCSV bool) SetupValues {
	return SetupValues{
		Population:       cfg.Population.Initial,
		CarnivorePercent: cfg.Population.CarnivorePercent,
		InitialFood:      cfg.Food.Initial,
		SizeMin:          cfg.Population.SizeMin,
		SizeMax:          cfg.Population.SizeMax,
		SpeedFromSize:    cfg.Population.SpeedMode == "inverse_size",
		SpeedMin:         cfg.Population.SpeedMin,
		SpeedMax:         cfg.Population.SpeedMax,
		SaveCSV:          saveCSV,
	}
}

// Normalize keeps the values in range: min bounds never exceed max bounds.
func (v SetupValues) Normalize() SetupValues {
	v.Population = max(v.Population, 1)
	v.CarnivorePercent = min(max(v.CarnivorePercent, 0), 100)
	v.InitialFood = max(v.InitialFood, 0)
	v.SizeMin = max(v.SizeMin, 1)
	v.SizeMax = max(v.SizeMax, v.SizeMin)
	v.SpeedMin = max(math.Round(v.SpeedMin), 1)
	v.SpeedMax = max(math.Round(v.SpeedMax), v.SpeedMin)
	return v
}

// Apply returns a copy of cfg with the setup values written in.
func (v SetupValues) Apply(cfg *config.Config) *config.Config {
	v = v.Normalize()
	out := cfg.Clone()
	out.Population.Initial = v.Population
	out.Population.CarnivorePercent = v.CarnivorePercent
	out.Food.Initial = v.InitialFood
	out.Population.SizeMin = v.SizeMin
	out.Population.SizeMax = v.SizeMax
	out.Population.SpeedMin = v.SpeedMin
	out.Population.SpeedMax = v.SpeedMax
	if v.SpeedFromSize {
		out.Population.SpeedMode = "inverse_size"
	} else {
		out.Population.SpeedMode = "range"
	}
	return out
}

// SetupScreen is the parameter form shown before each graphical run.
type SetupScreen struct {
	Values SetupValues
}

// NewSetupScreen creates a form prefilled with v.
func NewSetupScreen(v SetupValues) *SetupScreen {
	return &SetupScreen{Values: v}
}

// Draw renders the form inside a width x height window and reports whether
// Start was pressed (or Enter). Must be called between BeginDrawing and EndDrawing.
func (s *SetupScreen) Draw(width, height int32) bool {
	rl.ClearBackground(rl.RayWhite)

	panelX := float32(60)
	panelY := float32(40)
	panelWidth := float32(width) - 2*panelX
	sliderWidth := panelWidth - 140

	rl.DrawText("Habitat", int32(panelX), int32(panelY), 28, rl.DarkGray)
	panelY += 36
	rl.DrawText("Adjust the founders and press Start. ESC stops a running simulation.", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 34

	v := &s.Values

	slider := func(label string, value, lo, hi float32, format string) float32 {
		rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		out := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: sliderWidth, Height: 20},
			fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
			value, lo, hi,
		)
		rl.DrawText(fmt.Sprintf(format, out), int32(panelX+sliderWidth+50), int32(panelY+2), 16, rl.DarkGray)
		panelY += 32
		return out
	}

	v.Population = int(math.Round(float64(slider("Population", float32(v.Population), 1, 100, "%.0f"))))
	v.CarnivorePercent = math.Round(float64(slider("Carnivores (%)", float32(v.CarnivorePercent), 0, 100, "%.0f")))
	v.InitialFood = int(math.Round(float64(slider("Initial food", float32(v.InitialFood), 0, 100, "%.0f"))))
	v.SizeMin = int(math.Round(float64(slider("Minimum size", float32(v.SizeMin), 1, 100, "%.0f"))))
	v.SizeMax = int(math.Round(float64(slider("Maximum size", float32(v.SizeMax), 1, 100, "%.0f"))))
	if !v.SpeedFromSize {
		v.SpeedMin = math.Round(float64(slider("Minimum speed", float32(v.SpeedMin), 1, 10, "%.0f")))
		v.SpeedMax = math.Round(float64(slider("Maximum speed", float32(v.SpeedMax), 1, 10, "%.0f")))
	}
	*v = v.Normalize()

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 200, Height: 30}, toggleText(v.SpeedFromSize, "Speed: from size", "Speed: from range")) {
		v.SpeedFromSize = !v.SpeedFromSize
	}
	if gui.Button(rl.Rectangle{X: panelX + 210, Y: panelY, Width: 160, Height: 30}, toggleText(v.SaveCSV, "Save CSV: yes", "Save CSV: no")) {
		v.SaveCSV = !v.SaveCSV
	}
	panelY += 50

	start := gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 370, Height: 40}, "Start")
	return start || rl.IsKeyPressed(rl.KeyEnter)
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
