package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/config"
)

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayIDs) {
		t.Fatal("toggle ids did not enable")
	}
	reg.SetEnabled(OverlayFamilies, true)
	if reg.IsEnabled(OverlayIDs) {
		t.Error("family labels should disable id labels")
	}

	id, on, ok := reg.HandleKeyPress(rl.KeyG)
	if !ok || id != OverlayGrid || !on {
		t.Errorf("HandleKeyPress(G) = %v %v %v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key toggled an overlay")
	}

	got := reg.EnabledOverlays()
	if len(got) != 2 || got[0] != OverlayGrid || got[1] != OverlayFamilies {
		t.Errorf("EnabledOverlays = %v", got)
	}
}

func TestControlRowsFollowRunState(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.SetEnabled(OverlayGrid, true)

	tests := []struct {
		name       string
		rc         RunControls
		pause      string
		slowerDim  bool
		fasterDim  bool
		inspectKey string
	}{
		{"running at normal speed", RunControls{Speedup: 1, MaxSpeedup: 8}, "Pause", true, false, "LMB"},
		{"paused at top speed", RunControls{Paused: true, Speedup: 8, MaxSpeedup: 8}, "Resume", false, true, "LMB"},
		{"creature selected", RunControls{Speedup: 3, MaxSpeedup: 8, Selected: 7}, "Pause", false, false, "RMB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := controlRows(tt.rc, reg)
			if len(rows) != 6+len(reg.All()) {
				t.Fatalf("got %d rows", len(rows))
			}
			if rows[0].Label != tt.pause {
				t.Errorf("space label = %q, want %q", rows[0].Label, tt.pause)
			}
			if rows[1].Dim != tt.slowerDim || rows[2].Dim != tt.fasterDim {
				t.Errorf("speed rows dim = %v/%v, want %v/%v", rows[1].Dim, rows[2].Dim, tt.slowerDim, tt.fasterDim)
			}
			if rows[4].Key != tt.inspectKey {
				t.Errorf("inspect key = %q, want %q", rows[4].Key, tt.inspectKey)
			}
		})
	}

	rows := controlRows(RunControls{Speedup: 1, MaxSpeedup: 8, Selected: 7}, reg)
	if rows[4].Label != "Release #7" {
		t.Errorf("release label = %q", rows[4].Label)
	}
	grid := rows[6]
	if !grid.Toggle || !grid.On || grid.Key != "G" {
		t.Errorf("grid overlay row = %+v", grid)
	}
	if rows[7].On {
		t.Errorf("%s shown enabled", rows[7].Label)
	}
}

func TestHungerColorThresholds(t *testing.T) {
	th := NewRenderer().Theme
	tests := []struct {
		ratio float32
		want  rl.Color
	}{
		{0, th.Fed},
		{0.4, th.Fed},
		{0.5, th.Hungry},
		{0.7, th.Hungry},
		{0.9, th.Starving},
	}
	for _, tt := range tests {
		if got := th.HungerColor(tt.ratio); got != tt.want {
			t.Errorf("HungerColor(%v) = %v, want %v", tt.ratio, got, tt.want)
		}
	}
	if th.Diet(true) != th.Carnivore || th.Diet(false) != th.Herbivore {
		t.Error("Diet colours swapped")
	}
}

func TestSetupApply(t *testing.T) {
	cfg := config.Default()
	v := SetupFromConfig(cfg, true)
	if !v.SaveCSV || v.Population != cfg.Population.Initial {
		t.Fatalf("SetupFromConfig = %+v", v)
	}

	v.Population = 30
	v.CarnivorePercent = 150
	v.SizeMin = 40
	v.SizeMax = 20
	v.SpeedFromSize = false
	v.SpeedMin = 3
	v.SpeedMax = 1

	out := v.Apply(cfg)
	if out == cfg {
		t.Fatal("Apply must not modify the input config")
	}
	if out.Population.Initial != 30 || out.Population.CarnivorePercent != 100 {
		t.Errorf("population = %d carnivores = %v", out.Population.Initial, out.Population.CarnivorePercent)
	}
	if out.Population.SizeMax != 40 || out.Population.SpeedMax != 3 {
		t.Errorf("max bounds not raised to min: size %d speed %v", out.Population.SizeMax, out.Population.SpeedMax)
	}
	if out.Population.SpeedMode != "range" {
		t.Errorf("speed mode = %q", out.Population.SpeedMode)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
	if cfg.Population.Initial == 30 {
		t.Error("input config changed")
	}
}
